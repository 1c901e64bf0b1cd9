// internal/services/testhelpers_test.go
package services

import (
	"mime/multipart"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/database"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.LoadDefault()
	require.NoError(t, err)
	return c
}

// staticSource serves fixed slices, including an empty catalog that the
// catalog package itself refuses to build.
type staticSource struct {
	products    []models.Product
	accessories []models.Accessory
	bundles     []models.Bundle
}

func (s staticSource) Products() []models.Product     { return s.products }
func (s staticSource) Accessories() []models.Accessory { return s.accessories }
func (s staticSource) Bundles() []models.Bundle        { return s.bundles }

func productIDs(products []models.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "storefront.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: 1},
		Email:       config.EmailConfig{FromName: "Sentorise"},
		Frontend:    config.FrontendConfig{BaseURL: "https://shop.example"},
	}
}

type sentEmail struct {
	To      []string
	Subject string
	Body    string
}

// recordingMailer captures emails; sends happen on background goroutines.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *recordingMailer) Send(to []string, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: htmlBody})
	return m.err
}

func (m *recordingMailer) Sent() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}

type fakeReceiptStore struct {
	uploaded []string
	deleted  []string
	err      error
}

func (s *fakeReceiptStore) UploadFile(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	key := options.Folder + "/" + header.Filename
	s.uploaded = append(s.uploaded, key)
	return &UploadResult{URL: "/uploads/" + key, Key: key, Size: header.Size}, nil
}

func (s *fakeReceiptStore) DeleteFile(key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}
