// internal/services/warranty_service_test.go
package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

type WarrantyServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	mailer   *recordingMailer
	receipts *fakeReceiptStore
	service  *WarrantyService
	now      time.Time
}

func (s *WarrantyServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.mailer = &recordingMailer{}
	s.receipts = &fakeReceiptStore{}
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	s.service = NewWarrantyService(s.db, loadCatalog(s.T()), s.receipts, NewNotificationService(s.mailer, testConfig()))
	s.service.now = func() time.Time { return s.now }
}

func (s *WarrantyServiceTestSuite) validRequest() *RegisterWarrantyRequest {
	return &RegisterWarrantyRequest{
		ProductID:    "core-12v100-std",
		SerialNumber: " sn-2024 000123 ",
		PurchaseDate: "2024-03-15",
		Retailer:     "Amazon",
		CustomerName: "Alex Doe",
		Email:        "Alex@Example.com ",
		Country:      "de",
	}
}

func (s *WarrantyServiceTestSuite) TestRegister() {
	registration, err := s.service.Register(s.validRequest(), nil)
	s.Require().NoError(err)

	s.Equal("SN-2024000123", registration.SerialNumber)
	s.Equal("alex@example.com", registration.Email)
	s.Equal("DE", registration.Country)
	s.Equal("Sentorise Core 12V 100Ah", registration.ProductName)
	s.Equal(models.WarrantyStatusActive, registration.Status)
	s.Equal(time.Date(2032, 3, 15, 0, 0, 0, 0, time.UTC), registration.ExpiresAt)
	s.Empty(registration.ReceiptURL)

	s.Eventually(func() bool { return len(s.mailer.Sent()) == 1 }, time.Second, 10*time.Millisecond)
	sent := s.mailer.Sent()[0]
	s.Equal([]string{"alex@example.com"}, sent.To)
	s.Contains(sent.Body, "SN-2024000123")
}

func (s *WarrantyServiceTestSuite) TestRegisterWithReceipt() {
	receipt := &ReceiptFile{
		File:   memFile{bytes.NewReader([]byte("%PDF-1.4"))},
		Header: &multipart.FileHeader{Filename: "receipt.pdf", Size: 8},
	}

	registration, err := s.service.Register(s.validRequest(), receipt)
	s.Require().NoError(err)
	s.Equal("/uploads/receipts/receipt.pdf", registration.ReceiptURL)
	s.Equal([]string{"receipts/receipt.pdf"}, s.receipts.uploaded)
}

func (s *WarrantyServiceTestSuite) TestRegisterReceiptRejected() {
	s.receipts.err = ErrFileTypeInvalid
	receipt := &ReceiptFile{
		File:   memFile{bytes.NewReader([]byte("MZ"))},
		Header: &multipart.FileHeader{Filename: "receipt.exe", Size: 2},
	}

	_, err := s.service.Register(s.validRequest(), receipt)
	s.ErrorIs(err, ErrFileTypeInvalid)

	var count int64
	s.db.Model(&models.WarrantyRegistration{}).Count(&count)
	s.Zero(count)
}

func (s *WarrantyServiceTestSuite) TestRegisterDuplicateSerial() {
	_, err := s.service.Register(s.validRequest(), nil)
	s.Require().NoError(err)

	again := s.validRequest()
	again.SerialNumber = "SN-2024000123"
	_, err = s.service.Register(again, nil)
	s.ErrorIs(err, ErrWarrantyDuplicate)
}

// A registration for the same serial can land between the duplicate check
// and the insert; the unique index must still yield ErrWarrantyDuplicate.
func (s *WarrantyServiceTestSuite) TestRegisterConcurrentSerial() {
	inserted := false
	err := s.db.Callback().Create().Before("gorm:create").Register("test:competing_registration", func(tx *gorm.DB) {
		if inserted {
			return
		}
		inserted = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO warranty_registrations (id, product_id, serial_number, purchase_date, customer_name, email, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			uuid.NewString(), "core-12v100-std", "SN-2024000123", s.now, "Other Buyer", "other@example.com", models.WarrantyStatusActive, s.now, s.now,
		)
	})
	s.Require().NoError(err)

	receipt := &ReceiptFile{
		File:   memFile{bytes.NewReader([]byte("%PDF-1.4"))},
		Header: &multipart.FileHeader{Filename: "receipt.pdf", Size: 8},
	}

	_, err = s.service.Register(s.validRequest(), receipt)
	s.ErrorIs(err, ErrWarrantyDuplicate)
	s.True(inserted)
	s.Equal([]string{"receipts/receipt.pdf"}, s.receipts.deleted)
}

func (s *WarrantyServiceTestSuite) TestRegisterRejections() {
	future := s.validRequest()
	future.PurchaseDate = "2024-07-01"
	_, err := s.service.Register(future, nil)
	s.ErrorIs(err, ErrPurchaseDateInFuture)

	unknown := s.validRequest()
	unknown.ProductID = "not-a-battery"
	_, err = s.service.Register(unknown, nil)
	s.ErrorIs(err, ErrProductNotFound)

	badSerial := s.validRequest()
	badSerial.SerialNumber = "x1"
	_, err = s.service.Register(badSerial, nil)
	s.Error(err)
	s.False(errors.Is(err, ErrWarrantyDuplicate))

	badDate := s.validRequest()
	badDate.PurchaseDate = "15/03/2024"
	_, err = s.service.Register(badDate, nil)
	s.Error(err)
}

func (s *WarrantyServiceTestSuite) TestLookup() {
	_, err := s.service.Register(s.validRequest(), nil)
	s.Require().NoError(err)

	view, err := s.service.Lookup("sn-2024000123")
	s.Require().NoError(err)
	s.Equal("core-12v100-std", view.ProductID)
	s.Equal(models.WarrantyStatusActive, view.Status)

	s.now = time.Date(2033, 1, 1, 0, 0, 0, 0, time.UTC)
	view, err = s.service.Lookup("SN-2024000123")
	s.Require().NoError(err)
	s.Equal(models.WarrantyStatusExpired, view.Status)

	_, err = s.service.Lookup("SN-UNKNOWN-01")
	s.ErrorIs(err, ErrWarrantyNotFound)
}

func (s *WarrantyServiceTestSuite) TestExpireRegistrations() {
	_, err := s.service.Register(s.validRequest(), nil)
	s.Require().NoError(err)

	changed, err := s.service.ExpireRegistrations(s.now)
	s.Require().NoError(err)
	s.Zero(changed)

	changed, err = s.service.ExpireRegistrations(time.Date(2033, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(int64(1), changed)

	var registration models.WarrantyRegistration
	s.Require().NoError(s.db.First(&registration).Error)
	s.Equal(models.WarrantyStatusExpired, registration.Status)
}

func TestWarrantyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WarrantyServiceTestSuite))
}

func TestIsReceiptContent(t *testing.T) {
	assert.True(t, isReceiptContent([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.True(t, isReceiptContent([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0}))
	assert.True(t, isReceiptContent([]byte("%PDF-1.7")))
	assert.False(t, isReceiptContent([]byte("MZ\x90\x00")))
	assert.False(t, isReceiptContent(nil))
}

func TestStorageServiceLocalUpload(t *testing.T) {
	cfg := testConfig()
	cfg.AWS.LocalUploadDir = t.TempDir()

	storage, err := NewStorageService(cfg)
	require.NoError(t, err)

	header := &multipart.FileHeader{Filename: "Receipt.PNG", Size: 9}
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0}

	result, err := storage.UploadFile(memFile{bytes.NewReader(png)}, header, ReceiptUploadOptions)
	require.NoError(t, err)
	assert.Contains(t, result.Key, "receipts/")
	assert.Contains(t, result.Key, ".png")
	assert.Equal(t, "/uploads/"+result.Key, result.URL)
	require.NoError(t, storage.DeleteFile(result.Key))

	_, err = storage.UploadFile(memFile{bytes.NewReader([]byte("plain text"))},
		&multipart.FileHeader{Filename: "notes.pdf", Size: 10}, ReceiptUploadOptions)
	assert.ErrorIs(t, err, ErrFileTypeInvalid)

	_, err = storage.UploadFile(memFile{bytes.NewReader(png)},
		&multipart.FileHeader{Filename: "big.png", Size: ReceiptUploadOptions.MaxSize + 1}, ReceiptUploadOptions)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
