// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/database"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

func TestAuthLogin(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	require.NoError(t, database.SeedAdmin(db, config.AdminConfig{
		SeedEmail:    "admin@example.com",
		SeedPassword: "correct-horse",
		SeedName:     "Admin",
	}))

	svc := NewAuthService(db, cfg)

	resp, err := svc.Login(&LoginRequest{Email: "Admin@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.NotNil(t, resp.Admin.LastLoginAt)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Admin.ID.String(), claims.AdminID)
	assert.Equal(t, string(models.AdminRoleAdmin), claims.Role)

	admin, err := svc.GetAdmin(resp.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)

	_, err = svc.Login(&LoginRequest{Email: "admin@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.GetAdmin(uuid.New())
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAuthLoginDisabledAccount(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, database.SeedAdmin(db, config.AdminConfig{
		SeedEmail:    "admin@example.com",
		SeedPassword: "correct-horse",
	}))
	require.NoError(t, db.Model(&models.AdminUser{}).Where("email = ?", "admin@example.com").Update("active", false).Error)

	_, err := NewAuthService(db, testConfig()).Login(&LoginRequest{Email: "admin@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	cfg := config.AdminConfig{SeedEmail: "admin@example.com", SeedPassword: "correct-horse"}

	require.NoError(t, database.SeedAdmin(db, cfg))
	require.NoError(t, database.SeedAdmin(db, cfg))

	var count int64
	db.Model(&models.AdminUser{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
