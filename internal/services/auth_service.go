// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAdminNotFound      = errors.New("admin not found")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Admin       *models.AdminUser `json:"admin"`
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int               `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Find admin by email
	var admin models.AdminUser
	if err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Verify password
	if err := admin.CheckPassword(req.Password); err != nil {
		logrus.WithField("email", admin.Email).Warn("Failed admin login attempt")
		return nil, ErrInvalidCredentials
	}

	if !admin.Active {
		return nil, ErrAccountDisabled
	}

	// Update last login time
	now := time.Now()
	admin.LastLoginAt = &now
	if err := s.db.Model(&admin).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record admin login time")
	}

	accessToken, err := utils.GenerateJWT(admin.ID, admin.Email, string(admin.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		Admin:       &admin,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

func (s *AuthService) GetAdmin(adminID uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.First(&admin, "id = ?", adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &admin, nil
}
