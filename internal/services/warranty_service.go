// internal/services/warranty_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

var (
	ErrWarrantyNotFound     = errors.New("warranty registration not found")
	ErrWarrantyDuplicate    = errors.New("serial number already registered")
	ErrPurchaseDateInFuture = errors.New("purchase date is in the future")
)

// ReceiptStore persists proof-of-purchase files.
type ReceiptStore interface {
	UploadFile(file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error)
	DeleteFile(key string) error
}

type WarrantyService struct {
	db            *gorm.DB
	products      ProductLookup
	receipts      ReceiptStore
	notifications *NotificationService
	now           func() time.Time
}

type RegisterWarrantyRequest struct {
	ProductID    string `json:"product_id" form:"product_id" validate:"required,max=100"`
	SerialNumber string `json:"serial_number" form:"serial_number" validate:"required,serial_number"`
	PurchaseDate string `json:"purchase_date" form:"purchase_date" validate:"required,datetime=2006-01-02"`
	Retailer     string `json:"retailer,omitempty" form:"retailer" validate:"max=255"`
	CustomerName string `json:"customer_name" form:"customer_name" validate:"required,min=2,max=255"`
	Email        string `json:"email" form:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone,omitempty" form:"phone" validate:"max=50"`
	Country      string `json:"country,omitempty" form:"country" validate:"omitempty,iso3166_1_alpha2"`
	Locale       string `json:"-" form:"-"`
}

type ReceiptFile struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// WarrantyStatusView is the public answer to a serial lookup. It leaves out
// customer details.
type WarrantyStatusView struct {
	SerialNumber string                `json:"serial_number"`
	ProductID    string                `json:"product_id"`
	ProductName  string                `json:"product_name"`
	PurchaseDate time.Time             `json:"purchase_date"`
	ExpiresAt    time.Time             `json:"expires_at"`
	Status       models.WarrantyStatus `json:"status"`
}

func NewWarrantyService(db *gorm.DB, products ProductLookup, receipts ReceiptStore, notifications *NotificationService) *WarrantyService {
	return &WarrantyService{
		db:            db,
		products:      products,
		receipts:      receipts,
		notifications: notifications,
		now:           time.Now,
	}
}

func (s *WarrantyService) Register(req *RegisterWarrantyRequest, receipt *ReceiptFile) (*models.WarrantyRegistration, error) {
	req.SerialNumber = utils.NormalizeSerialNumber(req.SerialNumber)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Country = strings.ToUpper(req.Country)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date: %w", err)
	}
	if purchaseDate.After(s.now()) {
		return nil, ErrPurchaseDateInFuture
	}

	product, ok := s.products.Product(req.ProductID)
	if !ok {
		return nil, ErrProductNotFound
	}

	var count int64
	if err := s.db.Model(&models.WarrantyRegistration{}).
		Where("serial_number = ?", req.SerialNumber).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check serial number: %w", err)
	}
	if count > 0 {
		return nil, ErrWarrantyDuplicate
	}

	registration := &models.WarrantyRegistration{
		ProductID:    product.ID,
		ProductName:  product.Name,
		SerialNumber: req.SerialNumber,
		PurchaseDate: purchaseDate,
		Retailer:     req.Retailer,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Country:      req.Country,
		Status:       models.WarrantyStatusActive,
		ExpiresAt:    purchaseDate.AddDate(product.WarrantyYears, 0, 0),
		Locale:       req.Locale,
	}

	var uploaded *UploadResult
	if receipt != nil && receipt.File != nil {
		uploaded, err = s.receipts.UploadFile(receipt.File, receipt.Header, ReceiptUploadOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to store receipt: %w", err)
		}
		registration.ReceiptURL = uploaded.URL
	}

	if err := s.db.Create(registration).Error; err != nil {
		if uploaded != nil {
			if delErr := s.receipts.DeleteFile(uploaded.Key); delErr != nil {
				logrus.WithError(delErr).WithField("key", uploaded.Key).Warn("Failed to remove orphaned receipt")
			}
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWarrantyDuplicate
		}
		return nil, fmt.Errorf("failed to create warranty registration: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"registration_id": registration.ID,
		"product_id":      registration.ProductID,
	}).Info("Warranty registered")

	// Send confirmation email (async)
	go func() {
		if err := s.notifications.SendWarrantyConfirmation(registration); err != nil {
			logrus.WithError(err).WithField("registration_id", registration.ID).Error("Failed to send warranty confirmation")
		}
	}()

	return registration, nil
}

func (s *WarrantyService) Lookup(serial string) (*WarrantyStatusView, error) {
	var registration models.WarrantyRegistration
	err := s.db.Where("serial_number = ?", utils.NormalizeSerialNumber(serial)).First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarrantyNotFound
		}
		return nil, fmt.Errorf("failed to find warranty registration: %w", err)
	}

	return &WarrantyStatusView{
		SerialNumber: registration.SerialNumber,
		ProductID:    registration.ProductID,
		ProductName:  registration.ProductName,
		PurchaseDate: registration.PurchaseDate,
		ExpiresAt:    registration.ExpiresAt,
		Status:       registration.CurrentStatus(s.now()),
	}, nil
}

// ExpireRegistrations flips active registrations past their expiry date to
// expired and returns how many changed.
func (s *WarrantyService) ExpireRegistrations(now time.Time) (int64, error) {
	result := s.db.Model(&models.WarrantyRegistration{}).
		Where("status = ? AND expires_at < ?", models.WarrantyStatusActive, now).
		Update("status", models.WarrantyStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire warranty registrations: %w", result.Error)
	}
	return result.RowsAffected, nil
}
