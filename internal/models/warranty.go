// internal/models/warranty.go
package models

import (
	"time"
)

type WarrantyRegistration struct {
	BaseModel
	ProductID    string         `json:"product_id" gorm:"size:100;not null;index"`
	ProductName  string         `json:"product_name" gorm:"size:255"`
	SerialNumber string         `json:"serial_number" gorm:"size:64;not null;uniqueIndex"`
	PurchaseDate time.Time      `json:"purchase_date" gorm:"not null"`
	Retailer     string         `json:"retailer" gorm:"size:255"`
	CustomerName string         `json:"customer_name" gorm:"size:255;not null"`
	Email        string         `json:"email" gorm:"size:255;not null;index"`
	Phone        string         `json:"phone,omitempty" gorm:"size:50"`
	Country      string         `json:"country" gorm:"size:2"`
	ReceiptURL   string         `json:"receipt_url,omitempty" gorm:"type:text"`
	Status       WarrantyStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ExpiresAt    time.Time      `json:"expires_at" gorm:"index"`
	Locale       string         `json:"locale,omitempty" gorm:"size:10"`
}

// CurrentStatus reports the status as of now, taking expiry into account.
func (w *WarrantyRegistration) CurrentStatus(now time.Time) WarrantyStatus {
	if w.Status == WarrantyStatusActive && !w.ExpiresAt.IsZero() && now.After(w.ExpiresAt) {
		return WarrantyStatusExpired
	}
	return w.Status
}
