// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the primary key client-side so the same models work on
// Postgres and on the SQLite database used in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// StringList is stored as text[] on PostgreSQL and as the array literal text
// elsewhere.
type StringList pq.StringArray

func (StringList) GormDataType() string {
	return "text"
}

func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (s StringList) Value() (driver.Value, error) {
	return pq.StringArray(s).Value()
}

func (s *StringList) Scan(value interface{}) error {
	return (*pq.StringArray)(s).Scan(value)
}

// Enums
type LeadSource string

const (
	LeadSourceNewsletter LeadSource = "newsletter"
	LeadSourceContact    LeadSource = "contact"
	LeadSourceQuiz       LeadSource = "quiz"
	LeadSourceCalculator LeadSource = "calculator"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusClosed    LeadStatus = "closed"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusClosed:
		return true
	}
	return false
}

type FeedbackStatus string

const (
	FeedbackStatusNew      FeedbackStatus = "new"
	FeedbackStatusReviewed FeedbackStatus = "reviewed"
	FeedbackStatusArchived FeedbackStatus = "archived"
)

func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackStatusNew, FeedbackStatusReviewed, FeedbackStatusArchived:
		return true
	}
	return false
}

type WarrantyStatus string

const (
	WarrantyStatusActive  WarrantyStatus = "active"
	WarrantyStatusExpired WarrantyStatus = "expired"
	WarrantyStatusVoid    WarrantyStatus = "void"
)

type AdminRole string

const (
	AdminRoleAdmin  AdminRole = "admin"
	AdminRoleEditor AdminRole = "editor"
)
