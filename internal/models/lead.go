// internal/models/lead.go
package models

type Lead struct {
	BaseModel
	Email     string     `json:"email" gorm:"size:255;not null;index"`
	Name      string     `json:"name,omitempty" gorm:"size:255"`
	Phone     string     `json:"phone,omitempty" gorm:"size:50"`
	Source    LeadSource `json:"source" gorm:"type:varchar(20);not null;index"`
	Message   string     `json:"message,omitempty" gorm:"type:text"`
	Interests StringList `json:"interests"`
	Status    LeadStatus `json:"status" gorm:"type:varchar(20);default:'new';index"`
	Locale    string     `json:"locale,omitempty" gorm:"size:10"`
	Notes     string     `json:"notes,omitempty" gorm:"type:text"`
	Consent   bool       `json:"consent" gorm:"default:false"`
}

type Feedback struct {
	BaseModel
	Rating  int            `json:"rating" gorm:"not null"`
	Message string         `json:"message" gorm:"type:text;not null"`
	Page    string         `json:"page,omitempty" gorm:"size:255"`
	Email   string         `json:"email,omitempty" gorm:"size:255"`
	Tags    StringList     `json:"tags"`
	Status  FeedbackStatus `json:"status" gorm:"type:varchar(20);default:'new';index"`
	Notes   string         `json:"notes,omitempty" gorm:"type:text"`
}

func (Feedback) TableName() string {
	return "feedback"
}
