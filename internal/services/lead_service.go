// internal/services/lead_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

var ErrConsentRequired = errors.New("newsletter signup requires consent")

type LeadService struct {
	db            *gorm.DB
	notifications *NotificationService
}

type CreateLeadRequest struct {
	Email     string            `json:"email" validate:"required,email,max=255"`
	Name      string            `json:"name,omitempty" validate:"max=255"`
	Phone     string            `json:"phone,omitempty" validate:"max=50"`
	Source    models.LeadSource `json:"source" validate:"required,oneof=newsletter contact quiz calculator"`
	Message   string            `json:"message,omitempty" validate:"max=5000"`
	Interests []string          `json:"interests,omitempty" validate:"max=10,dive,max=50"`
	Consent   bool              `json:"consent"`
	Locale    string            `json:"-"`
}

type CreateFeedbackRequest struct {
	Rating  int      `json:"rating" validate:"required,min=1,max=5"`
	Message string   `json:"message" validate:"required,min=3,max=5000"`
	Page    string   `json:"page,omitempty" validate:"max=255"`
	Email   string   `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Tags    []string `json:"tags,omitempty" validate:"max=10,dive,max=50"`
}

func NewLeadService(db *gorm.DB, notifications *NotificationService) *LeadService {
	return &LeadService{
		db:            db,
		notifications: notifications,
	}
}

// CreateLead stores a lead. A repeated newsletter signup for the same email
// returns the existing lead instead of creating another one.
func (s *LeadService) CreateLead(req *CreateLeadRequest) (*models.Lead, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Source == models.LeadSourceNewsletter {
		if !req.Consent {
			return nil, ErrConsentRequired
		}

		var existing models.Lead
		err := s.db.Where("email = ? AND source = ?", req.Email, models.LeadSourceNewsletter).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing subscription: %w", err)
		}
	}

	lead := &models.Lead{
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		Source:    req.Source,
		Message:   req.Message,
		Interests: models.StringList(req.Interests),
		Status:    models.LeadStatusNew,
		Locale:    req.Locale,
		Consent:   req.Consent,
	}

	if err := s.db.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"source":  lead.Source,
	}).Info("Lead captured")

	go func() {
		if err := s.notifications.SendLeadAcknowledgement(lead); err != nil {
			logrus.WithError(err).WithField("lead_id", lead.ID).Error("Failed to send lead acknowledgement")
		}
	}()

	return lead, nil
}

func (s *LeadService) CreateFeedback(req *CreateFeedbackRequest) (*models.Feedback, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	feedback := &models.Feedback{
		Rating:  req.Rating,
		Message: req.Message,
		Page:    req.Page,
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Tags:    models.StringList(req.Tags),
		Status:  models.FeedbackStatusNew,
	}

	if err := s.db.Create(feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"feedback_id": feedback.ID,
		"rating":      feedback.Rating,
	}).Info("Feedback received")

	return feedback, nil
}
