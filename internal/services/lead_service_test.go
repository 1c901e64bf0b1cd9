// internal/services/lead_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

func newLeadService(t *testing.T) (*LeadService, *recordingMailer) {
	mailer := &recordingMailer{}
	db := newTestDB(t)
	return NewLeadService(db, NewNotificationService(mailer, testConfig())), mailer
}

func TestCreateLead(t *testing.T) {
	svc, mailer := newLeadService(t)

	lead, err := svc.CreateLead(&CreateLeadRequest{
		Email:     " Sam@Example.com",
		Name:      "Sam",
		Source:    models.LeadSourceContact,
		Message:   "Do you ship to Austria?",
		Interests: []string{"rv", "solar"},
		Locale:    "de",
	})
	require.NoError(t, err)

	assert.Equal(t, "sam@example.com", lead.Email)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.Equal(t, models.StringList{"rv", "solar"}, lead.Interests)

	var stored models.Lead
	require.NoError(t, svc.db.First(&stored, "id = ?", lead.ID).Error)
	assert.Equal(t, models.StringList{"rv", "solar"}, stored.Interests)
	assert.Equal(t, "de", stored.Locale)

	assert.Eventually(t, func() bool { return len(mailer.Sent()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestCreateLeadNewsletter(t *testing.T) {
	svc, _ := newLeadService(t)

	_, err := svc.CreateLead(&CreateLeadRequest{Email: "a@example.com", Source: models.LeadSourceNewsletter})
	assert.ErrorIs(t, err, ErrConsentRequired)

	first, err := svc.CreateLead(&CreateLeadRequest{Email: "a@example.com", Source: models.LeadSourceNewsletter, Consent: true})
	require.NoError(t, err)

	second, err := svc.CreateLead(&CreateLeadRequest{Email: "A@example.com", Source: models.LeadSourceNewsletter, Consent: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	svc.db.Model(&models.Lead{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateLeadValidation(t *testing.T) {
	svc, _ := newLeadService(t)

	_, err := svc.CreateLead(&CreateLeadRequest{Email: "not-an-email", Source: models.LeadSourceContact})
	assert.Error(t, err)

	_, err = svc.CreateLead(&CreateLeadRequest{Email: "a@example.com", Source: "billboard"})
	assert.Error(t, err)
}

func TestCreateFeedback(t *testing.T) {
	svc, _ := newLeadService(t)

	feedback, err := svc.CreateFeedback(&CreateFeedbackRequest{
		Rating:  4,
		Message: "The calculator was really helpful",
		Page:    "/calculator",
		Tags:    []string{"calculator"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusNew, feedback.Status)

	_, err = svc.CreateFeedback(&CreateFeedbackRequest{Rating: 6, Message: "too good"})
	assert.Error(t, err)

	_, err = svc.CreateFeedback(&CreateFeedbackRequest{Rating: 0, Message: "missing rating"})
	assert.Error(t, err)
}
