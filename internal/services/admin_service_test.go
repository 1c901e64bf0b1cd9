// internal/services/admin_service_test.go
package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

type AdminServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AdminService
	adminID uuid.UUID
}

func (s *AdminServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = NewAdminService(s.db)
	s.adminID = uuid.New()

	leads := []models.Lead{
		{Email: "ann@example.com", Name: "Ann", Source: models.LeadSourceNewsletter, Status: models.LeadStatusNew, Consent: true},
		{Email: "bob@example.com", Name: "Bob", Source: models.LeadSourceContact, Status: models.LeadStatusNew, Interests: models.StringList{"rv", "solar"}},
		{Email: "cy@example.com", Name: "Cy", Source: models.LeadSourceContact, Status: models.LeadStatusClosed},
	}
	s.Require().NoError(s.db.Create(&leads).Error)

	feedback := []models.Feedback{
		{Rating: 5, Message: "Great battery", Status: models.FeedbackStatusNew},
		{Rating: 2, Message: "Shipping was slow", Status: models.FeedbackStatusNew},
	}
	s.Require().NoError(s.db.Create(&feedback).Error)
}

func (s *AdminServiceTestSuite) page() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func (s *AdminServiceTestSuite) TestDashboardStats() {
	stats, err := s.service.GetDashboardStats()
	s.Require().NoError(err)

	s.Equal(int64(3), stats.TotalLeads)
	s.Equal(int64(2), stats.NewLeads)
	s.Equal(int64(3), stats.LeadsThisMonth)
	s.Equal(int64(2), stats.LeadsBySource["contact"])
	s.Equal(int64(1), stats.LeadsBySource["newsletter"])
	s.Equal(int64(2), stats.TotalFeedback)
	s.InDelta(3.5, stats.AverageRating, 1e-9)
}

func (s *AdminServiceTestSuite) TestGetLeadsFilters() {
	source := models.LeadSourceContact
	leads, total, err := s.service.GetLeads(AdminLeadFilter{PaginationParams: s.page(), Source: &source})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Len(leads, 2)

	params := s.page()
	params.Search = "BOB"
	leads, total, err = s.service.GetLeads(AdminLeadFilter{PaginationParams: params})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("bob@example.com", leads[0].Email)
}

func (s *AdminServiceTestSuite) TestUpdateLeadStatus() {
	var lead models.Lead
	s.Require().NoError(s.db.First(&lead, "email = ?", "bob@example.com").Error)

	updated, err := s.service.UpdateLeadStatus(lead.ID, models.LeadStatusContacted, "Called back", s.adminID)
	s.Require().NoError(err)
	s.Equal(models.LeadStatusContacted, updated.Status)
	s.Equal("Called back", updated.Notes)

	var audit models.AuditLog
	s.Require().NoError(s.db.First(&audit, "resource_id = ?", lead.ID).Error)
	s.Equal("UPDATE_LEAD_STATUS", audit.Action)
	s.Equal("new", audit.OldValues["status"])
	s.Equal("contacted", audit.NewValues["status"])

	_, err = s.service.UpdateLeadStatus(lead.ID, "bogus", "", s.adminID)
	s.ErrorIs(err, ErrInvalidStatus)

	_, err = s.service.UpdateLeadStatus(uuid.New(), models.LeadStatusClosed, "", s.adminID)
	s.ErrorIs(err, ErrLeadNotFound)
}

func (s *AdminServiceTestSuite) TestFeedbackWorkflow() {
	maxRating := 3
	feedback, total, err := s.service.GetFeedback(AdminFeedbackFilter{PaginationParams: s.page(), MaxRating: &maxRating})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Shipping was slow", feedback[0].Message)

	updated, err := s.service.UpdateFeedbackStatus(feedback[0].ID, models.FeedbackStatusReviewed, "", s.adminID)
	s.Require().NoError(err)
	s.Equal(models.FeedbackStatusReviewed, updated.Status)

	_, err = s.service.UpdateFeedbackStatus(uuid.New(), models.FeedbackStatusReviewed, "", s.adminID)
	s.ErrorIs(err, ErrFeedbackNotFound)
}

func (s *AdminServiceTestSuite) TestExportLeadsCSV() {
	var buf bytes.Buffer
	count, err := s.service.ExportLeadsCSV(&buf, AdminLeadFilter{})
	s.Require().NoError(err)
	s.Equal(3, count)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	s.Len(lines, 4)
	s.Equal("id,created_at,email,name,phone,source,status,interests,consent,locale,message", lines[0])
	s.Contains(buf.String(), "rv;solar")
}

func (s *AdminServiceTestSuite) TestExportFeedbackCSV() {
	status := models.FeedbackStatusNew
	var buf bytes.Buffer
	count, err := s.service.ExportFeedbackCSV(&buf, AdminFeedbackFilter{Status: &status})
	s.Require().NoError(err)
	s.Equal(2, count)
	s.True(strings.HasPrefix(buf.String(), "id,created_at,rating,page,email,status,tags,message\n"))
}

func (s *AdminServiceTestSuite) TestBuildDailyDigest() {
	now := time.Now()

	digest, err := s.service.BuildDailyDigest(now.Add(-24*time.Hour), now.Add(time.Minute))
	s.Require().NoError(err)
	s.Equal(int64(3), digest.NewLeads)
	s.Equal(int64(2), digest.NewFeedback)
	s.Zero(digest.NewWarranties)
	s.False(digest.Empty())

	digest, err = s.service.BuildDailyDigest(now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	s.Require().NoError(err)
	s.True(digest.Empty())
}

func TestAdminServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
