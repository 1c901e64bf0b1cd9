// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/database"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrInvalidStatus    = errors.New("invalid status")
)

const maxExportRows = 10000

type AdminService struct {
	db *gorm.DB
}

type AdminDashboardStats struct {
	TotalLeads          int64            `json:"total_leads"`
	NewLeads            int64            `json:"new_leads"`
	LeadsThisMonth      int64            `json:"leads_this_month"`
	LeadsBySource       map[string]int64 `json:"leads_by_source"`
	TotalFeedback       int64            `json:"total_feedback"`
	UnreviewedFeedback  int64            `json:"unreviewed_feedback"`
	AverageRating       float64          `json:"average_rating"`
	TotalWarranties     int64            `json:"total_warranties"`
	WarrantiesThisMonth int64            `json:"warranties_this_month"`
	LeadGrowth          float64          `json:"lead_growth"`
}

// DailyDigest summarises storefront activity for a time window.
type DailyDigest struct {
	Since         time.Time        `json:"since"`
	Until         time.Time        `json:"until"`
	NewLeads      int64            `json:"new_leads"`
	NewFeedback   int64            `json:"new_feedback"`
	NewWarranties int64            `json:"new_warranties"`
	LeadsBySource map[string]int64 `json:"leads_by_source"`
}

func (d *DailyDigest) Empty() bool {
	return d.NewLeads == 0 && d.NewFeedback == 0 && d.NewWarranties == 0
}

type AdminLeadFilter struct {
	utils.PaginationParams
	Status *models.LeadStatus `json:"status,omitempty"`
	Source *models.LeadSource `json:"source,omitempty"`
}

type AdminFeedbackFilter struct {
	utils.PaginationParams
	Status    *models.FeedbackStatus `json:"status,omitempty"`
	MaxRating *int                   `json:"max_rating,omitempty"`
}

type AdminWarrantyFilter struct {
	utils.PaginationParams
	ProductID string `json:"product_id,omitempty"`
}

type LeadCSVRow struct {
	ID        string `csv:"id"`
	CreatedAt string `csv:"created_at"`
	Email     string `csv:"email"`
	Name      string `csv:"name"`
	Phone     string `csv:"phone"`
	Source    string `csv:"source"`
	Status    string `csv:"status"`
	Interests string `csv:"interests"`
	Consent   bool   `csv:"consent"`
	Locale    string `csv:"locale"`
	Message   string `csv:"message"`
}

type FeedbackCSVRow struct {
	ID        string `csv:"id"`
	CreatedAt string `csv:"created_at"`
	Rating    int    `csv:"rating"`
	Page      string `csv:"page"`
	Email     string `csv:"email"`
	Status    string `csv:"status"`
	Tags      string `csv:"tags"`
	Message   string `csv:"message"`
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// Lead statistics
	if err := s.db.Model(&models.Lead{}).Count(&stats.TotalLeads).Error; err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	s.db.Model(&models.Lead{}).Where("status = ?", models.LeadStatusNew).Count(&stats.NewLeads)
	s.db.Model(&models.Lead{}).Where("created_at >= ?", monthStart).Count(&stats.LeadsThisMonth)

	bySource, err := s.countLeadsBySource(time.Time{}, now)
	if err != nil {
		return nil, err
	}
	stats.LeadsBySource = bySource

	// Feedback statistics
	s.db.Model(&models.Feedback{}).Count(&stats.TotalFeedback)
	s.db.Model(&models.Feedback{}).Where("status = ?", models.FeedbackStatusNew).Count(&stats.UnreviewedFeedback)
	s.db.Model(&models.Feedback{}).Select("COALESCE(AVG(rating), 0)").Scan(&stats.AverageRating)

	// Warranty statistics
	s.db.Model(&models.WarrantyRegistration{}).Count(&stats.TotalWarranties)
	s.db.Model(&models.WarrantyRegistration{}).Where("created_at >= ?", monthStart).Count(&stats.WarrantiesThisMonth)

	// Growth calculations
	var lastMonthLeads int64
	s.db.Model(&models.Lead{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthLeads)

	if lastMonthLeads > 0 {
		stats.LeadGrowth = float64(stats.LeadsThisMonth-lastMonthLeads) / float64(lastMonthLeads) * 100
	}

	return stats, nil
}

func (s *AdminService) countLeadsBySource(since, until time.Time) (map[string]int64, error) {
	var rows []struct {
		Source string
		Count  int64
	}
	query := s.db.Model(&models.Lead{}).Select("source, COUNT(*) AS count").Where("created_at < ?", until)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if err := query.Group("source").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count leads by source: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Source] = row.Count
	}
	return out, nil
}

// BuildDailyDigest counts what arrived in [since, until).
func (s *AdminService) BuildDailyDigest(since, until time.Time) (*DailyDigest, error) {
	digest := &DailyDigest{Since: since, Until: until}

	window := "created_at >= ? AND created_at < ?"
	if err := s.db.Model(&models.Lead{}).Where(window, since, until).Count(&digest.NewLeads).Error; err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	if err := s.db.Model(&models.Feedback{}).Where(window, since, until).Count(&digest.NewFeedback).Error; err != nil {
		return nil, fmt.Errorf("failed to count feedback: %w", err)
	}
	if err := s.db.Model(&models.WarrantyRegistration{}).Where(window, since, until).Count(&digest.NewWarranties).Error; err != nil {
		return nil, fmt.Errorf("failed to count warranty registrations: %w", err)
	}

	bySource, err := s.countLeadsBySource(since, until)
	if err != nil {
		return nil, err
	}
	digest.LeadsBySource = bySource

	return digest, nil
}

// Lead Management
func (s *AdminService) GetLeads(filter AdminLeadFilter) ([]models.Lead, int64, error) {
	query := s.leadQuery(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "email", "source", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch leads: %w", err)
	}

	return leads, total, nil
}

func (s *AdminService) leadQuery(filter AdminLeadFilter) *gorm.DB {
	query := s.db.Model(&models.Lead{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.Search != "" {
		searchTerm := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", searchTerm, searchTerm)
	}

	return query
}

func (s *AdminService) UpdateLeadStatus(leadID uuid.UUID, status models.LeadStatus, notes string, adminID uuid.UUID) (*models.Lead, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var lead models.Lead
	if err := s.db.First(&lead, "id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldStatus := lead.Status
	updates := map[string]interface{}{"status": status}
	if notes != "" {
		updates["notes"] = notes
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&lead).Updates(updates).Error; err != nil {
			return err
		}
		return createAuditLog(tx, adminID, "UPDATE_LEAD_STATUS", "lead", &leadID,
			map[string]interface{}{"status": oldStatus},
			map[string]interface{}{"status": status, "notes": notes})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update lead status: %w", err)
	}
	lead.Status = status
	if notes != "" {
		lead.Notes = notes
	}

	return &lead, nil
}

// Feedback Management
func (s *AdminService) GetFeedback(filter AdminFeedbackFilter) ([]models.Feedback, int64, error) {
	query := s.feedbackQuery(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feedback: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "rating", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var feedback []models.Feedback
	if err := query.Find(&feedback).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feedback: %w", err)
	}

	return feedback, total, nil
}

func (s *AdminService) feedbackQuery(filter AdminFeedbackFilter) *gorm.DB {
	query := s.db.Model(&models.Feedback{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.MaxRating != nil {
		query = query.Where("rating <= ?", *filter.MaxRating)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(message) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	return query
}

func (s *AdminService) UpdateFeedbackStatus(feedbackID uuid.UUID, status models.FeedbackStatus, notes string, adminID uuid.UUID) (*models.Feedback, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var feedback models.Feedback
	if err := s.db.First(&feedback, "id = ?", feedbackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	oldStatus := feedback.Status
	updates := map[string]interface{}{"status": status}
	if notes != "" {
		updates["notes"] = notes
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&feedback).Updates(updates).Error; err != nil {
			return err
		}
		return createAuditLog(tx, adminID, "UPDATE_FEEDBACK_STATUS", "feedback", &feedbackID,
			map[string]interface{}{"status": oldStatus},
			map[string]interface{}{"status": status, "notes": notes})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback status: %w", err)
	}
	feedback.Status = status
	if notes != "" {
		feedback.Notes = notes
	}

	return &feedback, nil
}

// Warranty registrations
func (s *AdminService) GetWarranties(filter AdminWarrantyFilter) ([]models.WarrantyRegistration, int64, error) {
	query := s.db.Model(&models.WarrantyRegistration{})

	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Search != "" {
		searchTerm := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(serial_number) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count warranty registrations: %w", err)
	}

	allowedSortFields := []string{"created_at", "purchase_date", "expires_at", "product_id"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var registrations []models.WarrantyRegistration
	if err := query.Find(&registrations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch warranty registrations: %w", err)
	}

	return registrations, total, nil
}

// Exports
func (s *AdminService) ExportLeadsCSV(w io.Writer, filter AdminLeadFilter) (int, error) {
	var leads []models.Lead
	if err := s.leadQuery(filter).Order("created_at desc").Limit(maxExportRows).Find(&leads).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch leads: %w", err)
	}

	rows := make([]*LeadCSVRow, 0, len(leads))
	for _, lead := range leads {
		rows = append(rows, &LeadCSVRow{
			ID:        lead.ID.String(),
			CreatedAt: lead.CreatedAt.UTC().Format(time.RFC3339),
			Email:     lead.Email,
			Name:      lead.Name,
			Phone:     lead.Phone,
			Source:    string(lead.Source),
			Status:    string(lead.Status),
			Interests: strings.Join(lead.Interests, ";"),
			Consent:   lead.Consent,
			Locale:    lead.Locale,
			Message:   lead.Message,
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("failed to write leads CSV: %w", err)
	}

	return len(rows), nil
}

func (s *AdminService) ExportFeedbackCSV(w io.Writer, filter AdminFeedbackFilter) (int, error) {
	var feedback []models.Feedback
	if err := s.feedbackQuery(filter).Order("created_at desc").Limit(maxExportRows).Find(&feedback).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch feedback: %w", err)
	}

	rows := make([]*FeedbackCSVRow, 0, len(feedback))
	for _, f := range feedback {
		rows = append(rows, &FeedbackCSVRow{
			ID:        f.ID.String(),
			CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339),
			Rating:    f.Rating,
			Page:      f.Page,
			Email:     f.Email,
			Status:    string(f.Status),
			Tags:      strings.Join(f.Tags, ";"),
			Message:   f.Message,
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("failed to write feedback CSV: %w", err)
	}

	return len(rows), nil
}

// createAuditLog records an admin change inside the caller's transaction.
func createAuditLog(tx *gorm.DB, adminID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) error {
	auditLog := &models.AuditLog{
		AdminID:      &adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	if err := tx.Create(auditLog).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
