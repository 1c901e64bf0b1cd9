// internal/handlers/admin.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
	Notes  string `json:"notes,omitempty" validate:"max=2000"`
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/leads
func (h *AdminHandler) GetLeads(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := leadFilter(params)

	leads, total, err := h.adminService.GetLeads(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(leads, total, params))
}

// PUT /admin/leads/:id/status
func (h *AdminHandler) UpdateLeadStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	leadID, ok := parseIDParam(c)
	if !ok {
		return
	}

	req, ok := bindStatusRequest(c)
	if !ok {
		return
	}

	adminID, ok := currentAdminID(c)
	if !ok {
		return
	}

	lead, err := h.adminService.UpdateLeadStatus(leadID, models.LeadStatus(req.Status), req.Notes, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminStatusUpdated),
		"lead":    lead,
	})
}

// GET /admin/leads/export
func (h *AdminHandler) ExportLeads(c *gin.Context) {
	filter := leadFilter(utils.GetPaginationParams(c))

	var buf bytes.Buffer
	count, err := h.adminService.ExportLeadsCSV(&buf, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	sendCSV(c, "leads", count, buf.Bytes())
}

// GET /admin/feedback
func (h *AdminHandler) GetFeedback(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := feedbackFilter(c, params)

	feedback, total, err := h.adminService.GetFeedback(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(feedback, total, params))
}

// PUT /admin/feedback/:id/status
func (h *AdminHandler) UpdateFeedbackStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	feedbackID, ok := parseIDParam(c)
	if !ok {
		return
	}

	req, ok := bindStatusRequest(c)
	if !ok {
		return
	}

	adminID, ok := currentAdminID(c)
	if !ok {
		return
	}

	feedback, err := h.adminService.UpdateFeedbackStatus(feedbackID, models.FeedbackStatus(req.Status), req.Notes, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAdminStatusUpdated),
		"feedback": feedback,
	})
}

// GET /admin/feedback/export
func (h *AdminHandler) ExportFeedback(c *gin.Context) {
	filter := feedbackFilter(c, utils.GetPaginationParams(c))

	var buf bytes.Buffer
	count, err := h.adminService.ExportFeedbackCSV(&buf, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	sendCSV(c, "feedback", count, buf.Bytes())
}

// GET /admin/warranty
func (h *AdminHandler) GetWarranties(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	filter := services.AdminWarrantyFilter{
		PaginationParams: params,
		ProductID:        c.Query("product_id"),
	}

	registrations, total, err := h.adminService.GetWarranties(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(registrations, total, params))
}

func leadFilter(params utils.PaginationParams) services.AdminLeadFilter {
	filter := services.AdminLeadFilter{
		PaginationParams: params,
	}

	if params.Status != "" {
		status := models.LeadStatus(params.Status)
		filter.Status = &status
	}

	if params.Source != "" {
		source := models.LeadSource(params.Source)
		filter.Source = &source
	}

	return filter
}

func feedbackFilter(c *gin.Context, params utils.PaginationParams) services.AdminFeedbackFilter {
	filter := services.AdminFeedbackFilter{
		PaginationParams: params,
	}

	if params.Status != "" {
		status := models.FeedbackStatus(params.Status)
		filter.Status = &status
	}

	if maxRating := c.Query("max_rating"); maxRating != "" {
		if rating, err := strconv.Atoi(maxRating); err == nil {
			filter.MaxRating = &rating
		}
	}

	return filter
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return uuid.Nil, false
	}
	return id, true
}

func bindStatusRequest(c *gin.Context) (*UpdateStatusRequest, bool) {
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return nil, false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return nil, false
	}

	return &req, true
}

func currentAdminID(c *gin.Context) (uuid.UUID, bool) {
	adminIDStr, exists := utils.GetAdminIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	return adminID, true
}

func sendCSV(c *gin.Context, name string, rows int, body []byte) {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Total-Count", strconv.Itoa(rows))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
