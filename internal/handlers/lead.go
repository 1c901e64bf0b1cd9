// internal/handlers/lead.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

type LeadHandler struct {
	leadService *services.LeadService
}

func NewLeadHandler(leadService *services.LeadService) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
	}
}

// POST /leads
func (h *LeadHandler) CreateLead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateLeadRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Locale = lang

	lead, err := h.leadService.CreateLead(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLeadReceived),
		"lead_id": lead.ID,
	})
}

// POST /feedback
func (h *LeadHandler) CreateFeedback(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	feedback, err := h.leadService.CreateFeedback(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyFeedbackReceived),
		"feedback_id": feedback.ID,
	})
}
