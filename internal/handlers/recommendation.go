// internal/handlers/recommendation.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

type RecommendationHandler struct {
	catalog         *catalog.Catalog
	matchService    *services.MatchService
	sizingService   *services.SizingService
	affinityService *services.AffinityService
}

type SizeRequest struct {
	Appliances []models.Appliance `json:"appliances" validate:"max=50"`
	// AutonomyDays defaults to one day when omitted.
	AutonomyDays *int `json:"autonomy_days,omitempty"`
}

type ContentRecommendationRequest struct {
	Tags []string `json:"tags" validate:"max=20,dive,max=50"`
}

func NewRecommendationHandler(
	cat *catalog.Catalog,
	matchService *services.MatchService,
	sizingService *services.SizingService,
	affinityService *services.AffinityService,
) *RecommendationHandler {
	return &RecommendationHandler{
		catalog:         cat,
		matchService:    matchService,
		sizingService:   sizingService,
		affinityService: affinityService,
	}
}

// GET /quiz
func (h *RecommendationHandler) GetQuiz(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"questions": h.catalog.Quiz(),
	})
}

// POST /quiz/match
func (h *RecommendationHandler) Match(c *gin.Context) {
	var req services.MatchRequest
	if !bindJSON(c, &req) {
		return
	}

	selection, err := h.matchService.ResolveSelection(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.matchService.Match(selection)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /calculator/presets
func (h *RecommendationHandler) GetPresets(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"presets": h.catalog.AppliancePresets(),
	})
}

// POST /calculator/size
func (h *RecommendationHandler) Size(c *gin.Context) {
	var req SizeRequest
	if !bindJSON(c, &req) {
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	days := 1
	if req.AutonomyDays != nil {
		days = *req.AutonomyDays
	}

	appliances := make([]models.Appliance, 0, len(req.Appliances))
	for _, appliance := range req.Appliances {
		appliances = append(appliances, appliance.Sanitized())
	}

	result, err := h.sizingService.Size(appliances, days)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /content/recommendations
func (h *RecommendationHandler) ContentRecommendations(c *gin.Context) {
	var req ContentRecommendationRequest
	if !bindJSON(c, &req) {
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	utils.SuccessResponse(c, h.affinityService.Recommend(req.Tags))
}
