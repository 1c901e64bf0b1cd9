// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	authResponse, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"admin":      authResponse.Admin,
		"token":      authResponse.AccessToken,
		"token_type": authResponse.TokenType,
		"expires_in": authResponse.ExpiresIn,
	})
}

// GET /admin/auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	adminIDStr, exists := utils.GetAdminIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	adminID, err := uuid.Parse(adminIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	admin, err := h.authService.GetAdmin(adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"admin": admin,
	})
}
