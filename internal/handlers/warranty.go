// internal/handlers/warranty.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

const receiptFormField = "receipt"

type WarrantyHandler struct {
	warrantyService *services.WarrantyService
}

func NewWarrantyHandler(warrantyService *services.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{
		warrantyService: warrantyService,
	}
}

// POST /warranty
// Accepts JSON, or multipart form data with an optional receipt file.
func (h *WarrantyHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterWarrantyRequest
	var receipt *services.ReceiptFile

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
			return
		}

		file, header, err := c.Request.FormFile(receiptFormField)
		switch {
		case err == nil:
			defer file.Close()
			receipt = &services.ReceiptFile{File: file, Header: header}
		case errors.Is(err, http.ErrMissingFile):
		default:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
			return
		}
	} else if !bindJSON(c, &req) {
		return
	}

	req.Locale = lang

	registration, err := h.warrantyService.Register(&req, receipt)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyWarrantyRegistered),
		"registration": registration,
	})
}

// GET /warranty/:serial
func (h *WarrantyHandler) Lookup(c *gin.Context) {
	view, err := h.warrantyService.Lookup(c.Param("serial"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"warranty": view,
	})
}
