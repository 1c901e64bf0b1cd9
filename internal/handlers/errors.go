// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

// respondError maps service errors onto the response envelope. Anything
// unrecognised is logged and reported as an internal error.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	if validationErrors := utils.GetValidationErrors(err); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	switch {
	case errors.Is(err, catalog.ErrEmptyCatalog):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "CATALOG_EMPTY", i18n.T(lang, i18n.KeyCatalogEmpty), nil)
	case errors.Is(err, services.ErrInvalidAutonomy):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAutonomyInvalid), nil)
	case errors.Is(err, models.ErrUnknownQuestion),
		errors.Is(err, models.ErrQuestionAnswered),
		errors.Is(err, models.ErrUnknownOption):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyQuizUnknownOption), err.Error())

	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, services.ErrAccessoryNotFound):
		utils.NotFoundResponse(c, i18n.KeyAccessoryNotFound)
	case errors.Is(err, services.ErrBundleNotFound):
		utils.NotFoundResponse(c, i18n.KeyBundleNotFound)
	case errors.Is(err, services.ErrCartNotFound):
		utils.NotFoundResponse(c, i18n.KeyCartNotFound)
	case errors.Is(err, services.ErrWarrantyNotFound):
		utils.NotFoundResponse(c, i18n.KeyWarrantyNotFound)
	case errors.Is(err, services.ErrLeadNotFound):
		utils.NotFoundResponse(c, i18n.KeyLeadNotFound)
	case errors.Is(err, services.ErrFeedbackNotFound):
		utils.NotFoundResponse(c, i18n.KeyFeedbackNotFound)

	case errors.Is(err, services.ErrBundleNotCompatible):
		utils.UnprocessableResponse(c, i18n.T(lang, i18n.KeyCartBundleIncompatible))
	case errors.Is(err, services.ErrItemUnavailable):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyCartItemUnavailable))
	case errors.Is(err, services.ErrCommerceUnavailable):
		logrus.WithError(err).Warn("Commerce backend call failed")
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyCartUnavailable))

	case errors.Is(err, services.ErrWarrantyDuplicate):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyWarrantyDuplicate))
	case errors.Is(err, services.ErrPurchaseDateInFuture),
		errors.Is(err, services.ErrConsentRequired):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidStatus):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAdminInvalidStatus), nil)
	case errors.Is(err, services.ErrFileTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
	case errors.Is(err, services.ErrFileTypeInvalid):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), nil)

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAdminNotFound):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrAccountDisabled):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthAccountDisabled))

	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// bindJSON binds the body and reports malformed input. Field validation is
// left to the services.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}
