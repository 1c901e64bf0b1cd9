// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthAccountDisabled    = "auth.account_disabled"
	KeyAuthLoginSuccess       = "auth.login_success"

	// Admin
	KeyAdminAccessDenied  = "admin.access_denied"
	KeyAdminStatusUpdated = "admin.status_updated"
	KeyAdminInvalidStatus = "admin.invalid_status"

	// Catalog
	KeyProductNotFound   = "product.not_found"
	KeyAccessoryNotFound = "accessory.not_found"
	KeyArticleNotFound   = "article.not_found"
	KeyBundleNotFound    = "bundle.not_found"
	KeyCatalogEmpty      = "catalog.empty"

	// Recommendation
	KeyQuizUnknownOption = "quiz.unknown_option"
	KeyAutonomyInvalid   = "calculator.invalid_autonomy"

	// Cart
	KeyCartNotFound           = "cart.not_found"
	KeyCartUnavailable        = "cart.unavailable"
	KeyCartItemAdded          = "cart.item_added"
	KeyCartBundleAdded        = "cart.bundle_added"
	KeyCartDuplicate          = "cart.duplicate"
	KeyCartBundleIncompatible = "cart.bundle_incompatible"
	KeyCartItemUnavailable    = "cart.item_unavailable"

	// Warranty
	KeyWarrantyRegistered = "warranty.registered"
	KeyWarrantyNotFound   = "warranty.not_found"
	KeyWarrantyDuplicate  = "warranty.duplicate"

	// Leads and feedback
	KeyLeadReceived     = "lead.received"
	KeyLeadNotFound     = "lead.not_found"
	KeyFeedbackReceived = "feedback.received"
	KeyFeedbackNotFound = "feedback.not_found"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileInvalidType  = "file.invalid_type"
	KeyFileTooLarge     = "file.too_large"

	// Rate limiting
	KeyRateLimited = "rate_limit.exceeded"
)
