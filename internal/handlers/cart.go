// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

// IdempotencyKeyHeader lets clients tag a cart mutation so retries within the
// dedupe window are not applied twice.
const IdempotencyKeyHeader = "Idempotency-Key"

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// POST /cart
func (h *CartHandler) CreateCart(c *gin.Context) {
	cart, err := h.cartService.CreateCart(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"cart": cart,
	})
}

// GET /cart/:id
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart": cart,
	})
}

// POST /cart/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), c.Param("id"), c.GetHeader(IdempotencyKeyHeader), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondMutation(c, result, i18n.T(lang, i18n.KeyCartItemAdded))
}

// POST /cart/:id/bundles
func (h *CartHandler) AddBundle(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.AddBundleRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cartService.AddBundle(c.Request.Context(), c.Param("id"), c.GetHeader(IdempotencyKeyHeader), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondMutation(c, result, i18n.T(lang, i18n.KeyCartBundleAdded))
}

func (h *CartHandler) respondMutation(c *gin.Context, result *services.CartMutationResult, message string) {
	if result.Duplicate {
		message = i18n.T(utils.GetLangFromContext(c), i18n.KeyCartDuplicate)
	}

	utils.SuccessResponse(c, gin.H{
		"message":   message,
		"cart":      result.Cart,
		"duplicate": result.Duplicate,
	})
}
