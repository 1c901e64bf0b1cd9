// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

var (
	ErrBundleNotCompatible = errors.New("bundle does not apply to product")
	ErrItemUnavailable     = errors.New("item is not available for purchase")
)

// Line attributes the commerce backend uses to group and discount bundles.
const (
	attrBundleID       = "_bundle_id"
	attrBundleDiscount = "_bundle_discount_percent"
	attrForProduct     = "_for_product"
)

// CartCatalog is the part of the catalog the cart needs to resolve variants.
type CartCatalog interface {
	Product(id string) (models.Product, bool)
	Accessory(id string) (models.Accessory, bool)
	Bundle(id string) (models.Bundle, bool)
}

type CartService struct {
	commerce    CommerceClient
	catalog     CartCatalog
	idempotency IdempotencyStore
	ttl         time.Duration
}

type AddItemRequest struct {
	// ItemID is a catalog product or accessory id.
	ItemID          string            `json:"item_id" validate:"required,max=100"`
	Quantity        int               `json:"quantity" validate:"required,min=1,max=20"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

type AddBundleRequest struct {
	BundleID  string `json:"bundle_id" validate:"required,max=100"`
	ProductID string `json:"product_id" validate:"required,max=100"`
}

type CartMutationResult struct {
	Cart      *Cart `json:"cart"`
	Duplicate bool  `json:"duplicate"`
}

func NewCartService(commerce CommerceClient, catalog CartCatalog, idempotency IdempotencyStore, ttl time.Duration) *CartService {
	return &CartService{
		commerce:    commerce,
		catalog:     catalog,
		idempotency: idempotency,
		ttl:         ttl,
	}
}

func (s *CartService) CreateCart(ctx context.Context) (*Cart, error) {
	return s.commerce.CreateCart(ctx)
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	return s.commerce.GetCart(ctx, cartID)
}

// AddItem adds a single product or accessory. idempotencyKey may be empty, in
// which case the cart and item form the key.
func (s *CartService) AddItem(ctx context.Context, cartID, idempotencyKey string, req *AddItemRequest) (*CartMutationResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	line, err := s.resolveItem(req)
	if err != nil {
		return nil, err
	}

	key := s.key(cartID, idempotencyKey, itemFingerprint(req))
	return s.forwardOnce(ctx, cartID, key, []CartLine{line})
}

// AddBundle adds every member of a bundle as one line each, tagged so the
// commerce backend can apply the bundle discount.
func (s *CartService) AddBundle(ctx context.Context, cartID, idempotencyKey string, req *AddBundleRequest) (*CartMutationResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	bundle, ok := s.catalog.Bundle(req.BundleID)
	if !ok {
		return nil, ErrBundleNotFound
	}
	if _, ok := s.catalog.Product(req.ProductID); !ok {
		return nil, ErrProductNotFound
	}
	if !bundle.AppliesTo(req.ProductID) {
		return nil, ErrBundleNotCompatible
	}

	lines := make([]CartLine, 0, len(bundle.AccessoryIDs))
	for _, id := range bundle.AccessoryIDs {
		accessory, ok := s.catalog.Accessory(id)
		if !ok {
			return nil, fmt.Errorf("%w: bundle member %s", ErrItemUnavailable, id)
		}
		if !accessory.InStock || accessory.VariantID == "" {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, accessory.ID)
		}
		lines = append(lines, CartLine{
			VariantID: accessory.VariantID,
			Quantity:  1,
			Attributes: map[string]string{
				attrBundleID:       bundle.ID,
				attrBundleDiscount: bundle.DiscountPercent.String(),
				attrForProduct:     req.ProductID,
			},
		})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: bundle %s has no purchasable items", ErrItemUnavailable, bundle.ID)
	}

	key := s.key(cartID, idempotencyKey, "bundle:"+bundle.ID)
	return s.forwardOnce(ctx, cartID, key, lines)
}

func (s *CartService) resolveItem(req *AddItemRequest) (CartLine, error) {
	line := CartLine{Quantity: req.Quantity, Attributes: req.SelectedOptions}

	if product, ok := s.catalog.Product(req.ItemID); ok {
		if product.VariantID == "" {
			return CartLine{}, fmt.Errorf("%w: %s", ErrItemUnavailable, product.ID)
		}
		line.VariantID = product.VariantID
		return line, nil
	}

	if accessory, ok := s.catalog.Accessory(req.ItemID); ok {
		if !accessory.InStock || accessory.VariantID == "" {
			return CartLine{}, fmt.Errorf("%w: %s", ErrItemUnavailable, accessory.ID)
		}
		line.VariantID = accessory.VariantID
		return line, nil
	}

	return CartLine{}, ErrProductNotFound
}

// itemFingerprint identifies an add-item request by everything that changes
// the resulting line, so a different quantity or option is never a repeat.
func itemFingerprint(req *AddItemRequest) string {
	names := make([]string, 0, len(req.SelectedOptions))
	for name := range req.SelectedOptions {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "item:%s:%d", req.ItemID, req.Quantity)
	for _, name := range names {
		fmt.Fprintf(&b, "|%q=%q", name, req.SelectedOptions[name])
	}
	return b.String()
}

func (s *CartService) key(cartID, idempotencyKey, fallback string) string {
	if idempotencyKey != "" {
		return utils.HashString(cartID + "|" + idempotencyKey)
	}
	return utils.HashString(cartID + "|" + fallback)
}

// forwardOnce sends lines to the commerce backend unless the same key was
// forwarded within the TTL window. A failed forward frees the key so the
// shopper can retry straight away.
func (s *CartService) forwardOnce(ctx context.Context, cartID, key string, lines []CartLine) (*CartMutationResult, error) {
	acquired, err := s.idempotency.Acquire(ctx, key, s.ttl)
	if err != nil {
		logrus.WithError(err).WithField("cart_id", cartID).Warn("Idempotency store unavailable, forwarding without guard")
		acquired = true
	}

	if !acquired {
		cart, err := s.commerce.GetCart(ctx, cartID)
		if err != nil {
			return nil, err
		}
		logrus.WithField("cart_id", cartID).Debug("Suppressed duplicate cart mutation")
		return &CartMutationResult{Cart: cart, Duplicate: true}, nil
	}

	cart, err := s.commerce.AddLines(ctx, cartID, lines)
	if err != nil {
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			logrus.WithError(releaseErr).Warn("Failed to release idempotency key")
		}
		return nil, err
	}

	return &CartMutationResult{Cart: cart}, nil
}
