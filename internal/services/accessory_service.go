// internal/services/accessory_service.go
package services

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrAccessoryNotFound = errors.New("accessory not found")
	ErrBundleNotFound    = errors.New("bundle not found")
)

var hundred = decimal.NewFromInt(100)

type AccessoryService struct {
	catalog catalog.Source
}

type BundleOffer struct {
	Bundle          models.Bundle      `json:"bundle"`
	Items           []models.Accessory `json:"items"`
	OriginalTotal   decimal.Decimal    `json:"original_total"`
	DiscountedTotal decimal.Decimal    `json:"discounted_total"`
	Savings         decimal.Decimal    `json:"savings"`
	Available       bool               `json:"available"`
}

type AccessoryOffer struct {
	ProductID   string             `json:"product_id"`
	Accessories []models.Accessory `json:"accessories"`
	Bundles     []BundleOffer      `json:"bundles"`
}

func NewAccessoryService(source catalog.Source) *AccessoryService {
	return &AccessoryService{catalog: source}
}

func (s *AccessoryService) Accessory(id string) (models.Accessory, error) {
	for _, accessory := range s.catalog.Accessories() {
		if accessory.ID == id {
			return accessory, nil
		}
	}
	return models.Accessory{}, ErrAccessoryNotFound
}

// ForProduct lists the accessories and priced bundles that fit a product.
// An id the catalog does not know only receives the universal items.
func (s *AccessoryService) ForProduct(productID string) *AccessoryOffer {
	offer := &AccessoryOffer{
		ProductID:   productID,
		Accessories: []models.Accessory{},
		Bundles:     []BundleOffer{},
	}

	all := s.catalog.Accessories()
	byID := make(map[string]models.Accessory, len(all))
	for _, accessory := range all {
		byID[accessory.ID] = accessory
		if accessory.CompatibleWith(productID) {
			offer.Accessories = append(offer.Accessories, accessory)
		}
	}

	for _, bundle := range s.catalog.Bundles() {
		if bundle.AppliesTo(productID) {
			offer.Bundles = append(offer.Bundles, PriceBundle(bundle, byID))
		}
	}

	return offer
}

// PriceBundle totals the member accessories and applies the bundle discount,
// rounded to cents. Members missing from the accessory index are skipped.
func PriceBundle(bundle models.Bundle, accessories map[string]models.Accessory) BundleOffer {
	offer := BundleOffer{
		Bundle:        bundle,
		Items:         []models.Accessory{},
		OriginalTotal: decimal.Zero,
		Available:     true,
	}

	for _, id := range bundle.AccessoryIDs {
		accessory, ok := accessories[id]
		if !ok {
			offer.Available = false
			continue
		}
		if !accessory.InStock {
			offer.Available = false
		}
		offer.Items = append(offer.Items, accessory)
		offer.OriginalTotal = offer.OriginalTotal.Add(accessory.Price)
	}

	factor := decimal.NewFromInt(1).Sub(bundle.DiscountPercent.Div(hundred))
	offer.DiscountedTotal = offer.OriginalTotal.Mul(factor).Round(2)
	offer.Savings = offer.OriginalTotal.Sub(offer.DiscountedTotal)

	return offer
}
