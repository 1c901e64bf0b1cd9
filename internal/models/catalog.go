// internal/models/catalog.go
package models

import (
	"github.com/shopspring/decimal"
)

type Series string

const (
	SeriesLite Series = "Lite"
	SeriesCore Series = "Core"
	SeriesPlus Series = "Plus"
)

func (s Series) Valid() bool {
	switch s {
	case SeriesLite, SeriesCore, SeriesPlus:
		return true
	}
	return false
}

// FormFactor is the physical mounting/size category of a battery.
type FormFactor string

const (
	FormFactorStandard FormFactor = "standard"
	FormFactorMini     FormFactor = "mini"
	FormFactorDinH8    FormFactor = "din_h8"
	FormFactorOther    FormFactor = "other"
)

// Compact reports whether the battery fits tight installation spaces.
func (f FormFactor) Compact() bool {
	return f == FormFactorMini || f == FormFactorDinH8
}

type AccessoryCategory string

const (
	AccessoryCategoryCable      AccessoryCategory = "cable"
	AccessoryCategoryCharger    AccessoryCategory = "charger"
	AccessoryCategoryMonitor    AccessoryCategory = "monitor"
	AccessoryCategoryProtection AccessoryCategory = "protection"
	AccessoryCategoryMounting   AccessoryCategory = "mounting"
)

// CompatibleWithAll is the sentinel compatibility entry matching every product.
const CompatibleWithAll = "all"

type Product struct {
	ID            string           `json:"id" yaml:"id"`
	Name          string           `json:"name" yaml:"name"`
	Tagline       string           `json:"tagline,omitempty" yaml:"tagline"`
	Image         string           `json:"image,omitempty" yaml:"image"`
	Series        Series           `json:"series" yaml:"series"`
	Capacity      string           `json:"capacity" yaml:"capacity"`
	FormFactor    FormFactor       `json:"form_factor" yaml:"form_factor"`
	Price         decimal.Decimal  `json:"price" yaml:"price"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty" yaml:"sale_price"`
	HasHeating    bool             `json:"has_heating" yaml:"has_heating"`
	HasBluetooth  bool             `json:"has_bluetooth" yaml:"has_bluetooth"`
	VariantID     string           `json:"variant_id,omitempty" yaml:"variant_id"`
	WarrantyYears int              `json:"warranty_years" yaml:"warranty_years"`
}

// EffectivePrice is the sale price when one is set, the list price otherwise.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

type Accessory struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	Category      AccessoryCategory `json:"category" yaml:"category"`
	Price         decimal.Decimal   `json:"price" yaml:"price"`
	Compatibility []string          `json:"compatibility" yaml:"compatibility"`
	InStock       bool              `json:"in_stock" yaml:"in_stock"`
	VariantID     string            `json:"variant_id,omitempty" yaml:"variant_id"`
}

func (a Accessory) CompatibleWith(productID string) bool {
	return matchesProduct(a.Compatibility, productID)
}

type Bundle struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	AccessoryIDs    []string        `json:"accessory_ids" yaml:"accessory_ids"`
	DiscountPercent decimal.Decimal `json:"discount_percent" yaml:"discount_percent"`
	ForProducts     []string        `json:"for_products" yaml:"for_products"`
}

func (b Bundle) AppliesTo(productID string) bool {
	return matchesProduct(b.ForProducts, productID)
}

func matchesProduct(ids []string, productID string) bool {
	for _, id := range ids {
		if id == CompatibleWithAll || id == productID {
			return true
		}
	}
	return false
}

// QuizQuestion is one step of the battery selector.
type QuizQuestion struct {
	Key     string       `json:"key" yaml:"key"`
	Title   string       `json:"title" yaml:"title"`
	Options []QuizOption `json:"options" yaml:"options"`
}

type QuizOption struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon,omitempty" yaml:"icon"`
}

func (q QuizQuestion) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// AppliancePreset seeds the power calculator with typical loads.
type AppliancePreset struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Watts       float64 `json:"watts" yaml:"watts"`
	HoursPerDay float64 `json:"hours_per_day" yaml:"hours_per_day"`
	Category    string  `json:"category" yaml:"category"`
}

// ArticleCategoryEngineering marks technical articles that carry product
// recommendations and pairing advice.
const ArticleCategoryEngineering = "Engineering"

type Article struct {
	Slug        string   `json:"slug" yaml:"slug"`
	Title       string   `json:"title" yaml:"title"`
	Excerpt     string   `json:"excerpt" yaml:"excerpt"`
	Category    string   `json:"category" yaml:"category"`
	Tags        []string `json:"tags" yaml:"tags"`
	PublishedAt string   `json:"published_at" yaml:"published_at"`
	ReadMinutes int      `json:"read_minutes" yaml:"read_minutes"`
}
