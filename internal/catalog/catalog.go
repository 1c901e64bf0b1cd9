// internal/catalog/catalog.go
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

var ErrEmptyCatalog = errors.New("catalog has no products")

// Source is the read interface the recommendation engines consume.
type Source interface {
	Products() []models.Product
	Accessories() []models.Accessory
	Bundles() []models.Bundle
}

// ContentTables maps content tags to recommended product ids and to partial
// system-pairing advice.
type ContentTables struct {
	Affinity map[string][]string               `yaml:"affinity"`
	Pairing  map[string]models.PairingFragment `yaml:"pairing"`
}

// Data is the on-disk shape of the catalog.
type Data struct {
	Products         []models.Product         `yaml:"products"`
	Accessories      []models.Accessory       `yaml:"accessories"`
	Bundles          []models.Bundle          `yaml:"bundles"`
	Quiz             []models.QuizQuestion    `yaml:"quiz"`
	AppliancePresets []models.AppliancePreset `yaml:"appliance_presets"`
	Content          ContentTables            `yaml:"content"`
	Articles         []models.Article         `yaml:"articles"`
}

// Catalog is the immutable store of storefront reference data. Accessors
// return copies, so it is safe to share between goroutines.
type Catalog struct {
	data           Data
	productIndex   map[string]int
	accessoryIndex map[string]int
	bundleIndex    map[string]int
	articleIndex   map[string]int
}

var _ Source = (*Catalog)(nil)

// New validates and indexes catalog data.
func New(data Data) (*Catalog, error) {
	c := &Catalog{
		data:           data,
		productIndex:   make(map[string]int, len(data.Products)),
		accessoryIndex: make(map[string]int, len(data.Accessories)),
		bundleIndex:    make(map[string]int, len(data.Bundles)),
		articleIndex:   make(map[string]int, len(data.Articles)),
	}

	if err := c.indexProducts(); err != nil {
		return nil, err
	}
	if err := c.indexAccessories(); err != nil {
		return nil, err
	}
	if err := c.indexBundles(); err != nil {
		return nil, err
	}
	if err := c.validateQuiz(); err != nil {
		return nil, err
	}
	for i, a := range c.data.Articles {
		if a.Slug == "" {
			return nil, fmt.Errorf("article %d: slug is required", i)
		}
		if _, exists := c.articleIndex[a.Slug]; exists {
			return nil, fmt.Errorf("duplicate article slug %q", a.Slug)
		}
		c.articleIndex[a.Slug] = i
	}
	c.checkContentTables()

	return c, nil
}

func (c *Catalog) indexProducts() error {
	for i := range c.data.Products {
		p := &c.data.Products[i]
		if p.ID == "" {
			return fmt.Errorf("product %d: id is required", i)
		}
		if _, exists := c.productIndex[p.ID]; exists {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		if !p.Series.Valid() {
			return fmt.Errorf("product %s: invalid series %q", p.ID, p.Series)
		}
		switch p.FormFactor {
		case "":
			p.FormFactor = models.FormFactorOther
		case models.FormFactorStandard, models.FormFactorMini, models.FormFactorDinH8, models.FormFactorOther:
		default:
			return fmt.Errorf("product %s: invalid form factor %q", p.ID, p.FormFactor)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("product %s: negative price", p.ID)
		}
		if p.SalePrice != nil && p.SalePrice.GreaterThan(p.Price) {
			return fmt.Errorf("product %s: sale price %s exceeds price %s", p.ID, p.SalePrice, p.Price)
		}
		if ParseCapacityAh(p.Capacity) == 0 {
			logrus.WithField("product_id", p.ID).Warnf("Unparseable capacity %q, ranking as 0Ah", p.Capacity)
		}
		c.productIndex[p.ID] = i
	}
	return nil
}

func (c *Catalog) indexAccessories() error {
	for i, a := range c.data.Accessories {
		if a.ID == "" {
			return fmt.Errorf("accessory %d: id is required", i)
		}
		if _, exists := c.accessoryIndex[a.ID]; exists {
			return fmt.Errorf("duplicate accessory id %q", a.ID)
		}
		switch a.Category {
		case models.AccessoryCategoryCable, models.AccessoryCategoryCharger, models.AccessoryCategoryMonitor,
			models.AccessoryCategoryProtection, models.AccessoryCategoryMounting:
		default:
			return fmt.Errorf("accessory %s: invalid category %q", a.ID, a.Category)
		}
		if a.Price.IsNegative() {
			return fmt.Errorf("accessory %s: negative price", a.ID)
		}
		c.accessoryIndex[a.ID] = i
	}
	return nil
}

func (c *Catalog) indexBundles() error {
	for i, b := range c.data.Bundles {
		if b.ID == "" {
			return fmt.Errorf("bundle %d: id is required", i)
		}
		if _, exists := c.bundleIndex[b.ID]; exists {
			return fmt.Errorf("duplicate bundle id %q", b.ID)
		}
		if b.DiscountPercent.IsNegative() || b.DiscountPercent.GreaterThan(hundred) {
			return fmt.Errorf("bundle %s: discount %s outside 0-100", b.ID, b.DiscountPercent)
		}
		for _, id := range b.AccessoryIDs {
			if _, ok := c.accessoryIndex[id]; !ok {
				logrus.WithFields(logrus.Fields{
					"bundle_id":    b.ID,
					"accessory_id": id,
				}).Warn("Bundle references unknown accessory")
			}
		}
		c.bundleIndex[b.ID] = i
	}
	return nil
}

func (c *Catalog) validateQuiz() error {
	for _, q := range c.data.Quiz {
		if !slices.Contains(models.QuizQuestionKeys, q.Key) {
			return fmt.Errorf("quiz question %q: %w", q.Key, models.ErrUnknownQuestion)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("quiz question %q has no options", q.Key)
		}
	}
	return nil
}

// checkContentTables logs drift between the tag tables and the product list.
// Drift is tolerated: unresolved ids are dropped at recommendation time.
func (c *Catalog) checkContentTables() {
	for tag, ids := range c.data.Content.Affinity {
		for _, id := range ids {
			if _, ok := c.productIndex[id]; !ok {
				logrus.WithFields(logrus.Fields{
					"tag":        tag,
					"product_id": id,
				}).Warn("Affinity table references unknown product")
			}
		}
	}
}

func (c *Catalog) Products() []models.Product {
	return slices.Clone(c.data.Products)
}

func (c *Catalog) Accessories() []models.Accessory {
	return slices.Clone(c.data.Accessories)
}

func (c *Catalog) Bundles() []models.Bundle {
	return slices.Clone(c.data.Bundles)
}

func (c *Catalog) Product(id string) (models.Product, bool) {
	i, ok := c.productIndex[id]
	if !ok {
		return models.Product{}, false
	}
	return c.data.Products[i], true
}

func (c *Catalog) Accessory(id string) (models.Accessory, bool) {
	i, ok := c.accessoryIndex[id]
	if !ok {
		return models.Accessory{}, false
	}
	return c.data.Accessories[i], true
}

func (c *Catalog) Bundle(id string) (models.Bundle, bool) {
	i, ok := c.bundleIndex[id]
	if !ok {
		return models.Bundle{}, false
	}
	return c.data.Bundles[i], true
}

func (c *Catalog) Quiz() []models.QuizQuestion {
	return slices.Clone(c.data.Quiz)
}

// QuizQuestion returns the definition for a question key.
func (c *Catalog) QuizQuestion(key string) (models.QuizQuestion, bool) {
	for _, q := range c.data.Quiz {
		if q.Key == key {
			return q, true
		}
	}
	return models.QuizQuestion{}, false
}

func (c *Catalog) AppliancePresets() []models.AppliancePreset {
	return slices.Clone(c.data.AppliancePresets)
}

func (c *Catalog) Articles() []models.Article {
	return slices.Clone(c.data.Articles)
}

func (c *Catalog) Article(slug string) (models.Article, bool) {
	i, ok := c.articleIndex[slug]
	if !ok {
		return models.Article{}, false
	}
	return c.data.Articles[i], true
}

func (c *Catalog) Content() ContentTables {
	return ContentTables{
		Affinity: maps.Clone(c.data.Content.Affinity),
		Pairing:  maps.Clone(c.data.Content.Pairing),
	}
}
