// internal/handlers/catalog.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

type CatalogHandler struct {
	catalog          *catalog.Catalog
	accessoryService *services.AccessoryService
}

func NewCatalogHandler(cat *catalog.Catalog, accessoryService *services.AccessoryService) *CatalogHandler {
	return &CatalogHandler{
		catalog:          cat,
		accessoryService: accessoryService,
	}
}

// GET /catalog/products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	series := c.Query("series")
	formFactor := c.Query("form_factor")
	heating := c.Query("heating")

	products := []models.Product{}
	for _, product := range h.catalog.Products() {
		if series != "" && !strings.EqualFold(string(product.Series), series) {
			continue
		}
		if formFactor != "" && string(product.FormFactor) != formFactor {
			continue
		}
		if heating == "true" && !product.HasHeating {
			continue
		}
		products = append(products, product)
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// GET /catalog/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, ok := h.catalog.Product(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// GET /catalog/accessories
func (h *CatalogHandler) GetAccessories(c *gin.Context) {
	category := c.Query("category")

	accessories := []models.Accessory{}
	for _, accessory := range h.catalog.Accessories() {
		if category != "" && string(accessory.Category) != category {
			continue
		}
		accessories = append(accessories, accessory)
	}

	utils.SuccessResponse(c, gin.H{
		"accessories": accessories,
		"total":       len(accessories),
	})
}

// GET /catalog/accessories/:id
func (h *CatalogHandler) GetAccessory(c *gin.Context) {
	accessory, err := h.accessoryService.Accessory(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"accessory": accessory,
	})
}

// GET /catalog/products/:id/accessories
func (h *CatalogHandler) GetProductAccessories(c *gin.Context) {
	productID := c.Param("id")
	if _, ok := h.catalog.Product(productID); !ok {
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
		return
	}

	utils.SuccessResponse(c, h.accessoryService.ForProduct(productID))
}
