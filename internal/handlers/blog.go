// internal/handlers/blog.go
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

type BlogHandler struct {
	catalog         *catalog.Catalog
	affinityService *services.AffinityService
}

func NewBlogHandler(cat *catalog.Catalog, affinityService *services.AffinityService) *BlogHandler {
	return &BlogHandler{
		catalog:         cat,
		affinityService: affinityService,
	}
}

// GET /blog
func (h *BlogHandler) GetArticles(c *gin.Context) {
	category := c.Query("category")
	tag := c.Query("tag")

	articles := []models.Article{}
	for _, article := range h.catalog.Articles() {
		if category != "" && !strings.EqualFold(article.Category, category) {
			continue
		}
		if tag != "" && !hasTag(article.Tags, tag) {
			continue
		}
		articles = append(articles, article)
	}

	utils.SuccessResponse(c, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}

// GET /blog/:slug
func (h *BlogHandler) GetArticle(c *gin.Context) {
	article, ok := h.catalog.Article(c.Param("slug"))
	if !ok {
		utils.NotFoundResponse(c, i18n.KeyArticleNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"article": article,
	})
}

// GET /blog/:slug/recommendations
func (h *BlogHandler) GetArticleRecommendations(c *gin.Context) {
	article, ok := h.catalog.Article(c.Param("slug"))
	if !ok {
		utils.NotFoundResponse(c, i18n.KeyArticleNotFound)
		return
	}

	utils.SuccessResponse(c, h.affinityService.ForArticle(article))
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
