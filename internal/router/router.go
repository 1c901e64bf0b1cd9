// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/catalog"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/handlers"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/i18n"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/middleware"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/services"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/utils"
)

const apiVersion = "1.0.0"

// Dependencies are the collaborators built outside the router so that tests
// and the server entrypoint can swap them.
type Dependencies struct {
	DB            *gorm.DB
	Config        *config.Config
	Catalog       *catalog.Catalog
	Commerce      services.CommerceClient
	Idempotency   services.IdempotencyStore
	Receipts      services.ReceiptStore
	Notifications *services.NotificationService
}

func Initialize(deps Dependencies) *gin.Engine {
	db, cfg, cat := deps.DB, deps.Config, deps.Catalog

	// Quiz answers are validated against the loaded quiz definition
	utils.SetQuizOptionChecker(func(question, option string) bool {
		q, ok := cat.QuizQuestion(question)
		return ok && q.HasOption(option)
	})

	// Initialize services
	matchService := services.NewMatchService(cat)
	sizingService := services.NewSizingService(cat)
	affinityService := services.NewAffinityService(cat, cat.Content())
	accessoryService := services.NewAccessoryService(cat)
	cartService := services.NewCartService(deps.Commerce, cat, deps.Idempotency, cfg.Cart.IdempotencyTTL)
	warrantyService := services.NewWarrantyService(db, cat, deps.Receipts, deps.Notifications)
	leadService := services.NewLeadService(db, deps.Notifications)
	authService := services.NewAuthService(db, cfg)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(cat, accessoryService)
	recommendationHandler := handlers.NewRecommendationHandler(cat, matchService, sizingService, affinityService)
	blogHandler := handlers.NewBlogHandler(cat, affinityService)
	cartHandler := handlers.NewCartHandler(cartService)
	warrantyHandler := handlers.NewWarrantyHandler(warrantyService)
	leadHandler := handlers.NewLeadHandler(leadService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"version":  apiVersion,
			"products": len(cat.Products()),
			"locales":  i18n.GetSupportedLanguages(),
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Catalog routes
		catalogRoutes := v1.Group("/catalog")
		{
			catalogRoutes.GET("/products", catalogHandler.GetProducts)
			catalogRoutes.GET("/products/:id", catalogHandler.GetProduct)
			catalogRoutes.GET("/products/:id/accessories", catalogHandler.GetProductAccessories)
			catalogRoutes.GET("/accessories", catalogHandler.GetAccessories)
			catalogRoutes.GET("/accessories/:id", catalogHandler.GetAccessory)
		}

		// Recommendation routes
		v1.GET("/quiz", recommendationHandler.GetQuiz)
		v1.POST("/quiz/match", recommendationHandler.Match)
		v1.GET("/calculator/presets", recommendationHandler.GetPresets)
		v1.POST("/calculator/size", recommendationHandler.Size)
		v1.POST("/content/recommendations", recommendationHandler.ContentRecommendations)

		// Blog routes
		blog := v1.Group("/blog")
		{
			blog.GET("", blogHandler.GetArticles)
			blog.GET("/:slug", blogHandler.GetArticle)
			blog.GET("/:slug/recommendations", blogHandler.GetArticleRecommendations)
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.CartRateLimit())
		{
			cart.POST("", cartHandler.CreateCart)
			cart.GET("/:id", cartHandler.GetCart)
			cart.POST("/:id/items", cartHandler.AddItem)
			cart.POST("/:id/bundles", cartHandler.AddBundle)
		}

		// Warranty routes
		warranty := v1.Group("/warranty")
		{
			warranty.POST("", middleware.FormRateLimit(), warrantyHandler.Register)
			warranty.GET("/:serial", warrantyHandler.Lookup)
		}

		// Lead capture
		v1.POST("/leads", middleware.FormRateLimit(), leadHandler.CreateLead)
		v1.POST("/feedback", middleware.FormRateLimit(), leadHandler.CreateFeedback)

		// Admin authentication
		adminAuth := v1.Group("/admin/auth")
		{
			adminAuth.POST("/login", middleware.LoginRateLimit(), authHandler.Login)
			adminAuth.GET("/me", middleware.AdminAuthRequired(), authHandler.GetProfile)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(
			middleware.AdminAuthRequired(),
			middleware.RoleRequired(models.AdminRoleAdmin, models.AdminRoleEditor),
			middleware.AuditLogMiddleware(db),
		)
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)

			// Lead management
			adminLeads := admin.Group("/leads")
			{
				adminLeads.GET("", adminHandler.GetLeads)
				adminLeads.PUT("/:id/status", adminHandler.UpdateLeadStatus)
				adminLeads.GET("/export", middleware.RoleRequired(models.AdminRoleAdmin), adminHandler.ExportLeads)
			}

			// Feedback management
			adminFeedback := admin.Group("/feedback")
			{
				adminFeedback.GET("", adminHandler.GetFeedback)
				adminFeedback.PUT("/:id/status", adminHandler.UpdateFeedbackStatus)
				adminFeedback.GET("/export", middleware.RoleRequired(models.AdminRoleAdmin), adminHandler.ExportFeedback)
			}

			// Warranty registrations carry customer contact details
			admin.GET("/warranty", middleware.RoleRequired(models.AdminRoleAdmin), adminHandler.GetWarranties)
		}
	}

	// Locally stored receipts
	if cfg.AWS.AccessKeyID == "" && cfg.AWS.LocalUploadDir != "" && !cfg.IsProduction() {
		r.Static("/uploads", cfg.AWS.LocalUploadDir)
	}

	return r
}
