package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cartshield/cartshield/internal/api/handlers"
	"github.com/cartshield/cartshield/internal/api/middleware"
	"github.com/cartshield/cartshield/internal/config"
	"github.com/cartshield/cartshield/internal/fraud"
	"github.com/cartshield/cartshield/internal/ipqs"
	"github.com/cartshield/cartshield/internal/metrics"
	"github.com/cartshield/cartshield/internal/models"
	"github.com/cartshield/cartshield/internal/services"
)

// Register wires up API and storefront routes and performs automatic
// migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.FraudSettings{},
		&models.Customer{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderNote{},
		&models.OrderAttribute{},
		&models.FraudDecision{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Services
	settingsService := services.NewSettingsService(db)
	orderService := services.NewOrderService(db)
	reportService := services.NewReportService(db)
	decisionService := services.NewDecisionService(db)
	notificationService := services.NewNotificationService(db)
	authService := services.NewAuthService(db, cfg)

	// Reputation client and engine. The key is resolved per call so admin
	// edits apply without a restart.
	if _, err := settingsService.Settings(); err != nil {
		return fmt.Errorf("load fraud settings: %w", err)
	}
	apiClient := ipqs.NewClient("",
		ipqs.WithBaseURL(cfg.IPQSBaseURL),
		ipqs.WithTimeout(time.Duration(cfg.IPQSTimeoutSeconds)*time.Second),
		ipqs.WithKeyFunc(func() string {
			settings, err := settingsService.Settings()
			if err != nil {
				return ""
			}
			return settings.ApiKey
		}),
	)
	engine := fraud.NewEngine(apiClient, orderService, reportService, notificationService)
	hook := fraud.NewOrderPlacedHook(engine, settingsService, decisionService)

	fraudCheck := &middleware.FraudCheck{
		Engine:        engine,
		Settings:      settingsService,
		Decisions:     decisionService,
		Notifications: notificationService,
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	settingsHandler := handlers.NewFraudSettingsHandler(settingsService)
	orderHandler := handlers.NewOrderHandler(orderService, reportService, settingsService, engine, hook)
	decisionHandler := handlers.NewDecisionHandler(decisionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	fingerprintHandler := handlers.NewFingerprintHandler(settingsService, engine)

	router.GET("/api/v1/health", handlers.HealthHandler)

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/fraud/settings", settingsHandler.Get)
		protected.PUT("/fraud/settings", settingsHandler.Update)

		protected.GET("/fraud/orders/:id/report", orderHandler.Report)
		protected.GET("/fraud/orders/:id/notes", orderHandler.Notes)
		protected.POST("/fraud/orders/:id/approve", orderHandler.Approve)
		protected.POST("/fraud/orders/:id/reject", orderHandler.Reject)

		protected.GET("/fraud/decisions", decisionHandler.List)

		protected.GET("/fraud/notifications", notificationHandler.List)
		protected.POST("/fraud/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.GET("/fraud/providers", notificationHandler.ListProviders)
		protected.POST("/fraud/providers", notificationHandler.CreateProvider)
		protected.DELETE("/fraud/providers/:id", notificationHandler.DeleteProvider)
	}

	// Storefront surface. Every public route carries its well-known name and
	// passes through the fraud interception filter.
	registerStorefront(router, fraudCheck, orderHandler, fingerprintHandler)

	return nil
}

func registerStorefront(router *gin.Engine, fraudCheck *middleware.FraudCheck, orderHandler *handlers.OrderHandler, fingerprintHandler *handlers.FingerprintHandler) {
	check := fraudCheck.Handler()

	router.GET(middleware.PreventFraudPath,
		middleware.RouteName(fraud.PreventFraudRouteName), check, handlers.PreventFraudHandler)

	store := router.Group("/store")

	page := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"page":    name,
				"flagged": c.GetBool(middleware.FraudFlaggedKey),
			})
		}
	}

	// the route name must be tagged before the check runs
	store.GET("/", middleware.RouteName("HomePage"), check, page("HomePage"))
	store.GET("/login", middleware.RouteName("Login"), check, page("Login"))
	store.POST("/register", middleware.RouteName("Register"), check, page("Register"))
	store.POST("/customer/info", middleware.RouteName("CustomerInfo"), check, page("CustomerInfo"))
	store.GET("/cart", middleware.RouteName("ShoppingCart"), check, page("ShoppingCart"))
	store.GET("/checkout", middleware.RouteName("Checkout"), check, page("Checkout"))
	store.POST("/checkout/confirm", middleware.RouteName("CheckoutConfirm"), check, orderHandler.Place)
	store.GET("/fingerprint", fingerprintHandler.Get)
}
