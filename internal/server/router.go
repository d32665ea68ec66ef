package server

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shortly-analytics/internal/config"
	"shortly-analytics/internal/controllers"
	"shortly-analytics/internal/metrics"
	"shortly-analytics/internal/middleware"
	"shortly-analytics/internal/service"
	"shortly-analytics/internal/web"
)

// Services are the operations the HTTP surface exposes
type Services struct {
	Events   service.EventService
	Creation service.CreationService
	Stats    service.StatsService
}

// NewRouter assembles the HTTP surface of the analytics dashboard.
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	dashboardController := controllers.NewDashboardController(svc.Creation, svc.Stats)
	eventsController := controllers.NewEventsController(svc.Events)
	qrcodeController := controllers.NewQRCodeController(svc.Stats, cfg.ShortURLBase)

	createRateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitCreateRPS), cfg.RateLimitCreateBurst)

	router := gin.New()
	router.Use(middleware.Recovery(), middleware.RequestID(), middleware.RequestLogger())
	router.SetHTMLTemplate(web.Templates())

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/", dashboardController.Dashboard)
	router.POST("/create", createRateLimiter.LimitMiddleware(), dashboardController.CreateShortURL)

	api := router.Group("/api")
	{
		// Clicks are never rate limited: the shortening service reports all of them from one address
		api.POST("/events", eventsController.ReceiveEvent)
		api.GET("/stats", dashboardController.GetStats)
		api.GET("/qrcode/:shortCode", qrcodeController.GenerateQRCode)
	}

	return router
}
