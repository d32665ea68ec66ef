package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortly-analytics/internal/logging"
	"shortly-analytics/internal/models"
	"shortly-analytics/internal/service"
	"shortly-analytics/internal/upstream"
)

type DashboardController struct {
	creationService service.CreationService
	statsService    service.StatsService
}

func NewDashboardController(creationService service.CreationService, statsService service.StatsService) *DashboardController {
	return &DashboardController{
		creationService: creationService,
		statsService:    statsService,
	}
}

// Dashboard handles GET / - renders the dashboard page
func (dc *DashboardController) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", nil)
}

// CreateShortURL handles POST /create - shortens a URL through the shortening service
func (dc *DashboardController) CreateShortURL(c *gin.Context) {
	var req models.CreateURLRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	response, err := dc.creationService.CreateShortURL(c.Request.Context(), req.LongURL)
	if err != nil {
		var upErr *upstream.Error
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "URL is required",
			})
		case errors.As(err, &upErr) && upErr.StatusCode >= http.StatusBadRequest:
			c.JSON(upErr.StatusCode, gin.H{
				"error": "Failed to create short URL",
			})
		case errors.Is(err, upstream.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Shortening service unavailable",
			})
		default:
			logging.Error().Err(err).Msg("Failed to create short URL")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to store short URL",
			})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetStats handles GET /api/stats - returns the dashboard summary
func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.statsService.GetStats(c.Request.Context())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load statistics")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load statistics",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
