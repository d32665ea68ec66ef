package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortly-analytics/internal/logging"
	"shortly-analytics/internal/models"
	"shortly-analytics/internal/service"
)

type EventsController struct {
	eventService service.EventService
}

func NewEventsController(eventService service.EventService) *EventsController {
	return &EventsController{
		eventService: eventService,
	}
}

// ReceiveEvent handles POST /api/events - the HTTP fallback for click events
func (ec *EventsController) ReceiveEvent(c *gin.Context) {
	var req models.ClickEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event data",
		})
		return
	}

	if err := ec.eventService.ProcessClick(c.Request.Context(), service.SourceHTTP, &req); err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid event data",
			})
			return
		}
		logging.Error().Err(err).Str("short_code", req.ShortCode).Msg("Error processing HTTP event")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process event",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
	})
}
