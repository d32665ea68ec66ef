package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"shortly-analytics/internal/logging"
	"shortly-analytics/internal/repository"
	"shortly-analytics/internal/service"
)

type QRCodeController struct {
	statsService service.StatsService
	baseURL      string
}

func NewQRCodeController(statsService service.StatsService, baseURL string) *QRCodeController {
	return &QRCodeController{
		statsService: statsService,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// GenerateQRCode handles GET /api/qrcode/:shortCode - PNG QR code for a known short URL
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	shortCode := c.Param("shortCode")

	if _, err := qc.statsService.GetURL(c.Request.Context(), shortCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Short URL not found",
			})
			return
		}
		logging.Error().Err(err).Str("short_code", shortCode).Msg("Failed to look up short URL")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to look up short URL",
		})
		return
	}

	// 256x256 pixels, medium error recovery
	pngData, err := qrcode.Encode(qc.baseURL+"/"+shortCode, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate QR code",
		})
		return
	}

	c.Header("Content-Disposition", "inline; filename=qrcode.png")
	c.Data(http.StatusOK, "image/png", pngData)
}
