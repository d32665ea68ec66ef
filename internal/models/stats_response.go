package models

import "shortly-analytics/internal/entities"

// RecentClick is a click joined to its URL; LongURL is nil for unknown short codes.
type RecentClick struct {
	ShortCode string  `json:"short_code"`
	ClickedAt string  `json:"clicked_at"`
	LongURL   *string `json:"long_url"`
}

// HourlyClicks is one bucket of the trailing 24h histogram.
type HourlyClicks struct {
	Hour  string `json:"hour"` // YYYY-MM-DD HH:00:00 UTC
	Count int64  `json:"count"`
}

// StatsResponse is the dashboard summary served by GET /api/stats
type StatsResponse struct {
	TotalURLs      int64                  `json:"total_urls"`
	TotalClicks    int64                  `json:"total_clicks"`
	TopURLs        []entities.URLMetadata `json:"top_urls"`
	RecentClicks   []RecentClick          `json:"recent_clicks"`
	ClicksOverTime []HourlyClicks         `json:"clicks_over_time"`
	AllURLs        []entities.URLMetadata `json:"all_urls"`
}
