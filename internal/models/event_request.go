package models

// ClickEventRequest is a click as delivered by the message bus or POST /api/events.
type ClickEventRequest struct {
	ShortCode string  `json:"short_code" binding:"required"`
	ClickedAt *string `json:"clicked_at,omitempty"` // Defaults to the time of processing
	EventID   *string `json:"event_id,omitempty"`   // Optional idempotency key
}
