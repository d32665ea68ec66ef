package entities

// ClickEvent is one recorded visit of a short code. Rows are append-only.
type ClickEvent struct {
	ShortCode string  `json:"short_code"`
	ClickedAt string  `json:"clicked_at"`         // UTC, YYYY-MM-DDTHH:MM:SSZ
	EventID   *string `json:"event_id,omitempty"` // Optional producer idempotency key
}
