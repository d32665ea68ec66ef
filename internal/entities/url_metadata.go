package entities

// MetadataStatus tracks whether page metadata was fetched for a short code
type MetadataStatus string

const (
	MetadataPending MetadataStatus = "pending"
	MetadataFetched MetadataStatus = "fetched"
	MetadataFailed  MetadataStatus = "failed"
)

// URLMetadata is the per-short-code aggregate. TotalClicks and LastClicked move
// with every click; the page fields are written once at creation.
type URLMetadata struct {
	ShortCode      string         `json:"short_code"`
	LongURL        string         `json:"long_url"`
	TotalClicks    int64          `json:"total_clicks"`
	FirstSeen      string         `json:"first_seen"`
	LastClicked    *string        `json:"last_clicked"`
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	FaviconURL     *string        `json:"favicon_url"`
	MetadataStatus MetadataStatus `json:"metadata_status"`
}
