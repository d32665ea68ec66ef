package models

const MetadataStatusSuccess = "success"
const MetadataStatusUnavailable = "unavailable"

// Metadata is what the metadata service reported for a new short URL, or the
// unavailable placeholder when the call failed.
type Metadata struct {
	Status      string  `json:"status"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	FaviconURL  *string `json:"favicon_url,omitempty"`
}

// Succeeded reports whether the metadata service returned a usable payload.
func (m Metadata) Succeeded() bool {
	return m.Status == MetadataStatusSuccess
}

// UnavailableMetadata is returned whenever the metadata service could not be used.
func UnavailableMetadata() Metadata {
	return Metadata{Status: MetadataStatusUnavailable}
}

// CreateURLResponse represents the response after creating a short URL
type CreateURLResponse struct {
	ShortCode string   `json:"short_code"`
	ShortURL  string   `json:"short_url,omitempty"` // As reported by the shortening service
	LongURL   string   `json:"long_url"`
	Metadata  Metadata `json:"metadata"`
}
