package models

// CreateURLRequest is the body of POST /create. Form-encoded and JSON bodies are both accepted.
type CreateURLRequest struct {
	LongURL string `form:"long_url" json:"long_url"`
}
