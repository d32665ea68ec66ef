package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"shortly-analytics/internal/metrics"
)

const shortenerService = "shortening service"

// ShortenResult is the shortening service's answer to POST /api/shorten
type ShortenResult struct {
	ShortCode string `json:"short_code"`
	ShortURL  string `json:"short_url,omitempty"`
	LongURL   string `json:"long_url,omitempty"`
}

// Shortener creates short codes for long URLs
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (*ShortenResult, error)
}

type shortenerClient struct {
	baseURL string
	client  *http.Client
}

// NewShortenerClient talks to {baseURL}/api/shorten. Every call is bounded by timeout.
func NewShortenerClient(baseURL string, timeout time.Duration) Shortener {
	return &shortenerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Shorten returns an *Error for any failure; the caller must not proceed without a short code.
func (s *shortenerClient) Shorten(ctx context.Context, longURL string) (result *ShortenResult, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstreamCall("shortener", err, time.Since(start)) }()

	body, err := json.Marshal(map[string]string{"long_url": longURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shorten request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/shorten", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Service: shortenerService, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &Error{Service: shortenerService, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &Error{Service: shortenerService, StatusCode: resp.StatusCode}
	}

	var out ShortenResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &Error{Service: shortenerService, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if out.ShortCode == "" {
		return nil, &Error{Service: shortenerService, Err: fmt.Errorf("response has no short_code")}
	}
	return &out, nil
}
