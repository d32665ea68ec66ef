package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"shortly-analytics/internal/logging"
	"shortly-analytics/internal/metrics"
	"shortly-analytics/internal/models"
)

const metadataService = "metadata service"

// MetadataFetcher asks the metadata service to describe a freshly shortened URL.
// It never fails: any problem yields models.UnavailableMetadata().
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, shortCode, longURL string) models.Metadata
}

type metadataClient struct {
	baseURL string
	client  *http.Client
}

// NewMetadataClient talks to {baseURL}/api/metadata. Every call is bounded by timeout.
func NewMetadataClient(baseURL string, timeout time.Duration) MetadataFetcher {
	return &metadataClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (m *metadataClient) FetchMetadata(ctx context.Context, shortCode, longURL string) models.Metadata {
	start := time.Now()
	metadata, err := m.fetch(ctx, shortCode, longURL)
	metrics.ObserveUpstreamCall("metadata", err, time.Since(start))

	if err != nil {
		logging.Warn().Err(err).Str("short_code", shortCode).Msg("Metadata service unavailable")
		return models.UnavailableMetadata()
	}

	title := "N/A"
	if metadata.Title != nil {
		title = *metadata.Title
	}
	logging.Info().Str("short_code", shortCode).Str("title", title).Str("status", metadata.Status).Msg("Metadata fetched")
	return *metadata
}

func (m *metadataClient) fetch(ctx context.Context, shortCode, longURL string) (*models.Metadata, error) {
	body, err := json.Marshal(map[string]string{"short_code": shortCode, "long_url": longURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/metadata", bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Service: metadataService, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, &Error{Service: metadataService, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &Error{Service: metadataService, StatusCode: resp.StatusCode}
	}

	var metadata models.Metadata
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, &Error{Service: metadataService, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if metadata.Status == "" {
		return nil, &Error{Service: metadataService, Err: errors.New("response has no status")}
	}
	return &metadata, nil
}
