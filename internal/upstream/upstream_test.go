package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortly-analytics/internal/models"
)

func TestShortenSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/shorten", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://example.com", body["long_url"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"short_code":"xYz9","short_url":"http://localhost:8000/xYz9","long_url":"https://example.com"}`))
	}))
	defer server.Close()

	client := NewShortenerClient(server.URL+"/", time.Second)
	result, err := client.Shorten(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "xYz9", result.ShortCode)
	assert.Equal(t, "http://localhost:8000/xYz9", result.ShortURL)
}

func TestShortenFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "error status is reported",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"bad url"}`, http.StatusUnprocessableEntity)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "missing short code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"long_url":"https://example.com"}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewShortenerClient(server.URL, 100*time.Millisecond)
			result, err := client.Shorten(context.Background(), "https://example.com")
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrUnavailable)

			var upErr *Error
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.wantStatus, upErr.StatusCode)
		})
	}
}

func TestShortenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewShortenerClient(url, time.Second).Shorten(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrUnavailable)

	var upErr *Error
	require.True(t, errors.As(err, &upErr))
	assert.Zero(t, upErr.StatusCode)
}

func TestFetchMetadataSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/metadata", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "xYz9", body["short_code"])
		assert.Equal(t, "https://example.com", body["long_url"])

		w.Write([]byte(`{"status":"success","title":"Example Domain","description":"Illustrative","favicon_url":"https://example.com/favicon.ico"}`))
	}))
	defer server.Close()

	metadata := NewMetadataClient(server.URL, time.Second).FetchMetadata(context.Background(), "xYz9", "https://example.com")
	assert.True(t, metadata.Succeeded())
	require.NotNil(t, metadata.Title)
	assert.Equal(t, "Example Domain", *metadata.Title)
	require.NotNil(t, metadata.FaviconURL)
	assert.Equal(t, "https://example.com/favicon.ico", *metadata.FaviconURL)
}

func TestFetchMetadataDegrades(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("oops"))
			},
		},
		{
			name: "no status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"title":"x"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			metadata := NewMetadataClient(server.URL, 100*time.Millisecond).
				FetchMetadata(context.Background(), "xYz9", "https://example.com")
			assert.Equal(t, models.UnavailableMetadata(), metadata)
		})
	}
}

func TestFetchMetadataPassesThroughNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error"}`))
	}))
	defer server.Close()

	metadata := NewMetadataClient(server.URL, time.Second).FetchMetadata(context.Background(), "xYz9", "https://example.com")
	assert.Equal(t, "error", metadata.Status)
	assert.False(t, metadata.Succeeded())
}
