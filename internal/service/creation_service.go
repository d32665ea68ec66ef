package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shortly-analytics/internal/entities"
	"shortly-analytics/internal/logging"
	"shortly-analytics/internal/models"
	"shortly-analytics/internal/repository"
	"shortly-analytics/internal/upstream"
)

// CreationService creates short URLs through the shortening service and records them
type CreationService interface {
	CreateShortURL(ctx context.Context, longURL string) (*models.CreateURLResponse, error)
}

type creationService struct {
	repo      repository.AnalyticsRepository
	shortener upstream.Shortener
	metadata  upstream.MetadataFetcher
	now       func() time.Time
}

// NewCreationService creates a new creation service
func NewCreationService(repo repository.AnalyticsRepository, shortener upstream.Shortener, metadata upstream.MetadataFetcher) CreationService {
	return &creationService{
		repo:      repo,
		shortener: shortener,
		metadata:  metadata,
		now:       time.Now,
	}
}

// CreateShortURL shortens longURL, enriches it on a best-effort basis and records
// the aggregate row. Only a missing URL, a failed shortening call or a storage
// failure abort; metadata problems surface as metadata_status "failed".
func (s *creationService) CreateShortURL(ctx context.Context, longURL string) (*models.CreateURLResponse, error) {
	longURL = strings.TrimSpace(longURL)
	if longURL == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrInvalidRequest)
	}

	shortened, err := s.shortener.Shorten(ctx, longURL)
	if err != nil {
		logging.Error().Err(err).Str("long_url", longURL).Msg("Error calling shortening service")
		return nil, err
	}

	metadata := s.metadata.FetchMetadata(ctx, shortened.ShortCode, longURL)

	record := &entities.URLMetadata{
		ShortCode:      shortened.ShortCode,
		LongURL:        longURL,
		FirstSeen:      entities.FormatTimestamp(s.now()),
		MetadataStatus: entities.MetadataFailed,
	}
	if metadata.Succeeded() {
		record.MetadataStatus = entities.MetadataFetched
		record.Title = metadata.Title
		record.Description = metadata.Description
		record.FaviconURL = metadata.FaviconURL
	}

	created, err := s.repo.CreateMetadataIfAbsent(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to store url metadata: %w", err)
	}
	if !created {
		logging.Warn().Str("short_code", record.ShortCode).Msg("Short code already known, keeping stored metadata")
	}

	logging.Info().
		Str("short_code", record.ShortCode).
		Str("long_url", longURL).
		Str("metadata_status", string(record.MetadataStatus)).
		Msg("Created short URL")

	return &models.CreateURLResponse{
		ShortCode: shortened.ShortCode,
		ShortURL:  shortened.ShortURL,
		LongURL:   longURL,
		Metadata:  metadata,
	}, nil
}
