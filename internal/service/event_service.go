package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shortly-analytics/internal/entities"
	"shortly-analytics/internal/logging"
	"shortly-analytics/internal/metrics"
	"shortly-analytics/internal/models"
	"shortly-analytics/internal/repository"
)

// Ingestion paths, used as the source label of processed events
const (
	SourceFeed = "feed"
	SourceHTTP = "http"
)

// EventService records click events coming from the message feed or the HTTP fallback
type EventService interface {
	ProcessClick(ctx context.Context, source string, req *models.ClickEventRequest) error
}

type eventService struct {
	repo repository.AnalyticsRepository
	now  func() time.Time
}

// NewEventService creates a new event service
func NewEventService(repo repository.AnalyticsRepository) EventService {
	return &eventService{
		repo: repo,
		now:  time.Now,
	}
}

// ProcessClick stores one click and bumps the URL aggregate. Clicks for unknown
// short codes are still recorded. Both ingestion paths may deliver the same click;
// only events carrying the same event_id are collapsed.
func (s *eventService) ProcessClick(ctx context.Context, source string, req *models.ClickEventRequest) error {
	event, err := s.toClickEvent(req)
	if err != nil {
		metrics.RecordClickEvent(source, metrics.OutcomeInvalid)
		return err
	}

	recorded, err := s.repo.RecordClick(ctx, event)
	if err != nil {
		metrics.RecordClickEvent(source, metrics.OutcomeError)
		return fmt.Errorf("failed to process click event: %w", err)
	}

	if !recorded {
		metrics.RecordClickEvent(source, metrics.OutcomeDuplicate)
		logging.Debug().
			Str("short_code", event.ShortCode).
			Str("event_id", *event.EventID).
			Str("source", source).
			Msg("Duplicate click event ignored")
		return nil
	}

	metrics.RecordClickEvent(source, metrics.OutcomeRecorded)
	logging.Info().
		Str("short_code", event.ShortCode).
		Str("clicked_at", event.ClickedAt).
		Str("source", source).
		Msg("Processed click event")
	return nil
}

func (s *eventService) toClickEvent(req *models.ClickEventRequest) (*entities.ClickEvent, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty event", ErrInvalidRequest)
	}

	shortCode := strings.TrimSpace(req.ShortCode)
	if shortCode == "" {
		return nil, fmt.Errorf("%w: short_code is required", ErrInvalidRequest)
	}

	clickedAt := s.now()
	if req.ClickedAt != nil && strings.TrimSpace(*req.ClickedAt) != "" {
		parsed, err := entities.ParseTimestamp(*req.ClickedAt)
		if err != nil {
			logging.Warn().Err(err).Str("short_code", shortCode).Msg("Unparsable clicked_at, using current time")
		} else {
			clickedAt = parsed
		}
	}

	event := &entities.ClickEvent{
		ShortCode: shortCode,
		ClickedAt: entities.FormatTimestamp(clickedAt),
	}
	if req.EventID != nil {
		if id := strings.TrimSpace(*req.EventID); id != "" {
			event.EventID = &id
		}
	}
	return event, nil
}
