package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortly-analytics/internal/database/databasetest"
	"shortly-analytics/internal/entities"
	"shortly-analytics/internal/models"
	"shortly-analytics/internal/repository"
)

func strPtr(s string) *string { return &s }

func TestProcessClick(t *testing.T) {
	db := databasetest.New(t)
	repo := repository.NewAnalyticsRepository(db)
	svc := NewEventService(repo).(*eventService)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 10, 5, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := repo.CreateMetadataIfAbsent(ctx, &entities.URLMetadata{
		ShortCode: "abc123", LongURL: "https://example.com", FirstSeen: "2024-03-09T09:00:00Z",
		MetadataStatus: entities.MetadataFailed,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ProcessClick(ctx, SourceHTTP, &models.ClickEventRequest{ShortCode: "abc123"}))
	require.NoError(t, svc.ProcessClick(ctx, SourceFeed, &models.ClickEventRequest{
		ShortCode: "abc123",
		ClickedAt: strPtr("2024-03-09T12:40:00+02:00"),
	}))

	m, err := repo.FindByShortCode(ctx, "abc123")
	require.NoError(t, err)
	assert.EqualValues(t, 2, m.TotalClicks)
	require.NotNil(t, m.LastClicked)
	assert.Equal(t, "2024-03-09T10:40:00Z", *m.LastClicked)

	assert.EqualValues(t, 1, databasetest.Count(t, db,
		"SELECT COUNT(*) FROM click_events WHERE clicked_at = ?", "2024-03-09T10:05:00Z"),
		"missing clicked_at defaults to now")
}

func TestProcessClickUnknownShortCode(t *testing.T) {
	db := databasetest.New(t)
	svc := NewEventService(repository.NewAnalyticsRepository(db))

	err := svc.ProcessClick(context.Background(), SourceFeed, &models.ClickEventRequest{ShortCode: "nobody"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, databasetest.Count(t, db, "SELECT COUNT(*) FROM click_events WHERE short_code = ?", "nobody"))
}

func TestProcessClickRejectsInvalidEvents(t *testing.T) {
	db := databasetest.New(t)
	svc := NewEventService(repository.NewAnalyticsRepository(db))

	tests := []struct {
		name string
		req  *models.ClickEventRequest
	}{
		{name: "nil", req: nil},
		{name: "missing short code", req: &models.ClickEventRequest{}},
		{name: "blank short code", req: &models.ClickEventRequest{ShortCode: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ProcessClick(context.Background(), SourceHTTP, tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	assert.Zero(t, databasetest.Count(t, db, "SELECT COUNT(*) FROM click_events"))
}

func TestProcessClickUnparsableTimestampUsesNow(t *testing.T) {
	db := databasetest.New(t)
	svc := NewEventService(repository.NewAnalyticsRepository(db)).(*eventService)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 10, 5, 0, 0, time.UTC) }

	require.NoError(t, svc.ProcessClick(context.Background(), SourceHTTP,
		&models.ClickEventRequest{ShortCode: "abc", ClickedAt: strPtr("yesterday")}))

	assert.EqualValues(t, 1, databasetest.Count(t, db,
		"SELECT COUNT(*) FROM click_events WHERE short_code = ? AND clicked_at = ?", "abc", "2024-03-09T10:05:00Z"))
}

func TestProcessClickIdempotencyKey(t *testing.T) {
	db := databasetest.New(t)
	svc := NewEventService(repository.NewAnalyticsRepository(db))
	ctx := context.Background()

	req := &models.ClickEventRequest{ShortCode: "abc", EventID: strPtr(" evt-42 ")}
	require.NoError(t, svc.ProcessClick(ctx, SourceFeed, req))
	require.NoError(t, svc.ProcessClick(ctx, SourceHTTP, req))

	assert.EqualValues(t, 1, databasetest.Count(t, db, "SELECT COUNT(*) FROM click_events WHERE event_id = ?", "evt-42"))

	// blank ids are treated as absent
	blank := &models.ClickEventRequest{ShortCode: "abc", EventID: strPtr("")}
	require.NoError(t, svc.ProcessClick(ctx, SourceFeed, blank))
	require.NoError(t, svc.ProcessClick(ctx, SourceHTTP, blank))
	assert.EqualValues(t, 3, databasetest.Count(t, db, "SELECT COUNT(*) FROM click_events"))
}

func TestProcessClickPropagatesStorageErrors(t *testing.T) {
	db := databasetest.New(t)
	svc := NewEventService(repository.NewAnalyticsRepository(db))
	require.NoError(t, db.Close())

	err := svc.ProcessClick(context.Background(), SourceFeed, &models.ClickEventRequest{ShortCode: "abc"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
}
