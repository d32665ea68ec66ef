package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shortly-analytics/internal/database"
	"shortly-analytics/internal/entities"
	"shortly-analytics/internal/models"
)

const (
	topURLsLimit      = 10
	recentClicksLimit = 20
	statsWindow       = 24 * time.Hour
)

// ErrNotFound is returned when no url_metadata row exists for a short code
var ErrNotFound = errors.New("url metadata not found")

// AnalyticsRepository defines the interface for click and URL metadata storage
type AnalyticsRepository interface {
	RecordClick(ctx context.Context, event *entities.ClickEvent) (bool, error)
	CreateMetadataIfAbsent(ctx context.Context, metadata *entities.URLMetadata) (bool, error)
	FindByShortCode(ctx context.Context, shortCode string) (*entities.URLMetadata, error)
	GetStats(ctx context.Context, now time.Time) (*models.StatsResponse, error)
}

type analyticsRepository struct {
	db *database.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *database.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

const metadataColumns = `short_code, long_url, COALESCE(total_clicks, 0), first_seen, last_clicked,
	title, description, favicon_url, COALESCE(metadata_status, 'pending')`

// RecordClick appends a click event and bumps the matching aggregate in one
// transaction. A missing url_metadata row leaves the aggregate untouched. When the
// event carries an event_id already stored, nothing is written and false is returned.
func (r *analyticsRepository) RecordClick(ctx context.Context, event *entities.ClickEvent) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO click_events (short_code, clicked_at, event_id)
		VALUES (?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING
	`), event.ShortCode, event.ClickedAt, nullable(event.EventID))
	if err != nil {
		return false, fmt.Errorf("failed to insert click event: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if inserted == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		UPDATE url_metadata
		SET total_clicks = total_clicks + 1,
			last_clicked = ?
		WHERE short_code = ?
	`), event.ClickedAt, event.ShortCode)
	if err != nil {
		return false, fmt.Errorf("failed to update url metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit click event: %w", err)
	}
	return true, nil
}

// CreateMetadataIfAbsent inserts the row unless the short code is already known.
// An existing row is never overwritten.
func (r *analyticsRepository) CreateMetadataIfAbsent(ctx context.Context, m *entities.URLMetadata) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO url_metadata
			(short_code, long_url, total_clicks, first_seen, title, description, favicon_url, metadata_status)
		VALUES (?, ?, 0, ?, ?, ?, ?, ?)
		ON CONFLICT (short_code) DO NOTHING
	`), m.ShortCode, m.LongURL, m.FirstSeen,
		nullable(m.Title), nullable(m.Description), nullable(m.FaviconURL), string(m.MetadataStatus))
	if err != nil {
		return false, fmt.Errorf("failed to create url metadata: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// FindByShortCode returns the aggregate for one short code
func (r *analyticsRepository) FindByShortCode(ctx context.Context, shortCode string) (*entities.URLMetadata, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT `+metadataColumns+` FROM url_metadata WHERE short_code = ?`), shortCode)

	m, err := scanMetadata(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find url metadata: %w", err)
	}
	return m, nil
}

// GetStats computes the dashboard summary inside a single transaction so every
// section reflects the same snapshot.
func (r *analyticsRepository) GetStats(ctx context.Context, now time.Time) (*models.StatsResponse, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stats := &models.StatsResponse{}

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(DISTINCT short_code) FROM url_metadata`).Scan(&stats.TotalURLs); err != nil {
		return nil, fmt.Errorf("failed to count urls: %w", err)
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM click_events`).Scan(&stats.TotalClicks); err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}

	stats.TopURLs, err = r.queryMetadata(ctx, tx, fmt.Sprintf(`
		SELECT `+metadataColumns+`
		FROM url_metadata
		WHERE total_clicks > 0
		ORDER BY total_clicks DESC, short_code
		LIMIT %d
	`, topURLsLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to get top urls: %w", err)
	}

	stats.RecentClicks, err = r.recentClicks(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent clicks: %w", err)
	}

	stats.ClicksOverTime, err = r.clicksOverTime(ctx, tx, now.Add(-statsWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to get clicks over time: %w", err)
	}

	stats.AllURLs, err = r.queryMetadata(ctx, tx, `
		SELECT `+metadataColumns+`
		FROM url_metadata
		ORDER BY first_seen DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get urls: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to finish stats read: %w", err)
	}
	return stats, nil
}

func (r *analyticsRepository) queryMetadata(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]entities.URLMetadata, error) {
	rows, err := tx.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make([]entities.URLMetadata, 0)
	for rows.Next() {
		m, err := scanMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan url metadata: %w", err)
		}
		urls = append(urls, *m)
	}
	return urls, rows.Err()
}

func (r *analyticsRepository) recentClicks(ctx context.Context, tx *sql.Tx) ([]models.RecentClick, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`
		SELECT ce.short_code, ce.clicked_at, um.long_url
		FROM click_events ce
		LEFT JOIN url_metadata um ON ce.short_code = um.short_code
		ORDER BY ce.clicked_at DESC, ce.id DESC
		LIMIT %d
	`, recentClicksLimit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clicks := make([]models.RecentClick, 0)
	for rows.Next() {
		var click models.RecentClick
		var longURL sql.NullString
		if err := rows.Scan(&click.ShortCode, &click.ClickedAt, &longURL); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		click.LongURL = stringPtr(longURL)
		clicks = append(clicks, click)
	}
	return clicks, rows.Err()
}

// clicksOverTime groups clicks since `since` by hour. Stored timestamps start with
// YYYY-MM-DDTHH, so the first 13 characters are the hour bucket in every dialect.
func (r *analyticsRepository) clicksOverTime(ctx context.Context, tx *sql.Tx, since time.Time) ([]models.HourlyClicks, error) {
	rows, err := tx.QueryContext(ctx, r.db.Rebind(`
		SELECT substr(clicked_at, 1, 13) AS bucket, COUNT(*)
		FROM click_events
		WHERE clicked_at >= ?
		GROUP BY bucket
		ORDER BY bucket
	`), entities.FormatTimestamp(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]models.HourlyClicks, 0)
	for rows.Next() {
		var bucket string
		var count int64
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		buckets = append(buckets, models.HourlyClicks{Hour: formatHour(bucket), Count: count})
	}
	return buckets, rows.Err()
}

// formatHour turns "2024-03-09T10" (or "2024-03-09 10") into "2024-03-09 10:00:00".
func formatHour(bucket string) string {
	if len(bucket) == 13 && (bucket[10] == 'T' || bucket[10] == ' ') {
		return bucket[:10] + " " + bucket[11:] + ":00:00"
	}
	return strings.TrimSpace(bucket)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMetadata(row rowScanner) (*entities.URLMetadata, error) {
	var m entities.URLMetadata
	var lastClicked, title, description, faviconURL sql.NullString
	var status string

	err := row.Scan(
		&m.ShortCode,
		&m.LongURL,
		&m.TotalClicks,
		&m.FirstSeen,
		&lastClicked,
		&title,
		&description,
		&faviconURL,
		&status,
	)
	if err != nil {
		return nil, err
	}

	m.LastClicked = stringPtr(lastClicked)
	m.Title = stringPtr(title)
	m.Description = stringPtr(description)
	m.FaviconURL = stringPtr(faviconURL)
	m.MetadataStatus = entities.MetadataStatus(status)
	return &m, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
