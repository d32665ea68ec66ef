package service

import (
	"context"
	"time"

	"shortly-analytics/internal/entities"
	"shortly-analytics/internal/models"
	"shortly-analytics/internal/repository"
)

// StatsService serves the read-only dashboard summary
type StatsService interface {
	GetStats(ctx context.Context) (*models.StatsResponse, error)
	GetURL(ctx context.Context, shortCode string) (*entities.URLMetadata, error)
}

type statsService struct {
	repo repository.AnalyticsRepository
	now  func() time.Time
}

func NewStatsService(repo repository.AnalyticsRepository) StatsService {
	return &statsService{repo: repo, now: time.Now}
}

func (s *statsService) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	return s.repo.GetStats(ctx, s.now())
}

// GetURL returns repository.ErrNotFound for unknown short codes
func (s *statsService) GetURL(ctx context.Context, shortCode string) (*entities.URLMetadata, error) {
	return s.repo.FindByShortCode(ctx, shortCode)
}
