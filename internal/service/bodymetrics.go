package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/ringlog/internal/apperror"
	"github.com/sakif/ringlog/internal/metrics"
	"github.com/sakif/ringlog/internal/model"
	"github.com/sakif/ringlog/internal/repository"
)

// BodyMetricsService records weight and measurements.
type BodyMetricsService struct {
	repo    repository.MetricsRepository
	now     Clock
	metrics *metrics.Manager
	logger  *slog.Logger
}

func NewBodyMetricsService(repo repository.MetricsRepository, now Clock, m *metrics.Manager, logger *slog.Logger) *BodyMetricsService {
	return &BodyMetricsService{repo: repo, now: orSystemClock(now), metrics: m, logger: logger}
}

// List returns the newest MetricsListLimit entries.
func (s *BodyMetricsService) List(ctx context.Context, userID string) ([]model.BodyMetrics, error) {
	return s.repo.List(ctx, userID, MetricsListLimit)
}

// MetricsInput is a new entry. A nil Date means now.
type MetricsInput struct {
	Date         *time.Time
	Weight       *float64
	Measurements *model.Measurements
	Notes        string
}

func (s *BodyMetricsService) Create(ctx context.Context, userID string, in MetricsInput) (*model.BodyMetrics, error) {
	if in.Weight != nil && *in.Weight <= 0 {
		return nil, apperror.ValidationFailed("weight", "weight must be positive")
	}
	date := s.now()
	if in.Date != nil {
		date = *in.Date
	}

	m := &model.BodyMetrics{
		UserID:       userID,
		Date:         date.UTC(),
		Weight:       in.Weight,
		Measurements: in.Measurements,
		Notes:        in.Notes,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating body metrics: %w", err)
	}
	s.metrics.CounterMetricsRecorded.Inc()
	return m, nil
}

func (s *BodyMetricsService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
