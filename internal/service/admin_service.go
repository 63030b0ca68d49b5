package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/karthikrshet/nexora-share-service/internal/model"
	"github.com/karthikrshet/nexora-share-service/internal/repository"
)

const (
	defaultTopLimit    = 10
	maxTopLimit        = 50
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// AdminStatsService serves read-only aggregations for the admin dashboard.
// It never mutates the store.
type AdminStatsService struct {
	repo repository.ShareLinkRepository
	log  zerolog.Logger
}

func NewAdminStatsService(repo repository.ShareLinkRepository, log zerolog.Logger) *AdminStatsService {
	return &AdminStatsService{
		repo: repo,
		log:  log,
	}
}

func (s *AdminStatsService) Overview(ctx context.Context) (*model.ShareOverview, error) {
	total, err := s.repo.CountLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count links: %w", err)
	}

	clicks, err := s.repo.SumClicks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum clicks: %w", err)
	}

	return &model.ShareOverview{
		TotalShortLinks: total,
		TotalClicks:     clicks,
	}, nil
}

func (s *AdminStatsService) TopByClicks(ctx context.Context, limit int) ([]model.ShareLink, error) {
	return s.repo.TopByClicks(ctx, clampLimit(limit, defaultTopLimit, maxTopLimit))
}

func (s *AdminStatsService) MostRecent(ctx context.Context, limit int) ([]model.ShareLink, error) {
	return s.repo.MostRecent(ctx, clampLimit(limit, defaultRecentLimit, maxRecentLimit))
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
