package service

import (
	"context"

	"nexusops/internal/domain/models"
	"nexusops/internal/domain/repositories"
	"nexusops/internal/domain/services"
)

// statsService implements the StatsService interface
type statsService struct {
	statsRepo repositories.StatsRepository
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo repositories.StatsRepository) services.StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetStats(ctx context.Context) (*models.StatsSnapshot, error) {
	return s.statsRepo.Snapshot(ctx)
}
