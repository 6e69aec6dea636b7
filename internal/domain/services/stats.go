package services

import (
	"context"

	"nexusops/internal/domain/models"
)

// StatsService exposes the dashboard counters
type StatsService interface {
	GetStats(ctx context.Context) (*models.StatsSnapshot, error)
}
