package repositories

import (
	"context"

	"nexusops/internal/domain/models"
)

// StatsRepository aggregates dashboard counters across the entity tables
type StatsRepository interface {
	// Snapshot returns current entity counts and the number of
	// exhausted resources
	Snapshot(ctx context.Context) (*models.StatsSnapshot, error)
}
