package handler

import (
	"log/slog"
	"net/http"

	"nexusops/internal/domain/services"
	"nexusops/internal/httputil"
)

// StatsHandler serves the dashboard counters
type StatsHandler struct {
	statsService services.StatsService
	logger       *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService services.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// GetStats returns entity counts and the number of exhausted resources
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stats)
}
