package handler

import (
	"net/http"

	"nexusops/internal/httputil"
)

// HealthCheck reports process liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
