package handler

import (
	"errors"
	"net/http"

	"nexusops/internal/domain"
	"nexusops/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// The claim outcomes stay distinguishable on the wire: OutOfStock maps
// to 409, LimitReached to 429, so the UI can show distinct messages.
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrOutOfStock):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrLimitReached):
		httputil.RespondError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
