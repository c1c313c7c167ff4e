package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"quartermaster/internal/api/response"
	"quartermaster/internal/domain"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// writeServiceError maps domain errors onto HTTP status codes. Anything
// unrecognized is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrDuplicateSerial):
		response.Error(w, http.StatusConflict, "serial number already in use")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, "unauthorized")
	default:
		log.Error("request failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
