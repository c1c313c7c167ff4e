package handlers

import (
	"log/slog"
	"net/http"

	"quartermaster/internal/api/response"
	"quartermaster/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
	log     *slog.Logger
}

func NewReportHandler(reports *service.ReportService, log *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, log: log}
}

// Summary returns fleet-wide counts and the average completion time.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
