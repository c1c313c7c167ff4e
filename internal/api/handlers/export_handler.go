package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quartermaster/internal/api/response"
	"quartermaster/internal/service"
)

type ExportHandler struct {
	exports *service.ExportService
	log     *slog.Logger
}

func NewExportHandler(exports *service.ExportService, log *slog.Logger) *ExportHandler {
	return &ExportHandler{exports: exports, log: log}
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

func (h *ExportHandler) DevicesXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.exports.DevicesXLSX(r.Context(), deviceFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeAttachment(w, data, xlsxContentType, datedFilename("devices", "xlsx"))
}

func (h *ExportHandler) MaintenanceXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.exports.MaintenanceXLSX(r.Context(), maintenanceFilterFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeAttachment(w, data, xlsxContentType, datedFilename("maintenance", "xlsx"))
}

func (h *ExportHandler) OwnershipXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.exports.OwnershipXLSX(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeAttachment(w, data, xlsxContentType, datedFilename("ownership", "xlsx"))
}

// MaintenanceReportPDF renders one record as a printable report.
func (h *ExportHandler) MaintenanceReportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid record id")
		return
	}

	data, err := h.exports.MaintenanceReportPDF(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeAttachment(w, data, pdfContentType, fmt.Sprintf("maintenance-%s.pdf", id))
}

func (h *ExportHandler) SummaryPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.exports.SummaryPDF(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeAttachment(w, data, pdfContentType, datedFilename("summary", "pdf"))
}

func writeAttachment(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func datedFilename(prefix, ext string) string {
	return fmt.Sprintf("%s-%s.%s", prefix, time.Now().Format("2006-01-02"), ext)
}
