package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quartermaster/internal/api/response"
	"quartermaster/internal/domain"
	"quartermaster/internal/service"
)

type MaintenanceHandler struct {
	maintenance *service.MaintenanceService
	log         *slog.Logger
}

func NewMaintenanceHandler(maintenance *service.MaintenanceService, log *slog.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance, log: log}
}

type createMaintenanceRequest struct {
	OpenedOn   string   `json:"opened_on"`
	Issue      string   `json:"issue"`
	Status     string   `json:"status"`
	Technician string   `json:"technician"`
	Resolution string   `json:"resolution"`
	Cost       *float64 `json:"cost"`
	Notes      string   `json:"notes"`
}

// Create opens a record against the device in the URL.
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	deviceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid device id")
		return
	}

	var req createMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	openedOn, err := parseDate(req.OpenedOn)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "opened_on must be YYYY-MM-DD")
		return
	}

	record, err := h.maintenance.Create(r.Context(), service.CreateMaintenanceInput{
		DeviceID:   deviceID,
		OpenedOn:   openedOn,
		Issue:      req.Issue,
		Status:     domain.MaintenanceStatus(req.Status),
		Technician: req.Technician,
		Resolution: req.Resolution,
		Cost:       req.Cost,
		Notes:      req.Notes,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusCreated, record)
}

type updateMaintenanceRequest struct {
	OpenedOn   *string  `json:"opened_on"`
	Issue      *string  `json:"issue"`
	Status     *string  `json:"status"`
	Technician *string  `json:"technician"`
	Resolution *string  `json:"resolution"`
	Cost       *float64 `json:"cost"`
	ClearCost  bool     `json:"clear_cost"`
	Notes      *string  `json:"notes"`
}

func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var req updateMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := domain.MaintenancePatch{
		Issue:      req.Issue,
		Technician: req.Technician,
		Resolution: req.Resolution,
		Cost:       req.Cost,
		ClearCost:  req.ClearCost,
		Notes:      req.Notes,
	}
	if req.OpenedOn != nil {
		openedOn, err := parseDate(*req.OpenedOn)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "opened_on must be YYYY-MM-DD")
			return
		}
		patch.OpenedOn = &openedOn
	}
	if req.Status != nil {
		status := domain.MaintenanceStatus(*req.Status)
		patch.Status = &status
	}

	record, err := h.maintenance.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, record)
}

func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := h.maintenance.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, record)
}

func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := maintenanceFilterFromQuery(r)

	records, total, err := h.maintenance.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.Paginated(w, http.StatusOK, records, filter.Page, filter.PerPage, total)
}

func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid record id")
		return
	}

	if err := h.maintenance.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func maintenanceFilterFromQuery(r *http.Request) domain.MaintenanceFilter {
	var filter domain.MaintenanceFilter
	filter.Page, filter.PerPage = response.ParsePagination(r)

	q := r.URL.Query()
	if v := q.Get("device_id"); v != "" {
		if deviceID, err := uuid.Parse(v); err == nil {
			filter.DeviceID = &deviceID
		}
	}
	if v := q.Get("status"); v != "" {
		status := domain.MaintenanceStatus(v)
		filter.Status = &status
	}
	filter.SortOrder = q.Get("sort_order")
	return filter
}
