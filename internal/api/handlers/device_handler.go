package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"quartermaster/internal/api/middleware"
	"quartermaster/internal/api/response"
	"quartermaster/internal/domain"
	"quartermaster/internal/service"
)

type DeviceHandler struct {
	devices *service.DeviceService
	log     *slog.Logger
}

func NewDeviceHandler(devices *service.DeviceService, log *slog.Logger) *DeviceHandler {
	return &DeviceHandler{devices: devices, log: log}
}

type createDeviceRequest struct {
	SerialNumber string `json:"serial_number"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	Assignee     string `json:"assignee"`
	Department   string `json:"department"`
	Location     string `json:"location"`
	Notes        string `json:"notes"`
	AcquiredOn   string `json:"acquired_on"`
}

func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acquiredOn := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AcquiredOn != "" {
		var err error
		acquiredOn, err = parseDate(req.AcquiredOn)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "acquired_on must be YYYY-MM-DD")
			return
		}
	}

	device, err := h.devices.Create(r.Context(), service.CreateDeviceInput{
		SerialNumber: req.SerialNumber,
		Name:         req.Name,
		Type:         req.Type,
		Status:       domain.DeviceStatus(req.Status),
		Assignee:     req.Assignee,
		Department:   req.Department,
		Location:     req.Location,
		Notes:        req.Notes,
		AcquiredOn:   acquiredOn,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusCreated, device)
}

type updateDeviceRequest struct {
	SerialNumber *string `json:"serial_number"`
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Status       *string `json:"status"`
	Assignee     *string `json:"assignee"`
	Department   *string `json:"department"`
	Location     *string `json:"location"`
	Notes        *string `json:"notes"`
}

func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid device id")
		return
	}

	var req updateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := domain.DevicePatch{
		SerialNumber: req.SerialNumber,
		Name:         req.Name,
		Type:         req.Type,
		Assignee:     req.Assignee,
		Department:   req.Department,
		Location:     req.Location,
		Notes:        req.Notes,
	}
	if req.Status != nil {
		status := domain.DeviceStatus(*req.Status)
		patch.Status = &status
	}

	device, err := h.devices.Update(r.Context(), id, patch, middleware.Actor(r.Context()))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, device)
}

func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid device id")
		return
	}

	device, err := h.devices.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, device)
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := deviceFilterFromQuery(r)

	devices, total, err := h.devices.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.Paginated(w, http.StatusOK, devices, filter.Page, filter.PerPage, total)
}

func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid device id")
		return
	}

	if err := h.devices.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Count serves the dashboard's per-status device counts.
func (h *DeviceHandler) Count(w http.ResponseWriter, r *http.Request) {
	counts, err := h.devices.CountByStatus(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"total":     total,
		"by_status": counts,
	})
}

func (h *DeviceHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid device id")
		return
	}

	entries, err := h.devices.History(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, entries)
}

func (h *DeviceHandler) Ownership(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid device id")
		return
	}

	changes, err := h.devices.Ownership(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, changes)
}

func deviceFilterFromQuery(r *http.Request) domain.DeviceFilter {
	var filter domain.DeviceFilter
	filter.Page, filter.PerPage = response.ParsePagination(r)

	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status := domain.DeviceStatus(v)
		filter.Status = &status
	}
	if v := q.Get("assignee"); v != "" {
		filter.Assignee = &v
	}
	if v := q.Get("type"); v != "" {
		filter.Type = &v
	}
	filter.SortBy = q.Get("sort_by")
	filter.SortOrder = q.Get("sort_order")
	return filter
}
