package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quartermaster/internal/domain"
	"quartermaster/internal/export"
)

type ExportService struct {
	store   domain.Store
	reports *ReportService
	log     *slog.Logger
	now     func() time.Time
}

func NewExportService(store domain.Store, reports *ReportService, log *slog.Logger) *ExportService {
	return &ExportService{store: store, reports: reports, log: log, now: time.Now}
}

func (s *ExportService) DevicesXLSX(ctx context.Context, filter domain.DeviceFilter) ([]byte, error) {
	devices, err := s.store.Devices().ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return export.DevicesXLSX(devices)
}

func (s *ExportService) MaintenanceXLSX(ctx context.Context, filter domain.MaintenanceFilter) ([]byte, error) {
	records, err := s.store.Maintenance().ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	devices, err := s.deviceIndex(ctx)
	if err != nil {
		return nil, err
	}
	return export.MaintenanceXLSX(records, devices)
}

func (s *ExportService) OwnershipXLSX(ctx context.Context) ([]byte, error) {
	changes, err := s.store.History().ListOwnership(ctx)
	if err != nil {
		return nil, err
	}
	devices, err := s.deviceIndex(ctx)
	if err != nil {
		return nil, err
	}
	return export.OwnershipXLSX(changes, devices)
}

func (s *ExportService) MaintenanceReportPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	record, err := s.store.Maintenance().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	device, err := s.store.Devices().GetByID(ctx, record.DeviceID)
	if err != nil {
		return nil, err
	}
	return export.MaintenanceReportPDF(record, device, s.now())
}

func (s *ExportService) SummaryPDF(ctx context.Context) ([]byte, error) {
	summary, err := s.reports.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return export.SummaryPDF(summary, s.now())
}

func (s *ExportService) deviceIndex(ctx context.Context) (map[uuid.UUID]*domain.Device, error) {
	devices, err := s.store.Devices().ListAll(ctx, domain.DeviceFilter{})
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]*domain.Device, len(devices))
	for _, d := range devices {
		index[d.ID] = d
	}
	return index, nil
}
