package service

import (
	"context"
	"log/slog"

	"quartermaster/internal/domain"
)

type ReportService struct {
	store domain.Store
	log   *slog.Logger
}

func NewReportService(store domain.Store, log *slog.Logger) *ReportService {
	return &ReportService{store: store, log: log}
}

func (s *ReportService) Summary(ctx context.Context) (*domain.ReportSummary, error) {
	deviceCounts, err := s.store.Devices().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	typeCounts, err := s.store.Devices().CountByType(ctx)
	if err != nil {
		return nil, err
	}
	maintCounts, err := s.store.Maintenance().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	avgDays, err := s.store.Maintenance().AverageCompletionDays(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.ReportSummary{
		DevicesByStatus:     deviceCounts,
		DevicesByType:       typeCounts,
		MaintenanceByStatus: maintCounts,
		AvgCompletionDays:   avgDays,
	}
	for _, n := range deviceCounts {
		summary.TotalDevices += n
	}
	for _, n := range maintCounts {
		summary.TotalMaintenance += n
	}
	return summary, nil
}
