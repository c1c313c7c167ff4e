package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quartermaster/internal/domain"
)

type MaintenanceService struct {
	store domain.Store
	log   *slog.Logger
	now   func() time.Time
}

func NewMaintenanceService(store domain.Store, log *slog.Logger) *MaintenanceService {
	return &MaintenanceService{store: store, log: log, now: time.Now}
}

type CreateMaintenanceInput struct {
	DeviceID   uuid.UUID
	OpenedOn   time.Time
	Issue      string
	Status     domain.MaintenanceStatus
	Technician string
	Resolution string
	Cost       *float64
	Notes      string
}

// Create opens a maintenance record against an existing device. The reference
// is allocated from the record's opening month under the month's advisory
// lock, and a non-completed record moves the device to in_maintenance, all in
// one transaction.
func (s *MaintenanceService) Create(ctx context.Context, input CreateMaintenanceInput) (*domain.MaintenanceRecord, error) {
	if input.Issue == "" {
		return nil, fmt.Errorf("%w: issue description is required", domain.ErrInvalidInput)
	}
	if input.Technician == "" {
		return nil, fmt.Errorf("%w: technician is required", domain.ErrInvalidInput)
	}
	if input.OpenedOn.IsZero() {
		return nil, fmt.Errorf("%w: open date is required", domain.ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = domain.MaintenanceStatusPending
	}
	if !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}

	record := &domain.MaintenanceRecord{
		DeviceID:   input.DeviceID,
		OpenedOn:   input.OpenedOn,
		Issue:      input.Issue,
		Status:     input.Status,
		Technician: input.Technician,
		Resolution: input.Resolution,
		Cost:       input.Cost,
		Notes:      input.Notes,
	}
	record.CompletedOn = domain.DeriveCompletion(record.Status, nil, s.today())

	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		device, err := tx.Devices().GetForUpdate(ctx, input.DeviceID)
		if err != nil {
			return err
		}

		year, month := input.OpenedOn.Year(), input.OpenedOn.Month()
		if err := tx.Maintenance().LockReferenceMonth(ctx, year, month); err != nil {
			return err
		}
		seq, err := tx.Maintenance().CountInMonth(ctx, year, month)
		if err != nil {
			return err
		}
		record.Reference = domain.ReferenceCode(seq+1, year)

		if err := tx.Maintenance().Create(ctx, record); err != nil {
			return err
		}

		// one-way trigger: a completed record never touches device status
		if record.Status != domain.MaintenanceStatusCompleted {
			return s.transitionDevice(ctx, tx, device, domain.TicketOpened, 0)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("maintenance record created",
		"id", record.ID, "reference", record.Reference, "device", record.DeviceID)
	return record, nil
}

// Update edits a record and re-evaluates the device transition from the new
// status. The reference is never recomputed, even when the open date moves to
// another month.
func (s *MaintenanceService) Update(ctx context.Context, id uuid.UUID, patch domain.MaintenancePatch) (*domain.MaintenanceRecord, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *patch.Status)
	}

	var updated *domain.MaintenanceRecord
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		record, err := tx.Maintenance().GetByID(ctx, id)
		if err != nil {
			return err
		}
		device, err := tx.Devices().GetForUpdate(ctx, record.DeviceID)
		if err != nil {
			return err
		}

		applyMaintenancePatch(record, patch)
		record.CompletedOn = domain.DeriveCompletion(record.Status, record.CompletedOn, s.today())

		if err := tx.Maintenance().Update(ctx, record); err != nil {
			return err
		}

		event := domain.TicketOpened
		if record.Status == domain.MaintenanceStatusCompleted {
			event = domain.TicketClosed
		}
		otherOpen, err := tx.Maintenance().CountOpenForDevice(ctx, device.ID, record.ID)
		if err != nil {
			return err
		}
		if err := s.transitionDevice(ctx, tx, device, event, otherOpen); err != nil {
			return err
		}

		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("maintenance record updated", "id", id, "status", updated.Status)
	return updated, nil
}

func applyMaintenancePatch(m *domain.MaintenanceRecord, p domain.MaintenancePatch) {
	if p.OpenedOn != nil {
		m.OpenedOn = *p.OpenedOn
	}
	if p.Issue != nil {
		m.Issue = *p.Issue
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Technician != nil {
		m.Technician = *p.Technician
	}
	if p.Resolution != nil {
		m.Resolution = *p.Resolution
	}
	if p.Cost != nil {
		m.Cost = p.Cost
	}
	if p.ClearCost {
		m.Cost = nil
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
}

// Delete removes a record without re-evaluating device status: a device whose
// last open record is deleted stays in_maintenance. Known gap, kept from the
// original system until product says otherwise.
func (s *MaintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		return tx.Maintenance().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("maintenance record deleted", "id", id)
	return nil
}

func (s *MaintenanceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceRecord, error) {
	return s.store.Maintenance().GetByID(ctx, id)
}

func (s *MaintenanceService) List(ctx context.Context, filter domain.MaintenanceFilter) ([]*domain.MaintenanceRecord, int, error) {
	return s.store.Maintenance().List(ctx, filter)
}

func (s *MaintenanceService) transitionDevice(ctx context.Context, tx domain.Tx, device *domain.Device, event domain.TicketEvent, otherOpen int) error {
	next := domain.NextDeviceStatus(device.Status, event, otherOpen)
	if next == device.Status {
		return nil
	}
	prev := device.Status
	device.Status = next
	if err := tx.Devices().Update(ctx, device); err != nil {
		return err
	}
	s.log.Info("device status transitioned", "device", device.ID, "from", prev, "to", next)
	return nil
}

func (s *MaintenanceService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
