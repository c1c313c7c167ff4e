package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"quartermaster/internal/domain"
)

type DeviceService struct {
	store domain.Store
	log   *slog.Logger
}

func NewDeviceService(store domain.Store, log *slog.Logger) *DeviceService {
	return &DeviceService{store: store, log: log}
}

type CreateDeviceInput struct {
	SerialNumber string
	Name         string
	Type         string
	Status       domain.DeviceStatus
	Assignee     string
	Department   string
	Location     string
	Notes        string
	AcquiredOn   time.Time
}

func (s *DeviceService) Create(ctx context.Context, input CreateDeviceInput) (*domain.Device, error) {
	if input.SerialNumber == "" {
		return nil, fmt.Errorf("%w: serial number is required", domain.ErrInvalidInput)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if input.Type == "" {
		return nil, fmt.Errorf("%w: type is required", domain.ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = domain.DeviceStatusActive
	}
	if !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}

	device := &domain.Device{
		SerialNumber: input.SerialNumber,
		Name:         input.Name,
		Type:         input.Type,
		Status:       input.Status,
		Assignee:     input.Assignee,
		Department:   input.Department,
		Location:     input.Location,
		Notes:        input.Notes,
		AcquiredOn:   input.AcquiredOn,
	}

	if err := s.store.Devices().Create(ctx, device); err != nil {
		return nil, err
	}

	s.log.Info("device created", "id", device.ID, "serial", device.SerialNumber)
	return device, nil
}

// Update applies a patch to a device as one transaction. Every changed
// tracked field (assignee, location, department, status) mirrors into the
// history log attributed to actor; assignee changes additionally feed the
// ownership ledger. A serial collision rejects the whole update.
func (s *DeviceService) Update(ctx context.Context, id uuid.UUID, patch domain.DevicePatch, actor string) (*domain.Device, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *patch.Status)
	}
	if patch.SerialNumber != nil && *patch.SerialNumber == "" {
		return nil, fmt.Errorf("%w: serial number cannot be empty", domain.ErrInvalidInput)
	}

	var updated *domain.Device
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		device, err := tx.Devices().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		// serial uniqueness is checked before anything else is applied
		if patch.SerialNumber != nil && *patch.SerialNumber != device.SerialNumber {
			other, err := tx.Devices().GetBySerial(ctx, *patch.SerialNumber)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if other != nil && other.ID != device.ID {
				return domain.ErrDuplicateSerial
			}
		}

		before := *device
		applyDevicePatch(device, patch)

		if err := tx.Devices().Update(ctx, device); err != nil {
			return err
		}

		for _, entry := range domain.DiffDevice(&before, device, actor) {
			if err := tx.History().AppendHistory(ctx, entry); err != nil {
				return err
			}
		}
		if change := domain.OwnershipDiff(&before, device, actor); change != nil {
			if err := tx.History().AppendOwnership(ctx, change); err != nil {
				return err
			}
		}

		updated = device
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("device updated", "id", id, "actor", actor)
	return updated, nil
}

func applyDevicePatch(d *domain.Device, p domain.DevicePatch) {
	if p.SerialNumber != nil {
		d.SerialNumber = *p.SerialNumber
	}
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.Assignee != nil {
		d.Assignee = *p.Assignee
	}
	if p.Department != nil {
		d.Department = *p.Department
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
}

// Delete removes a device together with its maintenance records, history
// entries and ownership changes.
func (s *DeviceService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		return tx.Devices().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("device deleted", "id", id)
	return nil
}

func (s *DeviceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	return s.store.Devices().GetByID(ctx, id)
}

func (s *DeviceService) List(ctx context.Context, filter domain.DeviceFilter) ([]*domain.Device, int, error) {
	return s.store.Devices().List(ctx, filter)
}

func (s *DeviceService) CountByStatus(ctx context.Context) (map[domain.DeviceStatus]int, error) {
	return s.store.Devices().CountByStatus(ctx)
}

// History returns the device's attribute audit trail, newest first.
func (s *DeviceService) History(ctx context.Context, deviceID uuid.UUID) ([]*domain.HistoryEntry, error) {
	if _, err := s.store.Devices().GetByID(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.store.History().HistoryForDevice(ctx, deviceID)
}

// Ownership returns the device's assignee ledger, newest first.
func (s *DeviceService) Ownership(ctx context.Context, deviceID uuid.UUID) ([]*domain.OwnershipChange, error) {
	if _, err := s.store.Devices().GetByID(ctx, deviceID); err != nil {
		return nil, err
	}
	return s.store.History().OwnershipForDevice(ctx, deviceID)
}
