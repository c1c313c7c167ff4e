package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type DeviceStatus string

const (
	DeviceStatusActive        DeviceStatus = "active"
	DeviceStatusInMaintenance DeviceStatus = "in_maintenance"
	DeviceStatusInactive      DeviceStatus = "inactive"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusActive, DeviceStatusInMaintenance, DeviceStatusInactive:
		return true
	}
	return false
}

type Device struct {
	ID           uuid.UUID    `json:"id"`
	SerialNumber string       `json:"serial_number"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Status       DeviceStatus `json:"status"`
	Assignee     string       `json:"assignee"`
	Department   string       `json:"department"`
	Location     string       `json:"location"`
	Notes        string       `json:"notes"`
	AcquiredOn   time.Time    `json:"acquired_on"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DevicePatch carries the fields of an edit request. Nil means "leave as is";
// a non-nil pointer is applied even when it equals the stored value (history
// entries are only emitted for actual changes).
type DevicePatch struct {
	SerialNumber *string
	Name         *string
	Type         *string
	Status       *DeviceStatus
	Assignee     *string
	Department   *string
	Location     *string
	Notes        *string
}

type DeviceFilter struct {
	Status    *DeviceStatus
	Assignee  *string
	Type      *string
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

type DeviceRepository interface {
	Create(ctx context.Context, device *Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*Device, error)
	// GetForUpdate locks the device row for the remainder of the enclosing
	// transaction, serializing concurrent mutations of the same device.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Device, error)
	GetBySerial(ctx context.Context, serial string) (*Device, error)
	List(ctx context.Context, filter DeviceFilter) ([]*Device, int, error)
	ListAll(ctx context.Context, filter DeviceFilter) ([]*Device, error)
	Update(ctx context.Context, device *Device) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[DeviceStatus]int, error)
	CountByType(ctx context.Context) (map[string]int, error)
}
