package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MaintenanceStatus string

const (
	MaintenanceStatusPending    MaintenanceStatus = "pending"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceStatusPending, MaintenanceStatusInProgress, MaintenanceStatusCompleted:
		return true
	}
	return false
}

type MaintenanceRecord struct {
	ID          uuid.UUID         `json:"id"`
	Reference   string            `json:"reference"`
	DeviceID    uuid.UUID         `json:"device_id"`
	OpenedOn    time.Time         `json:"opened_on"`
	Issue       string            `json:"issue"`
	Status      MaintenanceStatus `json:"status"`
	Technician  string            `json:"technician"`
	Resolution  string            `json:"resolution"`
	Cost        *float64          `json:"cost,omitempty"`
	CompletedOn *time.Time        `json:"completed_on,omitempty"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type MaintenancePatch struct {
	OpenedOn   *time.Time
	Issue      *string
	Status     *MaintenanceStatus
	Technician *string
	Resolution *string
	Cost       *float64
	ClearCost  bool
	Notes      *string
}

type MaintenanceFilter struct {
	DeviceID  *uuid.UUID
	Status    *MaintenanceStatus
	Page      int
	PerPage   int
	SortOrder string
}

type MaintenanceRepository interface {
	Create(ctx context.Context, record *MaintenanceRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*MaintenanceRecord, error)
	List(ctx context.Context, filter MaintenanceFilter) ([]*MaintenanceRecord, int, error)
	ListAll(ctx context.Context, filter MaintenanceFilter) ([]*MaintenanceRecord, error)
	Update(ctx context.Context, record *MaintenanceRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	// LockReferenceMonth serializes reference allocation for one calendar
	// month for the remainder of the enclosing transaction.
	LockReferenceMonth(ctx context.Context, year int, month time.Month) error
	CountInMonth(ctx context.Context, year int, month time.Month) (int, error)
	// CountOpenForDevice counts non-completed records for a device,
	// excluding the given record id (uuid.Nil excludes nothing).
	CountOpenForDevice(ctx context.Context, deviceID, exclude uuid.UUID) (int, error)
	CountByStatus(ctx context.Context) (map[MaintenanceStatus]int, error)
	AverageCompletionDays(ctx context.Context) (float64, error)
}
