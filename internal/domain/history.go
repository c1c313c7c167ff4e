package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ChangeKind string

const (
	ChangeKindOwner      ChangeKind = "owner_changed"
	ChangeKindLocation   ChangeKind = "location_changed"
	ChangeKindDepartment ChangeKind = "department_changed"
	ChangeKindStatus     ChangeKind = "status_changed"
)

// HistoryEntry is an append-only audit row for a tracked device field change.
// Entries are never updated; they disappear only when their device is deleted.
type HistoryEntry struct {
	ID            uuid.UUID  `json:"id"`
	DeviceID      uuid.UUID  `json:"device_id"`
	Kind          ChangeKind `json:"kind"`
	PreviousValue string     `json:"previous_value"`
	NewValue      string     `json:"new_value"`
	Actor         string     `json:"actor"`
	Note          string     `json:"note"`
	CreatedAt     time.Time  `json:"created_at"`
}

// OwnershipChange is the assignee-specific audit ledger, kept separately from
// HistoryEntry for historical reporting.
type OwnershipChange struct {
	ID               uuid.UUID `json:"id"`
	DeviceID         uuid.UUID `json:"device_id"`
	PreviousAssignee string    `json:"previous_assignee"`
	NewAssignee      string    `json:"new_assignee"`
	Actor            string    `json:"actor"`
	Note             string    `json:"note"`
	CreatedAt        time.Time `json:"created_at"`
}

type HistoryRepository interface {
	AppendHistory(ctx context.Context, entry *HistoryEntry) error
	AppendOwnership(ctx context.Context, change *OwnershipChange) error
	// HistoryForDevice returns entries newest first.
	HistoryForDevice(ctx context.Context, deviceID uuid.UUID) ([]*HistoryEntry, error)
	// OwnershipForDevice returns changes newest first.
	OwnershipForDevice(ctx context.Context, deviceID uuid.UUID) ([]*OwnershipChange, error)
	ListOwnership(ctx context.Context) ([]*OwnershipChange, error)
}
