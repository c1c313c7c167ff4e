package domain

import (
	"fmt"
	"time"
)

// TicketEvent classifies a maintenance mutation for the device status
// transition table.
type TicketEvent int

const (
	// TicketOpened: a record was created with, or edited to, a
	// non-completed status.
	TicketOpened TicketEvent = iota
	// TicketClosed: a record was edited to completed.
	TicketClosed
)

// NextDeviceStatus is the device lifecycle transition table. otherOpen is the
// number of non-completed maintenance records for the device excluding the
// one that triggered the event; it is only consulted for TicketClosed.
//
//	TicketOpened, device not in_maintenance        -> in_maintenance
//	TicketClosed, device in_maintenance, no others -> active
//	anything else                                  -> unchanged
//
// Record deletion deliberately produces no event: a device can remain
// in_maintenance with zero open records, matching historical behavior.
func NextDeviceStatus(current DeviceStatus, event TicketEvent, otherOpen int) DeviceStatus {
	switch event {
	case TicketOpened:
		if current != DeviceStatusInMaintenance {
			return DeviceStatusInMaintenance
		}
	case TicketClosed:
		if current == DeviceStatusInMaintenance && otherOpen == 0 {
			return DeviceStatusActive
		}
	}
	return current
}

// ReferenceCode formats a maintenance reference. seq is the 1-based position
// of the record within its opening month.
func ReferenceCode(seq, year int) string {
	return fmt.Sprintf("REF:%02d/INF/%d", seq, year)
}

// DeriveCompletion enforces the completion-date invariant: a completed record
// keeps its existing date or gets today; any other status has none.
func DeriveCompletion(status MaintenanceStatus, existing *time.Time, today time.Time) *time.Time {
	if status != MaintenanceStatusCompleted {
		return nil
	}
	if existing != nil {
		return existing
	}
	d := today
	return &d
}

// DiffDevice returns one history entry per tracked field that differs between
// before and after, in a fixed order. IDs and timestamps are left for the
// repository to assign.
func DiffDevice(before, after *Device, actor string) []*HistoryEntry {
	var entries []*HistoryEntry

	add := func(kind ChangeKind, prev, next string) {
		if prev == next {
			return
		}
		entries = append(entries, &HistoryEntry{
			DeviceID:      before.ID,
			Kind:          kind,
			PreviousValue: prev,
			NewValue:      next,
			Actor:         actor,
			Note:          fmt.Sprintf("%s: %q -> %q", kind, prev, next),
		})
	}

	add(ChangeKindOwner, before.Assignee, after.Assignee)
	add(ChangeKindLocation, before.Location, after.Location)
	add(ChangeKindDepartment, before.Department, after.Department)
	add(ChangeKindStatus, string(before.Status), string(after.Status))

	return entries
}

// OwnershipDiff returns the ownership ledger entry for an assignee change, or
// nil when nothing is logged. A change from empty to empty is not logged.
func OwnershipDiff(before, after *Device, actor string) *OwnershipChange {
	if before.Assignee == after.Assignee {
		// covers the empty-to-empty case: nothing is logged
		return nil
	}
	return &OwnershipChange{
		DeviceID:         before.ID,
		PreviousAssignee: before.Assignee,
		NewAssignee:      after.Assignee,
		Actor:            actor,
		Note:             fmt.Sprintf("assignee %q -> %q", before.Assignee, after.Assignee),
	}
}
