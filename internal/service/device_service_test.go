package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"quartermaster/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDeviceService() (*DeviceService, *mockStore) {
	store := newMockStore()
	svc := NewDeviceService(store, testLogger())
	return svc, store
}

func strPtr(s string) *string { return &s }

func deviceStatusPtr(s domain.DeviceStatus) *domain.DeviceStatus { return &s }

func TestCreateDevice_DefaultsToActive(t *testing.T) {
	svc, _ := newTestDeviceService()

	device, err := svc.Create(context.Background(), CreateDeviceInput{
		SerialNumber: "SN-001",
		Name:         "Dell Latitude",
		Type:         "laptop",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if device.Status != domain.DeviceStatusActive {
		t.Fatalf("expected active status, got %s", device.Status)
	}
	if device.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
}

func TestCreateDevice_MissingSerial(t *testing.T) {
	svc, _ := newTestDeviceService()

	_, err := svc.Create(context.Background(), CreateDeviceInput{Name: "x", Type: "laptop"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateDevice_InvalidStatus(t *testing.T) {
	svc, _ := newTestDeviceService()

	_, err := svc.Create(context.Background(), CreateDeviceInput{
		SerialNumber: "SN-001",
		Name:         "x",
		Type:         "laptop",
		Status:       "broken",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateDevice_DuplicateSerial(t *testing.T) {
	svc, _ := newTestDeviceService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateDeviceInput{SerialNumber: "SN-001", Name: "a", Type: "laptop"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Create(ctx, CreateDeviceInput{SerialNumber: "SN-001", Name: "b", Type: "laptop"})
	if !errors.Is(err, domain.ErrDuplicateSerial) {
		t.Fatalf("expected ErrDuplicateSerial, got %v", err)
	}
}

func TestUpdateDevice_EmitsHistoryPerChangedField(t *testing.T) {
	svc, _ := newTestDeviceService()
	ctx := context.Background()

	device, err := svc.Create(ctx, CreateDeviceInput{
		SerialNumber: "SN-001",
		Name:         "Dell Latitude",
		Type:         "laptop",
		Assignee:     "alice",
		Location:     "HQ-2",
		Department:   "finance",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Update(ctx, device.ID, domain.DevicePatch{
		Assignee: strPtr("bob"),
		Location: strPtr("HQ-3"),
		Status:   deviceStatusPtr(domain.DeviceStatusInactive),
	}, "admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := svc.History(ctx, device.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(entries))
	}

	kinds := make(map[domain.ChangeKind]*domain.HistoryEntry)
	for _, e := range entries {
		kinds[e.Kind] = e
		if e.Actor != "admin@example.com" {
			t.Fatalf("expected actor admin@example.com, got %q", e.Actor)
		}
	}
	if e := kinds[domain.ChangeKindOwner]; e == nil || e.PreviousValue != "alice" || e.NewValue != "bob" {
		t.Fatalf("unexpected owner entry: %+v", kinds[domain.ChangeKindOwner])
	}
	if e := kinds[domain.ChangeKindLocation]; e == nil || e.NewValue != "HQ-3" {
		t.Fatalf("unexpected location entry: %+v", kinds[domain.ChangeKindLocation])
	}
	if e := kinds[domain.ChangeKindStatus]; e == nil || e.NewValue != "inactive" {
		t.Fatalf("unexpected status entry: %+v", kinds[domain.ChangeKindStatus])
	}

	ownership, err := svc.Ownership(ctx, device.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ownership) != 1 {
		t.Fatalf("expected 1 ownership change, got %d", len(ownership))
	}
	if ownership[0].PreviousAssignee != "alice" || ownership[0].NewAssignee != "bob" {
		t.Fatalf("unexpected ownership change: %+v", ownership[0])
	}
}

func TestUpdateDevice_NoChangesNoHistory(t *testing.T) {
	svc, _ := newTestDeviceService()
	ctx := context.Background()

	device, _ := svc.Create(ctx, CreateDeviceInput{
		SerialNumber: "SN-001",
		Name:         "Dell Latitude",
		Type:         "laptop",
		Assignee:     "alice",
	})

	// same values back, plus an untracked field
	_, err := svc.Update(ctx, device.ID, domain.DevicePatch{
		Assignee: strPtr("alice"),
		Notes:    strPtr("annual check done"),
	}, "admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, _ := svc.History(ctx, device.ID)
	if len(entries) != 0 {
		t.Fatalf("expected no history entries, got %d", len(entries))
	}
	ownership, _ := svc.Ownership(ctx, device.ID)
	if len(ownership) != 0 {
		t.Fatalf("expected no ownership changes, got %d", len(ownership))
	}
}

func TestUpdateDevice_EmptyToEmptyAssignee(t *testing.T) {
	svc, _ := newTestDeviceService()
	ctx := context.Background()

	device, _ := svc.Create(ctx, CreateDeviceInput{SerialNumber: "SN-001", Name: "x", Type: "laptop"})

	_, err := svc.Update(ctx, device.ID, domain.DevicePatch{Assignee: strPtr("")}, "admin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ownership, _ := svc.Ownership(ctx, device.ID)
	if len(ownership) != 0 {
		t.Fatalf("expected no ownership changes, got %d", len(ownership))
	}
}

func TestUpdateDevice_DuplicateSerialRejected(t *testing.T) {
	svc, _ := newTestDeviceService()
	ctx := context.Background()

	svc.Create(ctx, CreateDeviceInput{SerialNumber: "SN-001", Name: "a", Type: "laptop"})
	second, _ := svc.Create(ctx, CreateDeviceInput{SerialNumber: "SN-002", Name: "b", Type: "laptop"})

	_, err := svc.Update(ctx, second.ID, domain.DevicePatch{
		SerialNumber: strPtr("SN-001"),
		Name:         strPtr("renamed"),
	}, "admin@example.com")
	if !errors.Is(err, domain.ErrDuplicateSerial) {
		t.Fatalf("expected ErrDuplicateSerial, got %v", err)
	}

	// nothing from the rejected edit sticks
	current, _ := svc.GetByID(ctx, second.ID)
	if current.SerialNumber != "SN-002" || current.Name != "b" {
		t.Fatalf("rejected update leaked changes: %+v", current)
	}
	entries, _ := svc.History(ctx, second.ID)
	if len(entries) != 0 {
		t.Fatalf("expected no history entries, got %d", len(entries))
	}
}

func TestUpdateDevice_NotFound(t *testing.T) {
	svc, _ := newTestDeviceService()

	_, err := svc.Update(context.Background(), uuid.New(), domain.DevicePatch{Name: strPtr("x")}, "admin")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDevice_CascadesRecords(t *testing.T) {
	svc, store := newTestDeviceService()
	maintSvc := NewMaintenanceService(store, testLogger())
	ctx := context.Background()

	device, _ := svc.Create(ctx, CreateDeviceInput{SerialNumber: "SN-001", Name: "x", Type: "laptop"})
	_, err := maintSvc.Create(ctx, CreateMaintenanceInput{
		DeviceID:   device.ID,
		OpenedOn:   date(2026, 3, 10),
		Issue:      "screen flicker",
		Technician: "carol",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Update(ctx, device.ID, domain.DevicePatch{Assignee: strPtr("bob")}, "admin")

	if err := svc.Delete(ctx, device.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.maintenance.records) != 0 {
		t.Fatalf("expected maintenance records removed, got %d", len(store.maintenance.records))
	}
	if len(store.history.entries) != 0 || len(store.history.ownership) != 0 {
		t.Fatal("expected history removed with device")
	}
}

func TestHistory_UnknownDevice(t *testing.T) {
	svc, _ := newTestDeviceService()

	_, err := svc.History(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
