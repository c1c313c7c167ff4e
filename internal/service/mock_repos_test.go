package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"quartermaster/internal/domain"
)

// mockStore backs the service tests with in-memory repositories. InTx runs
// the callback directly; the tests only exercise paths where the service
// rejects before writing, so rollback semantics are not simulated.
type mockStore struct {
	devices     *mockDeviceRepo
	maintenance *mockMaintenanceRepo
	history     *mockHistoryRepo
}

func newMockStore() *mockStore {
	s := &mockStore{
		devices:     newMockDeviceRepo(),
		maintenance: newMockMaintenanceRepo(),
		history:     newMockHistoryRepo(),
	}
	s.devices.maintenance = s.maintenance
	s.devices.history = s.history
	return s
}

func (s *mockStore) Devices() domain.DeviceRepository          { return s.devices }
func (s *mockStore) Maintenance() domain.MaintenanceRepository { return s.maintenance }
func (s *mockStore) History() domain.HistoryRepository         { return s.history }

func (s *mockStore) InTx(_ context.Context, fn func(domain.Tx) error) error {
	return fn(s)
}

// --- Mock Device Repository ---

type mockDeviceRepo struct {
	mu      sync.RWMutex
	devices map[uuid.UUID]*domain.Device

	// cascade targets, mirroring the ON DELETE CASCADE foreign keys
	maintenance *mockMaintenanceRepo
	history     *mockHistoryRepo
}

func newMockDeviceRepo() *mockDeviceRepo {
	return &mockDeviceRepo{devices: make(map[uuid.UUID]*domain.Device)}
}

func (m *mockDeviceRepo) Create(_ context.Context, d *domain.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.devices {
		if existing.SerialNumber == d.SerialNumber {
			return domain.ErrDuplicateSerial
		}
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	stored := *d
	m.devices[d.ID] = &stored
	return nil
}

func (m *mockDeviceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.devices[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockDeviceRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	return m.GetByID(ctx, id)
}

func (m *mockDeviceRepo) GetBySerial(_ context.Context, serial string) (*domain.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.devices {
		if d.SerialNumber == serial {
			copied := *d
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDeviceRepo) List(ctx context.Context, f domain.DeviceFilter) ([]*domain.Device, int, error) {
	devices, err := m.ListAll(ctx, f)
	return devices, len(devices), err
}

func (m *mockDeviceRepo) ListAll(_ context.Context, f domain.DeviceFilter) ([]*domain.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Device
	for _, d := range m.devices {
		if f.Status != nil && d.Status != *f.Status {
			continue
		}
		if f.Assignee != nil && d.Assignee != *f.Assignee {
			continue
		}
		if f.Type != nil && d.Type != *f.Type {
			continue
		}
		copied := *d
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockDeviceRepo) Update(_ context.Context, d *domain.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[d.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range m.devices {
		if id != d.ID && existing.SerialNumber == d.SerialNumber {
			return domain.ErrDuplicateSerial
		}
	}
	d.UpdatedAt = time.Now()
	stored := *d
	m.devices[d.ID] = &stored
	return nil
}

func (m *mockDeviceRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.devices, id)
	if m.maintenance != nil {
		m.maintenance.deleteForDevice(id)
	}
	if m.history != nil {
		m.history.deleteForDevice(id)
	}
	return nil
}

func (m *mockDeviceRepo) CountByStatus(_ context.Context) (map[domain.DeviceStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[domain.DeviceStatus]int)
	for _, d := range m.devices {
		counts[d.Status]++
	}
	return counts, nil
}

func (m *mockDeviceRepo) CountByType(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	for _, d := range m.devices {
		counts[d.Type]++
	}
	return counts, nil
}

// --- Mock Maintenance Repository ---

type mockMaintenanceRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.MaintenanceRecord
}

func newMockMaintenanceRepo() *mockMaintenanceRepo {
	return &mockMaintenanceRepo{records: make(map[uuid.UUID]*domain.MaintenanceRecord)}
}

func (m *mockMaintenanceRepo) Create(_ context.Context, r *domain.MaintenanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	stored := *r
	m.records[r.ID] = &stored
	return nil
}

func (m *mockMaintenanceRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.MaintenanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.records[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockMaintenanceRepo) List(ctx context.Context, f domain.MaintenanceFilter) ([]*domain.MaintenanceRecord, int, error) {
	records, err := m.ListAll(ctx, f)
	return records, len(records), err
}

func (m *mockMaintenanceRepo) ListAll(_ context.Context, f domain.MaintenanceFilter) ([]*domain.MaintenanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.MaintenanceRecord
	for _, r := range m.records {
		if f.DeviceID != nil && r.DeviceID != *f.DeviceID {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		copied := *r
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockMaintenanceRepo) Update(_ context.Context, r *domain.MaintenanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[r.ID]; !ok {
		return domain.ErrNotFound
	}
	r.UpdatedAt = time.Now()
	stored := *r
	m.records[r.ID] = &stored
	return nil
}

func (m *mockMaintenanceRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockMaintenanceRepo) LockReferenceMonth(_ context.Context, _ int, _ time.Month) error {
	return nil
}

func (m *mockMaintenanceRepo) CountInMonth(_ context.Context, year int, month time.Month) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.records {
		if r.OpenedOn.Year() == year && r.OpenedOn.Month() == month {
			count++
		}
	}
	return count, nil
}

func (m *mockMaintenanceRepo) CountOpenForDevice(_ context.Context, deviceID, exclude uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, r := range m.records {
		if r.DeviceID == deviceID && r.ID != exclude && r.Status != domain.MaintenanceStatusCompleted {
			count++
		}
	}
	return count, nil
}

func (m *mockMaintenanceRepo) CountByStatus(_ context.Context) (map[domain.MaintenanceStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[domain.MaintenanceStatus]int)
	for _, r := range m.records {
		counts[r.Status]++
	}
	return counts, nil
}

func (m *mockMaintenanceRepo) AverageCompletionDays(_ context.Context) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum float64
	var n int
	for _, r := range m.records {
		if r.CompletedOn == nil {
			continue
		}
		sum += r.CompletedOn.Sub(r.OpenedOn).Hours() / 24
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (m *mockMaintenanceRepo) deleteForDevice(deviceID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.records {
		if r.DeviceID == deviceID {
			delete(m.records, id)
		}
	}
}

// --- Mock History Repository ---

type mockHistoryRepo struct {
	mu        sync.RWMutex
	entries   []*domain.HistoryEntry
	ownership []*domain.OwnershipChange
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{}
}

func (m *mockHistoryRepo) AppendHistory(_ context.Context, e *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	stored := *e
	m.entries = append(m.entries, &stored)
	return nil
}

func (m *mockHistoryRepo) AppendOwnership(_ context.Context, c *domain.OwnershipChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	stored := *c
	m.ownership = append(m.ownership, &stored)
	return nil
}

func (m *mockHistoryRepo) HistoryForDevice(_ context.Context, deviceID uuid.UUID) ([]*domain.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.HistoryEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].DeviceID == deviceID {
			copied := *m.entries[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockHistoryRepo) OwnershipForDevice(_ context.Context, deviceID uuid.UUID) ([]*domain.OwnershipChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OwnershipChange
	for i := len(m.ownership) - 1; i >= 0; i-- {
		if m.ownership[i].DeviceID == deviceID {
			copied := *m.ownership[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockHistoryRepo) ListOwnership(_ context.Context) ([]*domain.OwnershipChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OwnershipChange
	for i := len(m.ownership) - 1; i >= 0; i-- {
		copied := *m.ownership[i]
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockHistoryRepo) deleteForDevice(deviceID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.entries[:0]
	for _, e := range m.entries {
		if e.DeviceID != deviceID {
			entries = append(entries, e)
		}
	}
	m.entries = entries

	ownership := m.ownership[:0]
	for _, c := range m.ownership {
		if c.DeviceID != deviceID {
			ownership = append(ownership, c)
		}
	}
	m.ownership = ownership
}
