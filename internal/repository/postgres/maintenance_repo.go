package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quartermaster/internal/domain"
)

const maintenanceColumns = `id, reference, device_id, opened_on, issue, status,
       technician, resolution, cost, completed_on, notes, created_at, updated_at`

type MaintenanceRepo struct {
	db querier
}

func (r *MaintenanceRepo) Create(ctx context.Context, m *domain.MaintenanceRecord) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO maintenance_records (reference, device_id, opened_on, issue, status, technician, resolution, cost, completed_on, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, m.Reference, m.DeviceID, m.OpenedOn, m.Issue, m.Status, m.Technician,
		m.Resolution, m.Cost, m.CompletedOn, m.Notes).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert maintenance record: %w", err)
	}
	return nil
}

func (r *MaintenanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceRecord, error) {
	m := &domain.MaintenanceRecord{}
	err := r.db.QueryRow(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_records WHERE id = $1`, id).Scan(
		&m.ID, &m.Reference, &m.DeviceID, &m.OpenedOn, &m.Issue, &m.Status,
		&m.Technician, &m.Resolution, &m.Cost, &m.CompletedOn, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get maintenance record: %w", err)
	}
	return m, nil
}

func (r *MaintenanceRepo) List(ctx context.Context, f domain.MaintenanceFilter) ([]*domain.MaintenanceRecord, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}

	where, args := maintenanceWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM maintenance_records "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count maintenance records: %w", err)
	}

	orderDir := "DESC"
	if f.SortOrder == "asc" {
		orderDir = "ASC"
	}

	offset := (f.Page - 1) * f.PerPage
	query := fmt.Sprintf(`
		SELECT %s FROM maintenance_records %s
		ORDER BY opened_on %s, created_at %s
		LIMIT $%d OFFSET $%d
	`, maintenanceColumns, where, orderDir, orderDir, len(args)+1, len(args)+2)
	args = append(args, f.PerPage, offset)

	records, err := r.scanRecords(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *MaintenanceRepo) ListAll(ctx context.Context, f domain.MaintenanceFilter) ([]*domain.MaintenanceRecord, error) {
	where, args := maintenanceWhere(f)
	query := fmt.Sprintf(`
		SELECT %s FROM maintenance_records %s
		ORDER BY opened_on DESC, created_at DESC
	`, maintenanceColumns, where)
	return r.scanRecords(ctx, query, args)
}

func maintenanceWhere(f domain.MaintenanceFilter) (string, []any) {
	where := "WHERE 1=1"
	args := []any{}

	if f.DeviceID != nil {
		args = append(args, *f.DeviceID)
		where += fmt.Sprintf(" AND device_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	return where, args
}

func (r *MaintenanceRepo) scanRecords(ctx context.Context, query string, args []any) ([]*domain.MaintenanceRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list maintenance records: %w", err)
	}
	defer rows.Close()

	records := []*domain.MaintenanceRecord{}
	for rows.Next() {
		m := &domain.MaintenanceRecord{}
		if err := rows.Scan(
			&m.ID, &m.Reference, &m.DeviceID, &m.OpenedOn, &m.Issue, &m.Status,
			&m.Technician, &m.Resolution, &m.Cost, &m.CompletedOn, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan maintenance record: %w", err)
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

func (r *MaintenanceRepo) Update(ctx context.Context, m *domain.MaintenanceRecord) error {
	// reference and device_id are fixed at creation
	tag, err := r.db.Exec(ctx, `
		UPDATE maintenance_records
		SET opened_on = $1, issue = $2, status = $3, technician = $4,
		    resolution = $5, cost = $6, completed_on = $7, notes = $8, updated_at = NOW()
		WHERE id = $9
	`, m.OpenedOn, m.Issue, m.Status, m.Technician, m.Resolution, m.Cost, m.CompletedOn, m.Notes, m.ID)
	if err != nil {
		return fmt.Errorf("update maintenance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM maintenance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete maintenance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockReferenceMonth takes a transaction-scoped advisory lock for one
// reference bucket so the count-then-insert allocation cannot race. Released
// automatically at commit/rollback.
func (r *MaintenanceRepo) LockReferenceMonth(ctx context.Context, year int, month time.Month) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(year)*100+int64(month)); err != nil {
		return fmt.Errorf("lock reference month: %w", err)
	}
	return nil
}

func (r *MaintenanceRepo) CountInMonth(ctx context.Context, year int, month time.Month) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM maintenance_records
		WHERE EXTRACT(YEAR FROM opened_on) = $1 AND EXTRACT(MONTH FROM opened_on) = $2
	`, year, int(month)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count month records: %w", err)
	}
	return count, nil
}

func (r *MaintenanceRepo) CountOpenForDevice(ctx context.Context, deviceID, exclude uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM maintenance_records
		WHERE device_id = $1 AND id != $2 AND status != $3
	`, deviceID, exclude, domain.MaintenanceStatusCompleted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count open records: %w", err)
	}
	return count, nil
}

func (r *MaintenanceRepo) CountByStatus(ctx context.Context) (map[domain.MaintenanceStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM maintenance_records GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.MaintenanceStatus]int)
	for rows.Next() {
		var status domain.MaintenanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *MaintenanceRepo) AverageCompletionDays(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx, `
		SELECT AVG(completed_on - opened_on) FROM maintenance_records
		WHERE status = $1 AND completed_on IS NOT NULL
	`, domain.MaintenanceStatusCompleted).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average completion days: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
