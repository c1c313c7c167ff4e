package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"quartermaster/internal/domain"
)

const deviceColumns = `id, serial_number, name, device_type, status, assignee,
       department, location, notes, acquired_on, created_at, updated_at`

type DeviceRepo struct {
	db querier
}

func (r *DeviceRepo) Create(ctx context.Context, d *domain.Device) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO devices (serial_number, name, device_type, status, assignee, department, location, notes, acquired_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, d.SerialNumber, d.Name, d.Type, d.Status, d.Assignee, d.Department, d.Location, d.Notes, d.AcquiredOn).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSerial
		}
		return fmt.Errorf("insert device: %w", err)
	}
	return nil
}

func (r *DeviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	return r.get(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1`, id)
}

func (r *DeviceRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	return r.get(ctx, `SELECT `+deviceColumns+` FROM devices WHERE id = $1 FOR UPDATE`, id)
}

func (r *DeviceRepo) GetBySerial(ctx context.Context, serial string) (*domain.Device, error) {
	return r.get(ctx, `SELECT `+deviceColumns+` FROM devices WHERE serial_number = $1`, serial)
}

func (r *DeviceRepo) get(ctx context.Context, query string, arg any) (*domain.Device, error) {
	d := &domain.Device{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&d.ID, &d.SerialNumber, &d.Name, &d.Type, &d.Status, &d.Assignee,
		&d.Department, &d.Location, &d.Notes, &d.AcquiredOn, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get device: %w", err)
	}
	return d, nil
}

func (r *DeviceRepo) List(ctx context.Context, f domain.DeviceFilter) ([]*domain.Device, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}

	where, args := deviceWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM devices "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count devices: %w", err)
	}

	orderCol := "created_at"
	switch f.SortBy {
	case "name", "serial_number", "status", "acquired_on", "updated_at":
		orderCol = f.SortBy
	}
	orderDir := "DESC"
	if f.SortOrder == "asc" {
		orderDir = "ASC"
	}

	offset := (f.Page - 1) * f.PerPage
	query := fmt.Sprintf(`
		SELECT %s FROM devices %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, deviceColumns, where, orderCol, orderDir, len(args)+1, len(args)+2)
	args = append(args, f.PerPage, offset)

	devices, err := r.scanDevices(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return devices, total, nil
}

func (r *DeviceRepo) ListAll(ctx context.Context, f domain.DeviceFilter) ([]*domain.Device, error) {
	where, args := deviceWhere(f)
	query := fmt.Sprintf(`SELECT %s FROM devices %s ORDER BY created_at DESC`, deviceColumns, where)
	return r.scanDevices(ctx, query, args)
}

func deviceWhere(f domain.DeviceFilter) (string, []any) {
	where := "WHERE 1=1"
	args := []any{}

	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Assignee != nil {
		args = append(args, *f.Assignee)
		where += fmt.Sprintf(" AND assignee = $%d", len(args))
	}
	if f.Type != nil {
		args = append(args, *f.Type)
		where += fmt.Sprintf(" AND device_type = $%d", len(args))
	}
	return where, args
}

func (r *DeviceRepo) scanDevices(ctx context.Context, query string, args []any) ([]*domain.Device, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	devices := []*domain.Device{}
	for rows.Next() {
		d := &domain.Device{}
		if err := rows.Scan(
			&d.ID, &d.SerialNumber, &d.Name, &d.Type, &d.Status, &d.Assignee,
			&d.Department, &d.Location, &d.Notes, &d.AcquiredOn, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *DeviceRepo) Update(ctx context.Context, d *domain.Device) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE devices
		SET serial_number = $1, name = $2, device_type = $3, status = $4,
		    assignee = $5, department = $6, location = $7, notes = $8, updated_at = NOW()
		WHERE id = $9
	`, d.SerialNumber, d.Name, d.Type, d.Status, d.Assignee, d.Department, d.Location, d.Notes, d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSerial
		}
		return fmt.Errorf("update device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DeviceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// maintenance_records, history_entries and ownership_changes go with the
	// device via ON DELETE CASCADE
	tag, err := r.db.Exec(ctx, `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DeviceRepo) CountByStatus(ctx context.Context) (map[domain.DeviceStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM devices GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.DeviceStatus]int)
	for rows.Next() {
		var status domain.DeviceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *DeviceRepo) CountByType(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT device_type, COUNT(*) FROM devices GROUP BY device_type`)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var deviceType string
		var count int
		if err := rows.Scan(&deviceType, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[deviceType] = count
	}
	return counts, rows.Err()
}
