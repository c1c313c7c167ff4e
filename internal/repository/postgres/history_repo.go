package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"quartermaster/internal/domain"
)

type HistoryRepo struct {
	db querier
}

func (r *HistoryRepo) AppendHistory(ctx context.Context, e *domain.HistoryEntry) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO history_entries (device_id, kind, previous_value, new_value, actor, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.DeviceID, e.Kind, e.PreviousValue, e.NewValue, e.Actor, e.Note).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepo) AppendOwnership(ctx context.Context, c *domain.OwnershipChange) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO ownership_changes (device_id, previous_assignee, new_assignee, actor, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, c.DeviceID, c.PreviousAssignee, c.NewAssignee, c.Actor, c.Note).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ownership change: %w", err)
	}
	return nil
}

func (r *HistoryRepo) HistoryForDevice(ctx context.Context, deviceID uuid.UUID) ([]*domain.HistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, device_id, kind, previous_value, new_value, actor, note, created_at
		FROM history_entries
		WHERE device_id = $1
		ORDER BY created_at DESC, id DESC
	`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := []*domain.HistoryEntry{}
	for rows.Next() {
		e := &domain.HistoryEntry{}
		if err := rows.Scan(&e.ID, &e.DeviceID, &e.Kind, &e.PreviousValue, &e.NewValue, &e.Actor, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *HistoryRepo) OwnershipForDevice(ctx context.Context, deviceID uuid.UUID) ([]*domain.OwnershipChange, error) {
	return r.listOwnership(ctx, `
		SELECT id, device_id, previous_assignee, new_assignee, actor, note, created_at
		FROM ownership_changes
		WHERE device_id = $1
		ORDER BY created_at DESC, id DESC
	`, deviceID)
}

func (r *HistoryRepo) ListOwnership(ctx context.Context) ([]*domain.OwnershipChange, error) {
	return r.listOwnership(ctx, `
		SELECT id, device_id, previous_assignee, new_assignee, actor, note, created_at
		FROM ownership_changes
		ORDER BY created_at DESC, id DESC
	`)
}

func (r *HistoryRepo) listOwnership(ctx context.Context, query string, args ...any) ([]*domain.OwnershipChange, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ownership changes: %w", err)
	}
	defer rows.Close()

	changes := []*domain.OwnershipChange{}
	for rows.Next() {
		c := &domain.OwnershipChange{}
		if err := rows.Scan(&c.ID, &c.DeviceID, &c.PreviousAssignee, &c.NewAssignee, &c.Actor, &c.Note, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ownership change: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}
