package database

import (
	"context"
	"database/sql"
	"fmt"

	"resource-center-placer/internal/distance"
)

// DistanceCacheRepository persists pairwise distances between runs so
// great-circle fallbacks computed once never need recomputing.
type DistanceCacheRepository interface {
	Get(ctx context.Context, fromID, toID int) (float64, bool, error)
	GetAll(ctx context.Context) ([]distance.Entry, error)
	SetBatch(ctx context.Context, entries []distance.Entry) error
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

type distanceCacheRepository struct {
	db *sql.DB
}

func (r *distanceCacheRepository) Get(ctx context.Context, fromID, toID int) (float64, bool, error) {
	query := `SELECT meters FROM distance_cache WHERE from_id = ? AND to_id = ?`

	var meters float64
	err := r.db.QueryRowContext(ctx, query, fromID, toID).Scan(&meters)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get distance cache entry: %w", err)
	}

	return meters, true, nil
}

func (r *distanceCacheRepository) GetAll(ctx context.Context) ([]distance.Entry, error) {
	query := `SELECT from_id, to_id, meters FROM distance_cache`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distance cache: %w", err)
	}
	defer rows.Close()

	var entries []distance.Entry
	for rows.Next() {
		var e distance.Entry
		if err := rows.Scan(&e.FromID, &e.ToID, &e.Meters); err != nil {
			return nil, fmt.Errorf("failed to scan distance cache entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

func (r *distanceCacheRepository) SetBatch(ctx context.Context, entries []distance.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT OR REPLACE INTO distance_cache (from_id, to_id, meters) VALUES (?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.FromID, e.ToID, e.Meters); err != nil {
			return fmt.Errorf("failed to insert distance cache entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *distanceCacheRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM distance_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distance cache: %w", err)
	}
	return count, nil
}

func (r *distanceCacheRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM distance_cache`); err != nil {
		return fmt.Errorf("failed to clear distance cache: %w", err)
	}
	return nil
}
