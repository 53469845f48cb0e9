package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"resource-center-placer/internal/models"
)

// RunRepository persists snapshots of completed optimization runs
type RunRepository interface {
	Create(ctx context.Context, params models.OptimizeParams, solution *models.Solution) (*models.Run, error)
	List(ctx context.Context, limit, offset int) ([]models.Run, int, error)
	GetByID(ctx context.Context, id int64) (*models.Run, error)
	Delete(ctx context.Context, id int64) error
}

type runRepository struct {
	db *sql.DB
}

func (r *runRepository) Create(ctx context.Context, params models.OptimizeParams, solution *models.Solution) (*models.Run, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var totalCost sql.NullFloat64
	if solution.Feasible {
		totalCost = sql.NullFloat64{Float64: solution.TotalCost, Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (k, min_separation_km, exclude_land_types, max_slope, max_rounds, seed,
		                  feasible, degraded, total_cost, rounds, candidate_count, total_points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.K, params.MinSeparationKm, strings.Join(params.ExcludeLandTypes, ","),
		params.MaxSlope, params.MaxRounds, params.Seed,
		boolToInt(solution.Feasible), boolToInt(solution.Diagnostics.Degraded), totalCost,
		solution.Diagnostics.Rounds, solution.Diagnostics.CandidateCount, solution.Diagnostics.TotalPoints,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get run id: %w", err)
	}

	centerStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_centers (run_id, position, point_id, lat, lon, land_type, slope, elevation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare center insert: %w", err)
	}
	defer centerStmt.Close()

	for i, c := range solution.Centers {
		if _, err := centerStmt.ExecContext(ctx, runID, i, c.ID, c.Lat, c.Lon, c.LandType, c.Slope, c.Elevation); err != nil {
			return nil, fmt.Errorf("failed to insert run center: %w", err)
		}
	}

	assignStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_assignments (run_id, point_id, center_id, distance_meters)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare assignment insert: %w", err)
	}
	defer assignStmt.Close()

	for _, a := range solution.Assignments {
		if _, err := assignStmt.ExecContext(ctx, runID, a.PointID, a.CenterID, a.DistanceMeters); err != nil {
			return nil, fmt.Errorf("failed to insert run assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r.GetByID(ctx, runID)
}

func (r *runRepository) List(ctx context.Context, limit, offset int) ([]models.Run, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	query := `
		SELECT id, created_at, k, min_separation_km, exclude_land_types, max_slope, max_rounds, seed,
		       feasible, degraded, total_cost, rounds, candidate_count, total_points
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, total, nil
}

func (r *runRepository) GetByID(ctx context.Context, id int64) (*models.Run, error) {
	query := `
		SELECT id, created_at, k, min_separation_km, exclude_land_types, max_slope, max_rounds, seed,
		       feasible, degraded, total_cost, rounds, candidate_count, total_points
		FROM runs WHERE id = ?
	`

	row := r.db.QueryRowContext(ctx, query, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	centerRows, err := r.db.QueryContext(ctx, `
		SELECT point_id, lat, lon, land_type, slope, elevation
		FROM run_centers WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run centers: %w", err)
	}
	defer centerRows.Close()

	for centerRows.Next() {
		var c models.Center
		if err := centerRows.Scan(&c.ID, &c.Lat, &c.Lon, &c.LandType, &c.Slope, &c.Elevation); err != nil {
			return nil, fmt.Errorf("failed to scan run center: %w", err)
		}
		run.Solution.Centers = append(run.Solution.Centers, c)
	}
	if err := centerRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	assignRows, err := r.db.QueryContext(ctx, `
		SELECT point_id, center_id, distance_meters
		FROM run_assignments WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run assignments: %w", err)
	}
	defer assignRows.Close()

	for assignRows.Next() {
		var a models.Assignment
		if err := assignRows.Scan(&a.PointID, &a.CenterID, &a.DistanceMeters); err != nil {
			return nil, fmt.Errorf("failed to scan run assignment: %w", err)
		}
		run.Solution.Assignments = append(run.Solution.Assignments, a)
	}
	if err := assignRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return run, nil
}

func (r *runRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var excludeTypes string
	var feasible, degraded int
	var totalCost sql.NullFloat64

	err := row.Scan(&run.ID, &run.CreatedAt,
		&run.Params.K, &run.Params.MinSeparationKm, &excludeTypes,
		&run.Params.MaxSlope, &run.Params.MaxRounds, &run.Params.Seed,
		&feasible, &degraded, &totalCost,
		&run.Solution.Diagnostics.Rounds, &run.Solution.Diagnostics.CandidateCount,
		&run.Solution.Diagnostics.TotalPoints)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if excludeTypes != "" {
		run.Params.ExcludeLandTypes = strings.Split(excludeTypes, ",")
	}
	run.Solution.Feasible = feasible == 1
	run.Solution.Diagnostics.Degraded = degraded == 1
	if totalCost.Valid {
		run.Solution.TotalCost = totalCost.Float64
	} else {
		run.Solution.TotalCost = models.InfeasibleCost
	}

	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
