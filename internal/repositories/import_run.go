package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ymport/internal/models"
	"github.com/desertthunder/ymport/internal/shared"
)

// ImportRepository implements models.Repository[*models.ImportRun] for run history.
//
// Runs are written once when an import starts and updated once when it
// finishes. Failure records are attached per run and deleted with it.
type ImportRepository struct {
	db *sql.DB
}

// NewImportRepository creates a new ImportRepository with the given database connection
func NewImportRepository(db *sql.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// Create inserts a new import run with generated ID and sequence
func (r *ImportRepository) Create(run *models.ImportRun) error {
	sequence, err := NextSequence(r.db, "imports")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	counters := run.Counters()
	query := `
		INSERT INTO imports (id, sequence, source_file, status, playlists_created, playlists_deleted, playlists_kept, tracks_added, tracks_skipped, tracks_failed, elapsed_ms, error_message, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.SourceFile(),
		run.Status(),
		counters.PlaylistsCreated,
		counters.PlaylistsDeleted,
		counters.PlaylistsKept,
		counters.TracksAdded,
		counters.TracksSkipped,
		counters.TracksFailed,
		run.Elapsed().Milliseconds(),
		run.ErrorMessage(),
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert import run: %w", err)
	}

	return nil
}

// Get retrieves an import run by ID
func (r *ImportRepository) Get(id string) (*models.ImportRun, error) {
	query := `
		SELECT id, sequence, source_file, status, playlists_created, playlists_deleted, playlists_kept, tracks_added, tracks_skipped, tracks_failed, elapsed_ms, error_message, started_at, completed_at, created_at, updated_at
		FROM imports
		WHERE id = ?
	`

	run, err := r.scanRow(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: import run %s", shared.ErrNotFound, id)
		}
		return nil, err
	}
	return run, nil
}

// Update persists the final state of a run: status, counters, elapsed time
// and completion timestamp.
func (r *ImportRepository) Update(run *models.ImportRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	counters := run.Counters()
	query := `
		UPDATE imports
		SET status = ?, playlists_created = ?, playlists_deleted = ?, playlists_kept = ?, tracks_added = ?, tracks_skipped = ?, tracks_failed = ?, elapsed_ms = ?, error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		run.Status(),
		counters.PlaylistsCreated,
		counters.PlaylistsDeleted,
		counters.PlaylistsKept,
		counters.TracksAdded,
		counters.TracksSkipped,
		counters.TracksFailed,
		run.Elapsed().Milliseconds(),
		run.ErrorMessage(),
		run.CompletedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update import run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: import run %s", shared.ErrNotFound, run.ID())
	}

	return nil
}

// Delete removes a run and its failure records
func (r *ImportRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM import_failures WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete failure records: %w", err)
	}

	result, err := tx.Exec("DELETE FROM imports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete import run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: import run %s", shared.ErrNotFound, id)
	}

	return tx.Commit()
}

// List retrieves runs matching the given criteria, newest first.
//
// Supported criteria: "status" (string), "source_file" (string),
// "limit" (int).
func (r *ImportRepository) List(criteria map[string]any) ([]*models.ImportRun, error) {
	query := `
		SELECT id, sequence, source_file, status, playlists_created, playlists_deleted, playlists_kept, tracks_added, tracks_skipped, tracks_failed, elapsed_ms, error_message, started_at, completed_at, created_at, updated_at
		FROM imports
		WHERE 1 = 1
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if sourceFile, ok := criteria["source_file"].(string); ok && sourceFile != "" {
		query += " AND source_file = ?"
		args = append(args, sourceFile)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ImportRun
	for rows.Next() {
		run, err := r.scanRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// RecordFailures inserts per-track failure records for the given run.
func (r *ImportRepository) RecordFailures(runID string, failures []models.ImportFailure) error {
	if len(failures) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO import_failures (id, run_id, playlist_name, track_name, artist, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, failure := range failures {
		id := failure.ID
		if id == "" {
			id = shared.GenerateID()
		}
		if _, err := stmt.Exec(id, runID, failure.PlaylistName, failure.TrackName, failure.Artist, failure.Reason, now); err != nil {
			return fmt.Errorf("failed to insert failure record: %w", err)
		}
	}

	return tx.Commit()
}

// Failures retrieves the failure records for a run in insertion order.
func (r *ImportRepository) Failures(runID string) ([]models.ImportFailure, error) {
	query := `
		SELECT id, run_id, playlist_name, track_name, artist, reason, created_at
		FROM import_failures
		WHERE run_id = ?
		ORDER BY rowid ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failure records: %w", err)
	}
	defer rows.Close()

	var failures []models.ImportFailure
	for rows.Next() {
		var f models.ImportFailure
		if err := rows.Scan(&f.ID, &f.RunID, &f.PlaylistName, &f.TrackName, &f.Artist, &f.Reason, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan failure record: %w", err)
		}
		failures = append(failures, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return failures, nil
}

func (r *ImportRepository) scanRow(row *sql.Row) (*models.ImportRun, error) {
	return scanImportRun(row.Scan)
}

func (r *ImportRepository) scanRows(rows *sql.Rows) (*models.ImportRun, error) {
	return scanImportRun(rows.Scan)
}

func scanImportRun(scan func(dest ...any) error) (*models.ImportRun, error) {
	var (
		id           string
		sequence     int
		sourceFile   string
		status       string
		counters     models.RunCounters
		elapsedMs    int64
		errorMessage sql.NullString
		startedAt    sql.NullTime
		completedAt  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := scan(
		&id,
		&sequence,
		&sourceFile,
		&status,
		&counters.PlaylistsCreated,
		&counters.PlaylistsDeleted,
		&counters.PlaylistsKept,
		&counters.TracksAdded,
		&counters.TracksSkipped,
		&counters.TracksFailed,
		&elapsedMs,
		&errorMessage,
		&startedAt,
		&completedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan import run: %w", err)
	}

	run := models.NewImportRun(sequence, sourceFile)
	run.SetID(id)
	run.SetStatus(status)
	run.SetCounters(counters)
	run.SetElapsed(time.Duration(elapsedMs) * time.Millisecond)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	if errorMessage.Valid {
		run.SetErrorMessage(errorMessage.String)
	}
	if startedAt.Valid {
		t := startedAt.Time
		run.SetStartedAt(&t)
	} else {
		run.SetStartedAt(nil)
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.SetCompletedAt(&t)
	}

	return run, nil
}
