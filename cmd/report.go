package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ymport/internal/formatter"
	"github.com/desertthunder/ymport/internal/models"
	"github.com/desertthunder/ymport/internal/shared"
	"github.com/urfave/cli/v3"
)

// ReportList lists recorded import runs.
func (r *Runner) ReportList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	status := cmd.String("status")
	useJSON := cmd.Bool("json")

	repo, db := r.openHistory()
	if repo == nil {
		return fmt.Errorf("%w: run history database unavailable", shared.ErrServiceUnavailable)
	}
	defer db.Close()

	criteria := map[string]any{"limit": limit}
	if status != "" {
		criteria["status"] = status
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if useJSON {
		return r.writeJSON(runsToJSON(runs), true)
	}

	r.writePlain("%s", formatter.RunsToText(runs))
	return nil
}

// ReportShow shows one run with its failure records.
func (r *Runner) ReportShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	useJSON := cmd.Bool("json")

	if id == "" {
		return fmt.Errorf("%w: run id is required", shared.ErrMissingArgument)
	}

	repo, db := r.openHistory()
	if repo == nil {
		return fmt.Errorf("%w: run history database unavailable", shared.ErrServiceUnavailable)
	}
	defer db.Close()

	run, err := repo.Get(id)
	if err != nil {
		return err
	}

	failures, err := repo.Failures(id)
	if err != nil {
		return err
	}

	if useJSON {
		payload := runToJSON(run)
		payload["failures"] = failures
		return r.writeJSON(payload, true)
	}

	r.writePlain("%s", formatter.RunDetailToText(run, failures))
	return nil
}

// runToJSON flattens a run's unexported fields for JSON output.
func runToJSON(run *models.ImportRun) map[string]any {
	c := run.Counters()
	return map[string]any{
		"id":                run.ID(),
		"sequence":          run.Sequence(),
		"source_file":       run.SourceFile(),
		"status":            run.Status(),
		"playlists_created": c.PlaylistsCreated,
		"playlists_deleted": c.PlaylistsDeleted,
		"playlists_kept":    c.PlaylistsKept,
		"tracks_added":      c.TracksAdded,
		"tracks_skipped":    c.TracksSkipped,
		"tracks_failed":     c.TracksFailed,
		"elapsed_ms":        run.Elapsed().Milliseconds(),
		"error_message":     run.ErrorMessage(),
		"started_at":        run.StartedAt(),
		"completed_at":      run.CompletedAt(),
	}
}

func runsToJSON(runs []*models.ImportRun) []map[string]any {
	out := make([]map[string]any, len(runs))
	for i, run := range runs {
		out[i] = runToJSON(run)
	}
	return out
}
