package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/desertthunder/ymport/internal/formatter"
	"github.com/desertthunder/ymport/internal/models"
	"github.com/desertthunder/ymport/internal/repositories"
	"github.com/desertthunder/ymport/internal/shared"
	"github.com/desertthunder/ymport/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ImportRun imports every playlist from a JSON export file into YouTube Music.
func (r *Runner) ImportRun(ctx context.Context, cmd *cli.Command) error {
	sourceFile := cmd.String("file")
	useJSON := cmd.Bool("json")
	reportBase := cmd.String("report")

	playlists, err := models.LoadPlaylists(sourceFile)
	if err != nil {
		return err
	}
	playlists = sanitizePlaylists(playlists)

	opts := r.importOpts(cmd)
	engine := tasks.NewImportEngine(r.youtube, opts, r.logger)

	r.logger.Info("starting import", "file", sourceFile, "playlists", len(playlists))

	repo, db := r.openHistory()
	if db != nil {
		defer db.Close()
	}

	run := models.NewImportRun(0, sourceFile)
	if repo != nil {
		if err := repo.Create(run); err != nil {
			r.logger.Warn("could not record run, history disabled", "error", err)
			repo = nil
		}
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ListRemote:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.BeginPlaylist:
				r.writePlain("\n🎵 %s\n", update.Message)
			case tasks.DeletePlaylist, tasks.CreatePlaylist, tasks.ReusePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.AddTrack, tasks.SkipTrack, tasks.FailTrack:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, runErr := engine.ImportAll(ctx, playlists, progressCh)
	close(progressCh)
	<-done

	if repo != nil && result != nil {
		r.finalizeRun(repo, run, result, runErr)
	}

	if result != nil {
		if useJSON {
			if err := r.writeJSON(result, true); err != nil {
				return err
			}
		} else {
			r.writePlain("\n")
			r.writePlainHeader("Import Complete")
			r.writePlain("%s", formatter.RunResultToText(result))
		}

		if reportBase != "" {
			report, err := formatter.WriteRunReport(result, reportBase)
			if err != nil {
				r.logger.Error("failed to write report files", "error", err)
			} else {
				r.writePlain("\nReport written to %s\n", report.ReportFile)
				if report.FailuresFile != "" {
					r.writePlain("Failures written to %s\n", report.FailuresFile)
				}
			}
		}
	}

	return runErr
}

// ImportValidate parses an export file and prints its contents without importing.
func (r *Runner) ImportValidate(ctx context.Context, cmd *cli.Command) error {
	sourceFile := cmd.String("file")
	useJSON := cmd.Bool("json")

	playlists, err := models.LoadPlaylists(sourceFile)
	if err != nil {
		return err
	}
	playlists = sanitizePlaylists(playlists)

	invalid := 0
	for _, pl := range playlists {
		if err := pl.Validate(); err != nil {
			r.logger.Warn("invalid playlist", "name", pl.Name, "error", err)
			invalid++
		}
		for _, tr := range pl.Tracks {
			if err := tr.Validate(); err != nil {
				r.logger.Warn("invalid track", "playlist", pl.Name, "error", err)
				invalid++
			}
		}
	}

	if useJSON {
		return r.writeJSON(playlists, true)
	}

	r.writePlain("%s", formatter.PlaylistsToText(playlists))
	if invalid > 0 {
		r.writePlain("⚠ %d invalid entries would be counted as failed\n", invalid)
	} else {
		r.writePlain("✓ File is valid\n")
	}
	return nil
}

// configOpts builds engine options from the configured import defaults.
// Both the import command and the TUI start from these.
func (r *Runner) configOpts() tasks.ImportOpts {
	return tasks.ImportOpts{
		AllowDuplicates: r.config.Import.AllowDuplicates,
		DeleteExisting:  r.config.Import.DeleteExisting,
		TrackDelay:      time.Duration(r.config.Import.APIDelaySeconds * float64(time.Second)),
		MaxRetries:      r.config.Import.MaxRetries,
	}
}

// importOpts merges config defaults with per-invocation flags.
func (r *Runner) importOpts(cmd *cli.Command) tasks.ImportOpts {
	opts := r.configOpts()

	if cmd.Bool("allow-duplicates") {
		opts.AllowDuplicates = true
	}
	if cmd.Bool("delete-existing") {
		opts.DeleteExisting = true
	}
	if delay := cmd.Float("delay"); delay >= 0 {
		opts.TrackDelay = time.Duration(delay * float64(time.Second))
	}
	if retries := cmd.Int("retries"); retries > 0 {
		opts.MaxRetries = retries
	}

	return opts
}

// openHistory opens the run history database, running migrations if needed.
// Returns nil when the database is unavailable; imports proceed without history.
func (r *Runner) openHistory() (*repositories.ImportRepository, *sql.DB) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
		return nil, nil
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		r.logger.Warn("run history unavailable", "error", err)
		db.Close()
		return nil, nil
	}

	return repositories.NewImportRepository(db), db
}

// finalizeRun persists the terminal state of an import run.
func (r *Runner) finalizeRun(repo *repositories.ImportRepository, run *models.ImportRun, result *tasks.RunResult, runErr error) {
	switch {
	case runErr == nil:
		run.SetStatus(models.RunStatusCompleted)
	case result.Aborted:
		run.SetStatus(models.RunStatusAborted)
	default:
		run.SetStatus(models.RunStatusFailed)
	}
	if runErr != nil {
		run.SetErrorMessage(runErr.Error())
	}

	run.SetCounters(result.Counters)
	run.SetElapsed(result.Elapsed)
	now := time.Now()
	run.SetCompletedAt(&now)

	if err := repo.Update(run); err != nil {
		r.logger.Warn("failed to finalize run record", "error", err)
		return
	}

	failures := make([]models.ImportFailure, len(result.Failures))
	for i, f := range result.Failures {
		failures[i] = models.ImportFailure{
			PlaylistName: f.PlaylistName,
			TrackName:    f.TrackName,
			Artist:       f.Artist,
			Reason:       f.Reason,
		}
	}
	if err := repo.RecordFailures(run.ID(), failures); err != nil {
		r.logger.Warn("failed to record track failures", "error", err)
	}
}

// sanitizePlaylists strips characters the remote service rejects from
// playlist names.
func sanitizePlaylists(playlists []models.Playlist) []models.Playlist {
	out := make([]models.Playlist, len(playlists))
	for i, pl := range playlists {
		pl.Name = models.SanitizeName(pl.Name)
		out[i] = pl
	}
	return out
}
