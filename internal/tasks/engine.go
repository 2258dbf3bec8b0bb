package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymport/internal/models"
	"github.com/desertthunder/ymport/internal/services"
	"github.com/desertthunder/ymport/internal/shared"
	"golang.org/x/time/rate"
)

// ImportOpts contains configuration for an import run.
type ImportOpts struct {
	AllowDuplicates bool          // Add tracks even when already present in the playlist
	DeleteExisting  bool          // Delete a same-named remote playlist before importing
	TrackDelay      time.Duration // Pause between remote track operations (default: 1s)
	MaxRetries      int           // Total attempts per remote call on conflict (default: 3)
	RetryBaseDelay  time.Duration // First backoff interval, doubles per retry (default: 1s)
}

// ImportEngine orchestrates importing file-sourced playlists into a remote
// music library. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
type ImportEngine struct {
	client   services.LibraryClient
	retrier  *Retrier
	resolver *Resolver
	opts     ImportOpts
	logger   *log.Logger
}

// NewImportEngine creates an ImportEngine wired with retry and track
// resolution for the given client. Zero or negative option values fall
// back to defaults.
func NewImportEngine(client services.LibraryClient, opts ImportOpts, logger *log.Logger) *ImportEngine {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = time.Second
	}
	if opts.TrackDelay < 0 {
		opts.TrackDelay = 0
	}
	if logger == nil {
		logger = log.Default()
	}
	retrier := NewRetrier(opts.MaxRetries, opts.RetryBaseDelay)
	return &ImportEngine{
		client:   client,
		retrier:  retrier,
		resolver: NewResolver(client, retrier),
		opts:     opts,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ImportAll imports every playlist in order, one track at a time.
//
// Each track instance ends in exactly one of three states: added, skipped
// as a duplicate, or failed. A playlist that cannot be set up counts all
// of its tracks as failed and the run moves on. Permission errors and
// context cancellation stop the run immediately; the partial result is
// still returned alongside the error.
func (e *ImportEngine) ImportAll(ctx context.Context, playlists []models.Playlist, progress chan<- ProgressUpdate) (*RunResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: library client not initialized", shared.ErrServiceUnavailable)
	}

	result := NewRunResult()

	e.sendProgress(progress, listRemoteUpdate())

	var remote []services.RemotePlaylist
	err := e.retrier.Do(ctx, func() error {
		var listErr error
		remote, listErr = e.client.ListPlaylists(ctx)
		return listErr
	})
	if err != nil {
		result.Aborted = true
		result.Elapsed = time.Since(result.StartedAt)
		return result, fmt.Errorf("%w: failed to list library playlists: %v", shared.ErrAPIRequest, err)
	}

	var limiter *rate.Limiter
	if e.opts.TrackDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(e.opts.TrackDelay), 1)
	}

	total := len(playlists)
	for i, pl := range playlists {
		e.sendProgress(progress, beginPlaylistUpdate(i+1, total, &pl))

		outcome, err := e.syncPlaylist(ctx, i+1, total, pl, remote, limiter, progress, result)
		result.Merge(outcome)
		if err != nil {
			result.Aborted = true
			result.Elapsed = time.Since(result.StartedAt)
			return result, err
		}

		e.sendProgress(progress, finishPlaylistUpdate(i+1, total, outcome))
	}

	result.Elapsed = time.Since(result.StartedAt)
	e.sendProgress(progress, finishRunUpdate(result))
	return result, nil
}

// syncPlaylist processes one source playlist end to end. A non-nil error
// means the whole run must stop; playlist-local failures are folded into
// the outcome instead.
func (e *ImportEngine) syncPlaylist(
	ctx context.Context,
	step, total int,
	pl models.Playlist,
	remote []services.RemotePlaylist,
	limiter *rate.Limiter,
	progress chan<- ProgressUpdate,
	result *RunResult,
) (PlaylistOutcome, error) {
	outcome := PlaylistOutcome{Name: pl.Name}

	if err := pl.Validate(); err != nil {
		e.logger.Error("skipping invalid playlist", "name", pl.Name, "error", err)
		e.failRemaining(&outcome, pl.Tracks, result, err)
		outcome.Err = err.Error()
		return outcome, nil
	}

	var existing *services.RemotePlaylist
	for i := range remote {
		if remote[i].Name == pl.Name {
			existing = &remote[i]
			break
		}
	}

	if existing != nil && e.opts.DeleteExisting {
		e.sendProgress(progress, deletePlaylistUpdate(step, total, pl.Name))
		err := e.retrier.Do(ctx, func() error {
			return e.client.DeletePlaylist(ctx, existing.ID)
		})
		if err != nil {
			if errors.Is(err, shared.ErrPermissionDenied) {
				e.failRemaining(&outcome, pl.Tracks, result, err)
				outcome.Err = err.Error()
				return outcome, err
			}
			e.logger.Error("failed to delete existing playlist", "name", pl.Name, "error", err)
			e.failRemaining(&outcome, pl.Tracks, result, fmt.Errorf("delete failed: %w", err))
			outcome.Err = err.Error()
			return outcome, nil
		}
		outcome.Deleted = true
		existing = nil
	}

	var guard *DuplicateGuard
	if existing != nil {
		outcome.Reused = true
		outcome.RemoteID = existing.ID

		var seed []string
		err := e.retrier.Do(ctx, func() error {
			var tracksErr error
			seed, tracksErr = e.client.PlaylistTracks(ctx, existing.ID)
			return tracksErr
		})
		if err != nil {
			// Fall back to an empty seed; worst case some duplicates get added.
			e.logger.Warn("could not fetch existing tracks, duplicate detection degraded", "name", pl.Name, "error", err)
			seed = nil
		}
		guard = NewDuplicateGuard(seed, e.opts.AllowDuplicates)
		e.sendProgress(progress, reusePlaylistUpdate(step, total, pl.Name, guard.Known()))
	} else {
		id, err := e.createPlaylist(ctx, pl)
		if err != nil {
			if errors.Is(err, shared.ErrPermissionDenied) {
				e.failRemaining(&outcome, pl.Tracks, result, err)
				outcome.Err = err.Error()
				return outcome, err
			}
			e.logger.Error("failed to create playlist", "name", pl.Name, "error", err)
			e.failRemaining(&outcome, pl.Tracks, result, fmt.Errorf("create failed: %w", err))
			outcome.Err = err.Error()
			return outcome, nil
		}
		outcome.Created = true
		outcome.RemoteID = id
		guard = NewDuplicateGuard(nil, e.opts.AllowDuplicates)
		e.sendProgress(progress, createPlaylistUpdate(step, total, pl.Name, id))
	}

	trackTotal := len(pl.Tracks)
	for i, tr := range pl.Tracks {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return outcome, err
			}
		} else if err := ctx.Err(); err != nil {
			return outcome, err
		}

		e.sendProgress(progress, resolveTrackUpdate(i+1, trackTotal, tr))

		if err := tr.Validate(); err != nil {
			outcome.TracksFailed++
			result.RecordFailure(pl.Name, tr.Name, tr.Artist, err.Error())
			e.sendProgress(progress, failTrackUpdate(i+1, trackTotal, tr, err))
			continue
		}

		videoID, err := e.resolver.Resolve(ctx, tr.Name, tr.Artist)
		if err != nil {
			if errors.Is(err, shared.ErrPermissionDenied) {
				outcome.TracksFailed++
				result.RecordFailure(pl.Name, tr.Name, tr.Artist, err.Error())
				return outcome, err
			}
			outcome.TracksFailed++
			result.RecordFailure(pl.Name, tr.Name, tr.Artist, err.Error())
			e.sendProgress(progress, failTrackUpdate(i+1, trackTotal, tr, err))
			continue
		}

		if guard.IsDuplicate(videoID) {
			outcome.TracksSkipped++
			e.sendProgress(progress, skipTrackUpdate(i+1, trackTotal, tr))
			continue
		}

		err = e.retrier.Do(ctx, func() error {
			return e.client.AddTracks(ctx, outcome.RemoteID, []string{videoID})
		})
		if err != nil {
			if errors.Is(err, shared.ErrPermissionDenied) {
				outcome.TracksFailed++
				result.RecordFailure(pl.Name, tr.Name, tr.Artist, err.Error())
				return outcome, err
			}
			outcome.TracksFailed++
			result.RecordFailure(pl.Name, tr.Name, tr.Artist, err.Error())
			e.sendProgress(progress, failTrackUpdate(i+1, trackTotal, tr, err))
			continue
		}

		guard.RecordAdded(videoID)
		outcome.TracksAdded++
		e.sendProgress(progress, addTrackUpdate(i+1, trackTotal, tr))
	}

	return outcome, nil
}

func (e *ImportEngine) createPlaylist(ctx context.Context, pl models.Playlist) (string, error) {
	description := pl.Description
	if description == "" {
		description = fmt.Sprintf("Imported playlist: %s", pl.Name)
	}

	var id string
	err := e.retrier.Do(ctx, func() error {
		var createErr error
		id, createErr = e.client.CreatePlaylist(ctx, pl.Name, description)
		return createErr
	})
	return id, err
}

// failRemaining counts every track in the slice as failed with the same reason.
func (e *ImportEngine) failRemaining(outcome *PlaylistOutcome, tracks []models.Track, result *RunResult, cause error) {
	reason := "unknown error"
	if cause != nil {
		reason = cause.Error()
	}
	for _, tr := range tracks {
		outcome.TracksFailed++
		result.RecordFailure(outcome.Name, tr.Name, tr.Artist, reason)
	}
}
