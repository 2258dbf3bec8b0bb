package tasks

import (
	"fmt"

	"github.com/desertthunder/ymport/internal/models"
)

// ProgressUpdate represents a progress event during an import run.
//
// Used to send real-time updates to the CLI or UI layer for display.
// Sends are non-blocking: a slow consumer drops updates rather than
// stalling the engine.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ListRemote Phase = iota
	BeginPlaylist
	DeletePlaylist
	CreatePlaylist
	ReusePlaylist
	ResolveTrack
	AddTrack
	SkipTrack
	FailTrack
	FinishPlaylist
	FinishRun
)

func (p Phase) String() string {
	switch p {
	case ListRemote:
		return "list_remote"
	case BeginPlaylist:
		return "begin_playlist"
	case DeletePlaylist:
		return "delete_playlist"
	case CreatePlaylist:
		return "create_playlist"
	case ReusePlaylist:
		return "reuse_playlist"
	case ResolveTrack:
		return "resolve_track"
	case AddTrack:
		return "add_track"
	case SkipTrack:
		return "skip_track"
	case FailTrack:
		return "fail_track"
	case FinishPlaylist:
		return "finish_playlist"
	case FinishRun:
		return "finish_run"
	default:
		return ""
	}
}

func listRemoteUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListRemote,
		Step:    0,
		Total:   1,
		Message: "Fetching library playlists from YouTube Music...",
	}
}

func beginPlaylistUpdate(step, total int, pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BeginPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Importing: %s (%d tracks)", step, total, pl.Name, len(pl.Tracks)),
		Data:    pl,
	}
}

func deletePlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeletePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Deleting existing playlist: %s", name),
	}
}

func createPlaylistUpdate(step, total int, name, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", name, id),
	}
}

func reusePlaylistUpdate(step, total int, name string, existing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReusePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Reusing playlist: %s (%d existing tracks)", name, existing),
	}
}

func resolveTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.Name),
	}
}

func addTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, tr.Artist, tr.Name),
	}
}

func skipTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ~ %s - %s (duplicate)", step, total, tr.Artist, tr.Name),
	}
}

func failTrackUpdate(step, total int, tr models.Track, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FailTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s - %s: %v", step, total, tr.Artist, tr.Name, err),
	}
}

func finishPlaylistUpdate(step, total int, outcome PlaylistOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FinishPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Done: %s (+%d added, %d skipped, %d failed)", step, total, outcome.Name, outcome.TracksAdded, outcome.TracksSkipped, outcome.TracksFailed),
		Data:    outcome,
	}
}

func finishRunUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FinishRun,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Import finished: %d added, %d skipped, %d failed", result.Counters.TracksAdded, result.Counters.TracksSkipped, result.Counters.TracksFailed),
		Data:    result,
	}
}
