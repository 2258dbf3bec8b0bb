package tasks

import (
	"time"

	"github.com/desertthunder/ymport/internal/models"
)

// TrackFailure records one track instance that could not be added, with the
// reason it failed. Playlist names carry the name exactly as it appeared in
// the source file.
type TrackFailure struct {
	PlaylistName string `json:"playlist_name"`
	TrackName    string `json:"track_name"`
	Artist       string `json:"artist"`
	Reason       string `json:"reason"`
}

// PlaylistOutcome describes how a single source playlist fared. Created and
// Reused are mutually exclusive; both false means the playlist could not be
// set up at all and its tracks were counted as failed.
type PlaylistOutcome struct {
	Name          string `json:"name"`
	RemoteID      string `json:"remote_id,omitempty"`
	Created       bool   `json:"created"`
	Reused        bool   `json:"reused"`
	Deleted       bool   `json:"deleted"`
	TracksAdded   int    `json:"tracks_added"`
	TracksSkipped int    `json:"tracks_skipped"`
	TracksFailed  int    `json:"tracks_failed"`
	Err           string `json:"error,omitempty"`
}

// RunResult aggregates the counters and per-track failures for an entire
// import run. Every track instance in the source lands in exactly one of
// added, skipped, or failed.
type RunResult struct {
	Counters  models.RunCounters `json:"counters"`
	Playlists []PlaylistOutcome  `json:"playlists"`
	Failures  []TrackFailure     `json:"failures"`
	Aborted   bool               `json:"aborted"`
	StartedAt time.Time          `json:"started_at"`
	Elapsed   time.Duration      `json:"elapsed"`
}

// NewRunResult returns an empty result stamped with the current time.
func NewRunResult() *RunResult {
	return &RunResult{StartedAt: time.Now()}
}

// Merge folds a playlist's outcome into the run totals.
func (r *RunResult) Merge(o PlaylistOutcome) {
	if o.Created {
		r.Counters.PlaylistsCreated++
	} else if o.Reused {
		r.Counters.PlaylistsKept++
	}
	if o.Deleted {
		r.Counters.PlaylistsDeleted++
	}
	r.Counters.TracksAdded += o.TracksAdded
	r.Counters.TracksSkipped += o.TracksSkipped
	r.Counters.TracksFailed += o.TracksFailed
	r.Playlists = append(r.Playlists, o)
}

// RecordFailure appends one track-level failure to the run ledger.
func (r *RunResult) RecordFailure(playlist, track, artist, reason string) {
	r.Failures = append(r.Failures, TrackFailure{
		PlaylistName: playlist,
		TrackName:    track,
		Artist:       artist,
		Reason:       reason,
	})
}

// TotalTracks is the number of track instances accounted for across the
// three terminal states.
func (r *RunResult) TotalTracks() int {
	return r.Counters.TracksAdded + r.Counters.TracksSkipped + r.Counters.TracksFailed
}
