package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/ymport/internal/shared"
)

// Import run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusAborted   = "aborted"
)

// RunCounters holds the outcome counters persisted with an import run.
type RunCounters struct {
	PlaylistsCreated int
	PlaylistsDeleted int
	PlaylistsKept    int
	TracksAdded      int
	TracksSkipped    int
	TracksFailed     int
}

// ImportRun is the persisted record of a single import run.
//
// Implements [Model].
type ImportRun struct {
	id           string
	sequence     int
	sourceFile   string
	status       string
	counters     RunCounters
	elapsed      time.Duration
	errorMessage string
	startedAt    *time.Time
	completedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

var _ Model = (*ImportRun)(nil)

// NewImportRun creates a running ImportRun for the given source file.
func NewImportRun(sequence int, sourceFile string) *ImportRun {
	now := time.Now()
	return &ImportRun{
		sequence:   sequence,
		sourceFile: sourceFile,
		status:     RunStatusRunning,
		startedAt:  &now,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (r *ImportRun) ID() string            { return r.id }
func (r *ImportRun) Sequence() int         { return r.sequence }
func (r *ImportRun) SourceFile() string    { return r.sourceFile }
func (r *ImportRun) Status() string        { return r.status }
func (r *ImportRun) Counters() RunCounters { return r.counters }
func (r *ImportRun) Elapsed() time.Duration { return r.elapsed }
func (r *ImportRun) ErrorMessage() string  { return r.errorMessage }
func (r *ImportRun) StartedAt() *time.Time { return r.startedAt }
func (r *ImportRun) CompletedAt() *time.Time { return r.completedAt }
func (r *ImportRun) CreatedAt() time.Time  { return r.createdAt }
func (r *ImportRun) UpdatedAt() time.Time  { return r.updatedAt }

func (r *ImportRun) SetID(id string)                 { r.id = id }
func (r *ImportRun) SetSequence(sequence int)        { r.sequence = sequence }
func (r *ImportRun) SetStatus(status string)         { r.status = status }
func (r *ImportRun) SetCounters(c RunCounters)       { r.counters = c }
func (r *ImportRun) SetElapsed(d time.Duration)      { r.elapsed = d }
func (r *ImportRun) SetErrorMessage(msg string)      { r.errorMessage = msg }
func (r *ImportRun) SetStartedAt(t *time.Time)       { r.startedAt = t }
func (r *ImportRun) SetCompletedAt(t *time.Time)     { r.completedAt = t }
func (r *ImportRun) SetCreatedAt(t time.Time)        { r.createdAt = t }
func (r *ImportRun) SetUpdatedAt(t time.Time)        { r.updatedAt = t }

// Validate checks that the run record is internally consistent.
func (r *ImportRun) Validate() error {
	if r.sourceFile == "" {
		return fmt.Errorf("%w: source file is required", shared.ErrInvalidInput)
	}

	switch r.status {
	case RunStatusRunning, RunStatusCompleted, RunStatusFailed, RunStatusAborted:
	default:
		return fmt.Errorf("%w: unknown run status %q", shared.ErrInvalidInput, r.status)
	}

	c := r.counters
	for _, n := range []int{
		c.PlaylistsCreated, c.PlaylistsDeleted, c.PlaylistsKept,
		c.TracksAdded, c.TracksSkipped, c.TracksFailed,
	} {
		if n < 0 {
			return fmt.Errorf("%w: negative counter value", shared.ErrInvalidInput)
		}
	}

	return nil
}

// ImportFailure is a persisted per-track failure record, kept for
// reconciliation after a run.
type ImportFailure struct {
	ID           string
	RunID        string
	PlaylistName string
	TrackName    string
	Artist       string
	Reason       string
	CreatedAt    time.Time
}
