package tasks

import "testing"

func TestRunResultMerge(t *testing.T) {
	result := NewRunResult()

	result.Merge(PlaylistOutcome{Name: "A", Created: true, TracksAdded: 3, TracksFailed: 1})
	result.Merge(PlaylistOutcome{Name: "B", Reused: true, TracksSkipped: 2})
	result.Merge(PlaylistOutcome{Name: "C", Created: true, Deleted: true, TracksAdded: 1})
	result.Merge(PlaylistOutcome{Name: "D", TracksFailed: 4, Err: "create failed"})

	c := result.Counters
	if c.PlaylistsCreated != 2 {
		t.Errorf("expected 2 created, got %d", c.PlaylistsCreated)
	}
	if c.PlaylistsKept != 1 {
		t.Errorf("expected 1 kept, got %d", c.PlaylistsKept)
	}
	if c.PlaylistsDeleted != 1 {
		t.Errorf("expected 1 deleted, got %d", c.PlaylistsDeleted)
	}
	if c.TracksAdded != 4 || c.TracksSkipped != 2 || c.TracksFailed != 5 {
		t.Errorf("unexpected track counters %+v", c)
	}
	if result.TotalTracks() != 11 {
		t.Errorf("expected 11 total tracks, got %d", result.TotalTracks())
	}
	if len(result.Playlists) != 4 {
		t.Errorf("expected 4 playlist outcomes, got %d", len(result.Playlists))
	}
}

func TestRunResultRecordFailure(t *testing.T) {
	result := NewRunResult()
	result.RecordFailure("Mix", "Alpha", "A", "no match")
	result.RecordFailure("Mix", "Beta", "B", "giving up after 3 attempts")

	if len(result.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(result.Failures))
	}
	first := result.Failures[0]
	if first.PlaylistName != "Mix" || first.TrackName != "Alpha" || first.Reason != "no match" {
		t.Errorf("unexpected failure record %+v", first)
	}
}
