package formatter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ymport/internal/models"
	"github.com/desertthunder/ymport/internal/tasks"
)

func sampleResult() *tasks.RunResult {
	result := tasks.NewRunResult()
	result.Counters = models.RunCounters{
		PlaylistsCreated: 1,
		PlaylistsKept:    1,
		TracksAdded:      5,
		TracksSkipped:    2,
		TracksFailed:     1,
	}
	result.Elapsed = 90 * time.Second
	result.RecordFailure("Mix", "Alpha", "Artist A", "no match")
	return result
}

func TestRunResultToText(t *testing.T) {
	out := string(RunResultToText(sampleResult()))

	for _, want := range []string{
		"Tracks added:      5",
		"Tracks skipped:    2",
		"Tracks failed:     1",
		"Playlists created: 1",
		"1m30s",
		"[Mix] Artist A - Alpha: no match",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	if strings.Contains(out, "aborted") {
		t.Error("completed run should not mention aborted")
	}
}

func TestRunResultToTextAborted(t *testing.T) {
	result := sampleResult()
	result.Aborted = true
	out := string(RunResultToText(result))
	if !strings.Contains(out, "aborted (partial results)") {
		t.Errorf("expected aborted banner, got:\n%s", out)
	}
}

func TestRunResultToJSON(t *testing.T) {
	data, err := RunResultToJSON(sampleResult())
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if _, ok := decoded["counters"]; !ok {
		t.Error("expected counters key in JSON output")
	}
	if _, ok := decoded["failures"]; !ok {
		t.Error("expected failures key in JSON output")
	}
}

func TestFailuresToCSV(t *testing.T) {
	failures := []tasks.TrackFailure{
		{PlaylistName: "Mix", TrackName: "Alpha, Remix", Artist: "A", Reason: "no match"},
		{PlaylistName: "Mix", TrackName: "Beta", Artist: "B", Reason: "giving up after 3 attempts"},
	}

	data, err := FailuresToCSV(failures)
	if err != nil {
		t.Fatalf("failed to generate CSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != "Playlist" {
		t.Errorf("unexpected header %v", records[0])
	}
	// Comma in the track name survives quoting.
	if records[1][1] != "Alpha, Remix" {
		t.Errorf("expected quoted track name, got %q", records[1][1])
	}
}

func TestWriteRunReport(t *testing.T) {
	dir := t.TempDir()

	t.Run("writes JSON and failures CSV", func(t *testing.T) {
		base := filepath.Join(dir, "report")
		report, err := WriteRunReport(sampleResult(), base)
		if err != nil {
			t.Fatalf("failed to write report: %v", err)
		}
		if report.ReportFile != base+".json" {
			t.Errorf("unexpected report file %s", report.ReportFile)
		}
		if report.FailuresFile != base+"_failures.csv" {
			t.Errorf("unexpected failures file %s", report.FailuresFile)
		}
		if _, err := os.Stat(report.ReportFile); err != nil {
			t.Errorf("report file missing: %v", err)
		}
		if _, err := os.Stat(report.FailuresFile); err != nil {
			t.Errorf("failures file missing: %v", err)
		}
	})

	t.Run("omits failures file when nothing failed", func(t *testing.T) {
		result := tasks.NewRunResult()
		base := filepath.Join(dir, "clean")
		report, err := WriteRunReport(result, base)
		if err != nil {
			t.Fatalf("failed to write report: %v", err)
		}
		if report.FailuresFile != "" {
			t.Errorf("expected no failures file, got %s", report.FailuresFile)
		}
	})
}

func TestRunsToText(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		out := string(RunsToText(nil))
		if !strings.Contains(out, "No import runs recorded") {
			t.Errorf("unexpected empty output:\n%s", out)
		}
	})

	t.Run("table rows", func(t *testing.T) {
		run := models.NewImportRun(7, "playlists.json")
		run.SetID("run-id")
		run.SetStatus(models.RunStatusCompleted)
		run.SetCounters(models.RunCounters{TracksAdded: 3})

		out := string(RunsToText([]*models.ImportRun{run}))
		if !strings.Contains(out, "run-id") || !strings.Contains(out, "playlists.json") {
			t.Errorf("expected run row, got:\n%s", out)
		}
		if !strings.Contains(out, "completed") {
			t.Errorf("expected status column, got:\n%s", out)
		}
	})
}

func TestRunDetailToText(t *testing.T) {
	run := models.NewImportRun(3, "playlists.json")
	run.SetID("run-id")
	run.SetStatus(models.RunStatusFailed)
	run.SetErrorMessage("proxy down")
	run.SetElapsed(5 * time.Second)

	failures := []models.ImportFailure{
		{PlaylistName: "Mix", TrackName: "Alpha", Artist: "A", Reason: "no match"},
	}

	out := string(RunDetailToText(run, failures))
	for _, want := range []string{"Run #3", "proxy down", "[Mix] A - Alpha: no match"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPlaylistsToText(t *testing.T) {
	playlists := []models.Playlist{
		{
			Name:        "Mix",
			Description: "Summer songs",
			Tracks: []models.Track{
				{Name: "Alpha", Artist: "A"},
				{Name: "Beta", Artist: "B"},
			},
		},
		{Name: "Empty"},
	}

	out := string(PlaylistsToText(playlists))
	for _, want := range []string{"2 playlists, 2 tracks", "Mix (2 tracks)", "Summer songs", "1. A - Alpha", "Empty (0 tracks)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
