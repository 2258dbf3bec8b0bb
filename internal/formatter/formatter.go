// package formatter renders import run results and run history to text, JSON and CSV.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/ymport/internal/models"
	"github.com/desertthunder/ymport/internal/shared"
	"github.com/desertthunder/ymport/internal/tasks"
)

// RunResultToText renders a run result as a human-readable summary block.
func RunResultToText(result *tasks.RunResult) []byte {
	var buf bytes.Buffer

	buf.WriteString("Import summary\n")
	buf.WriteString("==============\n")
	if result.Aborted {
		buf.WriteString("Status: aborted (partial results)\n")
	}
	buf.WriteString(fmt.Sprintf("Playlists created: %d\n", result.Counters.PlaylistsCreated))
	buf.WriteString(fmt.Sprintf("Playlists deleted: %d\n", result.Counters.PlaylistsDeleted))
	buf.WriteString(fmt.Sprintf("Playlists kept:    %d\n", result.Counters.PlaylistsKept))
	buf.WriteString(fmt.Sprintf("Tracks added:      %d\n", result.Counters.TracksAdded))
	buf.WriteString(fmt.Sprintf("Tracks skipped:    %d\n", result.Counters.TracksSkipped))
	buf.WriteString(fmt.Sprintf("Tracks failed:     %d\n", result.Counters.TracksFailed))
	buf.WriteString(fmt.Sprintf("Elapsed:           %s\n", result.Elapsed.Round(time.Millisecond)))

	if len(result.Failures) > 0 {
		buf.WriteString("\nFailed tracks\n")
		buf.WriteString("-------------\n")
		for i, f := range result.Failures {
			buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s: %s\n", i+1, f.PlaylistName, f.Artist, f.TrackName, f.Reason))
		}
	}

	return buf.Bytes()
}

// RunResultToJSON renders a run result as indented JSON.
func RunResultToJSON(result *tasks.RunResult) ([]byte, error) {
	return shared.MarshalJSON(result, true)
}

// FailuresToCSV converts track failures to CSV with columns: Playlist, Track, Artist, Reason
func FailuresToCSV(failures []tasks.TrackFailure) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist", "Track", "Artist", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, f := range failures {
		record := []string{f.PlaylistName, f.TrackName, f.Artist, f.Reason}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RunReportResult contains the paths of files created by WriteRunReport
type RunReportResult struct {
	ReportFile   string
	FailuresFile string
}

// WriteRunReport writes a run result to {base}.json plus {base}_failures.csv
// when any track failed.
func WriteRunReport(result *tasks.RunResult, basePath string) (*RunReportResult, error) {
	if basePath == "" {
		basePath = fmt.Sprintf("import_report_%d", result.StartedAt.Unix())
	}

	jsonData, err := RunResultToJSON(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report JSON: %w", err)
	}

	reportFile := basePath + ".json"
	if err := os.WriteFile(reportFile, jsonData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write report file: %w", err)
	}

	report := &RunReportResult{ReportFile: reportFile}

	if len(result.Failures) > 0 {
		csvData, err := FailuresToCSV(result.Failures)
		if err != nil {
			return nil, fmt.Errorf("failed to generate failures CSV: %w", err)
		}
		failuresFile := basePath + "_failures.csv"
		if err := os.WriteFile(failuresFile, csvData, 0644); err != nil {
			return nil, fmt.Errorf("failed to write failures file: %w", err)
		}
		report.FailuresFile = failuresFile
	}

	return report, nil
}

// RunsToText renders run history as an aligned table, one row per run.
func RunsToText(runs []*models.ImportRun) []byte {
	var buf bytes.Buffer

	if len(runs) == 0 {
		buf.WriteString("No import runs recorded.\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("%-4s %-36s %-10s %-7s %-7s %-7s %s\n",
		"#", "ID", "Status", "Added", "Skipped", "Failed", "Source"))
	for _, run := range runs {
		c := run.Counters()
		buf.WriteString(fmt.Sprintf("%-4s %-36s %-10s %-7d %-7d %-7d %s\n",
			strconv.Itoa(run.Sequence()),
			run.ID(),
			run.Status(),
			c.TracksAdded,
			c.TracksSkipped,
			c.TracksFailed,
			run.SourceFile(),
		))
	}

	return buf.Bytes()
}

// RunDetailToText renders one persisted run with its failure records.
func RunDetailToText(run *models.ImportRun, failures []models.ImportFailure) []byte {
	var buf bytes.Buffer

	c := run.Counters()
	buf.WriteString(fmt.Sprintf("Run #%d (%s)\n", run.Sequence(), run.ID()))
	buf.WriteString(fmt.Sprintf("Source file:       %s\n", run.SourceFile()))
	buf.WriteString(fmt.Sprintf("Status:            %s\n", run.Status()))
	if msg := run.ErrorMessage(); msg != "" {
		buf.WriteString(fmt.Sprintf("Error:             %s\n", msg))
	}
	buf.WriteString(fmt.Sprintf("Playlists created: %d\n", c.PlaylistsCreated))
	buf.WriteString(fmt.Sprintf("Playlists deleted: %d\n", c.PlaylistsDeleted))
	buf.WriteString(fmt.Sprintf("Playlists kept:    %d\n", c.PlaylistsKept))
	buf.WriteString(fmt.Sprintf("Tracks added:      %d\n", c.TracksAdded))
	buf.WriteString(fmt.Sprintf("Tracks skipped:    %d\n", c.TracksSkipped))
	buf.WriteString(fmt.Sprintf("Tracks failed:     %d\n", c.TracksFailed))
	buf.WriteString(fmt.Sprintf("Elapsed:           %s\n", run.Elapsed().Round(time.Millisecond)))
	if started := run.StartedAt(); started != nil {
		buf.WriteString(fmt.Sprintf("Started:           %s\n", started.Format(time.RFC3339)))
	}
	if completed := run.CompletedAt(); completed != nil {
		buf.WriteString(fmt.Sprintf("Completed:         %s\n", completed.Format(time.RFC3339)))
	}

	if len(failures) > 0 {
		buf.WriteString("\nFailed tracks\n")
		buf.WriteString("-------------\n")
		for i, f := range failures {
			buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s: %s\n", i+1, f.PlaylistName, f.Artist, f.TrackName, f.Reason))
		}
	}

	return buf.Bytes()
}

// PlaylistsToText renders the parsed source file for validation output.
func PlaylistsToText(playlists []models.Playlist) []byte {
	var buf bytes.Buffer

	totalTracks := 0
	for _, pl := range playlists {
		totalTracks += len(pl.Tracks)
	}
	buf.WriteString(fmt.Sprintf("%d playlists, %d tracks\n\n", len(playlists), totalTracks))

	for _, pl := range playlists {
		buf.WriteString(fmt.Sprintf("%s (%d tracks)\n", pl.Name, len(pl.Tracks)))
		if pl.Description != "" {
			buf.WriteString(fmt.Sprintf("  %s\n", pl.Description))
		}
		for i, tr := range pl.Tracks {
			buf.WriteString(fmt.Sprintf("  %d. %s - %s\n", i+1, tr.Artist, tr.Name))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}
