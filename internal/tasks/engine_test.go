package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ymport/internal/models"
	"github.com/desertthunder/ymport/internal/services"
	"github.com/desertthunder/ymport/internal/shared"
)

type mockClient struct {
	searchResults map[string][]services.SearchResult
	searchErrs    map[string][]error // consumed per search call for the query
	searchCalls   map[string]int

	playlists      []services.RemotePlaylist
	listErr        error
	playlistTracks map[string][]string
	tracksErr      error

	createErr   error
	createCalls int
	deleteErr   error
	deleted     []string
	addErrs     []error // consumed per AddTracks call
	addErr      error
	addCalls    int
}

func newMockClient() *mockClient {
	return &mockClient{
		searchResults:  map[string][]services.SearchResult{},
		searchErrs:     map[string][]error{},
		searchCalls:    map[string]int{},
		playlistTracks: map[string][]string{},
	}
}

func (m *mockClient) Name() string { return "mock" }

func (m *mockClient) Search(ctx context.Context, query string) ([]services.SearchResult, error) {
	m.searchCalls[query]++
	if errs := m.searchErrs[query]; len(errs) > 0 {
		err := errs[0]
		m.searchErrs[query] = errs[1:]
		return nil, err
	}
	return m.searchResults[query], nil
}

func (m *mockClient) ListPlaylists(ctx context.Context) ([]services.RemotePlaylist, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]services.RemotePlaylist, len(m.playlists))
	copy(out, m.playlists)
	return out, nil
}

func (m *mockClient) PlaylistTracks(ctx context.Context, playlistID string) ([]string, error) {
	if m.tracksErr != nil {
		return nil, m.tracksErr
	}
	return m.playlistTracks[playlistID], nil
}

func (m *mockClient) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	m.createCalls++
	if m.createErr != nil {
		return "", m.createErr
	}
	id := fmt.Sprintf("PL%03d", m.createCalls)
	m.playlists = append(m.playlists, services.RemotePlaylist{ID: id, Name: name, Description: description})
	return id, nil
}

func (m *mockClient) DeletePlaylist(ctx context.Context, playlistID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, playlistID)
	for i, pl := range m.playlists {
		if pl.ID == playlistID {
			m.playlists = append(m.playlists[:i], m.playlists[i+1:]...)
			break
		}
	}
	delete(m.playlistTracks, playlistID)
	return nil
}

func (m *mockClient) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	m.addCalls++
	if len(m.addErrs) > 0 {
		err := m.addErrs[0]
		m.addErrs = m.addErrs[1:]
		if err != nil {
			return err
		}
	} else if m.addErr != nil {
		return m.addErr
	}
	m.playlistTracks[playlistID] = append(m.playlistTracks[playlistID], trackIDs...)
	return nil
}

// songResult registers a single song hit for the track's search query.
func (m *mockClient) songResult(name, artist, id string) {
	query := fmt.Sprintf("%s %s", name, artist)
	m.searchResults[query] = []services.SearchResult{
		{ID: id, Type: services.ResultTypeSong, Title: name, Artists: []string{artist}},
	}
}

func newTestEngine(client *mockClient, opts ImportOpts) *ImportEngine {
	e := NewImportEngine(client, opts, log.Default())
	e.retrier.sleep = func(time.Duration) {}
	return e
}

func singlePlaylist(name string, tracks ...models.Track) []models.Playlist {
	return []models.Playlist{{Name: name, Tracks: tracks}}
}

func TestImportAll(t *testing.T) {
	ctx := context.Background()

	t.Run("creates playlist and adds every track", func(t *testing.T) {
		client := newMockClient()
		client.songResult("Alpha", "Artist A", "vid1")
		client.songResult("Beta", "Artist B", "vid2")

		engine := newTestEngine(client, ImportOpts{})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "Artist A"},
			models.Track{Name: "Beta", Artist: "Artist B"},
		), nil)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.Counters.PlaylistsCreated != 1 {
			t.Errorf("expected 1 playlist created, got %d", result.Counters.PlaylistsCreated)
		}
		if result.Counters.TracksAdded != 2 {
			t.Errorf("expected 2 tracks added, got %d", result.Counters.TracksAdded)
		}
		if got := client.playlistTracks["PL001"]; len(got) != 2 {
			t.Errorf("expected 2 remote tracks, got %v", got)
		}
	})

	t.Run("every track lands in exactly one counter", func(t *testing.T) {
		client := newMockClient()
		client.songResult("Good", "A", "vid1")
		// "Dupe" resolves to the same id so the second instance is skipped.
		client.songResult("Dupe", "A", "vid1")
		// "Missing" has no search results at all.

		engine := newTestEngine(client, ImportOpts{})
		playlists := singlePlaylist("Mix",
			models.Track{Name: "Good", Artist: "A"},
			models.Track{Name: "Dupe", Artist: "A"},
			models.Track{Name: "Missing", Artist: "A"},
			models.Track{Name: "", Artist: "A"}, // invalid
		)
		result, err := engine.ImportAll(ctx, playlists, nil)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.TotalTracks() != 4 {
			t.Errorf("expected 4 track instances accounted, got %d", result.TotalTracks())
		}
		if result.Counters.TracksAdded != 1 {
			t.Errorf("expected 1 added, got %d", result.Counters.TracksAdded)
		}
		if result.Counters.TracksSkipped != 1 {
			t.Errorf("expected 1 skipped, got %d", result.Counters.TracksSkipped)
		}
		if result.Counters.TracksFailed != 2 {
			t.Errorf("expected 2 failed, got %d", result.Counters.TracksFailed)
		}
		if len(result.Failures) != 2 {
			t.Errorf("expected 2 failure records, got %d", len(result.Failures))
		}
	})

	t.Run("skips duplicates already on the remote playlist", func(t *testing.T) {
		client := newMockClient()
		client.playlists = []services.RemotePlaylist{{ID: "PLX", Name: "Mix"}}
		client.playlistTracks["PLX"] = []string{"vid1"}
		client.songResult("Alpha", "A", "vid1")
		client.songResult("Beta", "B", "vid2")

		engine := newTestEngine(client, ImportOpts{})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
			models.Track{Name: "Beta", Artist: "B"},
		), nil)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.Counters.PlaylistsKept != 1 {
			t.Errorf("expected 1 playlist kept, got %d", result.Counters.PlaylistsKept)
		}
		if result.Counters.TracksSkipped != 1 || result.Counters.TracksAdded != 1 {
			t.Errorf("expected 1 skipped and 1 added, got %+v", result.Counters)
		}
	})

	t.Run("allow duplicates disables skipping", func(t *testing.T) {
		client := newMockClient()
		client.playlists = []services.RemotePlaylist{{ID: "PLX", Name: "Mix"}}
		client.playlistTracks["PLX"] = []string{"vid1"}
		client.songResult("Alpha", "A", "vid1")

		engine := newTestEngine(client, ImportOpts{AllowDuplicates: true})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
		), nil)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.Counters.TracksAdded != 1 || result.Counters.TracksSkipped != 0 {
			t.Errorf("expected duplicate to be added, got %+v", result.Counters)
		}
	})

	t.Run("delete existing replaces matched playlist", func(t *testing.T) {
		client := newMockClient()
		client.playlists = []services.RemotePlaylist{{ID: "PLX", Name: "Mix"}}
		client.playlistTracks["PLX"] = []string{"vid1"}
		client.songResult("Alpha", "A", "vid1")

		engine := newTestEngine(client, ImportOpts{DeleteExisting: true})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
		), nil)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(client.deleted) != 1 || client.deleted[0] != "PLX" {
			t.Errorf("expected PLX deleted, got %v", client.deleted)
		}
		if result.Counters.PlaylistsDeleted != 1 || result.Counters.PlaylistsCreated != 1 {
			t.Errorf("expected delete then create, got %+v", result.Counters)
		}
		// The old remote contents are gone, so nothing counts as duplicate.
		if result.Counters.TracksAdded != 1 {
			t.Errorf("expected 1 track added, got %d", result.Counters.TracksAdded)
		}
	})

	t.Run("playlist name match is case sensitive", func(t *testing.T) {
		client := newMockClient()
		client.playlists = []services.RemotePlaylist{{ID: "PLX", Name: "mix"}}
		client.songResult("Alpha", "A", "vid1")

		engine := newTestEngine(client, ImportOpts{})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
		), nil)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.Counters.PlaylistsCreated != 1 || result.Counters.PlaylistsKept != 0 {
			t.Errorf("expected new playlist despite case-mismatched remote, got %+v", result.Counters)
		}
	})

	t.Run("second run over the same file is a no-op", func(t *testing.T) {
		client := newMockClient()
		client.songResult("Alpha", "A", "vid1")
		client.songResult("Beta", "B", "vid2")
		playlists := singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
			models.Track{Name: "Beta", Artist: "B"},
		)

		engine := newTestEngine(client, ImportOpts{})
		first, err := engine.ImportAll(ctx, playlists, nil)
		if err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if first.Counters.TracksAdded != 2 {
			t.Fatalf("expected 2 added on first run, got %d", first.Counters.TracksAdded)
		}

		second, err := engine.ImportAll(ctx, playlists, nil)
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		if second.Counters.TracksAdded != 0 {
			t.Errorf("expected 0 added on second run, got %d", second.Counters.TracksAdded)
		}
		if second.Counters.TracksSkipped != 2 {
			t.Errorf("expected 2 skipped on second run, got %d", second.Counters.TracksSkipped)
		}
		if second.Counters.PlaylistsCreated != 0 || second.Counters.PlaylistsKept != 1 {
			t.Errorf("expected playlist reuse on second run, got %+v", second.Counters)
		}
	})

	t.Run("retries conflicts on add and succeeds", func(t *testing.T) {
		client := newMockClient()
		client.songResult("Alpha", "A", "vid1")
		conflict := fmt.Errorf("%w: concurrent edit", shared.ErrConflict)
		client.addErrs = []error{conflict, conflict, nil}

		engine := newTestEngine(client, ImportOpts{MaxRetries: 3})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
		), nil)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if client.addCalls != 3 {
			t.Errorf("expected 3 add calls, got %d", client.addCalls)
		}
		if result.Counters.TracksAdded != 1 {
			t.Errorf("expected 1 added, got %d", result.Counters.TracksAdded)
		}
	})

	t.Run("exhausted retries fail the track but not the run", func(t *testing.T) {
		client := newMockClient()
		client.songResult("Alpha", "A", "vid1")
		client.songResult("Beta", "B", "vid2")
		client.addErrs = []error{
			fmt.Errorf("%w: busy", shared.ErrConflict),
			fmt.Errorf("%w: busy", shared.ErrConflict),
			nil, // second track succeeds first try
		}

		engine := newTestEngine(client, ImportOpts{MaxRetries: 2})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
			models.Track{Name: "Beta", Artist: "B"},
		), nil)
		if err != nil {
			t.Fatalf("expected run to continue, got %v", err)
		}
		if result.Counters.TracksFailed != 1 || result.Counters.TracksAdded != 1 {
			t.Errorf("expected 1 failed and 1 added, got %+v", result.Counters)
		}
		if len(result.Failures) != 1 || result.Failures[0].TrackName != "Alpha" {
			t.Errorf("expected Alpha in failure ledger, got %+v", result.Failures)
		}
	})

	t.Run("permission error aborts the run with partial counters", func(t *testing.T) {
		client := newMockClient()
		client.songResult("Alpha", "A", "vid1")
		client.songResult("Beta", "B", "vid2")
		client.addErrs = []error{nil, fmt.Errorf("%w: quota", shared.ErrPermissionDenied)}

		engine := newTestEngine(client, ImportOpts{})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
			models.Track{Name: "Beta", Artist: "B"},
		), nil)
		if !errors.Is(err, shared.ErrPermissionDenied) {
			t.Fatalf("expected permission error, got %v", err)
		}
		if result == nil {
			t.Fatal("expected partial result alongside error")
		}
		if !result.Aborted {
			t.Error("expected aborted flag")
		}
		if result.Counters.TracksAdded != 1 || result.Counters.TracksFailed != 1 {
			t.Errorf("expected partial counters preserved, got %+v", result.Counters)
		}
	})

	t.Run("playlist creation failure fails all its tracks and continues", func(t *testing.T) {
		client := newMockClient()
		client.createErr = fmt.Errorf("%w: malformed title", shared.ErrBadRequest)
		client.songResult("Alpha", "A", "vid1")

		engine := newTestEngine(client, ImportOpts{})
		playlists := []models.Playlist{
			{Name: "Broken", Tracks: []models.Track{
				{Name: "X", Artist: "Y"},
				{Name: "Z", Artist: "W"},
			}},
		}
		result, err := engine.ImportAll(ctx, playlists, nil)
		if err != nil {
			t.Fatalf("expected run to continue past playlist failure, got %v", err)
		}
		if result.Counters.TracksFailed != 2 {
			t.Errorf("expected both tracks failed, got %+v", result.Counters)
		}
		if len(result.Failures) != 2 {
			t.Errorf("expected 2 failure records, got %d", len(result.Failures))
		}
	})

	t.Run("listing failure aborts before any playlist work", func(t *testing.T) {
		client := newMockClient()
		client.listErr = fmt.Errorf("%w: proxy down", shared.ErrServiceUnavailable)

		engine := newTestEngine(client, ImportOpts{})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
		), nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if !result.Aborted {
			t.Error("expected aborted flag")
		}
		if client.createCalls != 0 || client.addCalls != 0 {
			t.Error("expected no writes after listing failure")
		}
	})

	t.Run("degraded seed still imports when existing tracks cannot be fetched", func(t *testing.T) {
		client := newMockClient()
		client.playlists = []services.RemotePlaylist{{ID: "PLX", Name: "Mix"}}
		client.tracksErr = fmt.Errorf("%w: flaky", shared.ErrAPIRequest)
		client.songResult("Alpha", "A", "vid1")

		engine := newTestEngine(client, ImportOpts{})
		result, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
		), nil)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.Counters.TracksAdded != 1 {
			t.Errorf("expected 1 added with empty seed, got %+v", result.Counters)
		}
	})

	t.Run("nil client is rejected", func(t *testing.T) {
		engine := NewImportEngine(nil, ImportOpts{}, nil)
		_, err := engine.ImportAll(ctx, nil, nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected service unavailable, got %v", err)
		}
	})

	t.Run("progress updates flow without blocking", func(t *testing.T) {
		client := newMockClient()
		client.songResult("Alpha", "A", "vid1")

		engine := newTestEngine(client, ImportOpts{})
		// Capacity 1 forces most sends down the drop path.
		progress := make(chan ProgressUpdate, 1)
		_, err := engine.ImportAll(ctx, singlePlaylist("Mix",
			models.Track{Name: "Alpha", Artist: "A"},
		), progress)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		select {
		case update := <-progress:
			if update.Phase.String() == "" {
				t.Errorf("unexpected phase %d", update.Phase)
			}
		default:
			t.Error("expected at least one buffered update")
		}
	})
}
