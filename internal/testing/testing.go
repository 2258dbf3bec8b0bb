// package testing contains shared testing utilities
package testing

import (
	"context"
	"os"
	"testing"

	"github.com/desertthunder/ymport/internal/services"
)

// MockLibraryClient is a test double for [services.LibraryClient]
type MockLibraryClient struct {
	SearchResults []services.SearchResult
	SearchErr     error
	Playlists     []services.RemotePlaylist
	ListErr       error
	Tracks        map[string][]string
	TracksErr     error
	CreatedID     string
	CreateErr     error
	DeleteErr     error
	AddErr        error

	DeletedIDs []string
	AddedIDs   map[string][]string
}

func (m *MockLibraryClient) Name() string { return "mock" }

func (m *MockLibraryClient) Search(ctx context.Context, query string) ([]services.SearchResult, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults, nil
}

func (m *MockLibraryClient) ListPlaylists(ctx context.Context) ([]services.RemotePlaylist, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Playlists, nil
}

func (m *MockLibraryClient) PlaylistTracks(ctx context.Context, playlistID string) ([]string, error) {
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	return m.Tracks[playlistID], nil
}

func (m *MockLibraryClient) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	if m.CreatedID != "" {
		return m.CreatedID, nil
	}
	return "PL001", nil
}

func (m *MockLibraryClient) DeletePlaylist(ctx context.Context, playlistID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedIDs = append(m.DeletedIDs, playlistID)
	return nil
}

func (m *MockLibraryClient) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	if m.AddedIDs == nil {
		m.AddedIDs = map[string][]string{}
	}
	m.AddedIDs[playlistID] = append(m.AddedIDs[playlistID], trackIDs...)
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes test fixture content, failing the test on error
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
