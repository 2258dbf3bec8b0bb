// package services defines interface LibraryClient for interacting with the
// remote music library (YouTube Music via proxy)
package services

import (
	"context"
)

// Search result types the importer accepts as track candidates.
const (
	ResultTypeSong  = "song"
	ResultTypeVideo = "video"
)

// LibraryClient defines the capability surface the import engine consumes
// from the remote music library.
type LibraryClient interface {
	// Search issues a track search and returns candidates in the order the
	// remote service returned them. That order is authoritative for
	// candidate selection.
	Search(ctx context.Context, query string) ([]SearchResult, error)

	// ListPlaylists retrieves all playlists in the authenticated library.
	ListPlaylists(ctx context.Context) ([]RemotePlaylist, error)

	// PlaylistTracks retrieves the track ids currently in a playlist.
	PlaylistTracks(ctx context.Context, playlistID string) ([]string, error)

	// CreatePlaylist creates a playlist and returns its id.
	CreatePlaylist(ctx context.Context, name, description string) (string, error)

	// DeletePlaylist removes a playlist from the library.
	DeletePlaylist(ctx context.Context, playlistID string) error

	// AddTracks appends tracks, in order, to an existing playlist.
	// May fail with [shared.ErrConflict] under contended writes.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the name of the service (e.g., "YouTube Music")
	Name() string
}

// SearchResult represents a single track candidate from a search.
type SearchResult struct {
	ID      string // Remote track identifier (videoId)
	Type    string // Result type as classified by the service: "song", "video", ...
	Title   string
	Artists []string
	Album   string
}

// RemotePlaylist represents a playlist that already exists in the library.
type RemotePlaylist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
}
