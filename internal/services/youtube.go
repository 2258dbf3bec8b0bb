// YouTube Music [LibraryClient] implementation
//
// Communicates with the FastAPI proxy server (music/) running on port 8080.
// The proxy wraps ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/ymport/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeTrack represents a track/video in YouTube Music responses.
type YouTubeTrack struct {
	VideoID    string          `json:"videoId"`
	Title      string          `json:"title"`
	Artists    []YouTubeArtist `json:"artists"`
	Album      *youtubeAlbum   `json:"album"`
	ResultType string          `json:"resultType,omitempty"` // "song", "video", "album", ...
	SetVideoID string          `json:"setVideoId,omitempty"` // For playlist operations
}

// YouTubeClient implements the LibraryClient interface for YouTube Music via proxy.
type YouTubeClient struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
}

var _ LibraryClient = (*YouTubeClient)(nil)

// NewYouTubeClient creates a new YouTube Music client instance.
func NewYouTubeClient(baseURL string, client *http.Client) *YouTubeClient {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeClient{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Name returns the service name.
func (y *YouTubeClient) Name() string {
	return "YouTube Music"
}

// SetAuthFile stores the authentication file path sent with subsequent requests.
func (y *YouTubeClient) SetAuthFile(path string) {
	y.authFile = path
}

// classifyStatus maps a non-2xx proxy status code to a typed error.
func classifyStatus(status int, detail string) error {
	var kind error
	switch status {
	case http.StatusConflict:
		kind = shared.ErrConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = shared.ErrPermissionDenied
	case http.StatusNotFound:
		kind = shared.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = shared.ErrBadRequest
	default:
		kind = shared.ErrAPIRequest
	}

	if detail != "" {
		return fmt.Errorf("%w: youtube music API error (status %d): %s", kind, status, detail)
	}
	return fmt.Errorf("%w: youtube music API error: status %d", kind, status)
}

func (y *YouTubeClient) doRequest(ctx context.Context, method, endpoint string, payload, result any) error {
	apiURL := y.baseURL + endpoint

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return classifyStatus(resp.StatusCode, errResp.Detail)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search searches YouTube Music for track candidates.
//
// Calls GET /api/search?q={query} on the proxy. No filter is applied so both
// song and video results come back, each tagged with its resultType. Result
// order is preserved.
func (y *YouTubeClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("/api/search?q=%s", url.QueryEscape(query))

	var ytResults []YouTubeTrack
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &ytResults); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(ytResults))
	for _, ytt := range ytResults {
		result := SearchResult{
			ID:    ytt.VideoID,
			Type:  ytt.ResultType,
			Title: ytt.Title,
		}

		for _, artist := range ytt.Artists {
			result.Artists = append(result.Artists, artist.Name)
		}

		if ytt.Album != nil {
			result.Album = ytt.Album.Name
		}

		results = append(results, result)
	}

	return results, nil
}

// ListPlaylists retrieves all playlists in the authenticated library.
//
// Calls GET /api/library/playlists on the proxy.
func (y *YouTubeClient) ListPlaylists(ctx context.Context) ([]RemotePlaylist, error) {
	var ytPlaylists []struct {
		PlaylistID  string `json:"playlistId"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Count       int    `json:"count"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/api/library/playlists", nil, &ytPlaylists); err != nil {
		return nil, err
	}

	playlists := make([]RemotePlaylist, len(ytPlaylists))
	for i, ytp := range ytPlaylists {
		playlists[i] = RemotePlaylist{
			ID:          ytp.PlaylistID,
			Name:        ytp.Title,
			Description: ytp.Description,
			TrackCount:  ytp.Count,
		}
	}

	return playlists, nil
}

// PlaylistTracks retrieves the track ids currently in a playlist.
//
// Calls GET /api/playlists/{id} on the proxy.
func (y *YouTubeClient) PlaylistTracks(ctx context.Context, playlistID string) ([]string, error) {
	var ytPlaylist struct {
		ID     string         `json:"id"`
		Title  string         `json:"title"`
		Tracks []YouTubeTrack `json:"tracks"`
	}

	endpoint := fmt.Sprintf("/api/playlists/%s", playlistID)
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &ytPlaylist); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(ytPlaylist.Tracks))
	for _, track := range ytPlaylist.Tracks {
		if track.VideoID != "" {
			ids = append(ids, track.VideoID)
		}
	}

	return ids, nil
}

// CreatePlaylist creates a private playlist and returns its id.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeClient) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	createReq := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         name,
		Description:   description,
		PrivacyStatus: "PRIVATE",
	}

	var createResp struct {
		PlaylistID string `json:"playlist_id"`
	}

	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", createReq, &createResp); err != nil {
		return "", err
	}

	if createResp.PlaylistID == "" {
		return "", fmt.Errorf("%w: create response missing playlist_id", shared.ErrAPIRequest)
	}

	return createResp.PlaylistID, nil
}

// DeletePlaylist removes a playlist from the library.
//
// Calls DELETE /api/playlists/{id} on the proxy.
func (y *YouTubeClient) DeletePlaylist(ctx context.Context, playlistID string) error {
	endpoint := fmt.Sprintf("/api/playlists/%s", playlistID)
	return y.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// AddTracks appends tracks, in order, to an existing playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy. Concurrent mutations of
// the same playlist surface as 409s, which classify as [shared.ErrConflict].
func (y *YouTubeClient) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	addReq := struct {
		VideoIDs []string `json:"video_ids"`
	}{
		VideoIDs: trackIDs,
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", playlistID)
	return y.doRequest(ctx, http.MethodPost, endpoint, addReq, nil)
}
