package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/ymport/internal/services"
	"github.com/desertthunder/ymport/internal/shared"
)

// Resolver maps a (name, artist) pair to a remote track identifier via
// search.
//
// Candidate selection walks the raw search response in order and picks the
// first "song" result, falling back to the first "video" when no song
// appears. The response order is authoritative; no semantic re-ranking is
// attempted. Results are not cached: the same pair appearing in two
// playlists is searched twice, which is fine because search is idempotent.
type Resolver struct {
	client  services.LibraryClient
	retrier *Retrier
}

// NewResolver creates a Resolver backed by the given client. Search calls
// go through the retrier since search is idempotent and can hit transient
// errors like any other remote call.
func NewResolver(client services.LibraryClient, retrier *Retrier) *Resolver {
	return &Resolver{client: client, retrier: retrier}
}

// Resolve searches for "name artist" and returns the best candidate's
// remote id, or [shared.ErrTrackNotFound] when no acceptable candidate
// exists.
func (r *Resolver) Resolve(ctx context.Context, name, artist string) (string, error) {
	query := fmt.Sprintf("%s %s", name, artist)

	var results []services.SearchResult
	err := r.retrier.Do(ctx, func() error {
		var searchErr error
		results, searchErr = r.client.Search(ctx, query)
		return searchErr
	})
	if err != nil {
		return "", fmt.Errorf("search failed for '%s' by '%s': %w", name, artist, err)
	}

	var videoID string
	for _, result := range results {
		if result.ID == "" {
			continue
		}
		switch result.Type {
		case services.ResultTypeSong:
			return result.ID, nil
		case services.ResultTypeVideo:
			if videoID == "" {
				videoID = result.ID
			}
		}
	}

	if videoID != "" {
		return videoID, nil
	}

	return "", fmt.Errorf("%w: no match for '%s' by '%s'", shared.ErrTrackNotFound, name, artist)
}
