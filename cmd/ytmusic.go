package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ymport/internal/shared"
	"github.com/urfave/cli/v3"
)

// YTMusicSearch searches YouTube Music for tracks.
func (r *Runner) YTMusicSearch(ctx context.Context, cmd *cli.Command) error {
	if r.youtube == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	query := cmd.StringArg("query")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	r.logger.Info("searching youtube music", "query", query)

	results, err := r.youtube.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(results, pretty)
	}

	if len(results) == 0 {
		r.writePlain("No results for '%s'\n", query)
		return nil
	}

	r.writePlain("Found %d results:\n\n", len(results))
	for i, result := range results {
		r.writePlain("%d. [%s] %s", i+1, result.Type, result.Title)
		if len(result.Artists) > 0 {
			r.writePlain(" - %s", result.Artists[0])
		}
		if result.Album != "" {
			r.writePlain(" (%s)", result.Album)
		}
		r.writePlain("\n   ID: %s\n", result.ID)
	}

	return nil
}

// YTMusicPlaylists lists YouTube Music library playlists.
func (r *Runner) YTMusicPlaylists(ctx context.Context, cmd *cli.Command) error {
	if r.youtube == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Info("listing youtube music playlists")

	playlists, err := r.youtube.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	if len(playlists) == 0 {
		r.writePlain("No playlists in library\n")
		return nil
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, pl := range playlists {
		r.writePlain("%d. %s (%d tracks)\n", i+1, pl.Name, pl.TrackCount)
		r.writePlain("   ID: %s\n", pl.ID)
	}

	return nil
}

// YTMusicCreate creates a new playlist on YouTube Music.
func (r *Runner) YTMusicCreate(ctx context.Context, cmd *cli.Command) error {
	if r.youtube == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	name := cmd.StringArg("name")
	description := cmd.String("description")

	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	r.logger.Info("creating youtube music playlist", "name", name)

	id, err := r.youtube.CreatePlaylist(ctx, name, description)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.logger.Info("playlist created", "id", id, "name", name)
	r.writePlain("✓ Playlist created successfully\n")
	r.writePlain("Name: %s\n", name)
	r.writePlain("ID: %s\n", id)

	return nil
}

// YTMusicDelete deletes a playlist on YouTube Music.
func (r *Runner) YTMusicDelete(ctx context.Context, cmd *cli.Command) error {
	if r.youtube == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	r.logger.Info("deleting youtube music playlist", "id", id)

	if err := r.youtube.DeletePlaylist(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Playlist deleted: %s\n", id)
	return nil
}
