package models

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/ymport/internal/shared"
)

// Model defines the base interface for all persistent models in the importer.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track is a single track record from the exported playlist file.
type Track struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Validate checks the required Track fields.
func (t Track) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: track name is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(t.Artist) == "" {
		return fmt.Errorf("%w: track artist is required", shared.ErrInvalidInput)
	}
	return nil
}

// Query returns the search query used to resolve the track remotely.
func (t Track) Query() string {
	return fmt.Sprintf("%s %s", t.Name, t.Artist)
}

// Playlist is a playlist record from the exported playlist file.
type Playlist struct {
	Name        string  `json:"playlist_name"`
	Description string  `json:"description"`
	Tracks      []Track `json:"tracks"`
}

// Validate checks the required Playlist fields. Track records are validated
// individually by the import engine, not here, so a single malformed track
// does not reject the whole playlist.
func (p Playlist) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: playlist_name is required", shared.ErrInvalidInput)
	}
	return nil
}

// LoadPlaylists parses an exported playlist JSON file into Playlist records.
// Records are returned in file order, unvalidated.
func LoadPlaylists(path string) ([]Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlists file: %w", err)
	}

	var playlists []Playlist
	if err := json.Unmarshal(data, &playlists); err != nil {
		return nil, fmt.Errorf("%w: failed to parse playlists file: %v", shared.ErrInvalidInput, err)
	}

	return playlists, nil
}

// SanitizeName removes symbol, control and emoji characters plus characters
// that are invalid in filenames, keeping accents and case, and trims spaces.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.In(r, unicode.C, unicode.S) {
			continue
		}
		if strings.ContainsRune(`\/*?:"<>|`, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
