// Package services defines the [LibraryClient] interface for the remote music
// library and implements it for YouTube Music.
//
// # LibraryClient Interface
//
// The import engine consumes the remote service through a small capability
// surface (search, list playlists, fetch playlist tracks, create, delete,
// append), so the hard logic is testable against an in-memory fake.
//
// # YouTube Music Implementation
//
// [YouTubeClient] communicates with the FastAPI proxy server wrapping ytmusicapi.
//
// The proxy handles YouTube Music authentication complexities.
// The auth_file path is sent via X-Auth-File header on each request.
// All operations are synchronous HTTP calls to the proxy endpoints.
//
// # Error Handling
//
// HTTP status codes are mapped to typed errors from the shared package so the
// engine can classify failures without knowing transport details:
//   - 409 → [shared.ErrConflict] : contended remote write, retryable
//   - 401/403 → [shared.ErrPermissionDenied] : fatal for the whole run
//   - 404 → [shared.ErrNotFound]
//   - 400/422 → [shared.ErrBadRequest]
//   - anything else non-2xx → [shared.ErrAPIRequest]
package services
