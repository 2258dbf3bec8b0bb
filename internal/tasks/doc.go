// Package tasks implements the playlist import engine.
//
// The core abstraction is [ImportEngine], which drives one import run: for
// each playlist record it reconciles against the remote library (create,
// reuse, or delete-and-recreate), resolves each track to a remote id via
// [Resolver], filters duplicates via [DuplicateGuard], and appends tracks one
// at a time through [Retrier], which handles transient write conflicts with
// exponential backoff.
//
// Execution is strictly sequential: playlists in input order, tracks in
// playlist order, one remote call at a time. The remote service rate limits
// aggressively and concurrent writes to the same playlist provoke the very
// conflicts the retrier exists to absorb, so there is nothing to win from
// parallelism here. The only suspension points are the inter-track pacing
// delay and backoff waits between retry attempts.
//
// Track- and playlist-level failures are counted and the run continues;
// only permission failures abort the run, surfacing partial counters.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
