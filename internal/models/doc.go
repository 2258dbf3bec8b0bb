// Package models defines domain entities for the ymport playlist importer.
//
// The package contains two categories of types:
//
// 1. Input records: structs matching the exported playlist JSON format
//   - [Playlist] : A playlist record with name, description and tracks
//   - [Track] : A (name, artist) pair to be resolved against YouTube Music
//
// 2. Persistent entities: database-backed models
//   - [ImportRun] : One import run with its outcome counters and status
//
// Persistent entities implement the Model interface providing ID generation,
// timestamps and validation. The Repository[T] interface defines standard
// CRUD operations for database access.
package models
