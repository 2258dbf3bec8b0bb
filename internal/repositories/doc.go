// Package repositories implements SQLite persistence for import run history.
//
// Runs are append-only records: every invocation of the importer writes one
// row to the imports table plus one import_failures row per track that could
// not be added, so past runs can be inspected and failed tracks reconciled
// later.
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42)
// independent of UUIDs and creation timestamps. The [NextSequence] function
// atomically increments per-table sequence counters in dedicated sequence
// tables.
package repositories
