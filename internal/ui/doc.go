// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for importing file playlists:
//  1. [PlaylistListView] : Browse playlists parsed from the export file
//  2. [TrackListView] : Preview tracks before importing
//  3. [ConfirmView] : Confirm the import operation
//  4. [ImportView] : Monitor real-time progress updates
//  5. [ResultView] : Display run counters and failed tracks
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ImportEngine, providing non-blocking status reporting during imports.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
