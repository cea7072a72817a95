// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks through building one playlist from a concert:
//  1. [SetlistListView] : Browse the artist's recent setlists
//  2. [SongListView] : Preview the songs of the selected setlist
//  3. [ConfirmView] : Confirm playlist creation
//  4. [BuildView] : Monitor real-time progress updates
//  5. [ResultView] : Display the playlist and the songs that were not found
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the SetlistEngine, providing non-blocking status reporting during builds.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
