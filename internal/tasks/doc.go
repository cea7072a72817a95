// Package tasks orchestrates setlist retrieval and playlist assembly with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface exposes the steps used by the HTTP API and the CLI:
//
//  1. [SetlistEngine.ResolveArtist] : map a typed artist name onto setlist.fm's spelling
//  2. [SetlistEngine.FetchSetlists] : fetch two pages of recent setlists and normalize them
//     - page 2 waits a full PageDelay after page 1 returns
//     - failing pages are logged and skipped; a 429 on a later page stops the loop
//     - setlists without songs are dropped and missing fields get placeholder values
//  3. [SetlistEngine.Reconcile] : search the catalog once per song, in order
//  4. [SetlistEngine.CreatePlaylist] : create "{artist} Setlist @ {venue}", retrying once without a description
//  5. [SetlistEngine.FindPlaylist] : locate a playlist by exact or fuzzy name
//  6. [SetlistEngine.AddTracks] : append tracks, optionally in batches
//
// [SetlistEngine.Build] chains them into the end-to-end flow used by `s2s build` and the TUI.
//
// # Progress Reporting
//
// All long-running operations accept an optional channel for [ProgressUpdate] values.
// Updates use select with default to prevent blocking.
//
// # Failure Policy
//
// Normalization, reconciliation and playlist creation never return errors: failures are logged
// and surface as empty results, not-found entries or a false ok flag. Only playlist lookup
// (listing failure) and track insertion report errors to the caller.
package tasks
