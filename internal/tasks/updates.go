package tasks

import (
	"fmt"

	"github.com/desertthunder/setlist2spotify/internal/matcher"
	"github.com/desertthunder/setlist2spotify/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveArtist Phase = iota
	FetchSetlists
	SearchTracks
	CreatePlaylist
	FindPlaylist
	AddTracks
	ExportSetlists
	Done
)

func (p Phase) String() string {
	switch p {
	case ResolveArtist:
		return "resolve_artist"
	case FetchSetlists:
		return "fetch_setlists"
	case SearchTracks:
		return "search_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case FindPlaylist:
		return "find_playlist"
	case AddTracks:
		return "add_tracks"
	case ExportSetlists:
		return "export_setlists"
	case Done:
		return "done"
	default:
		return ""
	}
}

func resolvedArtistUpdate(query string, o matcher.Outcome) ProgressUpdate {
	msg := fmt.Sprintf("Resolved %q to %q (%s)", query, o.Value, o.Kind)
	if !o.Matched() {
		msg = fmt.Sprintf("No artist match for %q, using it as typed", query)
	}
	return ProgressUpdate{Phase: ResolveArtist, Step: 1, Total: 1, Message: msg, Data: o}
}

func fetchPageUpdate(page, total int, artist string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSetlists,
		Step:    page,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching setlists for %s...", page, total, artist),
	}
}

func fetchedSetlistsUpdate(total int, records []models.SetlistRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSetlists,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Found %d setlists with songs", len(records)),
		Data:    records,
	}
}

func searchTrackUpdate(step, total int, song string, found bool) ProgressUpdate {
	mark := "✓"
	if !found {
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s %s", step, total, mark, song),
	}
}

func createPlaylistUpdate(name, id string) ProgressUpdate {
	if id == "" {
		return ProgressUpdate{Phase: CreatePlaylist, Step: 1, Total: 1, Message: fmt.Sprintf("Creating playlist %q...", name)}
	}
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", name, id),
		Data:    id,
	}
}

func findPlaylistUpdate(name, id string) ProgressUpdate {
	msg := fmt.Sprintf("Looking up playlist %q...", name)
	if id != "" {
		msg = fmt.Sprintf("Found playlist %q (ID: %s)", name, id)
	}
	return ProgressUpdate{Phase: FindPlaylist, Step: 1, Total: 1, Message: msg, Data: id}
}

func addTracksUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Added %d tracks", step, total, count),
	}
}

func exportCompletedUpdate(step, total int, label string, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSetlists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, label, files),
	}
}

func exportFailedUpdate(step, total int, label string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSetlists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, label, err),
		Data:    err,
	}
}

func doneUpdate(result *BuildResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d of %d songs to %s", len(result.Tracks.TrackIDs), len(result.Setlist.Songs), result.PlaylistName),
		Data:    result,
	}
}
