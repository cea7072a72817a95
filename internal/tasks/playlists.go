package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlist2spotify/internal/matcher"
	"github.com/desertthunder/setlist2spotify/internal/shared"
)

// PlaylistName formats the name of a setlist playlist.
func PlaylistName(artist, venue string) string {
	return fmt.Sprintf("%s Setlist @ %s", artist, venue)
}

// CreatePlaylist creates a public playlist named after the resolved artist and venue.
//
// A failed attempt is retried once without a description. ok is false when both attempts fail.
func (e *SetlistEngine) CreatePlaylist(ctx context.Context, userID, artist, venue string) (string, bool) {
	if err := e.requireCatalog(); err != nil {
		e.logger.Error("cannot create playlist", "error", err)
		return "", false
	}

	name := PlaylistName(e.ResolveArtist(ctx, artist).Value, venue)
	logger := e.logger.With("user", userID, "playlist", name)

	id, err := e.catalog.CreatePlaylist(ctx, userID, name, e.opts.Description, true)
	if err == nil {
		logger.Info("created playlist", "id", id)
		return id, true
	}
	logger.Warn("error creating playlist, retrying without description", "error", err)

	id, err = e.catalog.CreatePlaylist(ctx, userID, name, "", true)
	if err != nil {
		logger.Error("failed to create playlist", "error", err)
		return "", false
	}
	logger.Info("created playlist", "id", id)
	return id, true
}

// FindPlaylist looks name up among the first page of the user's playlists: exact
// (case-insensitive) first, then the closest fuzzy match. err is only set when listing fails.
func (e *SetlistEngine) FindPlaylist(ctx context.Context, userID, name string) (string, bool, error) {
	if err := e.requireCatalog(); err != nil {
		return "", false, err
	}

	playlists, err := e.catalog.UserPlaylists(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("failed to list playlists: %w", err)
	}

	ix := matcher.NewIndex(e.matcher)
	for _, p := range playlists {
		ix.Add(p.Name, p.ID)
	}

	id, outcome, ok := ix.Lookup(name)
	if !ok {
		e.logger.Info("no playlist matched", "user", userID, "name", name, "candidates", ix.Len())
		return "", false, nil
	}
	e.logger.Debug("playlist matched", "name", name, "match", outcome.Value, "kind", outcome.Kind, "score", outcome.Score)
	return id, true, nil
}

// AddTracks appends trackIDs to the playlist. An empty list makes no call.
//
// With a positive BatchSize the tracks are sent in chunks of that size, in order.
func (e *SetlistEngine) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if err := e.requireCatalog(); err != nil {
		return err
	}
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	if len(trackIDs) == 0 {
		return nil
	}

	for _, chunk := range chunks(trackIDs, e.opts.BatchSize) {
		if err := e.catalog.AddTracks(ctx, playlistID, chunk); err != nil {
			return fmt.Errorf("failed to add tracks to %s: %w", playlistID, err)
		}
	}
	return nil
}

func chunks(ids []string, size int) [][]string {
	if size <= 0 || len(ids) <= size {
		return [][]string{ids}
	}
	out := make([][]string, 0, (len(ids)+size-1)/size)
	for i := 0; i < len(ids); i += size {
		out = append(out, ids[i:min(i+size, len(ids))])
	}
	return out
}
