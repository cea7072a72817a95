package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
)

// BuildRequest selects the setlist to turn into a playlist.
//
// Setlist is optional; when nil the most recent setlist of Artist is fetched.
// ExistingPlaylist, when set, appends to that playlist (looked up by name) instead of creating one.
type BuildRequest struct {
	Artist           string
	UserID           string
	Setlist          *models.SetlistRecord
	ExistingPlaylist string
}

// BuildResult contains all data from a full build.
type BuildResult struct {
	Artist       string
	Setlist      models.SetlistRecord
	Tracks       models.TrackMatchResult
	PlaylistID   string
	PlaylistName string
	Created      bool
}

// Build resolves the artist, reconciles the setlist's songs, creates (or locates) the
// playlist and appends the found tracks.
func (e *SetlistEngine) Build(ctx context.Context, req BuildRequest, progress chan<- ProgressUpdate) (*BuildResult, error) {
	if req.Artist == "" {
		return nil, fmt.Errorf("%w: artist", shared.ErrMissingArgument)
	}
	if err := e.requireCatalog(); err != nil {
		return nil, err
	}

	if req.UserID == "" {
		user, err := e.catalog.CurrentUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		req.UserID = user.ID
	}

	resolved := e.ResolveArtist(ctx, req.Artist)
	result := &BuildResult{Artist: resolved.Value}

	if req.Setlist != nil {
		e.sendProgress(progress, resolvedArtistUpdate(req.Artist, resolved))
		result.Setlist = *req.Setlist
	} else {
		records := e.FetchSetlists(ctx, resolved.Value, progress)
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %s", shared.ErrNoSetlists, resolved.Value)
		}
		result.Setlist = records[0]
	}

	result.Tracks = e.Reconcile(ctx, result.Setlist.Songs, resolved.Value, progress)
	if result.Tracks.Empty() {
		return result, fmt.Errorf("%w: none of the %d songs matched", shared.ErrNoTracks, len(result.Setlist.Songs))
	}

	if req.ExistingPlaylist != "" {
		e.sendProgress(progress, findPlaylistUpdate(req.ExistingPlaylist, ""))
		id, ok, err := e.FindPlaylist(ctx, req.UserID, req.ExistingPlaylist)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, req.ExistingPlaylist)
		}
		result.PlaylistID, result.PlaylistName = id, req.ExistingPlaylist
		e.sendProgress(progress, findPlaylistUpdate(req.ExistingPlaylist, id))
	} else {
		venue := result.Setlist.VenueLabel()
		result.PlaylistName = PlaylistName(resolved.Value, venue)
		e.sendProgress(progress, createPlaylistUpdate(result.PlaylistName, ""))

		id, ok := e.CreatePlaylist(ctx, req.UserID, resolved.Value, venue)
		if !ok {
			return result, fmt.Errorf("%w: failed to create playlist %q", shared.ErrAPIRequest, result.PlaylistName)
		}
		result.PlaylistID, result.Created = id, true
		e.sendProgress(progress, createPlaylistUpdate(result.PlaylistName, id))
	}

	if err := e.AddTracks(ctx, result.PlaylistID, result.Tracks.TrackIDs); err != nil {
		return result, err
	}
	e.sendProgress(progress, addTracksUpdate(1, 1, len(result.Tracks.TrackIDs)))
	e.sendProgress(progress, doneUpdate(result))

	return result, nil
}
