package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/setlist2spotify/internal/formatter"
	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/desertthunder/setlist2spotify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// userID returns the --user flag, falling back to the authenticated user.
func (r *Runner) userID(ctx context.Context, cmd *cli.Command) (string, error) {
	if id := strings.TrimSpace(cmd.String("user")); id != "" {
		return id, nil
	}

	var user *models.User
	err := r.withReauth(ctx, func() (err error) {
		user, err = r.engine.CurrentUser(ctx)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return user.ID, nil
}

// Tracks searches the catalog for each --song by --artist.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	artist := cmd.String("artist")
	songs := cmd.StringSlice("song")
	r.logger.Info("searching tracks", "artist", artist, "songs", len(songs))

	result := r.engine.Reconcile(ctx, songs, artist, nil)

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	if result.Empty() {
		return r.writePlain("No tracks found on Spotify.\n")
	}
	return r.writePlain("%s\n", formatter.MatchTable(result, shared.IsTerminal(r.output)))
}

// PlaylistCreate creates "{artist} Setlist @ {venue}" for the user.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	userID, err := r.userID(ctx, cmd)
	if err != nil {
		return err
	}

	artist, venue := cmd.String("artist"), cmd.String("venue")
	id, ok := r.engine.CreatePlaylist(ctx, userID, artist, venue)
	if !ok {
		return fmt.Errorf("%w: failed to create playlist", shared.ErrAPIRequest)
	}

	r.writePlain("✓ Created %s\n", tasks.PlaylistName(r.engine.ResolveArtist(ctx, artist).Value, venue))
	return r.writePlain("Playlist ID: %s\n", id)
}

// PlaylistFind prints the ID of the user's playlist best matching --name.
func (r *Runner) PlaylistFind(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	userID, err := r.userID(ctx, cmd)
	if err != nil {
		return err
	}

	name := cmd.String("name")
	var (
		id    string
		found bool
	)
	err = r.withReauth(ctx, func() (err error) {
		id, found, err = r.engine.FindPlaylist(ctx, userID, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("error finding playlist: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: no playlist found with name '%s'", shared.ErrPlaylistNotFound, name)
	}
	return r.writePlain("%s\n", id)
}

// PlaylistAdd appends --track IDs to the playlist --id.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	id := cmd.String("id")
	tracks := cmd.StringSlice("track")

	err := r.withReauth(ctx, func() error {
		return r.engine.AddTracks(ctx, id, tracks)
	})
	if err != nil {
		return fmt.Errorf("failed to add tracks: %w", err)
	}
	return r.writePlain("✓ Added %d tracks to %s\n", len(tracks), id)
}

// PlaylistList prints the first page of the user's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	userID, err := r.userID(ctx, cmd)
	if err != nil {
		return err
	}

	var playlists []models.Playlist
	err = r.withReauth(ctx, func() (err error) {
		playlists, err = r.catalog.UserPlaylists(ctx, userID)
		return err
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}
	return r.writePlain("%s\n", formatter.PlaylistsTable(playlists, shared.IsTerminal(r.output)))
}
