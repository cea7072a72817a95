package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/desertthunder/setlist2spotify/internal/tasks"
	"github.com/urfave/cli/v3"
)

type buildOutput struct {
	Artist       string                  `json:"artist"`
	Setlist      models.SetlistRecord    `json:"setlist"`
	PlaylistID   string                  `json:"playlist_id"`
	PlaylistName string                  `json:"playlist_name"`
	Created      bool                    `json:"created"`
	Tracks       models.TrackMatchResult `json:"tracks"`
}

// Build turns the --index'th recent setlist of an artist into a playlist.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	artist, err := artistArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	records, err := r.fetchSetlists(ctx, artist)
	if err != nil {
		return err
	}

	index := cmd.Int("index")
	if index < 1 || index > len(records) {
		return fmt.Errorf("%w: --index must be between 1 and %d", shared.ErrInvalidArgument, len(records))
	}
	setlist := records[index-1]

	req := tasks.BuildRequest{
		Artist:           artist,
		Setlist:          &setlist,
		ExistingPlaylist: cmd.String("existing"),
	}

	var result *tasks.BuildResult
	err = r.withReauth(ctx, func() error {
		result, err = r.runBuild(ctx, req)
		return err
	})
	if err != nil {
		if result != nil && len(result.Tracks.NotFound) > 0 {
			r.logger.Warn("songs not found", "songs", result.Tracks.NotFound)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(buildOutput{
			Artist:       result.Artist,
			Setlist:      result.Setlist,
			PlaylistID:   result.PlaylistID,
			PlaylistName: result.PlaylistName,
			Created:      result.Created,
			Tracks:       result.Tracks,
		}, true)
	}

	r.writePlainHeader(result.PlaylistName)
	r.writePlain("Setlist:  %s\n", result.Setlist.Title())
	if result.Created {
		r.writePlain("Playlist: %s (created)\n", result.PlaylistID)
	} else {
		r.writePlain("Playlist: %s (existing)\n", result.PlaylistID)
	}
	r.writePlain("Tracks:   %d/%d added\n", len(result.Tracks.TrackIDs), len(result.Setlist.Songs))
	if len(result.Tracks.NotFound) > 0 {
		r.writePlainln("Not found on Spotify:")
		for _, song := range result.Tracks.NotFound {
			r.writePlain("  - %s\n", song)
		}
	}
	return nil
}

// runBuild runs the engine's build while logging its progress updates.
func (r *Runner) runBuild(ctx context.Context, req tasks.BuildRequest) (*tasks.BuildResult, error) {
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := r.engine.Build(ctx, req, progress)
	close(progress)
	<-done
	return result, err
}
