package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/desertthunder/setlist2spotify/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive setlist picker for an artist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	artist, err := artistArg(cmd)
	if err != nil {
		return err
	}
	if err := r.requireProvider(); err != nil {
		return err
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, f, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine, artist, cmd.String("existing"))
	p := tea.NewProgram(model, tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	if err := model.Err(); err != nil {
		return err
	}
	if res := model.Result(); res != nil {
		r.writePlain("✓ %s (%s): %d tracks added\n", res.PlaylistName, res.PlaylistID, len(res.Tracks.TrackIDs))
	}
	return nil
}
