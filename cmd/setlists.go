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

func artistArg(cmd *cli.Command) (string, error) {
	artist := strings.TrimSpace(cmd.StringArg("artist"))
	if artist == "" {
		return "", fmt.Errorf("%w: artist", shared.ErrMissingArgument)
	}
	return artist, nil
}

// fetchSetlists returns the normalized setlists of artist, or [shared.ErrNoSetlists].
func (r *Runner) fetchSetlists(ctx context.Context, artist string) ([]models.SetlistRecord, error) {
	if err := r.requireProvider(); err != nil {
		return nil, err
	}

	r.logger.Info("fetching setlists", "artist", artist)
	records := r.engine.FetchSetlists(ctx, artist, nil)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w for %s", shared.ErrNoSetlists, artist)
	}
	return records, nil
}

// Setlists prints or exports the recent setlists of an artist.
func (r *Runner) Setlists(ctx context.Context, cmd *cli.Command) error {
	artist, err := artistArg(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	records, err := r.fetchSetlists(ctx, artist)
	if err != nil {
		return err
	}

	if limit := cmd.Int("limit"); limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	if out := cmd.String("out"); out != "" {
		return r.exportSetlists(ctx, artist, records, tasks.ExportOpts{
			Format:     format,
			OutputDir:  out,
			NumWorkers: cmd.Int("workers"),
		})
	}

	return formatter.WriteSetlists(r.output, format, artist, records)
}

func (r *Runner) exportSetlists(ctx context.Context, artist string, records []models.SetlistRecord, opts tasks.ExportOpts) error {
	progress := make(chan tasks.ProgressUpdate, len(records)+1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.engine.ExportSetlists(ctx, progress, artist, records, opts)
	close(progress)
	<-done
	if err != nil && result == nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Exported setlists for %s", artist))
	for _, res := range result.Results {
		if res.Success() {
			r.writePlain("✓ %s\n", strings.Join(res.Files, ", "))
		} else {
			r.writePlain("✗ %s: %v\n", res.Label, res.Error)
		}
	}
	r.writePlain("\n%d/%d exported to %s\n", result.SuccessfulExports, result.TotalSetlists, result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	return err
}
