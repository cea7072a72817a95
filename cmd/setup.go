package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the bundled example configuration to the config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if _, err := os.Stat(path); err == nil {
		if !cmd.Bool("force") {
			return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidArgument, path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	r.logger.Info("creating config file from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Configuration written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in credentials.spotify.client_id and client_secret (or set %s / %s)\n",
		shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret)
	r.writePlain("2. Fill in credentials.setlistfm.api_key (or set %s)\n", shared.EnvSetlistFMAPIKey)
	r.writePlain("3. Run 's2s auth' to connect your Spotify account\n")
	return nil
}
