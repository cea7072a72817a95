// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/setlist2spotify/internal/formatter"
	"github.com/urfave/cli/v3"
)

// version is reported by `s2s --version` and GET /health.
const version = "0.3.0"

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "s2s",
		Usage:   "Turn live concert setlists into Spotify playlists",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

// setupCommand handles configuration bootstrapping.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write config.toml from the bundled example",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing configuration file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand runs the Spotify authorization flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2 and store the token",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
		},
		Action: r.Auth,
	}
}

// setlistsCommand fetches and renders the recent setlists of an artist.
func setlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "setlists",
		Usage:     "Show the recent setlists of an artist",
		ArgsUsage: "<artist>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json, csv, markdown, text, table)",
				Value:   string(formatter.Table),
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of setlists to show (0 for all)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Export one file per setlist into this directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 4,
			},
		},
		Action: r.Setlists,
	}
}

// tracksCommand reconciles song titles against the catalog.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Search Spotify for each song of an artist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "Artist name",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "song",
				Aliases:  []string{"s"},
				Usage:    "Song title (repeatable)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Tracks,
	}
}

// playlistCommand groups the playlist assembler operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Spotify playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create \"{artist} Setlist @ {venue}\"",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "Spotify user ID (defaults to the authenticated user)"},
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Artist name", Required: true},
					&cli.StringFlag{Name: "venue", Aliases: []string{"v"}, Usage: "Venue label", Required: true},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "find",
				Usage: "Find one of your playlists by (approximate) name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "Spotify user ID (defaults to the authenticated user)"},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Playlist name", Required: true},
				},
				Action: r.PlaylistFind,
			},
			{
				Name:  "add",
				Usage: "Append tracks to a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
					&cli.StringSliceFlag{Name: "track", Aliases: []string{"t"}, Usage: "Track ID (repeatable)", Required: true},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "list",
				Usage: "List your playlists (first page)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "Spotify user ID (defaults to the authenticated user)"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.PlaylistList,
			},
		},
	}
}

// buildCommand runs the whole setlist-to-playlist flow.
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Build a playlist from one of an artist's recent setlists",
		ArgsUsage: "<artist>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "index",
				Aliases: []string{"i"},
				Usage:   "1-based position of the setlist in the fetched list",
				Value:   1,
			},
			&cli.StringFlag{
				Name:  "existing",
				Usage: "Append to this existing playlist instead of creating one",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Before: r.validateConfig,
		Action: r.Build,
	}
}

// serveCommand starts the HTTP boundary.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API used by the web client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Interface to bind (overrides server.host)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to bind (overrides server.port)"},
		},
		Before: r.validateConfig,
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist building.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Aliases:   []string{"interactive", "ui"},
		Usage:     "Pick a setlist interactively and build its playlist",
		ArgsUsage: "<artist>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "existing",
				Usage: "Append to this existing playlist instead of creating one",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where TUI logs are written",
				Value: "./tmp/s2s-tui.log",
			},
		},
		Action: r.TUI,
	}
}
