package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist2spotify/internal/services"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/desertthunder/setlist2spotify/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	provider    services.SetlistProvider
	catalog     services.Catalog
	spotify     *services.SpotifyService
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	engine      *tasks.SetlistEngine
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Provider and Catalog are built from the config in [Runner.Before] when left nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Provider   services.SetlistProvider
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		provider:    opts.Provider,
		catalog:     opts.Catalog,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: shared.OpenBrowser,
	}
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	r.rebuildEngine()
	return r
}

// Before loads configuration and connects the services before any command runs.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" {
		r.configPath = path
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			config, err := shared.LoadConfig(r.configPath)
			if err != nil {
				return ctx, err
			}
			r.config = config
		} else {
			r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		}
	}
	r.config.ApplyEnv()

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, level)

	r.connect(ctx)
	return ctx, nil
}

// connect creates the setlist.fm and Spotify clients that were not injected.
func (r *Runner) connect(ctx context.Context) {
	creds := r.config.Credentials

	if r.provider == nil && creds.SetlistFM.APIKey != "" {
		if svc, err := services.NewSetlistFMService(creds.SetlistFM.APIKey, creds.SetlistFM.BaseURL, r.httpClient); err == nil {
			r.provider = svc
		} else {
			r.logger.Warn("setlist.fm client unavailable", "error", err)
		}
	}

	if r.catalog == nil && creds.Spotify.ClientID != "" && creds.Spotify.ClientSecret != "" {
		svc, err := services.NewSpotifyService(creds.Spotify.Map())
		if err != nil {
			r.logger.Warn("spotify client unavailable", "error", err)
		} else {
			svc.SetTokenRefreshCallback(r.persistToken)
			if token := creds.Spotify.Token(); token != nil {
				if err := svc.OAuthenticate(ctx, token); err != nil {
					r.logger.Warn("stored spotify token rejected", "error", err)
				}
			}
			r.spotify = svc
			r.catalog = svc
		}
	}

	r.rebuildEngine()
}

func (r *Runner) rebuildEngine() {
	r.engine = tasks.NewSetlistEngine(r.provider, r.catalog, r.logger, tasks.OptionsFromConfig(r.config))
}

// SetLogger swaps the logger used by the runner and its engine.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.rebuildEngine()
}

func (r *Runner) requireProvider() error {
	if r.provider == nil {
		return fmt.Errorf("%w: setlist.fm api_key is not configured (set %s or credentials.setlistfm.api_key)",
			shared.ErrMissingCredentials, shared.EnvSetlistFMAPIKey)
	}
	return nil
}

// validateConfig fails commands that need both services when the configuration cannot build them.
func (r *Runner) validateConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.provider != nil && r.catalog != nil {
		return ctx, nil
	}
	if err := r.config.Validate(); err != nil {
		return ctx, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return ctx, nil
}

func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}
	return nil
}

// saveTokens stores token in the config and writes it to the config file when one is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return errors.New("config is nil")
	}
	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}
	if r.configPath == "" {
		return nil
	}
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// persistToken is the Spotify token refresh callback.
func (r *Runner) persistToken(token *oauth2.Token) {
	if err := r.saveTokens(token); err != nil {
		r.logger.Warn("failed to persist refreshed token", "error", err)
		return
	}
	r.logger.Debug("persisted refreshed spotify token", "expiry", token.Expiry)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, setlistsCommand, tracksCommand, playlistCommand, buildCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
