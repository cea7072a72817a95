// package tasks turns concert setlists into catalog playlists.
//
// The core abstraction is Engine, which resolves artists, normalizes setlists, reconciles songs
// against the catalog and assembles playlists.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlist2spotify/internal/matcher"
	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/services"
	"github.com/desertthunder/setlist2spotify/internal/shared"
)

const (
	// DefaultPageDelay separates consecutive setlist page requests.
	DefaultPageDelay = 1500 * time.Millisecond

	// maxSetlistPages is the number of setlist pages fetched per artist.
	maxSetlistPages = 2

	// DefaultDescription is attached to every created playlist.
	DefaultDescription = "Generated by Setlist2Spotify© - An open-source tool that transforms live concert setlists into Spotify playlists. Created by @djlbelo on GitHub."
)

// Engine defines the setlist-to-playlist operations exposed to the HTTP and CLI boundaries.
type Engine interface {
	// CurrentUser returns the authenticated catalog user.
	CurrentUser(ctx context.Context) (*models.User, error)

	// ResolveArtist maps a typed artist name onto the provider's spelling. Never fails.
	ResolveArtist(ctx context.Context, query string) matcher.Outcome

	// FetchSetlists returns the normalized recent setlists of an artist, empty when none are usable.
	FetchSetlists(ctx context.Context, artist string, progress chan<- ProgressUpdate) []models.SetlistRecord

	// Reconcile searches the catalog for every song.
	Reconcile(ctx context.Context, songs []string, artist string, progress chan<- ProgressUpdate) models.TrackMatchResult

	// CreatePlaylist creates "{artist} Setlist @ {venue}" and reports whether it succeeded.
	CreatePlaylist(ctx context.Context, userID, artist, venue string) (string, bool)

	// FindPlaylist locates one of the user's playlists by (approximate) name.
	FindPlaylist(ctx context.Context, userID, name string) (string, bool, error)

	// AddTracks appends tracks to a playlist.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// Build runs the whole flow for one setlist.
	Build(ctx context.Context, req BuildRequest, progress chan<- ProgressUpdate) (*BuildResult, error)
}

// Options tunes a [SetlistEngine]. Zero values select the defaults.
type Options struct {
	PageDelay   time.Duration // delay between setlist pages
	Cutoff      float64       // fuzzy match cutoff
	Description string        // playlist description
	BatchSize   int           // tracks per append call; 0 sends all tracks in one call
}

// OptionsFromConfig maps the config sections onto engine options.
func OptionsFromConfig(c *shared.Config) Options {
	return Options{
		PageDelay:   c.Setlists.PageDelay(),
		Cutoff:      c.Matcher.Cutoff,
		Description: c.Catalog.Description,
		BatchSize:   c.Catalog.BatchSize,
	}
}

// SetlistEngine implements [Engine].
type SetlistEngine struct {
	provider services.SetlistProvider
	catalog  services.Catalog
	matcher  matcher.Matcher
	logger   *log.Logger
	opts     Options
}

// NewSetlistEngine creates a new SetlistEngine. A nil logger writes to stderr; a negative PageDelay disables the delay.
func NewSetlistEngine(provider services.SetlistProvider, catalog services.Catalog, logger *log.Logger, opts Options) *SetlistEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.PageDelay < 0 {
		opts.PageDelay = 0
	} else if opts.PageDelay == 0 {
		opts.PageDelay = DefaultPageDelay
	}
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}
	return &SetlistEngine{
		provider: provider,
		catalog:  catalog,
		matcher:  matcher.New(opts.Cutoff),
		logger:   logger,
		opts:     opts,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *SetlistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *SetlistEngine) requireCatalog() error {
	if e.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// CurrentUser returns the authenticated catalog user.
func (e *SetlistEngine) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := e.requireCatalog(); err != nil {
		return nil, err
	}
	return e.catalog.CurrentUser(ctx)
}
