// package services defines the external collaborators of setlist2spotify
//
// setlist.fm (concert data), Spotify (catalog)
package services

import (
	"context"

	"github.com/desertthunder/setlist2spotify/internal/models"
)

// SetlistProvider is a source of concert setlists.
type SetlistProvider interface {
	// SearchArtists returns artists matching name, most relevant first.
	SearchArtists(ctx context.Context, name string) ([]SetlistFMArtist, error)

	// SearchSetlists returns one page (1-based) of setlists for the exact artist name.
	// A page with no results is returned as an empty slice and a nil error.
	SearchSetlists(ctx context.Context, artist string, page int) ([]SetlistFMSetlist, error)

	// Name returns the name of the provider (e.g., "setlist.fm")
	Name() string
}

// Catalog is a streaming catalog that can search tracks and manage playlists.
type Catalog interface {
	// CurrentUser returns the authenticated user's profile.
	CurrentUser(ctx context.Context) (*models.User, error)

	// SearchTrack runs a track search with limit 1 and returns the first hit's ID.
	// found is false when the search succeeded with no results.
	SearchTrack(ctx context.Context, query string) (id string, found bool, err error)

	// CreatePlaylist creates a playlist owned by userID and returns its ID.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error)

	// UserPlaylists returns the first page of userID's playlists.
	UserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error)

	// AddTracks appends trackIDs to the playlist in the given order.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// OAuthService is a [Catalog] authorized through the OAuth2 authorization code flow.
type OAuthService interface {
	Catalog

	// GetAuthURL returns the consent page URL carrying state.
	GetAuthURL(state string) string

	// Authenticate authorizes with an "access_token" (and optional "refresh_token") or an "auth_code".
	Authenticate(ctx context.Context, credentials map[string]string) error
}
