// Spotify implementation of [Catalog] on top of github.com/zmb3/spotify/v2
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// DefaultSpotifyAPIURL is the Web API root used when no api_url override is configured.
const DefaultSpotifyAPIURL = "https://api.spotify.com/v1/"

// DefaultRedirectURI is used when the credentials carry no redirect_uri.
const DefaultRedirectURI = "http://127.0.0.1:8888/callback"

// userPlaylistLimit is the page size of the single playlist page fetched by [SpotifyService.UserPlaylists].
const userPlaylistLimit = 50

// SpotifyService implements [OAuthService] for the Spotify Web API.
//
// Tokens are refreshed by [oauth2] and every new access token is reported to the callback
// registered with [SpotifyService.SetTokenRefreshCallback].
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	client         *spotify.Client
	credentials    map[string]string
	apiURL         string
	onTokenRefresh func(*oauth2.Token)
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
//
// Recognized keys: client_id, client_secret, redirect_uri and api_url (a base URL override used in tests).
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}

	apiURL := credentials["api_url"]
	if apiURL != "" && !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{spotifyauth.ScopePlaylistModifyPublic},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}

	return &SpotifyService{
		config:      config,
		httpClient:  http.DefaultClient,
		credentials: credentials,
		apiURL:      apiURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the callback handler's code exchange.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers fn to receive every new access token. Must be called before authenticating.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// Authenticate performs OAuth2 authentication with Spotify. Expects either an "access_token" or "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken := credentials["access_token"]; accessToken != "" {
		s.setToken(ctx, &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
			TokenType:    "Bearer",
		})
		return nil
	}

	if authCode := credentials["auth_code"]; authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		s.setToken(ctx, token)
		if s.onTokenRefresh != nil {
			s.onTokenRefresh(token)
		}
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code in credentials", shared.ErrMissingCredentials)
}

// OAuthenticate authorizes with a previously stored token.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: no stored token, run `s2s auth`", shared.ErrNotAuthenticated)
	}
	s.setToken(ctx, token)
	return nil
}

func (s *SpotifyService) setToken(ctx context.Context, token *oauth2.Token) {
	ctx = context.WithoutCancel(ctx)
	s.token = token
	src := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.onTokenRefresh,
		last:     token.AccessToken,
	}
	s.httpClient = oauth2.NewClient(ctx, src)

	var opts []spotify.ClientOption
	if s.apiURL != "" {
		opts = append(opts, spotify.WithBaseURL(s.apiURL))
	}
	s.client = spotify.New(s.httpClient, opts...)
}

func (s *SpotifyService) ready() error {
	if s.client == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}
	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	u, err := s.client.CurrentUser(ctx)
	if err != nil {
		return nil, wrapSpotifyError("fetch current user", err)
	}
	return &models.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Country:     u.Country,
		Product:     u.Product,
	}, nil
}

// SearchTrack searches tracks with limit 1 and returns the first hit.
func (s *SpotifyService) SearchTrack(ctx context.Context, query string) (string, bool, error) {
	if err := s.ready(); err != nil {
		return "", false, err
	}
	res, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return "", false, wrapSpotifyError("search tracks", err)
	}
	if res.Tracks == nil || len(res.Tracks.Tracks) == 0 {
		return "", false, nil
	}
	return res.Tracks.Tracks[0].ID.String(), true, nil
}

// CreatePlaylist creates a non-collaborative playlist for userID.
//
// An empty description sends a body with only name and public.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if description == "" {
		return s.createMinimalPlaylist(ctx, userID, name, public)
	}
	p, err := s.client.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return "", wrapSpotifyError("create playlist", err)
	}
	return p.ID.String(), nil
}

type minimalPlaylist struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// createMinimalPlaylist posts the playlist without the SDK, which always serializes description and collaborative.
func (s *SpotifyService) createMinimalPlaylist(ctx context.Context, userID, name string, public bool) (string, error) {
	const op = "create playlist"
	data, err := json.Marshal(minimalPlaylist{Name: name, Public: public})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
	}

	baseURL := s.apiURL
	if baseURL == "" {
		baseURL = DefaultSpotifyAPIURL
	}
	resp, err := NewAPIService(baseURL, s.httpClient).Post(ctx, "users/"+url.PathEscape(userID)+"/playlists", data)
	if err != nil {
		return "", wrapSpotifyError(op, err)
	}
	if !resp.OK() {
		var body struct {
			Error spotify.Error `json:"error"`
		}
		_ = resp.Decode(&body)
		body.Error.Status = resp.StatusCode
		return "", wrapSpotifyError(op, body.Error)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := resp.Decode(&created); err != nil {
		return "", fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
	}
	return created.ID, nil
}

// UserPlaylists returns the first page (up to 50) of userID's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	page, err := s.client.GetPlaylistsForUser(ctx, userID, spotify.Limit(userPlaylistLimit))
	if err != nil {
		return nil, wrapSpotifyError("list playlists", err)
	}

	playlists := make([]models.Playlist, 0, len(page.Playlists))
	for _, sp := range page.Playlists {
		playlists = append(playlists, models.Playlist{
			ID:          sp.ID.String(),
			Name:        sp.Name,
			Description: sp.Description,
			TrackCount:  int(sp.Tracks.Total),
			Public:      sp.IsPublic,
		})
	}
	return playlists, nil
}

// AddTracks appends trackIDs to the playlist in a single request.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if err := s.ready(); err != nil {
		return err
	}
	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}
	if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
		return wrapSpotifyError("add tracks", err)
	}
	return nil
}

func wrapSpotifyError(op string, err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s: %s", shared.ErrTokenExpired, op, apiErr.Message)
		}
		return &shared.StatusError{Service: "Spotify", StatusCode: apiErr.Status, Body: op + ": " + apiErr.Message}
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %s: %v", shared.ErrTokenExpired, op, err)
	}
	return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and reports every access token it has not seen yet.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	mu       sync.Mutex
	last     string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}
	return token, nil
}
