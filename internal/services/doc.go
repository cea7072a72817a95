// Package services implements the two external collaborators: a setlist provider ([SetlistProvider]) and a
// streaming catalog ([Catalog]).
//
// # setlist.fm
//
// [SetlistFMService] issues GET requests through [APIService], which keeps the raw status, headers and body of
// every response. The API key travels in the x-api-key header. A 404 means "no results" and is reported as an
// empty page; any other non-2xx status becomes a [shared.StatusError], so callers can detect rate limiting with
// errors.Is(err, [shared.ErrRateLimited]).
//
// # Spotify
//
// [SpotifyService] wraps github.com/zmb3/spotify/v2. Authorization uses the OAuth2 authorization code flow with
// the single scope playlist-modify-public. The [oauth2] client refreshes expired tokens and every new token is
// handed to the callback registered with [SpotifyService.SetTokenRefreshCallback], which the CLI uses to persist it.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : OAuth token expired or refresh failed, reauthorization needed
//   - [shared.ErrAPIRequest] : HTTP request failed with a non-2xx status
//   - [shared.ErrServiceUnavailable] : the request never produced a response
package services
