// Package server provides HTTP routing, middleware, the JSON API and the OAuth callback handler.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [ChiRouter] implements
// it with a chi mux; middleware is applied at registration time, first added outermost.
//
// # JSON API
//
// [API] exposes the setlist and playlist operations consumed by the web client:
//
//	GET  /                          hello message
//	GET  /health                    status and version
//	POST /authentication            current Spotify user
//	POST /setlists                  recent setlists of an artist
//	POST /spotify/search/tracks     reconcile songs with the catalog
//	POST /spotify/create/playlist   create "{artist} Setlist @ {venue}"
//	POST /spotify/get/playlist      look up a playlist by name (404 when missing)
//	POST /spotify/add/tracks        append tracks
//
// "Nothing found" outcomes are 200 responses carrying a message. Malformed bodies get 422.
//
// # OAuth Callback Handler
//
// [OAuthHandler] validates the state parameter, exchanges the authorization code for tokens and
// sends the result through a channel. It only processes one callback.
//
// The `s2s auth` command mounts it on the redirect URI's path for the duration of the flow.
package server
