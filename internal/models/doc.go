// Package models defines the domain records passed between the setlist provider,
// the streaming catalog and the HTTP/CLI boundaries.
//
//   - [SetlistRecord] : one concert with its flattened, ordered song list
//   - [TrackMatchResult] : catalog track IDs found for a song list, plus the titles that were not
//   - [Playlist] : catalog playlist metadata
//   - [User] : the authenticated catalog user
//
// JSON tags follow the wire format consumed by the web client.
package models
