// package models defines the data model for setlist2spotify
package models

import (
	"fmt"
	"strings"
)

// Defaults applied when setlist.fm omits a field.
const (
	UnknownVenue   = "Unknown Venue"
	UnknownDate    = "Unknown Date"
	UnknownCity    = "Unknown City"
	UnknownCountry = "Unknown Country"
	RegularConcert = "Regular Concert"
)

// SetlistRecord is a normalized concert. Songs is never empty and preserves performance order.
type SetlistRecord struct {
	ID          string   `json:"id,omitempty"`
	ConcertName string   `json:"concertName"`
	Venue       string   `json:"venue"`
	EventDate   string   `json:"eventDate"`
	Location    string   `json:"location"`
	Songs       []string `json:"songs"`
	Tour        string   `json:"tour,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// VenueLabel returns "venue - location", the venue name the web client sends when creating playlists.
func (s SetlistRecord) VenueLabel() string {
	return fmt.Sprintf("%s - %s", s.Venue, s.Location)
}

// Title returns a one-line summary used in lists.
func (s SetlistRecord) Title() string {
	return fmt.Sprintf("%s @ %s (%s)", s.EventDate, s.Venue, s.Location)
}

// FormatLocation joins city, optional state and optional country with ", ".
func FormatLocation(city, state, country string) string {
	parts := []string{city}
	if state != "" {
		parts = append(parts, state)
	}
	if country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}

// TrackMatchResult holds catalog IDs in song order and the titles that had no hit.
//
// len(TrackIDs)+len(NotFound) equals the number of songs reconciled.
type TrackMatchResult struct {
	TrackIDs []string `json:"track_ids"`
	NotFound []string `json:"not_found"`
}

// NewTrackMatchResult returns a result with non-nil slices sized for n songs.
func NewTrackMatchResult(n int) TrackMatchResult {
	return TrackMatchResult{TrackIDs: make([]string, 0, n), NotFound: make([]string, 0)}
}

// Empty reports whether no track was found.
func (r TrackMatchResult) Empty() bool { return len(r.TrackIDs) == 0 }

// Playlist represents a catalog playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// User represents the authenticated catalog user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country,omitempty"`
	Product     string `json:"product,omitempty"`
}
