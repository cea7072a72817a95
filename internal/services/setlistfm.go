// setlist.fm API implementation of [SetlistProvider]
//
// Response types based on https://api.setlist.fm/docs/1.0/index.html
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/setlist2spotify/internal/shared"
)

// SetlistFMArtist is an entry of the artist search result.
type SetlistFMArtist struct {
	MBID           string `json:"mbid"`
	Name           string `json:"name"`
	SortName       string `json:"sortName"`
	Disambiguation string `json:"disambiguation"`
	URL            string `json:"url"`
}

// SetlistFMCountry is the country a city belongs to.
type SetlistFMCountry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SetlistFMCity is the city of a venue.
type SetlistFMCity struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	State     string            `json:"state"`
	StateCode string            `json:"stateCode"`
	Country   *SetlistFMCountry `json:"country"`
}

// SetlistFMVenue is the venue a concert was played at.
type SetlistFMVenue struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	City *SetlistFMCity `json:"city"`
	URL  string         `json:"url"`
}

// SetlistFMSong is a single performed song.
type SetlistFMSong struct {
	Name string `json:"name"`
	Info string `json:"info,omitempty"`
	Tape bool   `json:"tape,omitempty"`
}

// SetlistFMSet is one set (main set, encore, ...) of a concert.
type SetlistFMSet struct {
	Name   string          `json:"name,omitempty"`
	Encore int             `json:"encore,omitempty"`
	Song   []SetlistFMSong `json:"song"`
}

// SetlistFMSets wraps the list of sets.
type SetlistFMSets struct {
	Set []SetlistFMSet `json:"set"`
}

// SetlistFMTour is the tour a concert belongs to.
type SetlistFMTour struct {
	Name string `json:"name"`
}

// SetlistFMSetlist is a raw setlist as returned by the setlist search.
type SetlistFMSetlist struct {
	ID        string           `json:"id"`
	EventDate string           `json:"eventDate"`
	Artist    *SetlistFMArtist `json:"artist"`
	Venue     *SetlistFMVenue  `json:"venue"`
	Tour      *SetlistFMTour   `json:"tour"`
	Sets      SetlistFMSets    `json:"sets"`
	URL       string           `json:"url"`
}

// Songs flattens every set's songs in order. Entries with an empty name are kept.
func (s SetlistFMSetlist) Songs() []string {
	var songs []string
	for _, set := range s.Sets.Set {
		for _, song := range set.Song {
			songs = append(songs, song.Name)
		}
	}
	return songs
}

type artistSearchResult struct {
	Artist       []SetlistFMArtist `json:"artist"`
	Total        int               `json:"total"`
	Page         int               `json:"page"`
	ItemsPerPage int               `json:"itemsPerPage"`
}

type setlistSearchResult struct {
	Setlist      []SetlistFMSetlist `json:"setlist"`
	Total        int                `json:"total"`
	Page         int                `json:"page"`
	ItemsPerPage int                `json:"itemsPerPage"`
}

// SetlistFMService queries the setlist.fm REST API.
//
// A 404 is setlist.fm's way of saying "no results" and is reported as an empty page.
// Any other non-2xx status is returned as a [*shared.StatusError].
type SetlistFMService struct {
	api *APIService
}

// NewSetlistFMService creates a client authenticated by apiKey. An empty baseURL targets the public API.
func NewSetlistFMService(apiKey, baseURL string, client *http.Client) (*SetlistFMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: setlist.fm api key", shared.ErrMissingCredentials)
	}
	api := NewAPIService(baseURL, client).WithHeader("x-api-key", apiKey)
	return &SetlistFMService{api: api}, nil
}

func (s *SetlistFMService) Name() string { return "setlist.fm" }

// SearchArtists returns artists matching name, ordered by relevance.
func (s *SetlistFMService) SearchArtists(ctx context.Context, name string) ([]SetlistFMArtist, error) {
	q := url.Values{}
	q.Set("artistName", name)
	q.Set("sort", "relevance")

	var result artistSearchResult
	if err := s.get(ctx, "/search/artists?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Artist, nil
}

// SearchSetlists returns one page (1-based) of setlists for the exact artist name.
func (s *SetlistFMService) SearchSetlists(ctx context.Context, artist string, page int) ([]SetlistFMSetlist, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("artistName", artist)
	q.Set("p", strconv.Itoa(page))

	var result setlistSearchResult
	if err := s.get(ctx, "/search/setlists?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return result.Setlist, nil
}

func (s *SetlistFMService) get(ctx context.Context, path string, v any) error {
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil
	case !resp.OK():
		return &shared.StatusError{Service: s.Name(), StatusCode: resp.StatusCode, Body: truncate(string(resp.Body), 200)}
	case !resp.IsJSON:
		return fmt.Errorf("%w: %s returned a non-JSON body", shared.ErrAPIRequest, s.Name())
	}
	return resp.Decode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
