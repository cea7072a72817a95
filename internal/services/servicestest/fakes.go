// Package servicestest provides in-memory implementations of the service interfaces for tests.
package servicestest

import (
	"context"
	"sync"

	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/services"
)

// FakeCatalog is an in-memory [services.Catalog].
//
// Tracks maps search queries to track IDs; Playlists is the single page returned by UserPlaylists.
// The Err fields force the matching method to fail.
type FakeCatalog struct {
	User      models.User
	Tracks    map[string]string
	Playlists []models.Playlist

	UserErr   error
	SearchErr map[string]error
	CreateErr []error
	ListErr   error
	AddErr    error

	mu       sync.Mutex
	Searches []string
	Created  []CreatedPlaylist
	Added    map[string][][]string
}

// CreatedPlaylist records a CreatePlaylist call.
type CreatedPlaylist struct {
	UserID, Name, Description string
	Public                    bool
}

func (f *FakeCatalog) Name() string { return "fake" }

func (f *FakeCatalog) CurrentUser(ctx context.Context) (*models.User, error) {
	if f.UserErr != nil {
		return nil, f.UserErr
	}
	u := f.User
	return &u, nil
}

func (f *FakeCatalog) SearchTrack(ctx context.Context, query string) (string, bool, error) {
	f.mu.Lock()
	f.Searches = append(f.Searches, query)
	f.mu.Unlock()

	if err := f.SearchErr[query]; err != nil {
		return "", false, err
	}
	id, ok := f.Tracks[query]
	return id, ok, nil
}

// CreatePlaylist fails with the next queued CreateErr, then succeeds with an ID derived from the call count.
func (f *FakeCatalog) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Created = append(f.Created, CreatedPlaylist{UserID: userID, Name: name, Description: description, Public: public})
	if len(f.CreateErr) > 0 {
		err := f.CreateErr[0]
		f.CreateErr = f.CreateErr[1:]
		if err != nil {
			return "", err
		}
	}
	return "playlist-" + name, nil
}

func (f *FakeCatalog) UserPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Playlists, nil
}

func (f *FakeCatalog) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if f.AddErr != nil {
		return f.AddErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Added == nil {
		f.Added = make(map[string][][]string)
	}
	f.Added[playlistID] = append(f.Added[playlistID], append([]string(nil), trackIDs...))
	return nil
}

var _ services.Catalog = (*FakeCatalog)(nil)

// FakeProvider is an in-memory [services.SetlistProvider].
//
// Pages is indexed by page number (1-based); PageErr forces a page to fail.
type FakeProvider struct {
	Artists   []services.SetlistFMArtist
	ArtistErr error
	Pages     map[int][]services.SetlistFMSetlist
	PageErr   map[int]error

	mu        sync.Mutex
	Requested []int
}

func (f *FakeProvider) Name() string { return "fake" }

func (f *FakeProvider) SearchArtists(ctx context.Context, name string) ([]services.SetlistFMArtist, error) {
	return f.Artists, f.ArtistErr
}

func (f *FakeProvider) SearchSetlists(ctx context.Context, artist string, page int) ([]services.SetlistFMSetlist, error) {
	f.mu.Lock()
	f.Requested = append(f.Requested, page)
	f.mu.Unlock()

	if err := f.PageErr[page]; err != nil {
		return nil, err
	}
	return f.Pages[page], nil
}

var _ services.SetlistProvider = (*FakeProvider)(nil)

// NewSetlist builds a raw setlist with a single set holding songs.
func NewSetlist(venue, city, state, country, date string, songs ...string) services.SetlistFMSetlist {
	set := services.SetlistFMSet{}
	for _, s := range songs {
		set.Song = append(set.Song, services.SetlistFMSong{Name: s})
	}
	sl := services.SetlistFMSetlist{
		EventDate: date,
		Artist:    &services.SetlistFMArtist{Name: "Artist"},
		Sets:      services.SetlistFMSets{Set: []services.SetlistFMSet{set}},
	}
	if venue != "" || city != "" {
		sl.Venue = &services.SetlistFMVenue{Name: venue}
		if city != "" {
			sl.Venue.City = &services.SetlistFMCity{Name: city, State: state}
			if country != "" {
				sl.Venue.City.Country = &services.SetlistFMCountry{Name: country}
			}
		}
	}
	return sl
}
