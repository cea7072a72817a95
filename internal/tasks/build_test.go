package tasks

import (
	"context"
	"testing"

	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/services"
	st "github.com/desertthunder/setlist2spotify/internal/services/servicestest"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixtures() (*st.FakeProvider, *st.FakeCatalog) {
	provider := &st.FakeProvider{
		Artists: []services.SetlistFMArtist{{Name: "Radiohead"}},
		Pages: map[int][]services.SetlistFMSetlist{
			1: {st.NewSetlist("Red Rocks", "Morrison", "Colorado", "United States", "12-08-2023", "Creep", "Nude", "Lost Song")},
		},
	}
	catalog := &st.FakeCatalog{
		User: models.User{ID: "user-1", DisplayName: "Dana"},
		Tracks: map[string]string{
			"track:Creep artist:Radiohead": "t-creep",
			"track:Nude artist:Radiohead":  "t-nude",
		},
		Playlists: []models.Playlist{{ID: "pl-existing", Name: "Radiohead Live"}},
	}
	return provider, catalog
}

func TestBuild(t *testing.T) {
	t.Run("creates a playlist for the latest setlist", func(t *testing.T) {
		provider, catalog := buildFixtures()
		e, _ := newTestEngine(provider, catalog, Options{})
		progress := make(chan ProgressUpdate, 64)

		result, err := e.Build(context.Background(), BuildRequest{Artist: "radiohead"}, progress)
		require.NoError(t, err)

		assert.Equal(t, "Radiohead", result.Artist)
		assert.True(t, result.Created)
		assert.Equal(t, "Radiohead Setlist @ Red Rocks - Morrison, Colorado, United States", result.PlaylistName)
		assert.Equal(t, []string{"t-creep", "t-nude"}, result.Tracks.TrackIDs)
		assert.Equal(t, []string{"Lost Song"}, result.Tracks.NotFound)

		require.Len(t, catalog.Created, 1)
		assert.Equal(t, "user-1", catalog.Created[0].UserID)
		assert.True(t, catalog.Created[0].Public)
		assert.Equal(t, [][]string{{"t-creep", "t-nude"}}, catalog.Added[result.PlaylistID])

		close(progress)
		var last ProgressUpdate
		for u := range progress {
			last = u
		}
		assert.Equal(t, Done, last.Phase)
	})

	t.Run("appends to an existing playlist", func(t *testing.T) {
		provider, catalog := buildFixtures()
		e, _ := newTestEngine(provider, catalog, Options{})

		result, err := e.Build(context.Background(), BuildRequest{Artist: "Radiohead", UserID: "user-1", ExistingPlaylist: "radiohead live"}, nil)
		require.NoError(t, err)

		assert.False(t, result.Created)
		assert.Equal(t, "pl-existing", result.PlaylistID)
		assert.Empty(t, catalog.Created)
		assert.Len(t, catalog.Added["pl-existing"], 1)
	})

	t.Run("uses the given setlist", func(t *testing.T) {
		provider, catalog := buildFixtures()
		e, _ := newTestEngine(provider, catalog, Options{})
		setlist := &models.SetlistRecord{Venue: "Somewhere", Location: "Paris, France", Songs: []string{"Nude"}}

		result, err := e.Build(context.Background(), BuildRequest{Artist: "Radiohead", Setlist: setlist}, nil)
		require.NoError(t, err)

		assert.Empty(t, provider.Requested)
		assert.Equal(t, []string{"t-nude"}, result.Tracks.TrackIDs)
	})

	t.Run("missing existing playlist", func(t *testing.T) {
		provider, catalog := buildFixtures()
		e, _ := newTestEngine(provider, catalog, Options{})

		_, err := e.Build(context.Background(), BuildRequest{Artist: "Radiohead", ExistingPlaylist: "Nope Nope Nope Nope"}, nil)
		assert.ErrorIs(t, err, shared.ErrPlaylistNotFound)
	})

	t.Run("no setlists", func(t *testing.T) {
		_, catalog := buildFixtures()
		e, _ := newTestEngine(&st.FakeProvider{}, catalog, Options{})

		_, err := e.Build(context.Background(), BuildRequest{Artist: "Nobody"}, nil)
		assert.ErrorIs(t, err, shared.ErrNoSetlists)
	})

	t.Run("no tracks found", func(t *testing.T) {
		provider, catalog := buildFixtures()
		catalog.Tracks = nil
		e, _ := newTestEngine(provider, catalog, Options{})

		result, err := e.Build(context.Background(), BuildRequest{Artist: "Radiohead"}, nil)
		assert.ErrorIs(t, err, shared.ErrNoTracks)
		assert.Len(t, result.Tracks.NotFound, 3)
		assert.Empty(t, catalog.Created)
	})

	t.Run("authentication failure", func(t *testing.T) {
		provider, catalog := buildFixtures()
		catalog.UserErr = shared.ErrTokenExpired
		e, _ := newTestEngine(provider, catalog, Options{})

		_, err := e.Build(context.Background(), BuildRequest{Artist: "Radiohead"}, nil)
		assert.ErrorIs(t, err, shared.ErrAuthFailed)
	})

	t.Run("missing artist", func(t *testing.T) {
		e, _ := newTestEngine(nil, &st.FakeCatalog{}, Options{})
		_, err := e.Build(context.Background(), BuildRequest{}, nil)
		assert.ErrorIs(t, err, shared.ErrMissingArgument)
	})
}
