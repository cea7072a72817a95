package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/services"
	st "github.com/desertthunder/setlist2spotify/internal/services/servicestest"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/desertthunder/setlist2spotify/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(provider *st.FakeProvider, catalog *st.FakeCatalog) *Model {
	engine := tasks.NewSetlistEngine(provider, catalog, shared.NewLogger(&bytes.Buffer{}), tasks.Options{PageDelay: -1})
	m := NewModel(context.Background(), engine, "Radiohead", "")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func fixtures() (*st.FakeProvider, *st.FakeCatalog) {
	provider := &st.FakeProvider{
		Artists: []services.SetlistFMArtist{{Name: "Radiohead"}},
		Pages: map[int][]services.SetlistFMSetlist{
			1: {st.NewSetlist("Red Rocks", "Morrison", "Colorado", "United States", "12-08-2023", "Creep", "Lost Song")},
		},
	}
	catalog := &st.FakeCatalog{
		User:   models.User{ID: "user-1"},
		Tracks: map[string]string{"track:Creep artist:Radiohead": "t-creep"},
	}
	return provider, catalog
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain executes cmd and feeds resulting messages back until a build completes.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 100; i++ {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			cmd = nil
			for _, c := range batch {
				if c == nil {
					continue
				}
				if inner, ok := c().(Msg); ok {
					_, cmd = m.Update(inner)
				}
			}
			continue
		}
		if _, ok := msg.(Msg); !ok {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func TestModelFlow(t *testing.T) {
	provider, catalog := fixtures()
	m := newTestModel(provider, catalog)

	assert.Contains(t, m.View(), "Fetching setlists for Radiohead")

	m.Update(m.fetchSetlists()())
	require.Len(t, m.setlists, 1)
	assert.False(t, m.loading)
	assert.Equal(t, SetlistListView, m.view)
	assert.Contains(t, m.View(), "Red Rocks")

	m.Update(press("enter"))
	require.NotNil(t, m.selected)
	assert.Equal(t, SongListView, m.view)
	assert.Contains(t, m.View(), "Creep")

	m.Update(press("esc"))
	assert.Equal(t, SetlistListView, m.view)

	m.Update(press("enter"))
	m.Update(press("enter"))
	assert.Equal(t, ConfirmView, m.view)
	assert.Contains(t, m.View(), "Radiohead Setlist @ Red Rocks - Morrison, Colorado, United States")

	m.Update(press("n"))
	assert.Equal(t, SongListView, m.view)
	m.Update(press("enter"))

	_, cmd := m.Update(press("y"))
	assert.Equal(t, BuildView, m.view)
	drain(t, m, cmd)

	require.Equal(t, ResultView, m.view)
	require.NoError(t, m.Err())
	require.NotNil(t, m.Result())
	assert.Equal(t, []string{"t-creep"}, m.Result().Tracks.TrackIDs)

	view := m.View()
	assert.Contains(t, view, "Created Radiohead Setlist @ Red Rocks")
	assert.Contains(t, view, "Tracks added: 1/2")
	assert.Contains(t, view, "Lost Song")
	assert.Len(t, catalog.Created, 1)

	m.Update(press("r"))
	assert.Equal(t, SetlistListView, m.view)
	assert.Nil(t, m.Result())
}

func TestModelNoSetlists(t *testing.T) {
	_, catalog := fixtures()
	m := newTestModel(&st.FakeProvider{}, catalog)

	m.Update(m.fetchSetlists()())
	assert.ErrorIs(t, m.Err(), shared.ErrNoSetlists)
	assert.True(t, strings.Contains(m.View(), "Error:"))

	_, cmd := m.Update(press("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelBuildFailure(t *testing.T) {
	provider, catalog := fixtures()
	catalog.UserErr = shared.ErrTokenExpired
	m := newTestModel(provider, catalog)

	m.Update(m.fetchSetlists()())
	m.Update(press("enter"))
	m.Update(press("enter"))
	_, cmd := m.Update(press("y"))
	drain(t, m, cmd)

	assert.Equal(t, ResultView, m.view)
	assert.ErrorIs(t, m.Err(), shared.ErrAuthFailed)
	assert.Contains(t, m.View(), "Build failed")
}

func TestSetlistItem(t *testing.T) {
	item := setlistItem{setlist: models.SetlistRecord{Venue: "Red Rocks", EventDate: "12-08-2023", Location: "Morrison", Songs: []string{"a", "b"}, Tour: "OK Computer"}}
	assert.Equal(t, "12-08-2023 • Red Rocks", item.Title())
	assert.Equal(t, "Morrison • 2 songs • OK Computer", item.Description())

	item.setlist.Tour = models.RegularConcert
	assert.Equal(t, "Morrison • 2 songs", item.Description())
}
