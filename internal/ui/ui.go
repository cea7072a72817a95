package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/desertthunder/setlist2spotify/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SetlistListView ViewState = iota
	SongListView
	ConfirmView
	BuildView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.Engine
	artist       string
	existing     string
	width        int
	height       int
	loading      bool
	spinner      spinner.Model
	setlistList  list.Model
	setlists     []models.SetlistRecord
	songList     list.Model
	selected     *models.SetlistRecord
	progressChan chan tasks.ProgressUpdate
	doneChan     chan buildComplete
	progress     tasks.ProgressUpdate
	result       *tasks.BuildResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a TUI for artist. When existing is set, tracks are appended to that playlist
// instead of a new one.
func NewModel(ctx context.Context, engine tasks.Engine, artist, existing string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.ok

	return &Model{
		ctx:      ctx,
		view:     SetlistListView,
		engine:   engine,
		artist:   artist,
		existing: existing,
		loading:  true,
		spinner:  s,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error { return m.err }

// Result returns the last build result.
func (m *Model) Result() *tasks.BuildResult { return m.result }

// Init fetches the artist's setlists.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchSetlists())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.setlists != nil {
			m.setlistList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		}
		if m.selected != nil {
			m.songList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading && m.view != BuildView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case SetlistListView:
			return m.handleSetlistListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSetlistsFetched:
		data := msg.data.(setlistsFetched)
		m.loading = false
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.setlists = data.setlists
		items := make([]list.Item, len(data.setlists))
		for i, sl := range data.setlists {
			items[i] = setlistItem{setlist: sl}
		}
		m.setlistList = list.New(items, list.NewDefaultDelegate(), max(m.width-4, 0), max(m.height-8, 0))
		m.setlistList.Title = fmt.Sprintf("%s setlists", m.artist)
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgBuildComplete:
		data := msg.data.(buildComplete)
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.loading {
		return fmt.Sprintf("%s Fetching setlists for %s...", m.spinner.View(), m.artist)
	}
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.quit})
	}

	switch m.view {
	case SetlistListView:
		return m.renderSetlistList()
	case SongListView:
		return m.renderSongList()
	case ConfirmView:
		return m.renderConfirm()
	case BuildView:
		return m.renderBuild()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSetlistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.setlists == nil {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	filtering := m.setlistList.FilterState() == list.Filtering
	switch {
	case !filtering && key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case !filtering && key.Matches(msg, m.keys.enter) && len(m.setlists) > 0:
		if item, ok := m.setlistList.SelectedItem().(setlistItem); ok {
			m.selectSetlist(item.setlist)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.setlistList, cmd = m.setlistList.Update(msg)
	return m, cmd
}

func (m *Model) selectSetlist(sl models.SetlistRecord) {
	m.selected = &sl
	items := make([]list.Item, len(sl.Songs))
	for i, song := range sl.Songs {
		items[i] = songItem{position: i + 1, title: song}
	}
	m.songList = list.New(items, list.NewDefaultDelegate(), max(m.width-4, 0), max(m.height-8, 0))
	m.songList.Title = sl.Title()
	m.view = SongListView
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SetlistListView
		return m, nil
	case key.Matches(msg, m.keys.build):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = SongListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = BuildView
		return m, tea.Batch(m.spinner.Tick, m.startBuild())
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = SetlistListView
		m.selected = nil
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.view == SetlistListView && m.setlists != nil:
		m.setlistList, cmd = m.setlistList.Update(msg)
	case m.view == SongListView && m.selected != nil:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchSetlists() tea.Cmd {
	ctx, engine, artist := m.ctx, m.engine, m.artist
	return func() tea.Msg {
		setlists := engine.FetchSetlists(ctx, artist, nil)
		if len(setlists) == 0 {
			return setlistsFetchedMsg(nil, fmt.Errorf("%w for %s", shared.ErrNoSetlists, artist))
		}
		return setlistsFetchedMsg(setlists, nil)
	}
}

// startBuild runs the build in the background. The result is delivered before the progress
// channel is closed so waitForProgress never misses it.
func (m *Model) startBuild() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan buildComplete, 1)
	m.progressChan = progress
	m.doneChan = done

	req := tasks.BuildRequest{Artist: m.artist, Setlist: m.selected, ExistingPlaylist: m.existing}
	ctx, engine := m.ctx, m.engine
	go func() {
		result, err := engine.Build(ctx, req, progress)
		done <- buildComplete{result: result, err: err}
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return buildCompleteMsg(nil, fmt.Errorf("%w: no build running", shared.ErrInvalidInput))
		}

		update, ok := <-progress
		if !ok {
			res := <-done
			return buildCompleteMsg(res.result, res.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderSetlistList() string {
	helpView := m.help.ShortHelpView(m.keys.setlistHelp())
	return fmt.Sprintf("%s\n\n%s", m.setlistList.View(), helpView)
}

func (m *Model) renderSongList() string {
	helpView := m.help.ShortHelpView(m.keys.songHelp())
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	target := fmt.Sprintf("New playlist: %s", tasks.PlaylistName(m.artist, m.selected.VenueLabel()))
	if m.existing != "" {
		target = fmt.Sprintf("Existing playlist: %s", m.existing)
	}

	title := styles.title.Render("Build this playlist on Spotify?")
	info := styles.box.Render(fmt.Sprintf("%s\nConcert: %s\nSongs: %d", target, m.selected.Title(), len(m.selected.Songs)))
	helpView := m.help.ShortHelpView(m.keys.confirmHelp())

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) renderBuild() string {
	title := styles.title.Render("Building Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.ResolveArtist:
		phase = "Resolving artist..."
	case tasks.SearchTracks:
		phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = "Creating playlist on Spotify..."
	case tasks.FindPlaylist:
		phase = "Looking up playlist..."
	case tasks.AddTracks:
		phase = "Adding tracks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n%s", title, m.spinner.View(), phase, styles.muted.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView(m.keys.resultHelp())

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Build failed: %v", m.err)) + "\n\n" + helpView
	}
	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	verb := "Created"
	if !m.result.Created {
		verb = "Updated"
	}
	found, total := len(m.result.Tracks.TrackIDs), len(m.result.Setlist.Songs)

	var b strings.Builder
	b.WriteString(styles.ok.Render(fmt.Sprintf("✓ %s %s", verb, m.result.PlaylistName)))
	fmt.Fprintf(&b, "\n\nPlaylist ID: %s\nTracks added: %d/%d", m.result.PlaylistID, found, total)

	if len(m.result.Tracks.NotFound) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.warn.Render(fmt.Sprintf("Not found on Spotify (%d):", len(m.result.Tracks.NotFound))))
		for _, song := range m.result.Tracks.NotFound {
			fmt.Fprintf(&b, "\n  • %s", song)
		}
	}

	fmt.Fprintf(&b, "\n\n%s", helpView)
	return b.String()
}
