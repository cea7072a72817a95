package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/setlist2spotify/internal/models"
)

var (
	_ list.Item = setlistItem{}
	_ list.Item = songItem{}
)

// setlistItem wraps [models.SetlistRecord] to implement [list.Item].
type setlistItem struct {
	setlist models.SetlistRecord
}

func (i setlistItem) FilterValue() string { return i.setlist.Venue + " " + i.setlist.Location }
func (i setlistItem) Title() string       { return fmt.Sprintf("%s • %s", i.setlist.EventDate, i.setlist.Venue) }
func (i setlistItem) Description() string {
	desc := fmt.Sprintf("%s • %d songs", i.setlist.Location, len(i.setlist.Songs))
	if i.setlist.Tour != "" && i.setlist.Tour != models.RegularConcert {
		desc = fmt.Sprintf("%s • %s", desc, i.setlist.Tour)
	}
	return desc
}

// songItem is one song of the selected setlist.
type songItem struct {
	position int
	title    string
}

func (i songItem) FilterValue() string { return i.title }
func (i songItem) Title() string       { return i.title }
func (i songItem) Description() string { return fmt.Sprintf("#%d", i.position) }
