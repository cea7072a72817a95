package formatter

import (
	"strconv"

	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(color bool) table.Writer {
	t := table.NewWriter()
	if color {
		t.SetStyle(table.StyleColoredDark)
	} else {
		t.SetStyle(table.StyleLight)
	}
	return t
}

// SetlistsTable renders a summary table of setlists.
func SetlistsTable(records []models.SetlistRecord, color bool) string {
	t := newTable(color)
	t.AppendHeader(table.Row{"#", "Date", "Venue", "Location", "Tour", "Songs"})
	for i, rec := range records {
		t.AppendRow(table.Row{i + 1, rec.EventDate, rec.Venue, rec.Location, rec.Tour, len(rec.Songs)})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(records)})
	return t.Render()
}

// MatchTable renders the outcome of a reconciliation.
func MatchTable(result models.TrackMatchResult, color bool) string {
	t := newTable(color)
	t.AppendHeader(table.Row{"Status", "Value"})
	for _, id := range result.TrackIDs {
		t.AppendRow(table.Row{"found", id})
	}
	for _, song := range result.NotFound {
		t.AppendRow(table.Row{"not found", song})
	}
	t.AppendFooter(table.Row{"Found", strconv.Itoa(len(result.TrackIDs)) + "/" + strconv.Itoa(len(result.TrackIDs)+len(result.NotFound))})
	return t.Render()
}

// PlaylistsTable renders catalog playlists.
func PlaylistsTable(playlists []models.Playlist, color bool) string {
	t := newTable(color)
	t.AppendHeader(table.Row{"ID", "Name", "Tracks", "Public"})
	for _, p := range playlists {
		t.AppendRow(table.Row{p.ID, p.Name, p.TrackCount, p.Public})
	}
	return t.Render()
}
