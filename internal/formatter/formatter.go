// package formatter renders setlists and track matches to various formats (JSON, CSV, Markdown, plain text, tables)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Format is an output format.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
	Table    Format = "table"
)

// Formats lists every supported format.
var Formats = []Format{JSON, CSV, Markdown, Text, Table}

// ParseFormat maps a flag value (case-insensitive, "md" and "txt" accepted) to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	case "table":
		return Table, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Ext returns the file extension used when writing the format to disk.
func (f Format) Ext() string {
	switch f {
	case CSV:
		return ".csv"
	case Markdown:
		return ".md"
	case Text, Table:
		return ".txt"
	default:
		return ".json"
	}
}

// SetlistsToCSV renders one row per song with columns: Date, Artist, Venue, Location, Tour, Position, Song
func SetlistsToCSV(records []models.SetlistRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Date", "Artist", "Venue", "Location", "Tour", "Position", "Song"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		for i, song := range rec.Songs {
			row := []string{rec.EventDate, rec.ConcertName, rec.Venue, rec.Location, rec.Tour, strconv.Itoa(i + 1), song}
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SetlistToMarkdown renders a single setlist as a Markdown document.
func SetlistToMarkdown(rec models.SetlistRecord) []byte {
	var buf bytes.Buffer
	writeMarkdown(&buf, rec, "#")
	return buf.Bytes()
}

// SetlistsToMarkdown renders several setlists under one heading.
func SetlistsToMarkdown(artist string, records []models.SetlistRecord) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s setlists\n\n", artist)
	for _, rec := range records {
		writeMarkdown(&buf, rec, "##")
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

func writeMarkdown(buf *bytes.Buffer, rec models.SetlistRecord, h string) {
	fmt.Fprintf(buf, "%s %s @ %s\n\n", h, rec.ConcertName, rec.Venue)
	fmt.Fprintf(buf, "**Date**: %s\n", rec.EventDate)
	fmt.Fprintf(buf, "**Location**: %s\n", rec.Location)
	if rec.Tour != "" {
		fmt.Fprintf(buf, "**Tour**: %s\n", rec.Tour)
	}
	if rec.URL != "" {
		fmt.Fprintf(buf, "**Source**: [setlist.fm](%s)\n", rec.URL)
	}
	fmt.Fprintf(buf, "\n%s# Songs (%d)\n\n", h, len(rec.Songs))
	for i, song := range rec.Songs {
		fmt.Fprintf(buf, "%d. %s\n", i+1, song)
	}
}

// SetlistsToText renders setlists as plain text.
func SetlistsToText(records []models.SetlistRecord) []byte {
	var buf bytes.Buffer
	for n, rec := range records {
		if n > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "[%d] %s\n", n+1, rec.Title())
		if rec.Tour != "" {
			fmt.Fprintf(&buf, "Tour: %s\n", rec.Tour)
		}
		for i, song := range rec.Songs {
			fmt.Fprintf(&buf, "  %2d. %s\n", i+1, song)
		}
	}
	return buf.Bytes()
}

// WriteSetlists renders records to w in the given format.
func WriteSetlists(w io.Writer, format Format, artist string, records []models.SetlistRecord) error {
	var data []byte
	var err error

	switch format {
	case CSV:
		data, err = SetlistsToCSV(records)
	case Markdown:
		data = SetlistsToMarkdown(artist, records)
	case Text:
		data = SetlistsToText(records)
	case Table:
		data = []byte(SetlistsTable(records, shared.IsTerminal(w)) + "\n")
	default:
		data, err = shared.MarshalJSON(map[string]any{"setlists": records}, true)
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// latinFold strips diacritics from Latin letters and leaves other scripts untouched.
var latinFold = runes.If(runes.In(unicode.Latin), transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), nil)

// Slug turns a label into a file name component.
func Slug(s string) string {
	folded, _, err := transform.String(latinFold, s)
	if err != nil {
		folded = s
	}
	slug := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(folded), "-"), "-")
	if slug == "" {
		return "setlist"
	}
	return slug
}

// SetlistFilename returns "{n}_{date}_{venue}{ext}" for a record.
func SetlistFilename(n int, rec models.SetlistRecord, format Format) string {
	return fmt.Sprintf("%02d_%s_%s%s", n, Slug(rec.EventDate), Slug(rec.Venue), format.Ext())
}

// WriteSetlistExport writes one setlist to dir and returns the file path.
func WriteSetlistExport(rec models.SetlistRecord, n int, format Format, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	var data []byte
	var err error
	switch format {
	case CSV:
		data, err = SetlistsToCSV([]models.SetlistRecord{rec})
	case Markdown:
		data = SetlistToMarkdown(rec)
	case Text, Table:
		data = SetlistsToText([]models.SetlistRecord{rec})
	default:
		data, err = shared.MarshalJSON(rec, true)
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, SetlistFilename(n, rec, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
