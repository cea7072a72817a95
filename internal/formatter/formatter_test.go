package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	th "github.com/desertthunder/setlist2spotify/internal/testing"
)

func sampleRecords() []models.SetlistRecord {
	return []models.SetlistRecord{
		{
			ID:          "63de4613",
			ConcertName: "Radiohead",
			Venue:       "Red Rocks Amphitheatre",
			EventDate:   "12-08-2023",
			Location:    "Morrison, Colorado, United States",
			Songs:       []string{"Airbag", "Paranoid Android", "Creep, Live"},
			Tour:        "OK Computer Tour",
			URL:         "https://www.setlist.fm/setlist/radiohead/63de4613.html",
		},
		{
			ConcertName: "Radiohead",
			Venue:       "Le Zénith",
			EventDate:   "01-06-2023",
			Location:    "Paris, France",
			Songs:       []string{"Nude"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", JSON},
		{"json", JSON},
		{"CSV", CSV},
		{"md", Markdown},
		{"markdown", Markdown},
		{"txt", Text},
		{" table ", Table},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	t.Run("SetlistsToCSV", func(t *testing.T) {
		data, err := SetlistsToCSV(sampleRecords())
		if err != nil {
			t.Fatalf("SetlistsToCSV failed: %v", err)
		}

		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 5 {
			t.Fatalf("expected header plus 4 song rows, got %d lines", len(lines))
		}
		if lines[0] != "Date,Artist,Venue,Location,Tour,Position,Song" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if !strings.Contains(output, `"Creep, Live"`) {
			t.Errorf("CSV did not quote song with comma")
		}
		if !strings.Contains(output, `,2,Paranoid Android`) {
			t.Errorf("CSV missing song position")
		}
	})

	t.Run("SetlistToMarkdown", func(t *testing.T) {
		output := string(SetlistToMarkdown(sampleRecords()[0]))

		for _, want := range []string{
			"# Radiohead @ Red Rocks Amphitheatre",
			"**Date**: 12-08-2023",
			"**Tour**: OK Computer Tour",
			"[setlist.fm](https://www.setlist.fm/setlist/radiohead/63de4613.html)",
			"## Songs (3)",
			"2. Paranoid Android",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}
	})

	t.Run("SetlistsToMarkdown omits empty tour", func(t *testing.T) {
		output := string(SetlistsToMarkdown("Radiohead", sampleRecords()[1:]))
		if !strings.HasPrefix(output, "# Radiohead setlists") {
			t.Errorf("Markdown missing title")
		}
		if strings.Contains(output, "**Tour**") {
			t.Errorf("Markdown should omit empty tour")
		}
		if !strings.Contains(output, "## Le Zénith") && !strings.Contains(output, "## Radiohead @ Le Zénith") {
			t.Errorf("Markdown missing setlist heading")
		}
	})

	t.Run("SetlistsToText", func(t *testing.T) {
		output := string(SetlistsToText(sampleRecords()))
		if !strings.Contains(output, "[1] 12-08-2023 @ Red Rocks Amphitheatre (Morrison, Colorado, United States)") {
			t.Errorf("text missing first title, got:\n%s", output)
		}
		if !strings.Contains(output, "[2] 01-06-2023 @ Le Zénith (Paris, France)") {
			t.Errorf("text missing second title")
		}
		if !strings.Contains(output, "   1. Airbag") {
			t.Errorf("text missing numbered song")
		}
	})
}

func TestWriteSetlists(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSetlists(&buf, JSON, "Radiohead", sampleRecords()); err != nil {
			t.Fatalf("WriteSetlists failed: %v", err)
		}

		var decoded struct {
			Setlists []models.SetlistRecord `json:"setlists"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if len(decoded.Setlists) != 2 || decoded.Setlists[0].Venue != "Red Rocks Amphitheatre" {
			t.Errorf("unexpected setlists: %+v", decoded.Setlists)
		}
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteSetlists(&buf, Table, "Radiohead", sampleRecords()); err != nil {
			t.Fatalf("WriteSetlists failed: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "Red Rocks Amphitheatre") || !strings.Contains(output, "VENUE") {
			t.Errorf("table missing content:\n%s", output)
		}
	})

	t.Run("writer error", func(t *testing.T) {
		err := WriteSetlists(&th.FWriter{}, Text, "Radiohead", sampleRecords())
		if err == nil {
			t.Errorf("expected write error")
		}
	})
}

func TestTables(t *testing.T) {
	t.Run("MatchTable", func(t *testing.T) {
		output := MatchTable(models.TrackMatchResult{TrackIDs: []string{"t1", "t2"}, NotFound: []string{"Lost Song"}}, false)
		for _, want := range []string{"t1", "not found", "Lost Song", "2/3"} {
			if !strings.Contains(output, want) {
				t.Errorf("match table missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("PlaylistsTable", func(t *testing.T) {
		output := PlaylistsTable([]models.Playlist{{ID: "pl1", Name: "Radiohead Live", TrackCount: 12}}, false)
		if !strings.Contains(output, "Radiohead Live") || !strings.Contains(output, "12") {
			t.Errorf("playlists table missing content:\n%s", output)
		}
	})
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Red Rocks Amphitheatre": "red-rocks-amphitheatre",
		"12-08-2023":             "12-08-2023",
		"Le Zénith / Paris":      "le-zenith-paris",
		"Estadio Azteca, México": "estadio-azteca-mexico",
		"東京ドーム":                  "東京ドーム",
		"Øyafestivalen":          "øyafestivalen",
		"???":                    "setlist",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteSetlistExport(t *testing.T) {
	rec := sampleRecords()[0]

	for _, format := range []Format{JSON, CSV, Markdown, Text} {
		t.Run(string(format), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			path, err := WriteSetlistExport(rec, 1, format, dir)
			if err != nil {
				t.Fatalf("WriteSetlistExport failed: %v", err)
			}

			wantName := "01_12-08-2023_red-rocks-amphitheatre" + format.Ext()
			if filepath.Base(path) != wantName {
				t.Errorf("file name = %s, want %s", filepath.Base(path), wantName)
			}

			content := th.MustReadFile(t, path)
			if !strings.Contains(content, "Paranoid Android") {
				t.Errorf("%s export missing songs", format)
			}
		})
	}

	t.Run("unwritable directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteSetlistExport(rec, 1, JSON, filepath.Join(file, "sub")); err == nil {
			t.Errorf("expected error for directory under a file")
		}
	})
}

func TestWriteExportManifest(t *testing.T) {
	t.Run("SuccessfulExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		result := &ExportResult{
			Artist:            "Radiohead",
			TotalSetlists:     1,
			SuccessfulExports: 1,
			Results: []SetlistExportResult{
				{Index: 1, Label: "12-08-2023 @ Red Rocks", Files: []string{"01_red-rocks.csv"}},
			},
		}

		if err := WriteExportManifest(result, CSV, path); err != nil {
			t.Fatalf("WriteExportManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		for _, want := range []string{`"format": "csv"`, `"total_setlists": 1`, `"successful_exports": 1`, `"status": "success"`, `"01_red-rocks.csv"`} {
			if !strings.Contains(content, want) {
				t.Errorf("manifest missing %s:\n%s", want, content)
			}
		}
	})

	t.Run("WithFailedExports", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		result := &ExportResult{
			TotalSetlists: 2,
			FailedExports: 1,
			Results: []SetlistExportResult{
				{Index: 1, Label: "ok", Files: []string{"a.json"}},
				{Index: 2, Label: "broken", Error: errors.New("disk full")},
			},
		}

		if err := WriteExportManifest(result, Markdown, path); err != nil {
			t.Fatalf("WriteExportManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		for _, want := range []string{`"format": "markdown"`, `"failed_exports": 1`, `"status": "failed"`, `"disk full"`} {
			if !strings.Contains(content, want) {
				t.Errorf("manifest missing %s", want)
			}
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := WriteExportManifest(&ExportResult{}, JSON, filepath.Join(t.TempDir(), "missing", "manifest.json"))
		if err == nil {
			t.Errorf("expected error")
		}
	})
}
