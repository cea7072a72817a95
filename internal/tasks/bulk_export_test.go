package tasks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/setlist2spotify/internal/formatter"
	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportRecords(n int) []models.SetlistRecord {
	records := make([]models.SetlistRecord, 0, n)
	venues := []string{"Red Rocks", "Le Zenith", "Brixton Academy", "Madison Square Garden"}
	for i := range n {
		records = append(records, models.SetlistRecord{
			ConcertName: "Radiohead",
			Venue:       venues[i%len(venues)],
			EventDate:   "0" + string(rune('1'+i)) + "-06-2023",
			Location:    "Somewhere",
			Songs:       []string{"Creep", "Nude"},
		})
	}
	return records
}

func TestExportSetlists(t *testing.T) {
	tests := []struct {
		name    string
		format  formatter.Format
		count   int
		workers int
		ext     string
	}{
		{name: "single setlist json", format: formatter.JSON, count: 1, ext: ".json"},
		{name: "multiple setlists csv", format: formatter.CSV, count: 3, workers: 2, ext: ".csv"},
		{name: "markdown with too many workers", format: formatter.Markdown, count: 4, workers: 50, ext: ".md"},
		{name: "default format", format: "", count: 2, ext: ".json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			e, _ := newTestEngine(nil, nil, Options{})
			prog := make(chan ProgressUpdate, 32)

			result, err := e.ExportSetlists(context.Background(), prog, "Radiohead", exportRecords(tt.count), ExportOpts{
				Format:     tt.format,
				OutputDir:  dir,
				NumWorkers: tt.workers,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.count, result.TotalSetlists)
			assert.Equal(t, tt.count, result.SuccessfulExports)
			assert.Zero(t, result.FailedExports)
			require.Len(t, result.Results, tt.count)

			for i, res := range result.Results {
				assert.Equal(t, i+1, res.Index, "results are sorted by index")
				require.Len(t, res.Files, 1)
				assert.Equal(t, tt.ext, filepath.Ext(res.Files[0]))
				assert.FileExists(t, res.Files[0])
			}

			assert.Equal(t, filepath.Join(dir, "export_manifest.json"), result.ManifestPath)
			data, err := os.ReadFile(result.ManifestPath)
			require.NoError(t, err)

			var manifest map[string]any
			require.NoError(t, json.Unmarshal(data, &manifest))
			assert.Equal(t, "Radiohead", manifest["artist"])
			assert.EqualValues(t, tt.count, manifest["successful_exports"])

			close(prog)
			updates := 0
			for u := range prog {
				assert.Equal(t, ExportSetlists, u.Phase)
				updates++
			}
			assert.Equal(t, tt.count, updates)
		})
	}
}

func TestExportSetlistsErrors(t *testing.T) {
	t.Run("no setlists", func(t *testing.T) {
		e, _ := newTestEngine(nil, nil, Options{})
		_, err := e.ExportSetlists(context.Background(), nil, "Radiohead", nil, ExportOpts{OutputDir: t.TempDir()})
		assert.ErrorIs(t, err, shared.ErrNoSetlists)
	})

	t.Run("output directory under a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		e, _ := newTestEngine(nil, nil, Options{})
		_, err := e.ExportSetlists(context.Background(), nil, "Radiohead", exportRecords(1), ExportOpts{OutputDir: filepath.Join(file, "out")})
		assert.ErrorContains(t, err, "failed to create output directory")
	})

	t.Run("cancelled context marks every setlist failed", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		dir := t.TempDir()
		e, logs := newTestEngine(nil, nil, Options{})
		result, err := e.ExportSetlists(ctx, nil, "Radiohead", exportRecords(3), ExportOpts{OutputDir: dir})

		assert.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		assert.Equal(t, 3, result.FailedExports)
		assert.Empty(t, result.ManifestPath)
		assert.Contains(t, logs.String(), "setlist export failed")
	})
}
