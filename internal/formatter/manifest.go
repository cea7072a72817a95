package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/setlist2spotify/internal/shared"
)

// SetlistExportResult is the outcome of exporting one setlist.
type SetlistExportResult struct {
	Index int
	Label string
	Files []string
	Error error
}

// Success reports whether the setlist was written.
func (r SetlistExportResult) Success() bool {
	return r.Error == nil
}

// ExportResult summarizes a multi-setlist export.
type ExportResult struct {
	Artist            string
	TotalSetlists     int
	SuccessfulExports int
	FailedExports     int
	Results           []SetlistExportResult
	OutputDirectory   string
	ManifestPath      string
}

type manifestEntry struct {
	Index  int      `json:"index"`
	Label  string   `json:"label"`
	Status string   `json:"status"`
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type manifest struct {
	Artist            string          `json:"artist"`
	Format            Format          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	TotalSetlists     int             `json:"total_setlists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Setlists          []manifestEntry `json:"setlists"`
}

// WriteExportManifest writes a JSON summary of an export to path.
func WriteExportManifest(result *ExportResult, format Format, path string) error {
	m := manifest{
		Artist:            result.Artist,
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		TotalSetlists:     result.TotalSetlists,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Setlists:          make([]manifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		entry := manifestEntry{Index: r.Index, Label: r.Label, Files: r.Files, Status: "success"}
		if !r.Success() {
			entry.Status = "failed"
			entry.Error = r.Error.Error()
		}
		m.Setlists = append(m.Setlists, entry)
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
