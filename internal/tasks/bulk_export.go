package tasks

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/setlist2spotify/internal/formatter"
	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/shared"
)

const (
	defaultExportWorkers = 4
	maxExportWorkers     = 10
	manifestFilename     = "export_manifest.json"
)

// ExportOpts configures [SetlistEngine.ExportSetlists].
type ExportOpts struct {
	Format     formatter.Format // Export format (default: json)
	OutputDir  string           // Output directory (default: setlists_{slug}_{epoch})
	NumWorkers int              // Concurrent writers (default: 4, max: 10)
}

type exportJob struct {
	index  int
	record models.SetlistRecord
}

// ExportSetlists writes each setlist to its own file using a worker pool and finishes with a manifest.
//
// A failing setlist does not stop the others. The returned error is set only when the output
// directory or the manifest cannot be written.
func (e *SetlistEngine) ExportSetlists(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	artist string,
	records []models.SetlistRecord,
	opts ExportOpts,
) (*formatter.ExportResult, error) {
	if len(records) == 0 {
		return nil, shared.ErrNoSetlists
	}
	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("setlists_%s_%d", formatter.Slug(artist), time.Now().Unix())
	}
	opts.NumWorkers = min(max(opts.NumWorkers, 0), maxExportWorkers)
	if opts.NumWorkers == 0 {
		opts.NumWorkers = defaultExportWorkers
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &formatter.ExportResult{
		Artist:          artist,
		TotalSetlists:   len(records),
		OutputDirectory: opts.OutputDir,
		Results:         make([]formatter.SetlistExportResult, 0, len(records)),
	}

	jobs := make(chan exportJob, len(records))
	results := make(chan formatter.SetlistExportResult, len(records))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	for i, rec := range records {
		jobs <- exportJob{index: i + 1, record: rec}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success() {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(records), res.Label, len(res.Files)))
		} else {
			result.FailedExports++
			e.logger.Warn("setlist export failed", "setlist", res.Label, "error", res.Error)
			e.sendProgress(prog, exportFailedUpdate(completed, len(records), res.Label, res.Error))
		}
	}

	slices.SortFunc(result.Results, func(a, b formatter.SetlistExportResult) int {
		return cmp.Compare(a.Index, b.Index)
	})

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, manifestFilename)
	if err := formatter.WriteExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (e *SetlistEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- formatter.SetlistExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := formatter.SetlistExportResult{Index: job.index, Label: job.record.Title()}
		if err := ctx.Err(); err != nil {
			res.Error = err
			results <- res
			continue
		}

		path, err := formatter.WriteSetlistExport(job.record, job.index, opts.Format, opts.OutputDir)
		if err != nil {
			res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		} else {
			res.Files = []string{path}
		}
		results <- res
	}
}
