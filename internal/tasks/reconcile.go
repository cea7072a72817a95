package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/setlist2spotify/internal/models"
)

// TrackQuery builds the catalog search query for a song.
func TrackQuery(song, artist string) string {
	return fmt.Sprintf("track:%s artist:%s", song, artist)
}

// Reconcile searches the catalog once per song, in order, keeping the first hit.
//
// Songs without a hit, and songs whose search failed, are reported in NotFound; the loop never stops early.
func (e *SetlistEngine) Reconcile(ctx context.Context, songs []string, artist string, progress chan<- ProgressUpdate) models.TrackMatchResult {
	result := models.NewTrackMatchResult(len(songs))
	total := len(songs)

	if err := e.requireCatalog(); err != nil {
		e.logger.Error("cannot search tracks", "error", err)
		result.NotFound = append(result.NotFound, songs...)
		return result
	}

	for i, song := range songs {
		id, found, err := e.catalog.SearchTrack(ctx, TrackQuery(song, artist))
		switch {
		case err != nil:
			e.logger.Warn("track search failed", "song", song, "artist", artist, "error", err)
			result.NotFound = append(result.NotFound, song)
		case !found:
			e.logger.Debug("track not found", "song", song, "artist", artist)
			result.NotFound = append(result.NotFound, song)
		default:
			result.TrackIDs = append(result.TrackIDs, id)
		}
		e.sendProgress(progress, searchTrackUpdate(i+1, total, song, err == nil && found))
	}

	return result
}
