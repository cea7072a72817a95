package tasks

import (
	"context"
	"errors"

	"github.com/desertthunder/setlist2spotify/internal/matcher"
	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/services"
	"github.com/desertthunder/setlist2spotify/internal/shared"
	"golang.org/x/time/rate"
)

// ResolveArtist searches the provider for query and resolves it against the returned names.
//
// Any provider failure, or an empty result, falls back to query unchanged.
func (e *SetlistEngine) ResolveArtist(ctx context.Context, query string) matcher.Outcome {
	fallback := matcher.Outcome{Value: query, Kind: matcher.Fallback}
	if e.provider == nil {
		return fallback
	}

	artists, err := e.provider.SearchArtists(ctx, query)
	if err != nil {
		e.logger.Warn("artist search failed, using input", "artist", query, "error", err)
		return fallback
	}
	if len(artists) == 0 {
		e.logger.Info("no artists found, using input", "artist", query)
		return fallback
	}

	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return e.matcher.Resolve(query, names)
}

// FetchSetlists resolves artist, fetches the first two setlist pages and normalizes them.
//
// Failing pages are logged and skipped. A rate limit on a later page stops the loop once
// an earlier page produced data. Cancelling ctx returns what has been gathered so far.
func (e *SetlistEngine) FetchSetlists(ctx context.Context, artist string, progress chan<- ProgressUpdate) []models.SetlistRecord {
	resolved := e.ResolveArtist(ctx, artist)
	e.sendProgress(progress, resolvedArtistUpdate(artist, resolved))

	records := make([]models.SetlistRecord, 0)
	if e.provider == nil {
		e.logger.Error("setlist provider not initialized")
		return records
	}

	logger := e.logger.With("artist", resolved.Value)
	var raw []services.SetlistFMSetlist

	for page := 1; page <= maxSetlistPages; page++ {
		if page > 1 {
			if err := e.pageDelay(ctx); err != nil {
				logger.Warn("stopped fetching setlists", "page", page, "error", err)
				break
			}
		}
		e.sendProgress(progress, fetchPageUpdate(page, maxSetlistPages, resolved.Value))

		setlists, err := e.provider.SearchSetlists(ctx, resolved.Value, page)
		if err != nil {
			logger.Error("error fetching setlist page", "page", page, "error", err)
			if errors.Is(err, shared.ErrRateLimited) && page > 1 && len(raw) > 0 {
				break
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(setlists) == 0 {
			logger.Info("no setlists on page", "page", page)
			continue
		}
		raw = append(raw, setlists...)
	}

	for _, sl := range raw {
		if rec, ok := NormalizeSetlist(sl); ok {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		logger.Info("no setlists with songs found")
	}

	e.sendProgress(progress, fetchedSetlistsUpdate(maxSetlistPages, records))
	return records
}

// NormalizeSetlist flattens a raw setlist into a record. ok is false when it has no songs.
//
// Placeholders only replace absent objects. A venue, city, country or artist that is present
// keeps its name as sent, even when empty, and an empty country is left out of the location.
func NormalizeSetlist(sl services.SetlistFMSetlist) (models.SetlistRecord, bool) {
	songs := sl.Songs()
	if len(songs) == 0 {
		return models.SetlistRecord{}, false
	}

	rec := models.SetlistRecord{
		ID:          sl.ID,
		ConcertName: models.RegularConcert,
		Venue:       models.UnknownVenue,
		EventDate:   sl.EventDate,
		Songs:       songs,
		URL:         sl.URL,
	}
	if rec.EventDate == "" {
		rec.EventDate = models.UnknownDate
	}
	if sl.Artist != nil {
		rec.ConcertName = sl.Artist.Name
	}
	if sl.Tour != nil {
		rec.Tour = sl.Tour.Name
	}

	city, state, country := models.UnknownCity, "", models.UnknownCountry
	if v := sl.Venue; v != nil {
		rec.Venue = v.Name
		if c := v.City; c != nil {
			city, state = c.Name, c.State
			if c.Country != nil {
				country = c.Country.Name
			}
		}
	}
	rec.Location = models.FormatLocation(city, state, country)
	return rec, true
}

// pageDelay blocks for the full PageDelay, measured from the moment it is called.
func (e *SetlistEngine) pageDelay(ctx context.Context) error {
	if e.opts.PageDelay <= 0 {
		return ctx.Err()
	}
	limiter := rate.NewLimiter(rate.Every(e.opts.PageDelay), 1)
	limiter.Allow()
	return limiter.Wait(ctx)
}
