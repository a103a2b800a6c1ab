package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"setlist/internal/extract"
	"setlist/internal/logging"
	"setlist/internal/resolve"
	"setlist/internal/source"
)

// Extractor is the extraction surface the runner needs.
type Extractor interface {
	Extract(ctx context.Context, text string) (extract.Candidates, error)
}

// Resolver is the resolution surface the runner needs.
type Resolver interface {
	Resolve(ctx context.Context, candidates extract.Candidates) (resolve.Outcome, error)
}

// Item is one processed unit: its metadata, what extraction found, and what
// resolution matched.
type Item struct {
	source.TextUnit
	Results ItemResults `json:"results"`
}

// ItemResults pairs the extracted searches with their matches.
type ItemResults struct {
	Searches extract.Candidates `json:"searches"`
	Matches  resolve.Outcome    `json:"matches"`
}

// Stats summarizes a run.
type Stats struct {
	Units            int `json:"units"`
	Submissions      int `json:"submissions"`
	Comments         int `json:"comments"`
	UnitsWithMatches int `json:"units_with_matches"`
	Requested        int `json:"requested"`
	Resolved         int `json:"resolved"`
	ArtistMatches    int `json:"artist_matches"`
	SongMatches      int `json:"song_matches"`
	AlbumMatches     int `json:"album_matches"`
	DirectTracks     int `json:"direct_tracks"`
}

// Runner drives extraction and resolution over a batch of units with bounded
// concurrency.
type Runner struct {
	extractor Extractor
	resolver  Resolver
	workers   int
	logger    *slog.Logger
}

// NewRunner builds a runner. Workers below one collapse to sequential
// processing.
func NewRunner(extractor Extractor, resolver Resolver, workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		extractor: extractor,
		resolver:  resolver,
		workers:   workers,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run processes every unit and returns items in input order regardless of
// which worker finished first. Degradable trouble is absorbed inside the
// extractor and resolver; cancellation or a configuration failure aborts
// the batch.
func (r *Runner) Run(ctx context.Context, units []source.TextUnit) ([]Item, Stats, error) {
	items := make([]Item, len(units))
	errs := make([]error, len(units))

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)
	for i := range units {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			items[idx], errs[idx] = r.processUnit(ctx, units[idx])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, Stats{}, err
		}
	}

	stats := collectStats(items)
	r.logger.Info("run complete",
		logging.Int("units", stats.Units),
		logging.Int("requested", stats.Requested),
		logging.Int("resolved", stats.Resolved),
	)
	return items, stats, nil
}

func (r *Runner) processUnit(ctx context.Context, unit source.TextUnit) (Item, error) {
	item := Item{TextUnit: unit}

	candidates, err := r.extractor.Extract(ctx, unit.Text)
	if err != nil {
		return item, err
	}
	item.Results.Searches = candidates

	outcome, err := r.resolver.Resolve(ctx, candidates)
	if err != nil {
		return item, err
	}
	item.Results.Matches = outcome

	r.logger.Debug("processed unit",
		logging.String("unit_id", unit.ID),
		logging.String("unit_type", unit.Type),
		logging.Int("resolved", outcome.Resolved()),
	)
	return item, nil
}

func collectStats(items []Item) Stats {
	stats := Stats{Units: len(items)}
	for _, item := range items {
		if item.Type == source.TypeSubmission {
			stats.Submissions++
		} else {
			stats.Comments++
		}
		matches := item.Results.Matches
		stats.Requested += matches.Requested()
		stats.Resolved += matches.Resolved()
		stats.ArtistMatches += len(matches.Artists)
		stats.SongMatches += len(matches.Songs)
		stats.AlbumMatches += len(matches.Albums)
		stats.DirectTracks += len(item.SpotifyTracks)
		if matches.Resolved() > 0 || len(item.SpotifyTracks) > 0 {
			stats.UnitsWithMatches++
		}
	}
	return stats
}
