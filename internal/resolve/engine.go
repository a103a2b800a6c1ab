package resolve

import (
	"context"
	"log/slog"
	"strings"

	"setlist/internal/catalog"
	"setlist/internal/extract"
	"setlist/internal/logging"
	"setlist/internal/services"
)

// Engine resolves extracted candidates against a catalog backend. Degradable
// lookup failures turn into unresolved entries; the engine returns an error
// only on cancellation or a non-degradable failure such as bad credentials.
type Engine struct {
	searcher catalog.Searcher
	logger   *slog.Logger
}

// NewEngine builds an engine around the supplied catalog backend.
func NewEngine(searcher catalog.Searcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		searcher: searcher,
		logger:   logging.NewComponentLogger(logger, "resolve"),
	}
}

// Resolve runs song and album lookups first, then reconciles the artist work
// list with what those lookups learned, and finally resolves artists.
func (e *Engine) Resolve(ctx context.Context, candidates extract.Candidates) (Outcome, error) {
	outcome := Outcome{
		RequestedArtists: len(candidates.ArtistSearches),
		RequestedSongs:   len(candidates.SongSearches),
		RequestedAlbums:  len(candidates.AlbumSearches),
	}

	songs, songArtists, songMisidentified, err := e.resolveSongs(ctx, e.songRequests(candidates.SongSearches))
	if err != nil {
		return outcome, err
	}
	albums, albumArtists, albumMisidentified, err := e.resolveAlbums(ctx, e.albumRequests(candidates.AlbumSearches))
	if err != nil {
		return outcome, err
	}

	artistNames := reconcileArtists(
		candidates.ArtistSearches,
		append(songArtists, albumArtists...),
		append(songMisidentified, albumMisidentified...),
	)
	artists, err := e.resolveArtists(ctx, artistNames)
	if err != nil {
		return outcome, err
	}

	outcome.Songs = songs
	outcome.Albums = albums
	outcome.Artists = artists
	outcome.SwappedArtists = append(songArtists, albumArtists...)
	outcome.Misidentified = append(songMisidentified, albumMisidentified...)
	return outcome, nil
}

// resolveSongs looks up each song mention and applies the swap retry: when a
// title/artist pair finds nothing, the fields are exchanged and the query
// reissued. A swap hit records the original artist value as an extra artist
// to search and the original title value as misidentified.
func (e *Engine) resolveSongs(ctx context.Context, requests []Request) ([]catalog.Match, []string, []string, error) {
	var matches []catalog.Match
	var additionalArtists []string
	var misidentified []string

	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		match, ok, err := e.lookupSong(ctx, req.Primary, req.Artist)
		if err != nil {
			return nil, nil, nil, err
		}
		if ok && match == nil && req.Artist != "" {
			swapped, _, err := e.lookupSong(ctx, req.Artist, req.Primary)
			if err != nil {
				return nil, nil, nil, err
			}
			if swapped != nil {
				match = swapped
				additionalArtists = append(additionalArtists, req.Artist)
				misidentified = append(misidentified, req.Primary)
			}
		}
		if match != nil {
			matches = append(matches, *match)
		}
	}
	return matches, additionalArtists, misidentified, nil
}

// resolveAlbums mirrors resolveSongs for album mentions.
func (e *Engine) resolveAlbums(ctx context.Context, requests []Request) ([]catalog.Match, []string, []string, error) {
	var matches []catalog.Match
	var additionalArtists []string
	var misidentified []string

	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		match, ok, err := e.lookupAlbum(ctx, req.Primary, req.Artist)
		if err != nil {
			return nil, nil, nil, err
		}
		if ok && match == nil && req.Artist != "" {
			swapped, _, err := e.lookupAlbum(ctx, req.Artist, req.Primary)
			if err != nil {
				return nil, nil, nil, err
			}
			if swapped != nil {
				match = swapped
				additionalArtists = append(additionalArtists, req.Artist)
				misidentified = append(misidentified, req.Primary)
			}
		}
		if match != nil {
			matches = append(matches, *match)
		}
	}
	return matches, additionalArtists, misidentified, nil
}

// songRequests converts extracted mentions into validated requests, dropping
// entries with no usable title.
func (e *Engine) songRequests(searches []extract.SongSearch) []Request {
	requests := make([]Request, 0, len(searches))
	for _, search := range searches {
		req, err := NewSongRequest(search.Title, search.Artist)
		if err != nil {
			e.logger.Warn("song mention skipped", logging.Error(err))
			continue
		}
		requests = append(requests, req)
	}
	return requests
}

func (e *Engine) albumRequests(searches []extract.AlbumSearch) []Request {
	requests := make([]Request, 0, len(searches))
	for _, search := range searches {
		req, err := NewAlbumRequest(search.Title, search.Artist)
		if err != nil {
			e.logger.Warn("album mention skipped", logging.Error(err))
			continue
		}
		requests = append(requests, req)
	}
	return requests
}

func (e *Engine) resolveArtists(ctx context.Context, names []string) ([]catalog.Match, error) {
	var matches []catalog.Match
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := NewArtistRequest(name)
		if err != nil {
			continue
		}
		results, err := e.searcher.SearchArtist(ctx, req.Primary)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !services.Degradable(err) {
				return nil, err
			}
			e.logger.Warn("artist lookup failed", logging.String(logging.FieldQuery, name), logging.Error(err))
			continue
		}
		if top := catalog.TopMatch(results); top != nil {
			matches = append(matches, *top)
		}
	}
	return matches, nil
}

// lookupSong returns the top song hit. The second result distinguishes a
// clean miss (true) from a degraded lookup (false); only a clean miss may
// trigger the swap retry. Non-degradable failures (bad credentials or
// configuration) abort instead of degrading.
func (e *Engine) lookupSong(ctx context.Context, title, artist string) (*catalog.Match, bool, error) {
	results, err := e.searcher.SearchSong(ctx, title, artist)
	if err != nil {
		if !services.Degradable(err) {
			return nil, false, err
		}
		e.logger.Warn("song lookup failed",
			logging.String(logging.FieldQuery, title),
			logging.String("artist", artist),
			logging.Error(err),
		)
		return nil, false, nil
	}
	return catalog.TopMatch(results), true, nil
}

func (e *Engine) lookupAlbum(ctx context.Context, title, artist string) (*catalog.Match, bool, error) {
	results, err := e.searcher.SearchAlbum(ctx, title, artist)
	if err != nil {
		if !services.Degradable(err) {
			return nil, false, err
		}
		e.logger.Warn("album lookup failed",
			logging.String(logging.FieldQuery, title),
			logging.String("artist", artist),
			logging.Error(err),
		)
		return nil, false, nil
	}
	return catalog.TopMatch(results), true, nil
}

// reconcileArtists builds the artist work list: explicit mentions plus
// artists learned from swap hits, minus values the swaps exposed as
// non-artists. Comparison is exact; duplicates collapse to their first
// occurrence so the output order is stable.
func reconcileArtists(explicit, additional, misidentified []string) []string {
	excluded := make(map[string]struct{}, len(misidentified))
	for _, name := range misidentified {
		excluded[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, name := range append(append([]string{}, additional...), explicit...) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
