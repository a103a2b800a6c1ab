package playlist

import (
	"context"
	"log/slog"

	"setlist/internal/catalog"
	"setlist/internal/catalog/spotify"
	"setlist/internal/logging"
)

// Source is the Spotify surface materialization needs.
type Source interface {
	Tracks(ctx context.Context, ids []string) ([]spotify.Track, error)
	SearchTrack(ctx context.Context, title, artist string) (*spotify.Track, error)
	SearchArtistID(ctx context.Context, name string) (string, error)
	ArtistTopTracks(ctx context.Context, artistID string, limit int) ([]spotify.Track, error)
	SearchAlbumID(ctx context.Context, title, artist string) (string, error)
	AlbumPopularTracks(ctx context.Context, albumID string, limit int) ([]spotify.Track, error)
}

// Entry carries one unit's contribution to the playlist: direct track links
// from its text plus its resolved matches.
type Entry struct {
	DirectTrackIDs []string
	Songs          []catalog.Match
	Artists        []catalog.Match
	Albums         []catalog.Match
}

// Options control how matches expand into tracks.
type Options struct {
	// SampleTopTracks enables expansion of artist and album matches into
	// their top and most popular tracks. A per-kind limit of zero disables
	// that kind's expansion even when sampling is on.
	SampleTopTracks bool
	ArtistLimit     int
	AlbumLimit      int
}

// Materializer expands resolved matches into concrete Spotify tracks. Every
// lookup failure drops the affected entry and moves on.
type Materializer struct {
	source Source
	logger *slog.Logger
}

// NewMaterializer builds a materializer around the supplied track source.
func NewMaterializer(source Source, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Materializer{
		source: source,
		logger: logging.NewComponentLogger(logger, "playlist"),
	}
}

// Collect walks the entries and gathers playlist candidates: direct track
// links verbatim, one track per resolved song, and optionally top tracks per
// artist and popular tracks per album. The first occurrence of a track id
// wins; later duplicates are skipped before name-based dedup runs.
func (m *Materializer) Collect(ctx context.Context, entries []Entry, opts Options) ([]TrackUnit, error) {
	seen := make(map[string]struct{})
	var out []TrackUnit
	add := func(track spotify.Track) {
		if track.ID == "" {
			return
		}
		if _, dup := seen[track.ID]; dup {
			return
		}
		seen[track.ID] = struct{}{}
		out = append(out, fromSpotifyTrack(track))
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(entry.DirectTrackIDs) > 0 {
			tracks, err := m.source.Tracks(ctx, entry.DirectTrackIDs)
			if err != nil {
				m.logger.Warn("direct track lookup failed", logging.Error(err))
			} else {
				for _, track := range tracks {
					add(track)
				}
			}
		}

		for _, song := range entry.Songs {
			track, err := m.source.SearchTrack(ctx, song.Name, song.Artist)
			if err != nil {
				m.logger.Warn("track search failed", logging.String(logging.FieldQuery, song.Name), logging.Error(err))
				continue
			}
			if track != nil {
				add(*track)
			}
		}

		if !opts.SampleTopTracks {
			continue
		}

		for _, artist := range entry.Artists {
			for _, track := range m.artistTopTracks(ctx, artist.Name, opts.ArtistLimit) {
				add(track)
			}
		}
		for _, album := range entry.Albums {
			for _, track := range m.albumPopularTracks(ctx, album.Name, album.Artist, opts.AlbumLimit) {
				add(track)
			}
		}
	}
	return out, nil
}

func (m *Materializer) artistTopTracks(ctx context.Context, name string, limit int) []spotify.Track {
	if limit <= 0 {
		return nil
	}
	artistID, err := m.source.SearchArtistID(ctx, name)
	if err != nil {
		m.logger.Warn("artist search failed", logging.String(logging.FieldQuery, name), logging.Error(err))
		return nil
	}
	if artistID == "" {
		return nil
	}
	tracks, err := m.source.ArtistTopTracks(ctx, artistID, limit)
	if err != nil {
		m.logger.Warn("artist top tracks failed", logging.String(logging.FieldQuery, name), logging.Error(err))
		return nil
	}
	return tracks
}

func (m *Materializer) albumPopularTracks(ctx context.Context, title, artist string, limit int) []spotify.Track {
	if limit <= 0 {
		return nil
	}
	albumID, err := m.source.SearchAlbumID(ctx, title, artist)
	if err != nil {
		m.logger.Warn("album search failed", logging.String(logging.FieldQuery, title), logging.Error(err))
		return nil
	}
	if albumID == "" {
		return nil
	}
	tracks, err := m.source.AlbumPopularTracks(ctx, albumID, limit)
	if err != nil {
		m.logger.Warn("album popular tracks failed", logging.String(logging.FieldQuery, title), logging.Error(err))
		return nil
	}
	return tracks
}
