package playlist

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"

	"setlist/internal/catalog/spotify"
	"setlist/internal/logging"
)

// Creator is the playlist-writing surface of the Spotify client.
type Creator interface {
	CreatePlaylist(ctx context.Context, name, description string) (*spotify.Playlist, error)
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error
}

// Builder assembles the final playlist: dedup, shuffle, create, batched adds.
type Builder struct {
	creator   Creator
	batchSize int
	rng       *rand.Rand
	logger    *slog.Logger
}

// NewBuilder constructs a builder. A nil rng gets a time-seeded one; tests
// pass a fixed seed for reproducible order.
func NewBuilder(creator Creator, batchSize int, rng *rand.Rand, logger *slog.Logger) *Builder {
	if batchSize <= 0 || batchSize > 100 {
		batchSize = 100
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		creator:   creator,
		batchSize: batchSize,
		rng:       rng,
		logger:    logging.NewComponentLogger(logger, "playlist"),
	}
}

// Build deduplicates and shuffles the candidates, creates the playlist, and
// adds the tracks in batches. It refuses to create an empty playlist.
func (b *Builder) Build(ctx context.Context, name, description string, tracks []TrackUnit) (*spotify.Playlist, int, error) {
	unique := Dedupe(tracks)
	if len(unique) == 0 {
		return nil, 0, errors.New("no tracks to add")
	}
	Shuffle(unique, b.rng)

	created, err := b.creator.CreatePlaylist(ctx, name, description)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(unique))
	for i, track := range unique {
		ids[i] = track.ID
	}
	for start := 0; start < len(ids); start += b.batchSize {
		end := start + b.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := b.creator.AddTracks(ctx, created.ID, ids[start:end]); err != nil {
			return created, start, err
		}
	}

	b.logger.Info("playlist created",
		logging.String("playlist_id", created.ID),
		logging.Int(logging.FieldCount, len(ids)),
	)
	return created, len(ids), nil
}
