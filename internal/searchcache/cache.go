package searchcache

import (
	"context"
	"log/slog"

	"setlist/internal/catalog"
	"setlist/internal/logging"
)

// Cache decorates a catalog.Searcher with read-through persistence. Cache
// trouble never fails a lookup; the inner searcher is always the fallback.
type Cache struct {
	inner   catalog.Searcher
	store   *Store
	backend string
	logger  *slog.Logger
}

var _ catalog.Searcher = (*Cache)(nil)

// Wrap builds a caching layer around inner. The backend name partitions the
// cache so MusicBrainz and Spotify results never mix.
func Wrap(inner catalog.Searcher, store *Store, backend string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		inner:   inner,
		store:   store,
		backend: backend,
		logger:  logging.NewComponentLogger(logger, "searchcache"),
	}
}

func (c *Cache) SearchArtist(ctx context.Context, name string) ([]catalog.Match, error) {
	return c.lookup(ctx, catalog.KindArtist, name, "", func() ([]catalog.Match, error) {
		return c.inner.SearchArtist(ctx, name)
	})
}

func (c *Cache) SearchSong(ctx context.Context, title, artist string) ([]catalog.Match, error) {
	return c.lookup(ctx, catalog.KindSong, title, artist, func() ([]catalog.Match, error) {
		return c.inner.SearchSong(ctx, title, artist)
	})
}

func (c *Cache) SearchAlbum(ctx context.Context, title, artist string) ([]catalog.Match, error) {
	return c.lookup(ctx, catalog.KindAlbum, title, artist, func() ([]catalog.Match, error) {
		return c.inner.SearchAlbum(ctx, title, artist)
	})
}

func (c *Cache) lookup(ctx context.Context, kind catalog.Kind, query, scope string, fetch func() ([]catalog.Match, error)) ([]catalog.Match, error) {
	if cached, found, err := c.store.Get(ctx, c.backend, kind, query, scope); err != nil {
		c.logger.Warn("cache read failed", logging.String(logging.FieldKind, string(kind)), logging.Error(err))
	} else if found {
		return cached, nil
	}

	matches, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, c.backend, kind, query, scope, matches); err != nil {
		c.logger.Warn("cache write failed", logging.String(logging.FieldKind, string(kind)), logging.Error(err))
	}
	return matches, nil
}
