package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"setlist/internal/catalog"
	"setlist/internal/catalog/musicbrainz"
	"setlist/internal/catalog/spotify"
	"setlist/internal/config"
	"setlist/internal/extract"
	"setlist/internal/logging"
	"setlist/internal/searchcache"
	"setlist/internal/services/llm"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// newExtractor builds the LLM-backed entity extractor.
func (c *commandContext) newExtractor(logger *slog.Logger) (*extract.Extractor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	settings := cfg.GetExtractorLLM()
	client := llm.NewClient(llm.Config{
		APIKey:         settings.APIKey,
		BaseURL:        settings.BaseURL,
		Model:          settings.Model,
		Referer:        settings.Referer,
		Title:          settings.Title,
		TimeoutSeconds: settings.TimeoutSeconds,
	})
	return extract.NewExtractor(client, logger), nil
}

// newSearcher builds the configured catalog backend, optionally wrapped in
// the response cache. The returned closer is nil when no cache is open.
func (c *commandContext) newSearcher(logger *slog.Logger) (catalog.Searcher, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	var searcher catalog.Searcher
	switch cfg.Resolution.Backend {
	case "musicbrainz":
		searcher, err = musicbrainz.New(musicbrainz.Config{
			BaseURL:      cfg.MusicBrainz.BaseURL,
			AppName:      cfg.MusicBrainz.AppName,
			AppVersion:   cfg.MusicBrainz.AppVersion,
			Contact:      cfg.MusicBrainz.Contact,
			SearchLimit:  cfg.MusicBrainz.SearchLimit,
			RateInterval: time.Duration(cfg.MusicBrainz.RateIntervalMS) * time.Millisecond,
		})
	case "spotify":
		searcher, err = c.newSpotifyClient()
	default:
		err = fmt.Errorf("unknown resolution backend %q", cfg.Resolution.Backend)
	}
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Cache.Enabled {
		return searcher, nil, nil
	}
	store, err := searchcache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open search cache: %w", err)
	}
	return searchcache.Wrap(searcher, store, cfg.Resolution.Backend, logger), store.Close, nil
}

func (c *commandContext) newSpotifyClient() (*spotify.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return spotify.New(spotify.Config{
		ClientID:      cfg.Spotify.ClientID,
		ClientSecret:  cfg.Spotify.ClientSecret,
		AccessToken:   cfg.Spotify.AccessToken,
		BaseURL:       cfg.Spotify.BaseURL,
		AuthURL:       cfg.Spotify.AuthURL,
		RatePerSecond: cfg.Spotify.RatePerSecond,
	})
}
