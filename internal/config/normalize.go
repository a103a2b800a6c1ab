package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMusicBrainz()
	c.normalizeSpotify()
	c.normalizeExtractor()
	c.normalizeResolution()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMusicBrainz() {
	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	if c.MusicBrainz.BaseURL == "" {
		c.MusicBrainz.BaseURL = defaultMusicBrainzBaseURL
	}
	c.MusicBrainz.AppName = strings.TrimSpace(c.MusicBrainz.AppName)
	if c.MusicBrainz.AppName == "" {
		c.MusicBrainz.AppName = defaultMusicBrainzAppName
	}
	c.MusicBrainz.AppVersion = strings.TrimSpace(c.MusicBrainz.AppVersion)
	if c.MusicBrainz.AppVersion == "" {
		c.MusicBrainz.AppVersion = defaultMusicBrainzVersion
	}
	c.MusicBrainz.Contact = strings.TrimSpace(c.MusicBrainz.Contact)
	if c.MusicBrainz.Contact == "" {
		if value, ok := os.LookupEnv("MUSICBRAINZ_CONTACT"); ok {
			c.MusicBrainz.Contact = strings.TrimSpace(value)
		}
	}
	if c.MusicBrainz.RateIntervalMS <= 0 {
		c.MusicBrainz.RateIntervalMS = defaultMusicBrainzInterval
	}
	if c.MusicBrainz.SearchLimit <= 0 {
		c.MusicBrainz.SearchLimit = defaultSearchLimit
	}
}

func (c *Config) normalizeSpotify() {
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	if c.Spotify.ClientID == "" {
		if value, ok := os.LookupEnv("SPOTIFY_CLIENT_ID"); ok {
			c.Spotify.ClientID = strings.TrimSpace(value)
		}
	}
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	if c.Spotify.ClientSecret == "" {
		if value, ok := os.LookupEnv("SPOTIFY_CLIENT_SECRET"); ok {
			c.Spotify.ClientSecret = strings.TrimSpace(value)
		}
	}
	c.Spotify.AccessToken = strings.TrimSpace(c.Spotify.AccessToken)
	if c.Spotify.AccessToken == "" {
		if value, ok := os.LookupEnv("SPOTIFY_ACCESS_TOKEN"); ok {
			c.Spotify.AccessToken = strings.TrimSpace(value)
		}
	}
	c.Spotify.BaseURL = strings.TrimRight(strings.TrimSpace(c.Spotify.BaseURL), "/")
	if c.Spotify.BaseURL == "" {
		c.Spotify.BaseURL = defaultSpotifyBaseURL
	}
	c.Spotify.AuthURL = strings.TrimSpace(c.Spotify.AuthURL)
	if c.Spotify.AuthURL == "" {
		c.Spotify.AuthURL = defaultSpotifyAuthURL
	}
	if c.Spotify.RatePerSecond <= 0 {
		c.Spotify.RatePerSecond = defaultSpotifyRate
	}
}

func (c *Config) normalizeExtractor() {
	c.Extractor.APIKey = strings.TrimSpace(c.Extractor.APIKey)
	if c.Extractor.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Extractor.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Extractor.APIKey = strings.TrimSpace(value)
		}
	}
	c.Extractor.BaseURL = strings.TrimSpace(c.Extractor.BaseURL)
	if c.Extractor.BaseURL == "" {
		c.Extractor.BaseURL = defaultExtractorBaseURL
	}
	c.Extractor.Model = strings.TrimSpace(c.Extractor.Model)
	if c.Extractor.Model == "" {
		c.Extractor.Model = defaultExtractorModel
	}
	c.Extractor.Referer = strings.TrimSpace(c.Extractor.Referer)
	if c.Extractor.Referer == "" {
		c.Extractor.Referer = defaultExtractorReferer
	}
	c.Extractor.Title = strings.TrimSpace(c.Extractor.Title)
	if c.Extractor.Title == "" {
		c.Extractor.Title = defaultExtractorTitle
	}
	if c.Extractor.TimeoutSeconds <= 0 {
		c.Extractor.TimeoutSeconds = defaultExtractorTimeout
	}
}

func (c *Config) normalizeResolution() {
	c.Resolution.Backend = strings.ToLower(strings.TrimSpace(c.Resolution.Backend))
	if c.Resolution.Backend == "" {
		c.Resolution.Backend = defaultBackend
	}
	if c.Resolution.ArtistLimit < 0 {
		c.Resolution.ArtistLimit = 0
	}
	if c.Resolution.AlbumLimit < 0 {
		c.Resolution.AlbumLimit = 0
	}
	if c.Resolution.Workers <= 0 {
		c.Resolution.Workers = defaultWorkers
	}
	if c.Resolution.PlaylistBatchSize <= 0 {
		c.Resolution.PlaylistBatchSize = defaultPlaylistBatchSize
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
