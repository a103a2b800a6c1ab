package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Only configuration and
// credential problems are fatal; per-item lookup failures degrade at runtime.
func (c *Config) Validate() error {
	if err := c.validateExtractor(); err != nil {
		return err
	}
	if err := c.validateResolution(); err != nil {
		return err
	}
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExtractor() error {
	if c.Extractor.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/setlist/config.toml"
		}
		return fmt.Errorf("extractor.api_key is required. Set OPENROUTER_API_KEY env var or edit %s (create with 'setlist config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateResolution() error {
	switch c.Resolution.Backend {
	case "musicbrainz", "spotify":
	default:
		return fmt.Errorf("resolution.backend must be %q or %q, got %q", "musicbrainz", "spotify", c.Resolution.Backend)
	}
	if c.Resolution.Backend == "spotify" {
		if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
			return errors.New("spotify.client_id and spotify.client_secret must be set when resolution.backend is \"spotify\" (or set SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET)")
		}
	}
	return nil
}

func (c *Config) validateMusicBrainz() error {
	if c.Resolution.Backend != "musicbrainz" {
		return nil
	}
	if c.MusicBrainz.Contact == "" {
		return errors.New("musicbrainz.contact must be set (MusicBrainz etiquette requires a contact address in the User-Agent)")
	}
	return nil
}
