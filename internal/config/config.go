package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	StateDir  string `toml:"state_dir"`
}

// MusicBrainz contains configuration for the MusicBrainz search backend.
type MusicBrainz struct {
	BaseURL        string `toml:"base_url"`
	AppName        string `toml:"app_name"`
	AppVersion     string `toml:"app_version"`
	Contact        string `toml:"contact"`
	RateIntervalMS int    `toml:"rate_interval_ms"`
	SearchLimit    int    `toml:"search_limit"`
}

// Spotify contains configuration for the Spotify API: search backend,
// track materialization, and playlist mutation.
type Spotify struct {
	ClientID      string `toml:"client_id"`
	ClientSecret  string `toml:"client_secret"`
	AccessToken   string `toml:"access_token"`
	BaseURL       string `toml:"base_url"`
	AuthURL       string `toml:"auth_url"`
	RatePerSecond int    `toml:"rate_per_second"`
}

// Extractor contains the LLM connection settings for music entity extraction.
type Extractor struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Resolution contains knobs for the resolution engine and track materialization.
type Resolution struct {
	Backend           string `toml:"backend"`
	SampleTopTracks   bool   `toml:"sample_top_tracks"`
	ArtistLimit       int    `toml:"artist_limit"`
	AlbumLimit        int    `toml:"album_limit"`
	Workers           int    `toml:"workers"`
	PlaylistBatchSize int    `toml:"playlist_batch_size"`
}

// Cache contains configuration for the catalog search response cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for setlist.
//
// Configuration sections by subsystem:
//   - Paths: output, log, and state directories
//   - MusicBrainz: rate-limited catalog search backend
//   - Spotify: search backend, track sampling, and playlist mutation
//   - Extractor: LLM connection settings for entity extraction
//   - Resolution: engine backend selection and materialization limits
//   - Cache: catalog response cache
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	Spotify     Spotify     `toml:"spotify"`
	Extractor   Extractor   `toml:"extractor"`
	Resolution  Resolution  `toml:"resolution"`
	Cache       Cache       `toml:"cache"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/setlist/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("setlist.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Cache.Enabled {
		if dir := filepath.Dir(c.Cache.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create cache directory %q: %w", dir, err)
			}
		}
	}
	return nil
}

// LockPath returns the path of the run lock guarding the shared rate budget.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "setlist.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the extractor LLM connection settings in the shape the
// llm client consumes.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// GetExtractorLLM returns the extractor LLM connection settings.
func (c *Config) GetExtractorLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.Extractor.APIKey),
		BaseURL:        strings.TrimSpace(c.Extractor.BaseURL),
		Model:          strings.TrimSpace(c.Extractor.Model),
		Referer:        strings.TrimSpace(c.Extractor.Referer),
		Title:          strings.TrimSpace(c.Extractor.Title),
		TimeoutSeconds: c.Extractor.TimeoutSeconds,
	}
}
