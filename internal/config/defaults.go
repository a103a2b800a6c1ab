package config

const (
	defaultOutputDir           = "~/.local/share/setlist/output"
	defaultLogDir              = "~/.local/share/setlist/logs"
	defaultStateDir            = "~/.local/share/setlist/state"
	defaultCachePath           = "~/.cache/setlist/searchcache.db"
	defaultMusicBrainzBaseURL  = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzAppName  = "setlist"
	defaultMusicBrainzVersion  = "dev"
	defaultMusicBrainzInterval = 1000
	defaultSearchLimit         = 3
	defaultSpotifyBaseURL      = "https://api.spotify.com/v1"
	defaultSpotifyAuthURL      = "https://accounts.spotify.com/api/token"
	defaultSpotifyRate         = 8
	defaultExtractorBaseURL    = "https://openrouter.ai/api/v1/chat/completions"
	defaultExtractorModel      = "openai/gpt-4o-mini"
	defaultExtractorReferer    = "https://github.com/setlist-dev/setlist"
	defaultExtractorTitle      = "Setlist Entity Extractor"
	defaultExtractorTimeout    = 60
	defaultBackend             = "musicbrainz"
	defaultArtistLimit         = 2
	defaultAlbumLimit          = 2
	defaultWorkers             = 4
	defaultPlaylistBatchSize   = 100
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:        defaultMusicBrainzBaseURL,
			AppName:        defaultMusicBrainzAppName,
			AppVersion:     defaultMusicBrainzVersion,
			RateIntervalMS: defaultMusicBrainzInterval,
			SearchLimit:    defaultSearchLimit,
		},
		Spotify: Spotify{
			BaseURL:       defaultSpotifyBaseURL,
			AuthURL:       defaultSpotifyAuthURL,
			RatePerSecond: defaultSpotifyRate,
		},
		Extractor: Extractor{
			BaseURL:        defaultExtractorBaseURL,
			Model:          defaultExtractorModel,
			Referer:        defaultExtractorReferer,
			Title:          defaultExtractorTitle,
			TimeoutSeconds: defaultExtractorTimeout,
		},
		Resolution: Resolution{
			Backend:           defaultBackend,
			SampleTopTracks:   true,
			ArtistLimit:       defaultArtistLimit,
			AlbumLimit:        defaultAlbumLimit,
			Workers:           defaultWorkers,
			PlaylistBatchSize: defaultPlaylistBatchSize,
		},
		Cache: Cache{
			Enabled: false,
			Path:    defaultCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
