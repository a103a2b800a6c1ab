package catalog

import "context"

// Kind names the entity class a search targets.
type Kind string

const (
	KindArtist Kind = "artist"
	KindSong   Kind = "song"
	KindAlbum  Kind = "album"
)

// Match is one scored catalog hit. Score carries the backend's relevance
// value (MusicBrainz native scores, synthesized rank scores for Spotify);
// scores are only comparable within a single result list.
type Match struct {
	Kind  Kind   `json:"kind"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`

	// Artist credit for songs and albums; empty for artist matches.
	Artist string `json:"artist,omitempty"`

	Album            string `json:"album,omitempty"`
	Country          string `json:"country,omitempty"`
	Disambiguation   string `json:"disambiguation,omitempty"`
	FirstReleaseDate string `json:"first_release_date,omitempty"`
	TrackCount       int    `json:"track_count,omitempty"`
	Popularity       int    `json:"popularity,omitempty"`
	URL              string `json:"url,omitempty"`
}

// Searcher is the catalog lookup surface shared by all backends.
//
// A nil or empty slice with a nil error means the query ran and nothing
// matched. A non-nil error means the lookup itself failed (network, HTTP,
// decoding); callers decide whether that degrades or aborts.
type Searcher interface {
	SearchArtist(ctx context.Context, name string) ([]Match, error)
	SearchSong(ctx context.Context, title, artist string) ([]Match, error)
	SearchAlbum(ctx context.Context, title, artist string) ([]Match, error)
}
