package spotify

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"setlist/internal/catalog"
)

const searchLimit = 3

var _ catalog.Searcher = (*Client)(nil)

// rankScore synthesizes a relevance score from the result position. Spotify
// does not expose scores, so the first hit gets 100 and later hits drop off.
func rankScore(index int) int {
	if index == 0 {
		return 100
	}
	return 90 - index*10
}

type trackItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name string `json:"name"`
	} `json:"album"`
	Popularity   int `json:"popularity"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

func (t trackItem) artist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// SearchArtist looks up artists by name.
func (c *Client) SearchArtist(ctx context.Context, name string) ([]catalog.Match, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("artist name must not be empty")
	}

	var payload struct {
		Artists struct {
			Items []struct {
				ID           string `json:"id"`
				Name         string `json:"name"`
				Popularity   int    `json:"popularity"`
				ExternalURLs struct {
					Spotify string `json:"spotify"`
				} `json:"external_urls"`
			} `json:"items"`
		} `json:"artists"`
	}
	if err := c.search(ctx, name, "artist", searchLimit, &payload); err != nil {
		return nil, err
	}

	matches := make([]catalog.Match, 0, len(payload.Artists.Items))
	for i, a := range payload.Artists.Items {
		matches = append(matches, catalog.Match{
			Kind:       catalog.KindArtist,
			ID:         a.ID,
			Name:       a.Name,
			Score:      rankScore(i),
			Popularity: a.Popularity,
			URL:        a.ExternalURLs.Spotify,
		})
	}
	return matches, nil
}

// SearchSong looks up tracks by title, optionally constrained by artist.
func (c *Client) SearchSong(ctx context.Context, title, artist string) ([]catalog.Match, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("song title must not be empty")
	}
	query := title
	if artist = strings.TrimSpace(artist); artist != "" {
		query += " artist:" + artist
	}

	var payload struct {
		Tracks struct {
			Items []trackItem `json:"items"`
		} `json:"tracks"`
	}
	if err := c.search(ctx, query, "track", searchLimit, &payload); err != nil {
		return nil, err
	}

	matches := make([]catalog.Match, 0, len(payload.Tracks.Items))
	for i, t := range payload.Tracks.Items {
		matches = append(matches, catalog.Match{
			Kind:       catalog.KindSong,
			ID:         t.ID,
			Name:       t.Name,
			Score:      rankScore(i),
			Artist:     t.artist(),
			Album:      t.Album.Name,
			Popularity: t.Popularity,
			URL:        t.ExternalURLs.Spotify,
		})
	}
	return matches, nil
}

// SearchAlbum looks up albums by title, optionally constrained by artist.
func (c *Client) SearchAlbum(ctx context.Context, title, artist string) ([]catalog.Match, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("album title must not be empty")
	}
	query := title
	if artist = strings.TrimSpace(artist); artist != "" {
		query += " artist:" + artist
	}

	var payload struct {
		Albums struct {
			Items []struct {
				ID      string `json:"id"`
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				ReleaseDate  string `json:"release_date"`
				TotalTracks  int    `json:"total_tracks"`
				ExternalURLs struct {
					Spotify string `json:"spotify"`
				} `json:"external_urls"`
			} `json:"items"`
		} `json:"albums"`
	}
	if err := c.search(ctx, query, "album", searchLimit, &payload); err != nil {
		return nil, err
	}

	matches := make([]catalog.Match, 0, len(payload.Albums.Items))
	for i, a := range payload.Albums.Items {
		match := catalog.Match{
			Kind:             catalog.KindAlbum,
			ID:               a.ID,
			Name:             a.Name,
			Score:            rankScore(i),
			FirstReleaseDate: a.ReleaseDate,
			TrackCount:       a.TotalTracks,
			URL:              a.ExternalURLs.Spotify,
		}
		if len(a.Artists) > 0 {
			match.Artist = a.Artists[0].Name
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// SearchTrack finds the single best track for an exact title and artist pair.
// It returns nil when nothing matches.
func (c *Client) SearchTrack(ctx context.Context, title, artist string) (*Track, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("track title must not be empty")
	}
	query := "track:" + title
	if artist = strings.TrimSpace(artist); artist != "" {
		query += " artist:" + artist
	}

	var payload struct {
		Tracks struct {
			Items []trackItem `json:"items"`
		} `json:"tracks"`
	}
	if err := c.search(ctx, query, "track", 1, &payload); err != nil {
		return nil, err
	}
	if len(payload.Tracks.Items) == 0 {
		return nil, nil
	}
	track := payload.Tracks.Items[0].toTrack()
	return &track, nil
}

// SearchArtistID returns the id of the best artist hit, or empty when none.
func (c *Client) SearchArtistID(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("artist name must not be empty")
	}
	var payload struct {
		Artists struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"artists"`
	}
	if err := c.search(ctx, "artist:"+name, "artist", 1, &payload); err != nil {
		return "", err
	}
	if len(payload.Artists.Items) == 0 {
		return "", nil
	}
	return payload.Artists.Items[0].ID, nil
}

// SearchAlbumID returns the id of the best album hit, or empty when none.
func (c *Client) SearchAlbumID(ctx context.Context, title, artist string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("album title must not be empty")
	}
	query := "album:" + title
	if artist = strings.TrimSpace(artist); artist != "" {
		query += " artist:" + artist
	}
	var payload struct {
		Albums struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		} `json:"albums"`
	}
	if err := c.search(ctx, query, "album", 1, &payload); err != nil {
		return "", err
	}
	if len(payload.Albums.Items) == 0 {
		return "", nil
	}
	return payload.Albums.Items[0].ID, nil
}

func (c *Client) search(ctx context.Context, query, entityType string, limit int, target any) error {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", entityType)
	params.Set("limit", strconv.Itoa(limit))
	return c.get(ctx, "/search", params, target)
}
