package spotify

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
)

// tracksBatchSize is the Spotify limit for the bulk track lookup endpoint.
const tracksBatchSize = 50

// Track is a concrete Spotify track with the fields playlist assembly needs.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Popularity int    `json:"popularity"`
	URL        string `json:"url,omitempty"`
}

func (t trackItem) toTrack() Track {
	return Track{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     t.artist(),
		Popularity: t.Popularity,
		URL:        t.ExternalURLs.Spotify,
	}
}

// GetTrack fetches a single track by id.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("track id must not be empty")
	}
	var payload trackItem
	if err := c.get(ctx, "/tracks/"+id, nil, &payload); err != nil {
		return nil, err
	}
	track := payload.toTrack()
	return &track, nil
}

// Tracks fetches track details in bulk, batching at the API limit of 50 ids
// per request. Results keep the input order; unknown ids are skipped.
func (c *Client) Tracks(ctx context.Context, ids []string) ([]Track, error) {
	var out []Track
	for start := 0; start < len(ids); start += tracksBatchSize {
		end := start + tracksBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		params := url.Values{}
		params.Set("ids", strings.Join(ids[start:end], ","))

		var payload struct {
			Tracks []*trackItem `json:"tracks"`
		}
		if err := c.get(ctx, "/tracks", params, &payload); err != nil {
			return nil, err
		}
		for _, item := range payload.Tracks {
			if item == nil || item.ID == "" {
				continue
			}
			out = append(out, item.toTrack())
		}
	}
	return out, nil
}

// ArtistTopTracks returns up to limit of the artist's most popular tracks.
// A limit of zero or less disables sampling and returns nothing.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID string, limit int) ([]Track, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return nil, errors.New("artist id must not be empty")
	}
	if limit <= 0 {
		return nil, nil
	}
	var payload struct {
		Tracks []trackItem `json:"tracks"`
	}
	if err := c.get(ctx, "/artists/"+artistID+"/top-tracks", nil, &payload); err != nil {
		return nil, err
	}
	tracks := make([]Track, 0, len(payload.Tracks))
	for _, item := range payload.Tracks {
		tracks = append(tracks, item.toTrack())
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

// AlbumPopularTracks returns the album's tracks ranked by popularity,
// keeping at most limit entries. A limit of zero or less disables sampling
// and returns nothing. The album-tracks listing omits popularity, so the ids
// are re-fetched through the bulk track endpoint first.
func (c *Client) AlbumPopularTracks(ctx context.Context, albumID string, limit int) ([]Track, error) {
	albumID = strings.TrimSpace(albumID)
	if albumID == "" {
		return nil, errors.New("album id must not be empty")
	}
	if limit <= 0 {
		return nil, nil
	}
	var payload struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/albums/"+albumID+"/tracks", nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID != "" {
			ids = append(ids, item.ID)
		}
	}
	tracks, err := c.Tracks(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Popularity > tracks[j].Popularity
	})
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}
