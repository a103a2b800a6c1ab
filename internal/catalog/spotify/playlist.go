package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"setlist/internal/services"
)

// addTracksBatchSize is the Spotify limit for one playlist-add request.
const addTracksBatchSize = 100

// Playlist identifies a created playlist.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CurrentUserID resolves the id of the token's user. Requires a user access
// token; the client-credentials flow has no user.
func (c *Client) CurrentUserID(ctx context.Context) (string, error) {
	if c.cfg.AccessToken == "" {
		return "", services.Wrap(services.ErrConfiguration, "spotify", "me",
			"playlist operations require a user access token (set SPOTIFY_ACCESS_TOKEN)", nil)
	}
	var payload struct {
		ID string `json:"id"`
	}
	if err := c.get(ctx, "/me", nil, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", services.Wrap(services.ErrExternalService, "spotify", "me", "response missing user id", nil)
	}
	return payload.ID, nil
}

// CreatePlaylist creates a public playlist for the token's user.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("playlist name must not be empty")
	}
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"name":        name,
		"description": description,
		"public":      true,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "spotify", "create playlist", "encode body", err)
	}

	var payload struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/"+userID+"/playlists", nil, bytes.NewReader(body), &payload); err != nil {
		return nil, err
	}
	return &Playlist{ID: payload.ID, Name: payload.Name, URL: payload.ExternalURLs.Spotify}, nil
}

// AddTracks appends one batch of tracks to a playlist. Callers chunk larger
// lists; the API rejects more than 100 uris per request.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return errors.New("playlist id must not be empty")
	}
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > addTracksBatchSize {
		return errors.New("at most 100 tracks per add request")
	}

	uris := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		if id = strings.TrimSpace(id); id != "" {
			uris = append(uris, "spotify:track:"+id)
		}
	}
	body, err := json.Marshal(map[string]any{"uris": uris})
	if err != nil {
		return services.Wrap(services.ErrExternalService, "spotify", "add tracks", "encode body", err)
	}
	return c.do(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks", nil, bytes.NewReader(body), nil)
}
