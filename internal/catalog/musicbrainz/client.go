package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"setlist/internal/catalog"
	"setlist/internal/services"
)

const (
	defaultBaseURL      = "https://musicbrainz.org/ws/2"
	defaultSearchLimit  = 3
	defaultRateInterval = time.Second
)

// Config captures the settings needed to talk to the MusicBrainz web service.
type Config struct {
	BaseURL      string
	AppName      string
	AppVersion   string
	Contact      string
	SearchLimit  int
	RateInterval time.Duration
}

// Client queries the MusicBrainz search API. All requests pass through a
// shared rate gate; MusicBrainz allows one request per second for anonymous
// clients and bans offenders.
type Client struct {
	baseURL     string
	userAgent   string
	searchLimit int
	httpClient  *http.Client
	limiter     *rate.Limiter
}

var _ catalog.Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLimiter overrides the request rate gate (useful for tests).
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// New creates a MusicBrainz client. Contact is required: the service expects
// a reachable address in every User-Agent.
func New(cfg Config, opts ...Option) (*Client, error) {
	contact := strings.TrimSpace(cfg.Contact)
	if contact == "" {
		return nil, errors.New("musicbrainz contact required")
	}
	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = "setlist"
	}
	appVersion := strings.TrimSpace(cfg.AppVersion)
	if appVersion == "" {
		appVersion = "dev"
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	interval := cfg.RateInterval
	if interval <= 0 {
		interval = defaultRateInterval
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   fmt.Sprintf("%s/%s ( %s )", appName, appVersion, contact),
		searchLimit: limit,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(interval), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchArtist looks up artists by name.
func (c *Client) SearchArtist(ctx context.Context, name string) ([]catalog.Match, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("artist name must not be empty")
	}
	query := fmt.Sprintf("artist:%s", quoteLucene(name))

	var payload struct {
		Artists []struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			Score          int    `json:"score"`
			Country        string `json:"country"`
			Disambiguation string `json:"disambiguation"`
		} `json:"artists"`
	}
	if err := c.search(ctx, "artist", query, &payload); err != nil {
		return nil, err
	}

	matches := make([]catalog.Match, 0, len(payload.Artists))
	for _, a := range payload.Artists {
		matches = append(matches, catalog.Match{
			Kind:           catalog.KindArtist,
			ID:             a.ID,
			Name:           a.Name,
			Score:          a.Score,
			Country:        a.Country,
			Disambiguation: a.Disambiguation,
		})
	}
	return matches, nil
}

// SearchSong looks up recordings by title, optionally constrained by artist.
func (c *Client) SearchSong(ctx context.Context, title, artist string) ([]catalog.Match, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("song title must not be empty")
	}
	parts := []string{fmt.Sprintf("recording:%s", quoteLucene(title))}
	if artist = strings.TrimSpace(artist); artist != "" {
		parts = append(parts, fmt.Sprintf("artist:%s", quoteLucene(artist)))
	}
	query := strings.Join(parts, " AND ")

	var payload struct {
		Recordings []struct {
			ID               string `json:"id"`
			Title            string `json:"title"`
			Score            int    `json:"score"`
			FirstReleaseDate string `json:"first-release-date"`
			ArtistCredit     []struct {
				Name string `json:"name"`
			} `json:"artist-credit"`
			Releases []struct {
				Title string `json:"title"`
			} `json:"releases"`
		} `json:"recordings"`
	}
	if err := c.search(ctx, "recording", query, &payload); err != nil {
		return nil, err
	}

	matches := make([]catalog.Match, 0, len(payload.Recordings))
	for _, r := range payload.Recordings {
		match := catalog.Match{
			Kind:             catalog.KindSong,
			ID:               r.ID,
			Name:             r.Title,
			Score:            r.Score,
			FirstReleaseDate: r.FirstReleaseDate,
		}
		if len(r.ArtistCredit) > 0 {
			match.Artist = r.ArtistCredit[0].Name
		}
		if len(r.Releases) > 0 {
			match.Album = r.Releases[0].Title
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// SearchAlbum looks up release groups by title, optionally constrained by
// artist.
func (c *Client) SearchAlbum(ctx context.Context, title, artist string) ([]catalog.Match, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("album title must not be empty")
	}
	parts := []string{fmt.Sprintf("releasegroup:%s", quoteLucene(title))}
	if artist = strings.TrimSpace(artist); artist != "" {
		parts = append(parts, fmt.Sprintf("artist:%s", quoteLucene(artist)))
	}
	query := strings.Join(parts, " AND ")

	var payload struct {
		ReleaseGroups []struct {
			ID               string `json:"id"`
			Title            string `json:"title"`
			Score            int    `json:"score"`
			PrimaryType      string `json:"primary-type"`
			FirstReleaseDate string `json:"first-release-date"`
			Disambiguation   string `json:"disambiguation"`
			ArtistCredit     []struct {
				Name string `json:"name"`
			} `json:"artist-credit"`
		} `json:"release-groups"`
	}
	if err := c.search(ctx, "release-group", query, &payload); err != nil {
		return nil, err
	}

	matches := make([]catalog.Match, 0, len(payload.ReleaseGroups))
	for _, rg := range payload.ReleaseGroups {
		match := catalog.Match{
			Kind:             catalog.KindAlbum,
			ID:               rg.ID,
			Name:             rg.Title,
			Score:            rg.Score,
			FirstReleaseDate: rg.FirstReleaseDate,
			Disambiguation:   rg.Disambiguation,
		}
		if len(rg.ArtistCredit) > 0 {
			match.Artist = rg.ArtistCredit[0].Name
		}
		matches = append(matches, match)
	}
	return matches, nil
}

func (c *Client) search(ctx context.Context, entity, query string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint, err := url.Parse(c.baseURL + "/" + entity)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "musicbrainz", "search", "parse base url", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", strconv.Itoa(c.searchLimit))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "musicbrainz", "search", "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "musicbrainz", "search",
			fmt.Sprintf("execute %s request (latency=%v)", entity, latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrExternalService, "musicbrainz", "search",
			fmt.Sprintf("%s search returned %d (latency=%v)", entity, resp.StatusCode, latency), nil)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return services.Wrap(services.ErrExternalService, "musicbrainz", "search",
			fmt.Sprintf("decode %s response", entity), err)
	}
	return nil
}

// quoteLucene wraps a term in double quotes for the MusicBrainz Lucene query
// syntax, escaping embedded quotes and backslashes.
func quoteLucene(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + replacer.Replace(term) + `"`
}
