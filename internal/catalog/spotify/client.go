package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"setlist/internal/services"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	defaultAuthURL = "https://accounts.spotify.com/api/token"
	defaultRate    = 8
)

// Config captures the settings needed to talk to the Spotify Web API.
//
// ClientID and ClientSecret drive the client-credentials flow used for
// searches and track lookups. AccessToken, when set, is a user token and
// takes precedence; playlist creation requires it.
type Config struct {
	ClientID      string
	ClientSecret  string
	AccessToken   string
	BaseURL       string
	AuthURL       string
	RatePerSecond int
}

// Client talks to the Spotify Web API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter

	mu          sync.Mutex
	appToken    string
	appTokenExp time.Time
}

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

// New creates a Spotify client. Either a user access token or a client id and
// secret pair must be supplied.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ClientID = strings.TrimSpace(cfg.ClientID)
	cfg.ClientSecret = strings.TrimSpace(cfg.ClientSecret)
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	if cfg.AccessToken == "" && (cfg.ClientID == "" || cfg.ClientSecret == "") {
		return nil, errors.New("spotify credentials required (client id and secret, or an access token)")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if strings.TrimSpace(cfg.AuthURL) == "" {
		cfg.AuthURL = defaultAuthURL
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = defaultRate
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// token returns the bearer token for API calls, fetching a client-credentials
// token on demand and refreshing it shortly before expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	if c.cfg.AccessToken != "" {
		return c.cfg.AccessToken, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.appToken != "" && time.Now().Before(c.appTokenExp) {
		return c.appToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "spotify", "auth", "build token request", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "spotify", "auth", "execute token request", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "spotify", "auth", "read token response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrConfiguration, "spotify", "auth",
			fmt.Sprintf("token request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", services.Wrap(services.ErrExternalService, "spotify", "auth", "decode token response", err)
	}
	if parsed.AccessToken == "" {
		return "", services.Wrap(services.ErrConfiguration, "spotify", "auth", "token response missing access_token", nil)
	}

	c.appToken = parsed.AccessToken
	expiry := time.Duration(parsed.ExpiresIn) * time.Second
	if expiry <= time.Minute {
		expiry = time.Hour
	}
	c.appTokenExp = time.Now().Add(expiry - time.Minute)
	return c.appToken, nil
}

// get performs a rate-gated GET against the API and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, target)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body io.Reader, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	endpoint := c.cfg.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "spotify", "request", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "spotify", "request",
			fmt.Sprintf("execute %s %s (latency=%v)", method, path, latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrExternalService, "spotify", "request",
			fmt.Sprintf("%s %s returned %d (latency=%v): %s", method, path, resp.StatusCode, latency, strings.TrimSpace(string(payload))), nil)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return services.Wrap(services.ErrExternalService, "spotify", "request",
			fmt.Sprintf("decode %s response", path), err)
	}
	return nil
}
