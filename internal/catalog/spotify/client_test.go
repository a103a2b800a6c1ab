package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/time/rate"

	"setlist/internal/catalog"
)

// newTestClient wires a client to a fake API server. The same server answers
// the token endpoint so the client-credentials flow works in tests.
func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"access_token":"app-token","expires_in":3600}`))
	})
	mux.HandleFunc("/", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	cfg.AuthURL = server.URL + "/token"
	if cfg.ClientID == "" && cfg.AccessToken == "" {
		cfg.ClientID = "id"
		cfg.ClientSecret = "secret"
	}
	client, err := New(cfg, WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if _, err := New(Config{AccessToken: "tok"}); err != nil {
		t.Fatalf("access token alone should suffice: %v", err)
	}
}

func TestSearchArtistSynthesizesRankScores(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer app-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("type"); got != "artist" {
			t.Errorf("unexpected type %q", got)
		}
		w.Write([]byte(`{"artists":{"items":[
			{"id":"a1","name":"Pink Floyd","popularity":82},
			{"id":"a2","name":"Pink Floyd Tribute","popularity":12},
			{"id":"a3","name":"Pinkish","popularity":3}
		]}}`))
	})

	matches, err := client.SearchArtist(context.Background(), "Pink Floyd")
	if err != nil {
		t.Fatalf("SearchArtist returned error: %v", err)
	}
	wantScores := []int{100, 80, 70}
	if len(matches) != len(wantScores) {
		t.Fatalf("expected %d matches, got %d", len(wantScores), len(matches))
	}
	for i, want := range wantScores {
		if matches[i].Score != want {
			t.Fatalf("match %d: expected score %d, got %d", i, want, matches[i].Score)
		}
	}
	if matches[0].Kind != catalog.KindArtist || matches[0].Popularity != 82 {
		t.Fatalf("unexpected first match %+v", matches[0])
	}
}

func TestSearchSongIncludesArtistFilter(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Money artist:Pink Floyd" {
			t.Errorf("unexpected query %q", got)
		}
		w.Write([]byte(`{"tracks":{"items":[{
			"id":"t1","name":"Money","popularity":76,
			"artists":[{"name":"Pink Floyd"}],
			"album":{"name":"The Dark Side of the Moon"}
		}]}}`))
	})

	matches, err := client.SearchSong(context.Background(), "Money", "Pink Floyd")
	if err != nil {
		t.Fatalf("SearchSong returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].Artist != "Pink Floyd" || matches[0].Album != "The Dark Side of the Moon" {
		t.Fatalf("unexpected matches %+v", matches)
	}
}

func TestSearchTrackReturnsNilForNoHit(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "1" {
			t.Errorf("unexpected limit %q", got)
		}
		w.Write([]byte(`{"tracks":{"items":[]}}`))
	})

	track, err := client.SearchTrack(context.Background(), "Nonexistent", "Nobody")
	if err != nil {
		t.Fatalf("SearchTrack returned error: %v", err)
	}
	if track != nil {
		t.Fatalf("expected nil track, got %+v", track)
	}
}

func TestTokenFetchedOnceAndReused(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		w.Write([]byte(`{"access_token":"app-token","expires_in":3600}`))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"artists":{"items":[]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := New(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		AuthURL:      server.URL + "/token",
	}, WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := client.SearchArtist(context.Background(), "x"); err != nil {
			t.Fatalf("SearchArtist returned error: %v", err)
		}
	}
	if got := tokenCalls.Load(); got != 1 {
		t.Fatalf("expected a single token fetch, got %d", got)
	}
}

func TestArtistTopTracksAppliesLimit(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/artists/a1/top-tracks") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"tracks":[
			{"id":"t1","name":"One","popularity":90,"artists":[{"name":"X"}]},
			{"id":"t2","name":"Two","popularity":80,"artists":[{"name":"X"}]},
			{"id":"t3","name":"Three","popularity":70,"artists":[{"name":"X"}]}
		]}`))
	})

	tracks, err := client.ArtistTopTracks(context.Background(), "a1", 2)
	if err != nil {
		t.Fatalf("ArtistTopTracks returned error: %v", err)
	}
	if len(tracks) != 2 || tracks[0].ID != "t1" || tracks[1].ID != "t2" {
		t.Fatalf("unexpected tracks %+v", tracks)
	}
}

func TestZeroLimitDisablesSampling(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s with a zero limit", r.URL.Path)
	})

	tracks, err := client.ArtistTopTracks(context.Background(), "a1", 0)
	if err != nil {
		t.Fatalf("ArtistTopTracks returned error: %v", err)
	}
	if len(tracks) != 0 {
		t.Fatalf("expected no tracks for limit 0, got %+v", tracks)
	}

	tracks, err = client.AlbumPopularTracks(context.Background(), "alb1", 0)
	if err != nil {
		t.Fatalf("AlbumPopularTracks returned error: %v", err)
	}
	if len(tracks) != 0 {
		t.Fatalf("expected no tracks for limit 0, got %+v", tracks)
	}
}

func TestAlbumPopularTracksRanksByPopularity(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/albums/alb1/tracks"):
			w.Write([]byte(`{"items":[{"id":"t1"},{"id":"t2"},{"id":"t3"}]}`))
		case r.URL.Path == "/tracks":
			if got := r.URL.Query().Get("ids"); got != "t1,t2,t3" {
				t.Errorf("unexpected ids %q", got)
			}
			w.Write([]byte(`{"tracks":[
				{"id":"t1","name":"Opener","popularity":40,"artists":[{"name":"X"}]},
				{"id":"t2","name":"Single","popularity":88,"artists":[{"name":"X"}]},
				{"id":"t3","name":"Closer","popularity":55,"artists":[{"name":"X"}]}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	tracks, err := client.AlbumPopularTracks(context.Background(), "alb1", 2)
	if err != nil {
		t.Fatalf("AlbumPopularTracks returned error: %v", err)
	}
	if len(tracks) != 2 || tracks[0].ID != "t2" || tracks[1].ID != "t3" {
		t.Fatalf("expected popularity order [t2 t3], got %+v", tracks)
	}
}

func TestTracksBatchesAtFifty(t *testing.T) {
	var batches []int
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		batches = append(batches, len(ids))
		var payload struct {
			Tracks []map[string]any `json:"tracks"`
		}
		for _, id := range ids {
			payload.Tracks = append(payload.Tracks, map[string]any{"id": id, "name": id, "popularity": 1})
		}
		json.NewEncoder(w).Encode(payload)
	})

	ids := make([]string, 120)
	for i := range ids {
		ids[i] = "t" + string(rune('a'+i%26)) + string(rune('0'+i%10))
	}
	tracks, err := client.Tracks(context.Background(), ids)
	if err != nil {
		t.Fatalf("Tracks returned error: %v", err)
	}
	if len(tracks) != 120 {
		t.Fatalf("expected 120 tracks, got %d", len(tracks))
	}
	if len(batches) != 3 || batches[0] != 50 || batches[1] != 50 || batches[2] != 20 {
		t.Fatalf("unexpected batch sizes %v", batches)
	}
}

func TestCreatePlaylistRequiresUserToken(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API call expected")
	})
	if _, err := client.CreatePlaylist(context.Background(), "Mix", ""); err == nil {
		t.Fatal("expected error without user access token")
	}
}

func TestCreatePlaylistAndAddTracks(t *testing.T) {
	var added []string
	client := newTestClient(t, Config{AccessToken: "user-token"}, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/me":
			w.Write([]byte(`{"id":"user1"}`))
		case r.URL.Path == "/users/user1/playlists":
			var body struct {
				Name   string `json:"name"`
				Public bool   `json:"public"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if body.Name != "Reddit Mix" || !body.Public {
				t.Errorf("unexpected create body %+v", body)
			}
			w.Write([]byte(`{"id":"pl1","name":"Reddit Mix","external_urls":{"spotify":"https://open.spotify.com/playlist/pl1"}}`))
		case r.URL.Path == "/playlists/pl1/tracks":
			var body struct {
				URIs []string `json:"uris"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			added = append(added, body.URIs...)
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	playlist, err := client.CreatePlaylist(context.Background(), "Reddit Mix", "generated")
	if err != nil {
		t.Fatalf("CreatePlaylist returned error: %v", err)
	}
	if playlist.ID != "pl1" || playlist.URL == "" {
		t.Fatalf("unexpected playlist %+v", playlist)
	}
	if err := client.AddTracks(context.Background(), playlist.ID, []string{"t1", "t2"}); err != nil {
		t.Fatalf("AddTracks returned error: %v", err)
	}
	if len(added) != 2 || added[0] != "spotify:track:t1" {
		t.Fatalf("unexpected uris %v", added)
	}
}

func TestAddTracksRejectsOversizedBatch(t *testing.T) {
	client := newTestClient(t, Config{AccessToken: "user-token"}, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API call expected")
	})
	ids := make([]string, 101)
	for i := range ids {
		ids[i] = "t"
	}
	if err := client.AddTracks(context.Background(), "pl1", ids); err == nil {
		t.Fatal("expected error for batch over 100")
	}
}
