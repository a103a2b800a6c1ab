package resolve

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"setlist/internal/catalog"
	"setlist/internal/extract"
	"setlist/internal/services"
)

// fakeSearcher answers lookups from a scripted table keyed by kind, primary
// term, and artist. Missing keys mean a clean miss.
type fakeSearcher struct {
	responses map[string][]catalog.Match
	failures  map[string]error
	calls     []string
}

func key(kind catalog.Kind, primary, artist string) string {
	return fmt.Sprintf("%s|%s|%s", kind, primary, artist)
}

func (f *fakeSearcher) answer(kind catalog.Kind, primary, artist string) ([]catalog.Match, error) {
	k := key(kind, primary, artist)
	f.calls = append(f.calls, k)
	if err, ok := f.failures[k]; ok {
		return nil, err
	}
	return f.responses[k], nil
}

func (f *fakeSearcher) SearchArtist(_ context.Context, name string) ([]catalog.Match, error) {
	return f.answer(catalog.KindArtist, name, "")
}

func (f *fakeSearcher) SearchSong(_ context.Context, title, artist string) ([]catalog.Match, error) {
	return f.answer(catalog.KindSong, title, artist)
}

func (f *fakeSearcher) SearchAlbum(_ context.Context, title, artist string) ([]catalog.Match, error) {
	return f.answer(catalog.KindAlbum, title, artist)
}

func TestResolveDirectSongHit(t *testing.T) {
	fake := &fakeSearcher{responses: map[string][]catalog.Match{
		key(catalog.KindSong, "Money", "Pink Floyd"): {
			{Kind: catalog.KindSong, ID: "rec-1", Name: "Money", Artist: "Pink Floyd", Score: 98},
		},
	}}
	engine := NewEngine(fake, nil)

	outcome, err := engine.Resolve(context.Background(), extract.Candidates{
		SongSearches: []extract.SongSearch{{Title: "Money", Artist: "Pink Floyd"}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(outcome.Songs) != 1 || outcome.Songs[0].ID != "rec-1" {
		t.Fatalf("unexpected songs %+v", outcome.Songs)
	}
	if len(outcome.SwappedArtists) != 0 || len(outcome.Misidentified) != 0 {
		t.Fatalf("direct hit must not record swap bookkeeping: %+v", outcome)
	}
}

func TestResolveSwapRetryRecordsBookkeeping(t *testing.T) {
	// The extractor put the values in the wrong slots: the title field holds
	// the artist and vice versa. Only the swapped query resolves.
	fake := &fakeSearcher{responses: map[string][]catalog.Match{
		key(catalog.KindSong, "Money", "Pink Floyd"): {
			{Kind: catalog.KindSong, ID: "rec-1", Name: "Money", Artist: "Pink Floyd", Score: 97},
		},
	}}
	engine := NewEngine(fake, nil)

	outcome, err := engine.Resolve(context.Background(), extract.Candidates{
		SongSearches: []extract.SongSearch{{Title: "Pink Floyd", Artist: "Money"}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(outcome.Songs) != 1 || outcome.Songs[0].ID != "rec-1" {
		t.Fatalf("expected swap hit, got %+v", outcome.Songs)
	}
	if len(outcome.SwappedArtists) != 1 || outcome.SwappedArtists[0] != "Money" {
		t.Fatalf("unexpected swapped artists %v", outcome.SwappedArtists)
	}
	if len(outcome.Misidentified) != 1 || outcome.Misidentified[0] != "Pink Floyd" {
		t.Fatalf("unexpected misidentified %v", outcome.Misidentified)
	}
}

func TestResolveNoSwapWithoutArtist(t *testing.T) {
	fake := &fakeSearcher{}
	engine := NewEngine(fake, nil)

	outcome, err := engine.Resolve(context.Background(), extract.Candidates{
		SongSearches: []extract.SongSearch{{Title: "Money"}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(outcome.Songs) != 0 {
		t.Fatalf("expected no matches, got %+v", outcome.Songs)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected single lookup, got %v", fake.calls)
	}
}

func TestResolveTransportErrorSkipsSwap(t *testing.T) {
	fake := &fakeSearcher{
		failures: map[string]error{
			key(catalog.KindSong, "Money", "Pink Floyd"): errors.New("http 503"),
		},
		responses: map[string][]catalog.Match{
			key(catalog.KindSong, "Pink Floyd", "Money"): {
				{Kind: catalog.KindSong, ID: "wrong", Score: 50},
			},
		},
	}
	engine := NewEngine(fake, nil)

	outcome, err := engine.Resolve(context.Background(), extract.Candidates{
		SongSearches: []extract.SongSearch{{Title: "Money", Artist: "Pink Floyd"}},
	})
	if err != nil {
		t.Fatalf("transport failure must degrade, not abort: %v", err)
	}
	if len(outcome.Songs) != 0 {
		t.Fatalf("expected unresolved song, got %+v", outcome.Songs)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("swap must not run after a failed lookup, calls: %v", fake.calls)
	}
}

func TestResolveAlbumSwapRetry(t *testing.T) {
	fake := &fakeSearcher{responses: map[string][]catalog.Match{
		key(catalog.KindAlbum, "Animals", "Pink Floyd"): {
			{Kind: catalog.KindAlbum, ID: "rg-1", Name: "Animals", Artist: "Pink Floyd", Score: 95},
		},
		key(catalog.KindArtist, "Animals", ""): {
			{Kind: catalog.KindArtist, ID: "band-animals", Name: "The Animals", Score: 88},
		},
	}}
	engine := NewEngine(fake, nil)

	outcome, err := engine.Resolve(context.Background(), extract.Candidates{
		AlbumSearches: []extract.AlbumSearch{{Title: "Pink Floyd", Artist: "Animals"}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(outcome.Albums) != 1 || outcome.Albums[0].ID != "rg-1" {
		t.Fatalf("expected album swap hit, got %+v", outcome.Albums)
	}
	// The swap adds "Animals" to the artist work list and bars "Pink Floyd".
	if len(outcome.Artists) != 1 || outcome.Artists[0].ID != "band-animals" {
		t.Fatalf("unexpected artists %+v", outcome.Artists)
	}
}

func TestResolveReconcilesArtistList(t *testing.T) {
	fake := &fakeSearcher{responses: map[string][]catalog.Match{
		key(catalog.KindSong, "Ghost", "Phish"): {
			{Kind: catalog.KindSong, ID: "rec-ghost", Name: "Ghost", Artist: "Phish", Score: 92},
		},
		key(catalog.KindArtist, "Phish", ""): {
			{Kind: catalog.KindArtist, ID: "art-phish", Name: "Phish", Score: 100},
		},
		key(catalog.KindArtist, "Radiohead", ""): {
			{Kind: catalog.KindArtist, ID: "art-rh", Name: "Radiohead", Score: 100},
		},
	}}
	engine := NewEngine(fake, nil)

	// "Ghost" was extracted both as an artist and as a swapped song title.
	// The swap proves it is a title, so it must not be searched as an artist.
	outcome, err := engine.Resolve(context.Background(), extract.Candidates{
		ArtistSearches: []string{"Ghost", "Radiohead", "Phish"},
		SongSearches:   []extract.SongSearch{{Title: "Phish", Artist: "Ghost"}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	var ids []string
	for _, a := range outcome.Artists {
		ids = append(ids, a.ID)
	}
	// Swap-learned names come first, then the explicit list, deduplicated.
	if len(ids) != 2 || ids[0] != "art-phish" || ids[1] != "art-rh" {
		t.Fatalf("unexpected artist order %v", ids)
	}
	for _, k := range fake.calls {
		if k == key(catalog.KindArtist, "Ghost", "") {
			t.Fatal("misidentified value must not be searched as an artist")
		}
	}
}

func TestResolveArtistPicksFirstMaximum(t *testing.T) {
	fake := &fakeSearcher{responses: map[string][]catalog.Match{
		key(catalog.KindArtist, "Nirvana", ""): {
			{Kind: catalog.KindArtist, ID: "a", Score: 7},
			{Kind: catalog.KindArtist, ID: "b", Score: 3},
			{Kind: catalog.KindArtist, ID: "c", Score: 9},
			{Kind: catalog.KindArtist, ID: "d", Score: 9},
		},
	}}
	engine := NewEngine(fake, nil)

	outcome, err := engine.Resolve(context.Background(), extract.Candidates{
		ArtistSearches: []string{"Nirvana"},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(outcome.Artists) != 1 || outcome.Artists[0].ID != "c" {
		t.Fatalf("expected first maximum, got %+v", outcome.Artists)
	}
}

func TestResolveArtistLookupFailureDegrades(t *testing.T) {
	fake := &fakeSearcher{
		failures: map[string]error{
			key(catalog.KindArtist, "Tool", ""): errors.New("http 500"),
		},
		responses: map[string][]catalog.Match{
			key(catalog.KindArtist, "Failure", ""): {
				{Kind: catalog.KindArtist, ID: "art-failure", Name: "Failure", Score: 100},
			},
		},
	}
	engine := NewEngine(fake, nil)

	outcome, err := engine.Resolve(context.Background(), extract.Candidates{
		ArtistSearches: []string{"Tool", "Failure"},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(outcome.Artists) != 1 || outcome.Artists[0].ID != "art-failure" {
		t.Fatalf("expected remaining artist to resolve, got %+v", outcome.Artists)
	}
}

func TestResolveConfigurationErrorAborts(t *testing.T) {
	badCreds := services.Wrap(services.ErrConfiguration, "spotify", "auth", "token request returned 401", nil)
	fake := &fakeSearcher{
		failures: map[string]error{
			key(catalog.KindSong, "Money", "Pink Floyd"): badCreds,
		},
	}
	engine := NewEngine(fake, nil)

	_, err := engine.Resolve(context.Background(), extract.Candidates{
		SongSearches: []extract.SongSearch{{Title: "Money", Artist: "Pink Floyd"}},
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("credential failure must abort the run, got %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("no further lookups after an abort, calls: %v", fake.calls)
	}
}

func TestResolveArtistConfigurationErrorAborts(t *testing.T) {
	badCreds := services.Wrap(services.ErrConfiguration, "spotify", "auth", "missing access token", nil)
	fake := &fakeSearcher{
		failures: map[string]error{
			key(catalog.KindArtist, "Tool", ""): badCreds,
		},
		responses: map[string][]catalog.Match{
			key(catalog.KindArtist, "Failure", ""): {
				{Kind: catalog.KindArtist, ID: "art-failure", Name: "Failure", Score: 100},
			},
		},
	}
	engine := NewEngine(fake, nil)

	_, err := engine.Resolve(context.Background(), extract.Candidates{
		ArtistSearches: []string{"Tool", "Failure"},
	})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("credential failure must abort the run, got %v", err)
	}
}

func TestResolveEmptyCandidates(t *testing.T) {
	fake := &fakeSearcher{}
	engine := NewEngine(fake, nil)

	outcome, err := engine.Resolve(context.Background(), extract.Candidates{})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !outcome.Empty() || outcome.Requested() != 0 {
		t.Fatalf("expected empty outcome, got %+v", outcome)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no lookups, got %v", fake.calls)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	responses := map[string][]catalog.Match{
		key(catalog.KindSong, "Money", "Pink Floyd"): {
			{Kind: catalog.KindSong, ID: "rec-1", Score: 90},
			{Kind: catalog.KindSong, ID: "rec-2", Score: 90},
		},
		key(catalog.KindArtist, "Pink Floyd", ""): {
			{Kind: catalog.KindArtist, ID: "art-1", Score: 100},
		},
	}
	candidates := extract.Candidates{
		ArtistSearches: []string{"Pink Floyd"},
		SongSearches:   []extract.SongSearch{{Title: "Money", Artist: "Pink Floyd"}},
	}

	first, err := NewEngine(&fakeSearcher{responses: responses}, nil).Resolve(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	second, err := NewEngine(&fakeSearcher{responses: responses}, nil).Resolve(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if first.Songs[0].ID != "rec-1" || second.Songs[0].ID != "rec-1" {
		t.Fatalf("tie must keep the first entry: %+v vs %+v", first.Songs, second.Songs)
	}
}

func TestResolveCancelledContext(t *testing.T) {
	fake := &fakeSearcher{}
	engine := NewEngine(fake, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Resolve(ctx, extract.Candidates{
		SongSearches: []extract.SongSearch{{Title: "Money"}},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReconcileArtists(t *testing.T) {
	got := reconcileArtists(
		[]string{"Radiohead", "Ghost", "Radiohead", " "},
		[]string{"Phish"},
		[]string{"Ghost"},
	)
	want := []string{"Phish", "Radiohead"}
	if len(got) != len(want) {
		t.Fatalf("unexpected result %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected result %v", got)
		}
	}
}

func TestReconcileArtistsIsCaseSensitive(t *testing.T) {
	got := reconcileArtists([]string{"ghost"}, nil, []string{"Ghost"})
	if len(got) != 1 || got[0] != "ghost" {
		t.Fatalf("exclusion must compare exact strings, got %v", got)
	}
}
