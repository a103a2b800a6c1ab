package resolve

import (
	"strings"

	"setlist/internal/catalog"
	"setlist/internal/services"
)

// Request is one catalog lookup to perform, tagged by kind. Primary is the
// artist name for artist requests and the title otherwise; Artist optionally
// scopes song and album requests.
type Request struct {
	Kind    catalog.Kind
	Primary string
	Artist  string
}

// NewArtistRequest validates and builds an artist lookup.
func NewArtistRequest(name string) (Request, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Request{}, services.Wrap(services.ErrValidation, "resolve", "new request", "artist name required", nil)
	}
	return Request{Kind: catalog.KindArtist, Primary: name}, nil
}

// NewSongRequest validates and builds a song lookup. Artist may be empty.
func NewSongRequest(title, artist string) (Request, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Request{}, services.Wrap(services.ErrValidation, "resolve", "new request", "song title required", nil)
	}
	return Request{Kind: catalog.KindSong, Primary: title, Artist: strings.TrimSpace(artist)}, nil
}

// NewAlbumRequest validates and builds an album lookup. Artist may be empty.
func NewAlbumRequest(title, artist string) (Request, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Request{}, services.Wrap(services.ErrValidation, "resolve", "new request", "album title required", nil)
	}
	return Request{Kind: catalog.KindAlbum, Primary: title, Artist: strings.TrimSpace(artist)}, nil
}
