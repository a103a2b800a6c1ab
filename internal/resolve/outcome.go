package resolve

import "setlist/internal/catalog"

// Outcome holds the resolved matches for one text unit plus bookkeeping from
// the swap retries.
type Outcome struct {
	Artists []catalog.Match `json:"artists"`
	Songs   []catalog.Match `json:"songs"`
	Albums  []catalog.Match `json:"albums"`

	// SwappedArtists are artist names learned from swap hits; Misidentified
	// are values that looked like artists but resolved as titles.
	SwappedArtists []string `json:"swapped_artists,omitempty"`
	Misidentified  []string `json:"misidentified,omitempty"`

	RequestedArtists int `json:"requested_artists"`
	RequestedSongs   int `json:"requested_songs"`
	RequestedAlbums  int `json:"requested_albums"`
}

// Resolved reports the total number of matches across all kinds.
func (o Outcome) Resolved() int {
	return len(o.Artists) + len(o.Songs) + len(o.Albums)
}

// Requested reports the total number of lookups the candidates asked for.
func (o Outcome) Requested() int {
	return o.RequestedArtists + o.RequestedSongs + o.RequestedAlbums
}

// Empty reports whether nothing resolved.
func (o Outcome) Empty() bool {
	return o.Resolved() == 0
}
