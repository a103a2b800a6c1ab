package playlist

import (
	"math/rand"
	"strings"

	"setlist/internal/catalog/spotify"
)

// TrackUnit is one playlist candidate with the fields dedup needs.
type TrackUnit struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Popularity int    `json:"popularity"`
}

func fromSpotifyTrack(t spotify.Track) TrackUnit {
	return TrackUnit{ID: t.ID, Name: t.Name, Artist: t.Artist, Popularity: t.Popularity}
}

// dedupeKey normalizes name and artist for duplicate detection. The same
// song on a studio album and a greatest-hits release collapses to one entry.
func (t TrackUnit) dedupeKey() string {
	return strings.ToLower(strings.TrimSpace(t.Name)) + "\x00" + strings.ToLower(strings.TrimSpace(t.Artist))
}

// Dedupe collapses tracks sharing a normalized (name, artist) pair, keeping
// the most popular recording. Ties keep the earlier entry; survivors stay in
// first-seen order.
func Dedupe(tracks []TrackUnit) []TrackUnit {
	index := make(map[string]int, len(tracks))
	var out []TrackUnit
	for _, track := range tracks {
		k := track.dedupeKey()
		if at, seen := index[k]; seen {
			if track.Popularity > out[at].Popularity {
				out[at] = track
			}
			continue
		}
		index[k] = len(out)
		out = append(out, track)
	}
	return out
}

// Shuffle randomizes track order in place using the supplied source.
func Shuffle(tracks []TrackUnit, rng *rand.Rand) {
	rng.Shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})
}
