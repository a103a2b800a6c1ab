package source

import "strings"

// Unit types as they appear in the input data.
const (
	TypeSubmission = "submission"
	TypeComment    = "comment"
)

// TextUnit is one submission or comment queued for extraction, carrying the
// metadata the run artifact preserves.
type TextUnit struct {
	Type       string  `json:"type"`
	ID         string  `json:"id"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Author     string  `json:"author"`
	Permalink  string  `json:"permalink"`
	ParentID   string  `json:"parent_id,omitempty"`
	Title      string  `json:"title,omitempty"`
	Body       string  `json:"body"`

	// SpotifyTracks holds direct track links lifted out of the text before
	// extraction.
	SpotifyTracks []TrackLink `json:"spotify_tracks,omitempty"`

	// Text is the extraction input: title plus body for submissions, the
	// body alone for comments, with Spotify links replaced by their labels.
	Text string `json:"-"`
}

// rawText joins the unit's fields into the text handed to link stripping.
func (u TextUnit) rawText() string {
	if u.Type == TypeSubmission {
		return strings.TrimSpace(u.Title + " " + u.Body)
	}
	return u.Body
}

// skippable reports whether the unit carries no usable text.
func (u TextUnit) skippable() bool {
	body := strings.ToLower(strings.TrimSpace(u.rawText()))
	return body == "" || body == "[deleted]" || body == "[removed]"
}
