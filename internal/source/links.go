package source

import (
	"regexp"
	"strings"
)

// TrackLink is a direct Spotify track reference found in a unit's text.
type TrackLink struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	LinkText string `json:"link_text,omitempty"`
}

var (
	markdownTrackPattern = regexp.MustCompile(`\[(.*?)\]\((https://open\.spotify\.com/track/([a-zA-Z0-9]{22}))[^)]*\)`)
	bareTrackPattern     = regexp.MustCompile(`https://open\.spotify\.com/track/([a-zA-Z0-9]{22})`)
)

// ExtractTrackLinks pulls Spotify track links out of text and replaces
// markdown links with their label so the extractor sees prose instead of
// URLs. Replacement runs back to front to keep match offsets valid.
func ExtractTrackLinks(text string) (string, []TrackLink) {
	var links []TrackLink

	matches := markdownTrackPattern.FindAllStringSubmatchIndex(text, -1)
	modified := text
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		label := text[m[2]:m[3]]
		links = append(links, TrackLink{
			ID:       text[m[6]:m[7]],
			URL:      text[m[4]:m[5]],
			LinkText: label,
		})
		modified = modified[:m[0]] + label + modified[m[1]:]
	}
	// Matches were collected in reverse; restore document order.
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}

	// Bare URLs outside markdown links still count as direct references.
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		seen[link.ID] = struct{}{}
	}
	for _, m := range bareTrackPattern.FindAllStringSubmatch(modified, -1) {
		id := m[1]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, TrackLink{ID: id, URL: m[0]})
	}

	return strings.TrimSpace(modified), links
}
