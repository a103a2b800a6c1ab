package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"setlist/internal/catalog"
	"setlist/internal/playlist"
)

// Artifact is the stable JSON document a run writes. Reruns and the playlist
// command both consume it.
type Artifact struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Backend   string    `json:"backend"`
	Input     string    `json:"input"`
	Stats     Stats     `json:"stats"`
	Items     []Item    `json:"items"`
}

// NewArtifact assembles the run document.
func NewArtifact(backend, input string, items []Item, stats Stats) Artifact {
	return Artifact{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Backend:   backend,
		Input:     input,
		Stats:     stats,
		Items:     items,
	}
}

// Write stores the artifact as run-<id>.json under dir and returns the path.
func (a Artifact) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure output directory: %w", err)
	}
	payload, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}
	path := filepath.Join(dir, "run-"+a.RunID+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// ReadArtifact loads a previously written run document.
func ReadArtifact(path string) (Artifact, error) {
	var artifact Artifact
	data, err := os.ReadFile(path)
	if err != nil {
		return artifact, fmt.Errorf("read artifact: %w", err)
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		return artifact, fmt.Errorf("decode artifact: %w", err)
	}
	return artifact, nil
}

// PlaylistEntries converts the artifact's items into playlist materializer
// input: direct track links plus each unit's resolved matches.
func (a Artifact) PlaylistEntries() []playlist.Entry {
	entries := make([]playlist.Entry, 0, len(a.Items))
	for _, item := range a.Items {
		entry := playlist.Entry{
			Songs:   append([]catalog.Match{}, item.Results.Matches.Songs...),
			Artists: append([]catalog.Match{}, item.Results.Matches.Artists...),
			Albums:  append([]catalog.Match{}, item.Results.Matches.Albums...),
		}
		for _, link := range item.SpotifyTracks {
			entry.DirectTrackIDs = append(entry.DirectTrackIDs, link.ID)
		}
		entries = append(entries, entry)
	}
	return entries
}
