package source

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a JSON array of submission and comment records and prepares the
// usable ones for extraction: deleted, removed, and empty units are dropped,
// Spotify links are lifted out, and each unit's extraction text is built.
func Load(path string) ([]TextUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and prepares units from raw JSON.
func Parse(data []byte) ([]TextUnit, error) {
	var records []TextUnit
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode input records: %w", err)
	}

	units := make([]TextUnit, 0, len(records))
	for _, record := range records {
		if record.skippable() {
			continue
		}
		if record.Type != TypeSubmission {
			record.Type = TypeComment
		}
		if record.Type == TypeComment {
			record.Title = ""
		} else {
			record.ParentID = ""
		}
		text, tracks := ExtractTrackLinks(record.rawText())
		record.Text = text
		record.SpotifyTracks = tracks
		units = append(units, record)
	}
	return units, nil
}
