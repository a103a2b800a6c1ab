package extract

import (
	"context"
	"log/slog"
	"strings"

	"setlist/internal/logging"
	"setlist/internal/services/llm"
)

// SongSearch names one song mention, optionally paired with its artist.
type SongSearch struct {
	Title  string `json:"song_title"`
	Artist string `json:"artist_name,omitempty"`
}

// AlbumSearch names one album mention, optionally paired with its artist.
type AlbumSearch struct {
	Title  string `json:"album_title"`
	Artist string `json:"artist_name,omitempty"`
}

// Candidates holds the entity mentions extracted from one text unit. A zero
// value means nothing was found; resolution treats it as an empty work list.
type Candidates struct {
	ArtistSearches []string      `json:"artist_searches"`
	SongSearches   []SongSearch  `json:"song_searches"`
	AlbumSearches  []AlbumSearch `json:"album_searches"`
}

// Empty reports whether no mentions of any kind were extracted.
func (c Candidates) Empty() bool {
	return len(c.ArtistSearches) == 0 && len(c.SongSearches) == 0 && len(c.AlbumSearches) == 0
}

// Completer is the completion surface the extractor needs from llm.Client.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Extractor turns free text into search candidates via an LLM. Extraction
// never fails a run: malformed responses and transport errors degrade to an
// empty candidate set.
type Extractor struct {
	completer Completer
	logger    *slog.Logger
}

// NewExtractor builds an extractor around the supplied completion client.
func NewExtractor(completer Completer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		completer: completer,
		logger:    logging.NewComponentLogger(logger, "extract"),
	}
}

// Extract returns the candidate entities mentioned in text. The only non-nil
// error it returns is a cancelled context; everything else is logged and
// degrades to empty candidates so the remaining units keep processing.
func (e *Extractor) Extract(ctx context.Context, text string) (Candidates, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Candidates{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Candidates{}, err
	}

	content, err := e.completer.CompleteJSON(ctx, SystemPrompt, UserPromptPrefix+text)
	if err != nil {
		if ctx.Err() != nil {
			return Candidates{}, ctx.Err()
		}
		e.logger.Warn("extraction failed, continuing with empty candidates", logging.Error(err))
		return Candidates{}, nil
	}

	var parsed Candidates
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		e.logger.Warn("extraction payload unparseable, continuing with empty candidates", logging.Error(err))
		return Candidates{}, nil
	}

	parsed = clean(parsed)
	e.logger.Debug("extracted candidates",
		logging.Int("artists", len(parsed.ArtistSearches)),
		logging.Int("songs", len(parsed.SongSearches)),
		logging.Int("albums", len(parsed.AlbumSearches)),
	)
	return parsed, nil
}

// clean drops blank entries and entries missing their primary field.
func clean(c Candidates) Candidates {
	out := Candidates{}
	for _, name := range c.ArtistSearches {
		if name = strings.TrimSpace(name); name != "" {
			out.ArtistSearches = append(out.ArtistSearches, name)
		}
	}
	for _, s := range c.SongSearches {
		s.Title = strings.TrimSpace(s.Title)
		s.Artist = strings.TrimSpace(s.Artist)
		if s.Title != "" {
			out.SongSearches = append(out.SongSearches, s)
		}
	}
	for _, a := range c.AlbumSearches {
		a.Title = strings.TrimSpace(a.Title)
		a.Artist = strings.TrimSpace(a.Artist)
		if a.Title != "" {
			out.AlbumSearches = append(out.AlbumSearches, a)
		}
	}
	return out
}
