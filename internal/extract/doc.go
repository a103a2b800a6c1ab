// Package extract pulls artist, song, and album mentions out of free text
// using an LLM. The extractor fails open: any extraction problem yields an
// empty candidate set rather than an error, so one bad unit never sinks a run.
package extract
