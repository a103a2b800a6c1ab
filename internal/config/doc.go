// Package config loads, normalizes, and validates the TOML configuration for
// setlist.
//
// Load applies defaults, file values, and environment overrides in that order,
// expands all paths, and rejects configurations that would make a run fail at
// startup (missing extractor key, unknown resolution backend, missing
// MusicBrainz contact). Everything else degrades per item at runtime.
package config
