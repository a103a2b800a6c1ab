// Package pipeline orchestrates a run: extraction and resolution fan out
// across a bounded worker pool, results come back in input order, and the
// whole run lands in a JSON artifact that later commands can replay.
package pipeline
