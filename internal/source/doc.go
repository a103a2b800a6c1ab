// Package source loads the submission and comment records a run processes.
// It filters out deleted and empty units and lifts direct Spotify track links
// out of the text before extraction sees it.
package source
