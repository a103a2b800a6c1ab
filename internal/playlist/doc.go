// Package playlist turns resolved matches into a Spotify playlist. Matches
// materialize into concrete tracks, duplicates collapse to their most popular
// recording, the order is shuffled, and tracks are added in API-sized
// batches.
package playlist
