// Package searchcache persists catalog search results in SQLite and exposes
// a read-through decorator over catalog.Searcher. Reprocessing a thread hits
// the cache instead of the rate-limited backends.
package searchcache
