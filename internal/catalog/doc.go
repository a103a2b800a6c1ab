// Package catalog defines the backend-neutral search surface for music
// catalogs. Concrete backends live in the musicbrainz and spotify
// subpackages; resolution code depends only on the Searcher interface.
package catalog
