// Package musicbrainz implements catalog search against the MusicBrainz web
// service. Queries use the Lucene search syntax and responses carry native
// relevance scores. A one-request-per-second gate is shared by all lookups on
// a client.
package musicbrainz
