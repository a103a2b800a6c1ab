// Package spotify implements catalog search and playlist operations against
// the Spotify Web API. Search scores are synthesized from result position
// since the API does not expose relevance scores. Searches run under the
// client-credentials flow; playlist creation needs a user access token.
package spotify
