// Package services implements the two outbound HTTP clients used by daysync.
//
// # Spotify Web API
//
// [SpotifyService] implements [PlaylistAPI] over https://api.spotify.com/v1.
//
// Bearer tokens come from an [oauth2.TokenSource]. [NewTokenSource] builds one from a
// client id, client secret and long-lived refresh token; the source refreshes and caches
// access tokens on its own, so callers never see refresh mechanics.
//
// Requests are paced by a token-bucket limiter. There is no retry: a failed request is
// returned to the caller as-is.
//
// # Embed Endpoint
//
// [EmbedClient] fetches https://open.spotify.com/embed/playlist/<id>, the public HTML
// view of a playlist, with a fixed 10 second timeout. It is unauthenticated.
//
// # Error Handling
//
// Both clients report failures with typed errors from the shared package:
//   - [shared.HTTPError] : non-2xx response (matches [shared.ErrTransport])
//   - [shared.ErrTransport] : network failure or undecodable response
//   - [shared.ErrAuthFailed] : the token source could not produce a token
package services
