// package services defines the HTTP clients used to talk to Spotify
//
// Web API (authenticated, JSON) and the public embed endpoint (HTML)
package services

import (
	"context"
)

// PlaylistAPI is the subset of the Spotify Web API the sync actions depend on.
type PlaylistAPI interface {
	// CurrentUser returns the profile of the token owner.
	CurrentUser(ctx context.Context) (*SpotifyUser, error)

	// UserPlaylists returns one page of the token owner's library playlists.
	UserPlaylists(ctx context.Context, limit, offset int) (*SpotifyPaginatedPlaylists, error)

	// PlaylistItems returns a playlist and every item of its track list, across pages.
	PlaylistItems(ctx context.Context, playlistID string) (*SpotifyPlaylist, []SpotifyPlaylistTrack, error)

	// CreatePlaylist creates a playlist owned by userID.
	CreatePlaylist(ctx context.Context, userID string, req CreatePlaylistRequest) (*SpotifyPlaylist, error)

	// AddTracks appends URIs to a playlist and returns the final snapshot id.
	AddTracks(ctx context.Context, playlistID string, uris []string) (string, error)

	// ReplaceTracks replaces a playlist's contents with URIs and returns the final snapshot id.
	ReplaceTracks(ctx context.Context, playlistID string, uris []string) (string, error)
}

var _ PlaylistAPI = (*SpotifyService)(nil)
