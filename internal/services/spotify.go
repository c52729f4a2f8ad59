// Spotify API implementation of [PlaylistAPI]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/daysync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// maxURIsPerRequest is the Web API limit for adding or replacing playlist items.
	maxURIsPerRequest = 100
	playlistPageSize  = 100
)

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	Product     string `json:"product"` // premium, free, etc.
}

// SpotifyTrack represents a Spotify track. Type is "track" or "episode".
type SpotifyTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URI     string `json:"uri"`
	Type    string `json:"type"`
	IsLocal bool   `json:"is_local"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylistTrackPage is one page of a playlist's items.
type SpotifyPlaylistTrackPage struct {
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
	Items  []SpotifyPlaylistTrack `json:"items"`
}

// SpotifyPlaylist represents a full Spotify playlist object.
//
// Tracks is nil when the response carries no track list at all.
type SpotifyPlaylist struct {
	ID          string                    `json:"id"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Owner       Owner                     `json:"owner"`
	Public      bool                      `json:"public"`
	SnapshotID  string                    `json:"snapshot_id"`
	Tracks      *SpotifyPlaylistTrackPage `json:"tracks"`
	URI         string                    `json:"uri"`
}

// SpotifyPlaylistTrack represents a track slot within a playlist.
//
// Track is nil for items that were removed or are unavailable in the user's region.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items    []SpotifySimplePlaylist `json:"items"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Owner       Owner               `json:"owner"`
	Public      bool                `json:"public"`
	Tracks      simplePlaylistTrack `json:"tracks"`
	URI         string              `json:"uri"`
}

// CreatePlaylistRequest is the body of a create-playlist call.
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type urisRequest struct {
	URIs []string `json:"uris"`
}

type snapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	BaseURL    string             // defaults to the public Web API
	Tokens     oauth2.TokenSource // bearer token supplier, required
	HTTPClient *http.Client       // defaults to a client with a 30s timeout
	RateLimit  float64            // requests per second, 0 disables pacing
}

// SpotifyService implements [PlaylistAPI] for Spotify Web API interactions.
type SpotifyService struct {
	baseURL    string
	tokens     oauth2.TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewTokenSource builds a refreshing [oauth2.TokenSource] from a long-lived refresh token.
//
// Client credentials are sent with HTTP Basic auth, as the Spotify token endpoint expects.
func NewTokenSource(ctx context.Context, cfg shared.SpotifyConfig) (oauth2.TokenSource, error) {
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("%w: client_id, client_secret and refresh_token are required", shared.ErrMissingCredentials)
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return config.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}), nil
}

// NewSpotifyService creates a new Spotify service that authenticates with opts.Tokens.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.Tokens == nil {
		return nil, fmt.Errorf("%w: token source is required", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &SpotifyService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// doRequest performs an authenticated HTTP request to the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	token, err := s.tokens.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	apiURL := s.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &shared.HTTPError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrTransport, err)
		}
	}

	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists retrieves the current user's playlists with pagination.
func (s *SpotifyService) UserPlaylists(ctx context.Context, limit, offset int) (*SpotifyPaginatedPlaylists, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Playlist retrieves a playlist by ID, including the first page of its items.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error) {
	endpoint := "/playlists/" + url.PathEscape(playlistID)

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// PlaylistItems retrieves a playlist and follows its item pages until all items are read.
//
// The returned items slice is nil when the playlist response has no track list.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) (*SpotifyPlaylist, []SpotifyPlaylistTrack, error) {
	playlist, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return nil, nil, err
	}
	if playlist.Tracks == nil {
		return playlist, nil, nil
	}

	items := append([]SpotifyPlaylistTrack{}, playlist.Tracks.Items...)
	next := playlist.Tracks.Next
	total := playlist.Tracks.Total

	for next != nil && len(items) < total {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", url.PathEscape(playlistID), playlistPageSize, len(items))

		var page SpotifyPlaylistTrackPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, nil, err
		}
		if len(page.Items) == 0 {
			break
		}

		items = append(items, page.Items...)
		next = page.Next
	}

	return playlist, items, nil
}

// CreatePlaylist creates a new playlist for userID.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID string, req CreatePlaylistRequest) (*SpotifyPlaylist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, req, &playlist); err != nil {
		return nil, err
	}

	return &playlist, nil
}

// AddTracks appends uris to a playlist in batches of 100 and returns the last snapshot id.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	if len(uris) == 0 {
		return "", fmt.Errorf("%w: no track URIs to add", shared.ErrInvalidArgument)
	}

	var snapshotID string
	for _, batch := range chunk(uris, maxURIsPerRequest) {
		id, err := s.writeTracks(ctx, http.MethodPost, playlistID, batch)
		if err != nil {
			return "", err
		}
		snapshotID = id
	}

	return snapshotID, nil
}

// ReplaceTracks replaces a playlist's items with uris.
//
// The first 100 URIs replace the contents; any remainder is appended.
func (s *SpotifyService) ReplaceTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	batches := chunk(uris, maxURIsPerRequest)
	if len(batches) == 0 {
		batches = [][]string{{}}
	}

	snapshotID, err := s.writeTracks(ctx, http.MethodPut, playlistID, batches[0])
	if err != nil {
		return "", err
	}

	for _, batch := range batches[1:] {
		if snapshotID, err = s.writeTracks(ctx, http.MethodPost, playlistID, batch); err != nil {
			return "", err
		}
	}

	return snapshotID, nil
}

func (s *SpotifyService) writeTracks(ctx context.Context, method, playlistID string, uris []string) (string, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	var response snapshotResponse
	if err := s.doRequest(ctx, method, endpoint, urisRequest{URIs: uris}, &response); err != nil {
		return "", err
	}

	return response.SnapshotID, nil
}

func chunk(items []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
