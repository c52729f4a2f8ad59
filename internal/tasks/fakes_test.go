package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/daysync/internal/clock"
	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/services"
	"github.com/desertthunder/daysync/internal/shared"
)

const (
	trackA = "4uLU6hMCjMI75M1A2tKUQC"
	trackB = "7ouMYWpwJ422jRcDASZB7P"
	trackC = "0VjIjW4GlUZAMYd2vXMi3b"
)

// fakeAPI is an in-memory [services.PlaylistAPI] that records every call.
type fakeAPI struct {
	user      services.SpotifyUser
	library   []services.SpotifySimplePlaylist
	playlists map[string][]services.SpotifyPlaylistTrack // nil value = no track list
	createdID string
	snapshot  string
	failOn    map[string]error

	calls    []string
	created  []services.CreatePlaylistRequest
	added    map[string][]string
	replaced map[string][]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		user:      services.SpotifyUser{ID: "user1"},
		playlists: map[string][]services.SpotifyPlaylistTrack{},
		createdID: "created1",
		snapshot:  "snap1",
		failOn:    map[string]error{},
		added:     map[string][]string{},
		replaced:  map[string][]string{},
	}
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	return f.failOn[call]
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (*services.SpotifyUser, error) {
	if err := f.record("CurrentUser"); err != nil {
		return nil, err
	}
	user := f.user
	return &user, nil
}

func (f *fakeAPI) UserPlaylists(ctx context.Context, limit, offset int) (*services.SpotifyPaginatedPlaylists, error) {
	if err := f.record("UserPlaylists"); err != nil {
		return nil, err
	}
	page := &services.SpotifyPaginatedPlaylists{Total: len(f.library), Limit: limit, Offset: offset}
	if offset < len(f.library) {
		page.Items = f.library[offset:min(offset+limit, len(f.library))]
	}
	return page, nil
}

func (f *fakeAPI) PlaylistItems(ctx context.Context, playlistID string) (*services.SpotifyPlaylist, []services.SpotifyPlaylistTrack, error) {
	if err := f.record("PlaylistItems"); err != nil {
		return nil, nil, err
	}
	items, ok := f.playlists[playlistID]
	if !ok {
		return nil, nil, &shared.HTTPError{Method: http.MethodGet, URL: "/playlists/" + playlistID, StatusCode: http.StatusNotFound}
	}
	return &services.SpotifyPlaylist{ID: playlistID, Name: "playlist " + playlistID}, items, nil
}

func (f *fakeAPI) CreatePlaylist(ctx context.Context, userID string, req services.CreatePlaylistRequest) (*services.SpotifyPlaylist, error) {
	if err := f.record("CreatePlaylist"); err != nil {
		return nil, err
	}
	f.created = append(f.created, req)
	return &services.SpotifyPlaylist{ID: f.createdID, Name: req.Name, Owner: services.Owner{ID: userID}}, nil
}

func (f *fakeAPI) AddTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	if err := f.record("AddTracks"); err != nil {
		return "", err
	}
	f.added[playlistID] = append(f.added[playlistID], uris...)
	return f.snapshot, nil
}

func (f *fakeAPI) ReplaceTracks(ctx context.Context, playlistID string, uris []string) (string, error) {
	if err := f.record("ReplaceTracks"); err != nil {
		return "", err
	}
	f.replaced[playlistID] = uris
	return f.snapshot, nil
}

func (f *fakeAPI) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// stubExtractor returns a fixed snapshot and counts extractions.
type stubExtractor struct {
	snapshot models.DaylistSnapshot
	err      error
	calls    []string
}

func (s *stubExtractor) Extract(ctx context.Context, embedID string) (models.DaylistSnapshot, error) {
	s.calls = append(s.calls, embedID)
	if s.err != nil {
		return models.DaylistSnapshot{}, s.err
	}
	snapshot := s.snapshot
	snapshot.SourceID = embedID
	return snapshot, nil
}

func libraryPlaylist(name, id string, tracks int) services.SpotifySimplePlaylist {
	p := services.SpotifySimplePlaylist{ID: id, Name: name, Owner: services.Owner{ID: "spotify"}}
	p.Tracks.Total = tracks
	return p
}

func trackItem(id string) services.SpotifyPlaylistTrack {
	return services.SpotifyPlaylistTrack{Track: &services.SpotifyTrack{ID: id, URI: "spotify:track:" + id, Type: "track"}}
}

func daylistSnapshot() models.DaylistSnapshot {
	return models.DaylistSnapshot{
		Name:      "indie folk monday evening",
		TrackURIs: []models.TrackURI{models.NewTrackURI(trackA), models.NewTrackURI(trackB)},
	}
}

// at returns a fixed clock on Monday 2026-10-19 plus dayOffset days, at hour:00.
func at(dayOffset, hour int) clock.Fixed {
	return clock.Fixed(time.Date(2026, 10, 19+dayOffset, hour, 0, 0, 0, time.UTC))
}

func quietLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func rulesJSON(rules ...string) []byte {
	return []byte("[" + strings.Join(rules, ",") + "]")
}

func uris(ids ...string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("spotify:track:%s", id)
	}
	return out
}
