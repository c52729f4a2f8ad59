package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/daysync/internal/clock"
	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/services"
	"github.com/desertthunder/daysync/internal/shared"
)

// TimestampLayout formats the capture time written into snapshot descriptions.
const TimestampLayout = "2006-01-02 15:04:05"

// SnapshotExtractor produces a fresh [models.DaylistSnapshot] for an embed ID.
//
// Implemented by [extract.Extractor].
type SnapshotExtractor interface {
	Extract(ctx context.Context, embedID string) (models.DaylistSnapshot, error)
}

// CopyResult describes a completed copy or replace.
type CopyResult struct {
	SourceID   string
	SourceName string
	TargetID   string
	Tracks     int // URIs written to the target
	Skipped    int // null, local or non-track slots in the source
	Replaced   bool
	SnapshotID string
}

// CaptureResult describes a completed Daylist capture.
type CaptureResult struct {
	Snapshot   models.DaylistSnapshot
	PlaylistID string
	SnapshotID string
}

// Actions performs the two sync side effects against the Spotify API.
type Actions struct {
	api       services.PlaylistAPI
	extractor SnapshotExtractor
	locator   *Locator
	clock     clock.Clock
	logger    *log.Logger
}

// NewActions wires the sync actions. A nil locator uses [DefaultLocatorCriteria].
func NewActions(api services.PlaylistAPI, extractor SnapshotExtractor, locator *Locator, c clock.Clock, logger *log.Logger) *Actions {
	if locator == nil {
		locator = NewLocator(api, DefaultLocatorCriteria())
	}
	if c == nil {
		c = clock.System{}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Actions{api: api, extractor: extractor, locator: locator, clock: c, logger: logger}
}

// ResolveSource maps the daylist sentinel onto the located Daylist's ID.
// Other sources are returned unchanged.
func (a *Actions) ResolveSource(ctx context.Context, source string) (string, error) {
	if !models.IsDaylist(source) {
		return source, nil
	}

	candidate, found, err := a.locator.Locate(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: no Daylist in the first %d library playlists", shared.ErrNotFound, a.locator.criteria.MaxScan)
	}

	a.logger.Info("found Daylist", "name", candidate.Name, "id", candidate.ID, "owner", candidate.OwnerID)
	return candidate.ID, nil
}

// Copy writes the playable tracks of source into target.
//
// When replace is set the target's contents are overwritten, otherwise tracks are appended.
func (a *Actions) Copy(ctx context.Context, source, target string, replace bool) (*CopyResult, error) {
	sourceID, err := a.ResolveSource(ctx, source)
	if err != nil {
		return nil, err
	}

	playlist, items, err := a.api.PlaylistItems(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("read playlist %s: %w", sourceID, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: playlist %s has no track list", shared.ErrValidation, sourceID)
	}

	result := &CopyResult{SourceID: sourceID, SourceName: playlist.Name, TargetID: target, Replaced: replace}

	uris := make([]string, 0, len(items))
	for _, item := range items {
		uri, ok := playableURI(item)
		if !ok {
			result.Skipped++
			continue
		}
		uris = append(uris, uri)
	}
	if len(uris) == 0 {
		return nil, fmt.Errorf("%w: playlist %s has no playable tracks", shared.ErrValidation, sourceID)
	}

	var snapshotID string
	if replace {
		snapshotID, err = a.api.ReplaceTracks(ctx, target, uris)
	} else {
		snapshotID, err = a.api.AddTracks(ctx, target, uris)
	}
	if err != nil {
		return nil, fmt.Errorf("write playlist %s: %w", target, err)
	}
	if snapshotID == "" {
		return nil, fmt.Errorf("%w: write to %s returned no snapshot_id", shared.ErrActionFailed, target)
	}

	result.Tracks = len(uris)
	result.SnapshotID = snapshotID
	return result, nil
}

func playableURI(item services.SpotifyPlaylistTrack) (string, bool) {
	track := item.Track
	if track == nil || track.IsLocal {
		return "", false
	}
	if track.Type != "" && track.Type != "track" {
		return "", false
	}
	if !strings.HasPrefix(track.URI, models.TrackURIPrefix) {
		return "", false
	}
	return track.URI, true
}

// Capture extracts the Daylist behind embedID and saves it as a new private playlist
// named after the Daylist.
func (a *Actions) Capture(ctx context.Context, embedID string) (*CaptureResult, error) {
	if a.extractor == nil {
		return nil, fmt.Errorf("%w: no extractor configured", shared.ErrMissingConfig)
	}

	snapshot, err := a.extractor.Extract(ctx, embedID)
	if err != nil {
		return nil, err
	}
	a.logger.Info("extracted Daylist", "name", snapshot.Name, "tracks", len(snapshot.TrackURIs))

	user, err := a.api.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: current user has no id", shared.ErrActionFailed)
	}

	playlist, err := a.api.CreatePlaylist(ctx, user.ID, services.CreatePlaylistRequest{
		Name:        snapshot.Name,
		Description: "Daylist snapshot captured on " + a.clock.Now().Format(TimestampLayout),
		Public:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("create playlist %q: %w", snapshot.Name, err)
	}
	if playlist.ID == "" {
		return nil, fmt.Errorf("%w: created playlist has no id", shared.ErrActionFailed)
	}

	snapshotID, err := a.api.AddTracks(ctx, playlist.ID, snapshot.URIs())
	if err != nil {
		return nil, fmt.Errorf("add tracks to %s: %w", playlist.ID, err)
	}
	if snapshotID == "" {
		return nil, fmt.Errorf("%w: add tracks to %s returned no snapshot_id", shared.ErrActionFailed, playlist.ID)
	}

	return &CaptureResult{Snapshot: snapshot, PlaylistID: playlist.ID, SnapshotID: snapshotID}, nil
}
