package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/daysync/internal/clock"
	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/services"
)

const (
	defaultSignatureTrackCount = 50
	defaultArchiveMarker       = "daylist archive"
	defaultMaxScan             = 200
	locatorPageSize            = 50
)

// LocatorCriteria describes what a Daylist looks like in the user's library.
//
// A candidate's lowercased name must contain a weekday token and a period token, its
// track total must equal SignatureTrackCount and its name must not contain ArchiveMarker.
type LocatorCriteria struct {
	WeekdayTokens       []string
	PeriodTokens        []string
	SignatureTrackCount int
	ArchiveMarker       string
	MaxScan             int // playlists examined before giving up
	PageSize            int
}

// DefaultLocatorCriteria returns the criteria matching Spotify's Daylist naming.
func DefaultLocatorCriteria() LocatorCriteria {
	return LocatorCriteria{
		WeekdayTokens:       clock.WeekdayNames(),
		PeriodTokens:        []string{"morning", "afternoon", "evening", "night", "late night"},
		SignatureTrackCount: defaultSignatureTrackCount,
		ArchiveMarker:       defaultArchiveMarker,
		MaxScan:             defaultMaxScan,
		PageSize:            locatorPageSize,
	}
}

// Matches reports whether c satisfies every locator condition.
func (lc LocatorCriteria) Matches(c models.PlaylistCandidate) bool {
	name := strings.ToLower(c.Name)

	if c.TrackCount != lc.SignatureTrackCount {
		return false
	}
	if lc.ArchiveMarker != "" && strings.Contains(name, strings.ToLower(lc.ArchiveMarker)) {
		return false
	}
	return containsAny(name, lc.WeekdayTokens) && containsAny(name, lc.PeriodTokens)
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if token != "" && strings.Contains(s, token) {
			return true
		}
	}
	return false
}

// Locator finds the current Daylist among the user's library playlists.
type Locator struct {
	api      services.PlaylistAPI
	criteria LocatorCriteria
}

// NewLocator creates a Locator. Zero-valued criteria fields fall back to the defaults.
func NewLocator(api services.PlaylistAPI, criteria LocatorCriteria) *Locator {
	defaults := DefaultLocatorCriteria()
	if len(criteria.WeekdayTokens) == 0 {
		criteria.WeekdayTokens = defaults.WeekdayTokens
	}
	if len(criteria.PeriodTokens) == 0 {
		criteria.PeriodTokens = defaults.PeriodTokens
	}
	if criteria.SignatureTrackCount <= 0 {
		criteria.SignatureTrackCount = defaults.SignatureTrackCount
	}
	if criteria.MaxScan <= 0 {
		criteria.MaxScan = defaults.MaxScan
	}
	if criteria.PageSize <= 0 {
		criteria.PageSize = defaults.PageSize
	}
	return &Locator{api: api, criteria: criteria}
}

// Criteria returns the effective criteria.
func (l *Locator) Criteria() LocatorCriteria {
	return l.criteria
}

// Locate pages through the library in order and returns the first matching playlist.
//
// found is false when no candidate exists within MaxScan playlists; that is not an error.
func (l *Locator) Locate(ctx context.Context) (candidate models.PlaylistCandidate, found bool, err error) {
	for offset := 0; offset < l.criteria.MaxScan; offset += l.criteria.PageSize {
		page, err := l.api.UserPlaylists(ctx, l.criteria.PageSize, offset)
		if err != nil {
			return models.PlaylistCandidate{}, false, fmt.Errorf("list playlists at offset %d: %w", offset, err)
		}
		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			c := models.PlaylistCandidate{
				Name:       item.Name,
				ID:         item.ID,
				OwnerID:    item.Owner.ID,
				TrackCount: item.Tracks.Total,
			}
			if l.criteria.Matches(c) {
				return c, true, nil
			}
		}
	}

	return models.PlaylistCandidate{}, false, nil
}
