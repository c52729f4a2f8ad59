// Package extract pulls a structured Daylist snapshot out of the semi-structured
// HTML served by the embed endpoint.
//
// The field patterns live in a [PatternSet] so upstream markup drift is handled by
// swapping patterns, not code.
package extract

import (
	"fmt"
	"regexp"

	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/shared"
	"golang.org/x/net/html"
)

const (
	DefaultNamePattern        = `"name":"([^"]+)"`
	DefaultDescriptionPattern = `"description":"([^"]+)"`
	DefaultTrackPattern       = `spotify:track:([a-zA-Z0-9]{22})`
)

// PatternSet holds one regular expression per extracted field.
//
// Each pattern's first capture group is the value; for Track it is the bare 22-character ID.
type PatternSet struct {
	Name        *regexp.Regexp
	Description *regexp.Regexp
	Track       *regexp.Regexp
}

// DefaultPatterns returns the patterns matching the current embed markup.
func DefaultPatterns() PatternSet {
	return PatternSet{
		Name:        regexp.MustCompile(DefaultNamePattern),
		Description: regexp.MustCompile(DefaultDescriptionPattern),
		Track:       regexp.MustCompile(DefaultTrackPattern),
	}
}

// CompilePatterns builds a PatternSet, falling back to the default for each empty expression.
func CompilePatterns(name, description, track string) (PatternSet, error) {
	set := DefaultPatterns()

	for _, p := range []struct {
		expr   string
		target **regexp.Regexp
		field  string
	}{
		{name, &set.Name, "name"},
		{description, &set.Description, "description"},
		{track, &set.Track, "track"},
	} {
		if p.expr == "" {
			continue
		}
		re, err := regexp.Compile(p.expr)
		if err != nil {
			return PatternSet{}, fmt.Errorf("%w: %s pattern: %v", shared.ErrInvalidConfig, p.field, err)
		}
		if re.NumSubexp() < 1 {
			return PatternSet{}, fmt.Errorf("%w: %s pattern has no capture group", shared.ErrInvalidConfig, p.field)
		}
		*p.target = re
	}

	return set, nil
}

// FieldScanner extracts snapshot fields from a payload using a [PatternSet].
type FieldScanner struct {
	patterns PatternSet
}

// NewFieldScanner creates a FieldScanner over the given patterns.
func NewFieldScanner(patterns PatternSet) *FieldScanner {
	return &FieldScanner{patterns: patterns}
}

// Scan extracts name, description and deduplicated track URIs from payload.
//
// A missing name yields [shared.ErrNameNotFound]; a payload with no track IDs yields
// [shared.ErrEmptyResult] even when name and description are present.
func (s *FieldScanner) Scan(payload []byte, sourceID string) (models.DaylistSnapshot, error) {
	name, ok := firstGroup(s.patterns.Name, payload)
	if !ok {
		return models.DaylistSnapshot{}, shared.ErrNameNotFound
	}

	description, _ := firstGroup(s.patterns.Description, payload)
	tracks := s.Tracks(payload)
	if len(tracks) == 0 {
		return models.DaylistSnapshot{}, shared.ErrEmptyResult
	}

	return models.DaylistSnapshot{
		Name:        html.UnescapeString(name),
		Description: html.UnescapeString(description),
		TrackURIs:   tracks,
		SourceID:    sourceID,
	}, nil
}

// Tracks returns every track URI in payload, first occurrence order, without duplicates.
func (s *FieldScanner) Tracks(payload []byte) []models.TrackURI {
	matches := s.patterns.Track.FindAllSubmatch(payload, -1)
	seen := make(map[string]struct{}, len(matches))
	uris := make([]models.TrackURI, 0, len(matches))

	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		id := string(m[1])
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		uris = append(uris, models.NewTrackURI(id))
	}

	return uris
}

func firstGroup(re *regexp.Regexp, payload []byte) (string, bool) {
	if re == nil {
		return "", false
	}
	m := re.FindSubmatch(payload)
	if len(m) < 2 {
		return "", false
	}
	return string(m[1]), true
}
