// package models defines the data model for the playlist synchronizer
package models

import (
	"fmt"
	"slices"
	"strings"
)

// DaylistSource is the rule source sentinel naming the Daylist instead of a playlist ID.
const DaylistSource = "daylist"

// TrackURIPrefix is the canonical prefix of a Spotify track URI.
const TrackURIPrefix = "spotify:track:"

// Period is a discrete time-of-day bucket.
type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
	Night     Period = "night"
)

// Periods lists every [Period] in day order.
var Periods = []Period{Morning, Afternoon, Evening, Night}

// Valid reports whether p is one of the four known periods.
func (p Period) Valid() bool {
	return slices.Contains(Periods, p)
}

// Action selects which sync action a rule dispatches to.
type Action string

const (
	ActionAuto    Action = ""
	ActionCapture Action = "capture"
	ActionCopy    Action = "copy"
)

// PlaylistRule is one configured trigger condition → sync action pairing.
//
// Day and TimePeriod are pointers so that Monday (0) is distinguishable from "no day configured".
type PlaylistRule struct {
	Day         *int    `json:"day,omitempty"`
	TimePeriod  *Period `json:"time_period,omitempty"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	ReplaceMode bool    `json:"replace_mode,omitempty"`
	Action      Action  `json:"action,omitempty"`
}

// IsDaylistSource reports whether the rule source is the Daylist sentinel.
func (r PlaylistRule) IsDaylistSource() bool {
	return IsDaylist(r.Source)
}

// Resolve returns the action the rule dispatches to.
func (r PlaylistRule) Resolve() Action {
	if r.Action != ActionAuto {
		return r.Action
	}
	if r.IsDaylistSource() {
		return ActionCapture
	}
	return ActionCopy
}

// Validate checks the rule for missing or out-of-range fields.
func (r PlaylistRule) Validate() error {
	if strings.TrimSpace(r.Source) == "" || strings.TrimSpace(r.Target) == "" {
		return fmt.Errorf("source or target not defined")
	}
	if r.Day != nil && (*r.Day < 0 || *r.Day > 6) {
		return fmt.Errorf("day %d out of range 0-6", *r.Day)
	}
	if r.TimePeriod != nil && !r.TimePeriod.Valid() {
		return fmt.Errorf("unknown time_period %q", *r.TimePeriod)
	}
	switch r.Action {
	case ActionAuto, ActionCapture, ActionCopy:
	default:
		return fmt.Errorf("unknown action %q", r.Action)
	}
	return nil
}

// String renders the rule for progress and error lines.
func (r PlaylistRule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s", r.Source, r.Target)
	if r.TimePeriod != nil {
		fmt.Fprintf(&b, " [%s]", *r.TimePeriod)
	} else if r.Day != nil {
		fmt.Fprintf(&b, " [day %d]", *r.Day)
	}
	if r.ReplaceMode {
		b.WriteString(" (replace)")
	}
	return b.String()
}

// IsDaylist reports whether source names the Daylist sentinel, ignoring case.
func IsDaylist(source string) bool {
	return strings.EqualFold(strings.TrimSpace(source), DaylistSource)
}

// TrackURI is a canonical Spotify track URI.
type TrackURI string

// NewTrackURI builds the canonical URI for a 22-character track ID.
func NewTrackURI(id string) TrackURI {
	return TrackURI(TrackURIPrefix + id)
}

// ID returns the bare track ID.
func (u TrackURI) ID() string {
	return strings.TrimPrefix(string(u), TrackURIPrefix)
}

// DaylistSnapshot is the structured content extracted from a Daylist embed page.
type DaylistSnapshot struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TrackURIs   []TrackURI `json:"track_uris"`
	SourceID    string     `json:"source_id"`
}

// URIs returns the track URIs as plain strings in snapshot order.
func (s DaylistSnapshot) URIs() []string {
	uris := make([]string, len(s.TrackURIs))
	for i, u := range s.TrackURIs {
		uris[i] = string(u)
	}
	return uris
}

// PlaylistCandidate is a library playlist considered by the Daylist locator.
type PlaylistCandidate struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	TrackCount int    `json:"track_count"`
}
