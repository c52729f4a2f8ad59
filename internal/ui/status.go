package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/desertthunder/daysync/internal/shared"
	"github.com/desertthunder/daysync/internal/tasks"
)

const (
	markOK     = "✓"
	markFail   = "✗"
	markWarn   = "⚠"
	markReuse  = "↺"
	markIdle   = "·"
	markNotice = "»"
)

// RuleLine renders one rule outcome as a single status line.
func RuleLine(p *Palette, r tasks.RuleResult) string {
	prefix := fmt.Sprintf("[%d] %s", r.Index+1, r.Rule)

	switch {
	case r.Err != nil && errors.Is(r.Err, shared.ErrValidation) && !r.Matched:
		return p.Warning(fmt.Sprintf("%s rule %d skipped: %v", markWarn, r.Index+1, r.Err))
	case r.Err != nil:
		return p.Failure(fmt.Sprintf("%s %s: %v", markFail, prefix, r.Err))
	case !r.Matched:
		return p.Muted(fmt.Sprintf("%s %s: not scheduled now", markIdle, prefix))
	case r.Reused && r.Capture != nil:
		return p.Success(fmt.Sprintf("%s %s: already captured as %s", markReuse, prefix, r.Capture.PlaylistID))
	case r.Capture != nil:
		return p.Success(fmt.Sprintf("%s %s: captured %q with %d tracks into %s",
			markOK, prefix, r.Capture.Snapshot.Name, len(r.Capture.Snapshot.TrackURIs), r.Capture.PlaylistID))
	case r.Copy != nil:
		verb := "added"
		if r.Copy.Replaced {
			verb = "replaced with"
		}
		line := fmt.Sprintf("%s %s: %s %d tracks", markOK, prefix, verb, r.Copy.Tracks)
		if r.Copy.Skipped > 0 {
			line += fmt.Sprintf(" (%d unavailable skipped)", r.Copy.Skipped)
		}
		return p.Success(line)
	default:
		return p.Success(fmt.Sprintf("%s %s", markOK, prefix))
	}
}

// SummaryLine renders the handled count of a pass.
func SummaryLine(p *Palette, report *tasks.Report) string {
	line := fmt.Sprintf("Handled %d playlist(s)", report.Handled)
	if report.Failed > 0 {
		return p.Warning(fmt.Sprintf("%s, %d failed", line, report.Failed))
	}
	return p.Title(line)
}

// ProgressLine renders a progress update as a muted notice.
//
// Updates may be dropped under back-pressure, so per-rule outcomes are printed from the
// final [tasks.Report] with [RuleLine], never from here.
func ProgressLine(p *Palette, u tasks.ProgressUpdate) string {
	return p.Muted(fmt.Sprintf("%s %s", markNotice, u.Message))
}

// Follow prints every update from updates to w until the channel is closed.
// The returned channel is closed once printing is finished.
func Follow(w io.Writer, p *Palette, updates <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range updates {
			fmt.Fprintln(w, ProgressLine(p, u))
		}
	}()
	return done
}
