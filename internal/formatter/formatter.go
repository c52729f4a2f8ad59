// package formatter renders Daylist snapshots and scheduler reports (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/daysync/internal/clock"
	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/shared"
	"github.com/desertthunder/daysync/internal/tasks"
	"github.com/desertthunder/daysync/internal/ui"
)

const trackWebURL = "https://open.spotify.com/track/"

// Formats lists the supported snapshot export formats.
var Formats = []string{"text", "markdown", "csv", "json"}

// ExportToCSV converts a snapshot to CSV format with columns: Position, ID, URI
func ExportToCSV(snapshot models.DaylistSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "ID", "URI"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, uri := range snapshot.TrackURIs {
		record := []string{strconv.Itoa(i + 1), uri.ID(), string(uri)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a snapshot to Markdown with links to each track
func ExportToMarkdown(snapshot models.DaylistSnapshot) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", snapshot.Name)
	if snapshot.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", snapshot.Description)
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n", len(snapshot.TrackURIs))
	if snapshot.SourceID != "" {
		fmt.Fprintf(&buf, "**Source**: %s\n", shared.PlaylistURL(snapshot.SourceID))
	}

	buf.WriteString("\n## Tracks\n\n")
	for i, uri := range snapshot.TrackURIs {
		fmt.Fprintf(&buf, "%d. [%s](%s%s)\n", i+1, uri.ID(), trackWebURL, uri.ID())
	}

	return buf.Bytes(), nil
}

// ExportToText converts a snapshot to plain text format
func ExportToText(snapshot models.DaylistSnapshot) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Daylist: %s\n", snapshot.Name)
	if snapshot.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", snapshot.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(snapshot.TrackURIs))

	for i, uri := range snapshot.TrackURIs {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, uri)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a snapshot to indented JSON
func ExportToJSON(snapshot models.DaylistSnapshot) ([]byte, error) {
	return shared.MarshalJSON(snapshot, true)
}

// Export renders snapshot in the named format.
func Export(snapshot models.DaylistSnapshot, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return ExportToText(snapshot)
	case "markdown", "md":
		return ExportToMarkdown(snapshot)
	case "csv":
		return ExportToCSV(snapshot)
	case "json":
		return ExportToJSON(snapshot)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return "md"
	case "csv":
		return "csv"
	case "json":
		return "json"
	default:
		return "txt"
	}
}

// WriteSnapshotExport writes snapshot to path in the named format.
//
// Defaults to daylist_{source}_{yyyymmdd}.{ext} when path is empty.
func WriteSnapshotExport(snapshot models.DaylistSnapshot, format, path string, now time.Time) (string, error) {
	if path == "" {
		path = fmt.Sprintf("daylist_%s_%s.%s", snapshot.SourceID, now.Format("20060102"), Extension(format))
	}

	data, err := Export(snapshot, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// ReportToText renders a scheduler report as unstyled status lines followed by a summary
func ReportToText(report *tasks.Report) []byte {
	var buf bytes.Buffer
	for _, res := range report.Results {
		buf.WriteString(ui.RuleLine(ui.Plain, res))
		buf.WriteByte('\n')
	}
	buf.WriteString(ui.SummaryLine(ui.Plain, report))
	buf.WriteByte('\n')
	return buf.Bytes()
}

type reportRule struct {
	Index      int                     `json:"index"`
	Rule       models.PlaylistRule     `json:"rule"`
	Matched    bool                    `json:"matched"`
	Handled    bool                    `json:"handled"`
	Action     models.Action           `json:"action,omitempty"`
	Reused     bool                    `json:"reused,omitempty"`
	Error      string                  `json:"error,omitempty"`
	PlaylistID string                  `json:"playlist_id,omitempty"`
	Tracks     int                     `json:"tracks,omitempty"`
	Snapshot   *models.DaylistSnapshot `json:"snapshot,omitempty"`
}

type reportDoc struct {
	RunID   string        `json:"run_id"`
	Time    time.Time     `json:"time"`
	Weekday string        `json:"weekday"`
	Period  models.Period `json:"period"`
	Total   int           `json:"total"`
	Handled int           `json:"handled"`
	Reused  int           `json:"reused"`
	Matched int           `json:"matched"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Rules   []reportRule  `json:"rules"`
}

// ReportToJSON renders a scheduler report as indented JSON; errors become strings
func ReportToJSON(report *tasks.Report) ([]byte, error) {
	doc := reportDoc{
		RunID:   report.RunID,
		Time:    report.Moment.Time,
		Weekday: clock.WeekdayName(report.Moment.Weekday),
		Period:  report.Moment.Period,
		Total:   report.Total,
		Handled: report.Handled,
		Reused:  report.Reused,
		Matched: report.Matched,
		Skipped: report.Skipped,
		Failed:  report.Failed,
		Rules:   make([]reportRule, 0, len(report.Results)),
	}

	for _, res := range report.Results {
		rule := reportRule{
			Index:   res.Index,
			Rule:    res.Rule,
			Matched: res.Matched,
			Handled: res.Handled(),
			Action:  res.Action,
			Reused:  res.Reused,
		}
		if res.Err != nil {
			rule.Error = res.Err.Error()
		}
		switch {
		case res.Capture != nil:
			rule.PlaylistID = res.Capture.PlaylistID
			rule.Tracks = len(res.Capture.Snapshot.TrackURIs)
			if !res.Reused {
				snapshot := res.Capture.Snapshot
				rule.Snapshot = &snapshot
			}
		case res.Copy != nil:
			rule.PlaylistID = res.Copy.TargetID
			rule.Tracks = res.Copy.Tracks
		}
		doc.Rules = append(doc.Rules, rule)
	}

	return shared.MarshalJSON(doc, true)
}
