package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/daysync/internal/clock"
	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/shared"
	"github.com/desertthunder/daysync/internal/tasks"
	th "github.com/desertthunder/daysync/internal/testing"
)

func testSnapshot() models.DaylistSnapshot {
	return models.DaylistSnapshot{
		Name:        "bedroom pop tuesday afternoon",
		Description: "mellow, dreamy",
		SourceID:    "37i9dQZF1FbHVBqS3pFJrQ",
		TrackURIs: []models.TrackURI{
			models.NewTrackURI("4uLU6hMCjMI75M1A2tKUQC"),
			models.NewTrackURI("7ouMYWpwJ422jRcDASZB7P"),
		},
	}
}

func TestExporters(t *testing.T) {
	snapshot := testSnapshot()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(snapshot)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "Position,ID,URI" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "1,4uLU6hMCjMI75M1A2tKUQC,spotify:track:4uLU6hMCjMI75M1A2tKUQC" {
			t.Errorf("unexpected first row %s", lines[1])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(snapshot)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# bedroom pop tuesday afternoon",
			"**Description**: mellow, dreamy",
			"**Tracks**: 2",
			"**Source**: https://open.spotify.com/playlist/37i9dQZF1FbHVBqS3pFJrQ",
			"2. [7ouMYWpwJ422jRcDASZB7P](https://open.spotify.com/track/7ouMYWpwJ422jRcDASZB7P)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown without description", func(t *testing.T) {
		s := testSnapshot()
		s.Description = ""

		data, _ := ExportToMarkdown(s)
		if strings.Contains(string(data), "Description") {
			t.Error("expected no description line")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(snapshot)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Daylist: bedroom pop tuesday afternoon\n") {
			t.Errorf("unexpected header in %q", output)
		}
		if !strings.Contains(output, "1. spotify:track:4uLU6hMCjMI75M1A2tKUQC") {
			t.Errorf("missing first track in %q", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(snapshot)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.DaylistSnapshot
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Name != snapshot.Name || len(decoded.TrackURIs) != 2 {
			t.Errorf("unexpected decoded snapshot %+v", decoded)
		}
	})

	t.Run("Export rejects unknown formats", func(t *testing.T) {
		if _, err := Export(snapshot, "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteSnapshotExport(t *testing.T) {
	snapshot := testSnapshot()
	now := time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC)

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.md")

		written, err := WriteSnapshotExport(snapshot, "markdown", path, now)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}
		if !strings.HasPrefix(th.MustReadFile(t, path), "# bedroom pop") {
			t.Error("expected markdown content")
		}
	})

	t.Run("default path", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteSnapshotExport(snapshot, "csv", "", now)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != "daylist_37i9dQZF1FbHVBqS3pFJrQ_20261020.csv" {
			t.Errorf("unexpected default path %s", written)
		}
		if _, err := os.Stat(written); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.txt")
		if _, err := WriteSnapshotExport(snapshot, "text", path, now); err == nil {
			t.Error("expected an error for a missing directory")
		}
	})
}

func testReport() *tasks.Report {
	return &tasks.Report{
		RunID:   "run-1",
		Moment:  clock.Moment{Time: time.Date(2026, 10, 20, 14, 0, 0, 0, time.UTC), Weekday: 1, Period: models.Afternoon},
		Total:   3,
		Handled: 1,
		Matched: 2,
		Failed:  2,
		Results: []tasks.RuleResult{
			{
				Index:   0,
				Rule:    models.PlaylistRule{Source: "daylist", Target: "x"},
				Matched: true,
				Action:  models.ActionCapture,
				Capture: &tasks.CaptureResult{PlaylistID: "new1", Snapshot: testSnapshot()},
			},
			{
				Index: 1,
				Err:   fmt.Errorf("rule 2: %w: source or target not defined", shared.ErrValidation),
			},
			{
				Index:   2,
				Rule:    models.PlaylistRule{Source: "A", Target: "B"},
				Matched: true,
				Action:  models.ActionCopy,
				Err:     shared.ErrNotFound,
			},
		},
	}
}

func TestReportToText(t *testing.T) {
	output := string(ReportToText(testReport()))

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 3 rule lines and a summary, got %q", output)
	}
	if !strings.HasPrefix(lines[0], "✓") || !strings.HasPrefix(lines[1], "⚠") || !strings.HasPrefix(lines[2], "✗") {
		t.Errorf("unexpected marks in %q", output)
	}
	if !strings.Contains(lines[3], "Handled 1 playlist(s)") {
		t.Errorf("unexpected summary %q", lines[3])
	}
}

func TestReportToJSON(t *testing.T) {
	data, err := ReportToJSON(testReport())
	if err != nil {
		t.Fatalf("ReportToJSON failed: %v", err)
	}

	var doc struct {
		RunID   string `json:"run_id"`
		Weekday string `json:"weekday"`
		Period  string `json:"period"`
		Handled int    `json:"handled"`
		Rules   []struct {
			Handled    bool            `json:"handled"`
			Error      string          `json:"error"`
			PlaylistID string          `json:"playlist_id"`
			Tracks     int             `json:"tracks"`
			Snapshot   json.RawMessage `json:"snapshot"`
		} `json:"rules"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if doc.RunID != "run-1" || doc.Weekday != "tuesday" || doc.Period != "afternoon" || doc.Handled != 1 {
		t.Errorf("unexpected header %+v", doc)
	}
	if len(doc.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(doc.Rules))
	}
	if !doc.Rules[0].Handled || doc.Rules[0].PlaylistID != "new1" || doc.Rules[0].Tracks != 2 || len(doc.Rules[0].Snapshot) == 0 {
		t.Errorf("unexpected capture rule %+v", doc.Rules[0])
	}
	if doc.Rules[2].Error != "not found" {
		t.Errorf("expected error text, got %q", doc.Rules[2].Error)
	}
}
