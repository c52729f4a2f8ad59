package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/shared"
)

const (
	trackA = "4uLU6hMCjMI75M1A2tKUQC"
	trackB = "7ouMYWpwJ422jRcDASZB7P"
	trackC = "0VjIjW4GlUZAMYd2vXMi3b"
)

func embedPage(name, description string, tracks ...string) string {
	var b strings.Builder
	b.WriteString(`<html><head><script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"state":{"data":{"entity":{`)
	if name != "" {
		fmt.Fprintf(&b, `"name":"%s",`, name)
	}
	if description != "" {
		fmt.Fprintf(&b, `"description":"%s",`, description)
	}
	b.WriteString(`"trackList":[`)
	for i, id := range tracks {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"uri":"spotify:track:%s","title":"t%d"}`, id, i)
	}
	b.WriteString(`]}}}}}</script></head></html>`)
	return b.String()
}

type stubFetcher struct {
	payload string
	err     error
	calls   int
}

func (s *stubFetcher) FetchEmbed(ctx context.Context, embedID string) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.payload), nil
}

func TestFieldScanner(t *testing.T) {
	scanner := NewFieldScanner(DefaultPatterns())

	t.Run("extracts all fields", func(t *testing.T) {
		page := embedPage("soft country coastal cowgirl saturday evening", "sunset vibes", trackA, trackB)

		snapshot, err := scanner.Scan([]byte(page), "embed123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if snapshot.Name != "soft country coastal cowgirl saturday evening" {
			t.Errorf("unexpected name %q", snapshot.Name)
		}
		if snapshot.Description != "sunset vibes" {
			t.Errorf("unexpected description %q", snapshot.Description)
		}
		if snapshot.SourceID != "embed123" {
			t.Errorf("unexpected source id %q", snapshot.SourceID)
		}
		want := []models.TrackURI{models.NewTrackURI(trackA), models.NewTrackURI(trackB)}
		if len(snapshot.TrackURIs) != len(want) {
			t.Fatalf("expected %d tracks, got %d", len(want), len(snapshot.TrackURIs))
		}
		for i := range want {
			if snapshot.TrackURIs[i] != want[i] {
				t.Errorf("track %d = %s, want %s", i, snapshot.TrackURIs[i], want[i])
			}
		}
	})

	t.Run("duplicates collapse to first occurrence", func(t *testing.T) {
		page := embedPage("mix", "", trackB, trackA, trackB, trackC, trackA)

		snapshot, err := scanner.Scan([]byte(page), "x")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := snapshot.URIs()
		want := []string{"spotify:track:" + trackB, "spotify:track:" + trackA, "spotify:track:" + trackC}
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("tracks outside the track list are scanned", func(t *testing.T) {
		page := embedPage("mix", "", trackA) + `<a href="spotify:track:` + trackC + `">`

		snapshot, err := scanner.Scan([]byte(page), "x")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(snapshot.TrackURIs) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(snapshot.TrackURIs))
		}
	})

	t.Run("short ids are not tracks", func(t *testing.T) {
		page := `"name":"mix" spotify:track:short spotify:track:` + trackA
		snapshot, err := scanner.Scan([]byte(page), "x")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(snapshot.TrackURIs) != 1 {
			t.Errorf("expected 1 track, got %v", snapshot.TrackURIs)
		}
	})

	t.Run("html entities are unescaped", func(t *testing.T) {
		page := embedPage("rock &amp; roll monday morning", "it&#39;s &quot;loud&quot;", trackA)

		snapshot, err := scanner.Scan([]byte(page), "x")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snapshot.Name != "rock & roll monday morning" {
			t.Errorf("unexpected name %q", snapshot.Name)
		}
		if snapshot.Description != `it's "loud"` {
			t.Errorf("unexpected description %q", snapshot.Description)
		}
	})

	t.Run("missing description defaults to empty", func(t *testing.T) {
		snapshot, err := scanner.Scan([]byte(embedPage("mix", "", trackA)), "x")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snapshot.Description != "" {
			t.Errorf("expected empty description, got %q", snapshot.Description)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := scanner.Scan([]byte(embedPage("", "desc", trackA, trackB)), "x")
		if !errors.Is(err, shared.ErrNameNotFound) {
			t.Errorf("expected ErrNameNotFound, got %v", err)
		}
		if !errors.Is(err, shared.ErrExtraction) {
			t.Errorf("expected an extraction error, got %v", err)
		}
	})

	t.Run("zero tracks", func(t *testing.T) {
		_, err := scanner.Scan([]byte(embedPage("mix", "desc")), "x")
		if !errors.Is(err, shared.ErrEmptyResult) {
			t.Errorf("expected ErrEmptyResult, got %v", err)
		}
	})
}

func TestCompilePatterns(t *testing.T) {
	t.Run("empty expressions keep defaults", func(t *testing.T) {
		set, err := CompilePatterns("", "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if set.Name.String() != DefaultNamePattern || set.Track.String() != DefaultTrackPattern {
			t.Error("expected default patterns")
		}
	})

	t.Run("custom pattern drives the scanner", func(t *testing.T) {
		set, err := CompilePatterns(`"title":"([^"]+)"`, "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		page := `{"title":"renamed field"} spotify:track:` + trackA
		snapshot, err := NewFieldScanner(set).Scan([]byte(page), "x")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snapshot.Name != "renamed field" {
			t.Errorf("unexpected name %q", snapshot.Name)
		}
	})

	t.Run("invalid expression", func(t *testing.T) {
		if _, err := CompilePatterns("([", "", ""); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("expression without group", func(t *testing.T) {
		if _, err := CompilePatterns("", "", "spotify:track:"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestExtractor(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches once and scans", func(t *testing.T) {
		fetcher := &stubFetcher{payload: embedPage("mix", "", trackA)}
		snapshot, err := NewExtractor(fetcher, nil).Extract(ctx, "embed")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fetcher.calls != 1 {
			t.Errorf("expected 1 fetch, got %d", fetcher.calls)
		}
		if snapshot.SourceID != "embed" {
			t.Errorf("unexpected source id %q", snapshot.SourceID)
		}
	})

	t.Run("transport failures surface without retry", func(t *testing.T) {
		fetcher := &stubFetcher{err: &shared.HTTPError{Method: "GET", URL: "u", StatusCode: 500}}
		_, err := NewExtractor(fetcher, nil).Extract(ctx, "embed")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
		if fetcher.calls != 1 {
			t.Errorf("expected exactly 1 fetch, got %d", fetcher.calls)
		}
	})

	t.Run("parse failures keep their kind", func(t *testing.T) {
		fetcher := &stubFetcher{payload: "<html>maintenance</html>"}
		_, err := NewExtractor(fetcher, nil).Extract(ctx, "embed")
		if !errors.Is(err, shared.ErrNameNotFound) {
			t.Errorf("expected ErrNameNotFound, got %v", err)
		}
	})
}
