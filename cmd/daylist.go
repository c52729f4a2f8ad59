package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/daysync/internal/formatter"
	"github.com/desertthunder/daysync/internal/shared"
	"github.com/urfave/cli/v3"
)

// DaylistScrape extracts the Daylist from its embed page and prints or saves it.
func (r *Runner) DaylistScrape(ctx context.Context, cmd *cli.Command) error {
	id, err := r.embedID(cmd)
	if err != nil {
		return err
	}

	extractor, err := r.extractor()
	if err != nil {
		return err
	}

	snapshot, err := extractor.Extract(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to scrape Daylist: %w", err)
	}
	r.logger.Debug("scraped Daylist", "name", snapshot.Name, "tracks", len(snapshot.TrackURIs))

	format := cmd.String("format")
	if path := cmd.String("output"); path != "" || cmd.Bool("save") {
		c, err := r.now()
		if err != nil {
			return err
		}
		written, err := formatter.WriteSnapshotExport(snapshot, format, path, c.Now())
		if err != nil {
			return err
		}
		return r.writeLine(r.palette.Success(fmt.Sprintf("✓ Saved %d tracks to %s", len(snapshot.TrackURIs), written)))
	}

	data, err := formatter.Export(snapshot, format)
	if err != nil {
		return err
	}
	return r.writeRaw(data)
}

// DaylistLocate finds the current Daylist in the user's library.
//
// Not finding one is reported, not returned as an error.
func (r *Runner) DaylistLocate(ctx context.Context, cmd *cli.Command) error {
	api, err := r.spotifyAPI(ctx)
	if err != nil {
		return err
	}

	locator := r.locator(api)
	candidate, found, err := locator.Locate(ctx)
	if err != nil {
		return fmt.Errorf("failed to locate Daylist: %w", err)
	}

	if !found {
		return r.writeLine(r.palette.Warning(fmt.Sprintf(
			"⚠ No Daylist found in the first %d playlists of your library", locator.Criteria().MaxScan)))
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(candidate, true); err != nil {
			return err
		}
	} else {
		url := shared.PlaylistURL(candidate.ID)
		if err := r.writePlain("%s\nID: %s\nOwner: %s\nTracks: %d\n%s\n",
			r.palette.Title(candidate.Name), candidate.ID, candidate.OwnerID, candidate.TrackCount, r.palette.Muted(url)); err != nil {
			return err
		}
	}

	if cmd.Bool("open") {
		return r.openFunc(shared.PlaylistURL(candidate.ID))
	}
	return nil
}

// DaylistCapture saves the current Daylist as a new private playlist.
func (r *Runner) DaylistCapture(ctx context.Context, cmd *cli.Command) error {
	id, err := r.embedID(cmd)
	if err != nil {
		return err
	}

	actions, err := r.actions(ctx)
	if err != nil {
		return err
	}

	captured, err := actions.Capture(ctx, id)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	url := shared.PlaylistURL(captured.PlaylistID)
	if err := r.writePlain("%s\n%s\n",
		r.palette.Success(fmt.Sprintf("✓ Captured %q with %d tracks", captured.Snapshot.Name, len(captured.Snapshot.TrackURIs))),
		r.palette.Muted(url)); err != nil {
		return err
	}

	if cmd.Bool("open") {
		return r.openFunc(url)
	}
	return nil
}
