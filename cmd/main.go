package main

import (
	"context"
	"os"

	"github.com/desertthunder/daysync/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "daysync",
		Usage:    "Sync Spotify playlists and capture the Daylist on a weekday / time-of-day schedule",
		Version:  "0.1.0",
		Flags:    rootFlags(),
		Before:   runner.Before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
