// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
			Sources: cli.EnvVars("DAYSYNC_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "env",
			Usage: "Path to a dotenv file loaded before environment overrides",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error); overrides config",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable styled output",
		},
	}
}

// runCommand performs one scheduling pass
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Evaluate every configured rule once and sync the ones scheduled now",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "rules",
				Usage: "JSON rule list; overrides [sync] playlists and PLAYLISTS_CONFIG",
			},
			&cli.BoolFlag{
				Name:  "debug-weekdays",
				Usage: "Match day-based rules on every weekday",
			},
			&cli.BoolFlag{
				Name:    "progress",
				Aliases: []string{"p"},
				Usage:   "Print progress while rules run",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the run report as JSON",
			},
		},
		Action: r.Run,
	}
}

// copyCommand copies or replaces tracks between two playlists
func copyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "copy",
		Usage: "Copy tracks from one playlist into another (\"daylist\" locates the current Daylist)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "source"},
			&cli.StringArg{Name: "target"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "replace",
				Usage: "Replace the target's contents instead of appending",
			},
		},
		Action: r.Copy,
	}
}

// daylistCommand handles Daylist operations
func daylistCommand(r *Runner) *cli.Command {
	idFlag := &cli.StringFlag{
		Name:  "id",
		Usage: "Daylist embed ID; defaults to [daylist] embed_id",
	}

	return &cli.Command{
		Name:    "daylist",
		Aliases: []string{"dl"},
		Usage:   "Daylist operations",
		Commands: []*cli.Command{
			{
				Name:  "scrape",
				Usage: "Extract the Daylist from its embed page without touching your library",
				Flags: []cli.Flag{
					idFlag,
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (text, markdown, csv, json)",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save to a dated file in the current directory",
					},
				},
				Action: r.DaylistScrape,
			},
			{
				Name:  "locate",
				Usage: "Find the current Daylist in your library",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the playlist in a browser",
					},
				},
				Action: r.DaylistLocate,
			},
			{
				Name:  "capture",
				Usage: "Save the current Daylist as a new private playlist",
				Flags: []cli.Flag{
					idFlag,
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the new playlist in a browser",
					},
				},
				Action: r.DaylistCapture,
			},
		},
	}
}

// nowCommand shows how the current time is classified
func nowCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "now",
		Usage: "Show the current weekday index and time period",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Now,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the example configuration to --config",
				Action: r.ConfigInit,
			},
			{
				Name:  "show",
				Usage: "Print the resolved configuration with secrets masked",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rules",
						Usage: "Also validate and list the rule list",
					},
				},
				Action: r.ConfigShow,
			},
		},
	}
}
