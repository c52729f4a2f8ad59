package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/daysync/internal/shared"
	"github.com/desertthunder/daysync/internal/tasks"
	"github.com/urfave/cli/v3"
)

const secretMask = "********"

func mask(s string) string {
	if s == "" {
		return ""
	}
	return secretMask
}

// ConfigInit writes the example configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		return fmt.Errorf("%w: --config path is required", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("wrote config", "path", path)
	return r.writeLine(r.palette.Success("✓ Created " + path))
}

// ConfigShow prints the resolved configuration with secrets masked, then validates it.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	shown := *r.config
	shown.Credentials.Spotify.ClientSecret = mask(shown.Credentials.Spotify.ClientSecret)
	shown.Credentials.Spotify.RefreshToken = mask(shown.Credentials.Spotify.RefreshToken)

	if err := toml.NewEncoder(r.output).Encode(shown); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := r.config.Validate(); err != nil {
		return err
	}

	if !cmd.Bool("rules") {
		return nil
	}

	return r.showRules()
}

// showRules decodes every configured rule and prints one line each.
func (r *Runner) showRules() error {
	if err := r.writeLine("\n" + r.palette.Title("Rules")); err != nil {
		return err
	}

	elems, err := tasks.ParseRules([]byte(r.config.Sync.Playlists))
	if err != nil {
		return err
	}

	invalid := 0
	for i, elem := range elems {
		rule, err := tasks.DecodeRule(elem)
		if err != nil {
			invalid++
			if err := r.writeLine(r.palette.Warning(fmt.Sprintf("⚠ [%d] %v", i+1, err))); err != nil {
				return err
			}
			continue
		}

		if err := r.writeLine(fmt.Sprintf("  [%d] %s %s", i+1, rule, r.palette.Muted("("+string(rule.Resolve())+")"))); err != nil {
			return err
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d rule(s) invalid", shared.ErrValidation, invalid, len(elems))
	}
	return nil
}
