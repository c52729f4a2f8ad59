package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/daysync/internal/clock"
	"github.com/desertthunder/daysync/internal/extract"
	"github.com/desertthunder/daysync/internal/services"
	"github.com/desertthunder/daysync/internal/shared"
	"github.com/desertthunder/daysync/internal/tasks"
	"github.com/desertthunder/daysync/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Spotify and embed clients are built from the resolved config on first use unless injected.
type Runner struct {
	config   *shared.Config
	resolve  bool
	spotify  services.PlaylistAPI
	embed    extract.Fetcher
	clock    clock.Clock
	logger   *log.Logger
	output   io.Writer
	palette  *ui.Palette
	openFunc func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config // nil resolves config.toml, .env and the environment before each command
	Spotify services.PlaylistAPI
	Embed   extract.Fetcher
	Clock   clock.Clock
	Logger  *log.Logger
	Output  io.Writer
	Palette *ui.Palette
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	resolve := opts.Config == nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Palette == nil {
		opts.Palette = ui.Styles
	}

	return &Runner{
		config:   opts.Config,
		resolve:  resolve,
		spotify:  opts.Spotify,
		embed:    opts.Embed,
		clock:    opts.Clock,
		logger:   opts.Logger,
		output:   opts.Output,
		palette:  opts.Palette,
		openFunc: shared.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, copyCommand, daylistCommand, nowCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before resolves configuration from the root flags and applies the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.resolve {
		config, err := shared.Resolve(cmd.String("config"), cmd.String("env"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.String("log-level") != "" {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	if cmd.Bool("no-color") {
		r.palette = ui.Plain
	}

	return ctx, nil
}

// validConfig returns the resolved config once it passes validation.
func (r *Runner) validConfig() (*shared.Config, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	return r.config, nil
}

// spotifyAPI returns the injected API or builds an authenticated client from the credentials.
func (r *Runner) spotifyAPI(ctx context.Context) (services.PlaylistAPI, error) {
	if r.spotify != nil {
		return r.spotify, nil
	}

	config, err := r.validConfig()
	if err != nil {
		return nil, err
	}

	spotifyConf := config.Credentials.Spotify
	tokens, err := services.NewTokenSource(ctx, spotifyConf)
	if err != nil {
		return nil, fmt.Errorf("%w (set CLIENT_ID, CLIENT_SECRET and REFRESH_TOKEN or [credentials.spotify])", err)
	}

	svc, err := services.NewSpotifyService(services.SpotifyOpts{
		BaseURL:   spotifyConf.APIURL,
		Tokens:    tokens,
		RateLimit: spotifyConf.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	r.spotify = svc
	return svc, nil
}

// extractor builds an embed extractor with the configured patterns.
func (r *Runner) extractor() (*extract.Extractor, error) {
	config, err := r.validConfig()
	if err != nil {
		return nil, err
	}

	patterns, err := extract.CompilePatterns(config.Extract.NamePattern, config.Extract.DescriptionPattern, config.Extract.TrackPattern)
	if err != nil {
		return nil, err
	}

	if r.embed == nil {
		r.embed = services.NewEmbedClient(config.Daylist.EmbedHost)
	}
	return extract.NewExtractor(r.embed, extract.NewFieldScanner(patterns)), nil
}

// now returns the injected clock or the system clock in the configured time zone.
func (r *Runner) now() (clock.Clock, error) {
	if r.clock != nil {
		return r.clock, nil
	}
	loc, err := r.config.Schedule.Location()
	if err != nil {
		return nil, err
	}
	return clock.System{Location: loc}, nil
}

func (r *Runner) locator(api services.PlaylistAPI) *tasks.Locator {
	return tasks.NewLocator(api, tasks.LocatorCriteria{
		SignatureTrackCount: r.config.Daylist.SignatureTrackCount,
		ArchiveMarker:       r.config.Daylist.ArchiveMarker,
		MaxScan:             r.config.Daylist.MaxScan,
	})
}

// actions wires the sync actions against Spotify.
func (r *Runner) actions(ctx context.Context) (*tasks.Actions, error) {
	api, err := r.spotifyAPI(ctx)
	if err != nil {
		return nil, err
	}
	extractor, err := r.extractor()
	if err != nil {
		return nil, err
	}
	c, err := r.now()
	if err != nil {
		return nil, err
	}
	return tasks.NewActions(api, extractor, r.locator(api), c, r.logger), nil
}

// embedID picks the --id flag or the configured Daylist embed ID.
func (r *Runner) embedID(cmd *cli.Command) (string, error) {
	id := cmd.String("id")
	if id == "" {
		id = r.config.Daylist.EmbedID
	}
	if id == "" {
		return "", fmt.Errorf("%w: --id or DAYLIST_EMBED_ID is required", shared.ErrMissingArgument)
	}
	return id, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeRaw(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeLine(line string) error {
	return r.writePlain("%s\n", line)
}
