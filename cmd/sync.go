package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/daysync/internal/clock"
	"github.com/desertthunder/daysync/internal/formatter"
	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/shared"
	"github.com/desertthunder/daysync/internal/tasks"
	"github.com/desertthunder/daysync/internal/ui"
	"github.com/urfave/cli/v3"
)

// lazyActions builds [tasks.Actions] on the first dispatched rule so a pass that
// matches nothing never needs credentials.
type lazyActions struct {
	r       *Runner
	once    sync.Once
	actions *tasks.Actions
	err     error
}

func (l *lazyActions) load(ctx context.Context) (*tasks.Actions, error) {
	l.once.Do(func() {
		l.actions, l.err = l.r.actions(ctx)
	})
	return l.actions, l.err
}

func (l *lazyActions) Copy(ctx context.Context, source, target string, replace bool) (*tasks.CopyResult, error) {
	actions, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return actions.Copy(ctx, source, target, replace)
}

func (l *lazyActions) Capture(ctx context.Context, embedID string) (*tasks.CaptureResult, error) {
	actions, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return actions.Capture(ctx, embedID)
}

// Run evaluates every configured rule once and prints the pass report.
//
// A rule list that cannot be read still prints the (empty) report before the error is returned.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.String("rules")
	if raw == "" {
		raw = r.config.Sync.Playlists
	}

	c, err := r.now()
	if err != nil {
		return err
	}

	scheduler := tasks.NewScheduler(tasks.SchedulerOpts{
		Runner:  &lazyActions{r: r},
		Clock:   c,
		Policy:  tasks.Policy{MatchAllWeekdays: cmd.Bool("debug-weekdays") || r.config.Schedule.DebugWeekdays},
		EmbedID: r.config.Daylist.EmbedID,
		Logger:  r.logger,
	})

	asJSON := cmd.Bool("json")
	follow := cmd.Bool("progress") && !asJSON

	var (
		report *tasks.Report
		runErr error
	)
	if follow {
		progress := make(chan tasks.ProgressUpdate, 32)
		done := ui.Follow(r.output, r.palette, progress)
		report, runErr = scheduler.Run(ctx, []byte(raw), progress)
		close(progress)
		<-done
	} else {
		report, runErr = scheduler.Run(ctx, []byte(raw), nil)
	}

	switch {
	case asJSON:
		data, err := formatter.ReportToJSON(report)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		if err := r.writeRaw(append(data, '\n')); err != nil {
			return err
		}
	default:
		for _, res := range report.Results {
			if err := r.writeLine(ui.RuleLine(r.palette, res)); err != nil {
				return err
			}
		}
		if err := r.writeLine(ui.SummaryLine(r.palette, report)); err != nil {
			return err
		}
	}

	return runErr
}

// Copy copies or replaces tracks from the source playlist into the target playlist.
func (r *Runner) Copy(ctx context.Context, cmd *cli.Command) error {
	source := cmd.StringArg("source")
	target := cmd.StringArg("target")
	if source == "" || target == "" {
		return fmt.Errorf("%w: source and target playlist IDs are required", shared.ErrMissingArgument)
	}

	actions, err := r.actions(ctx)
	if err != nil {
		return err
	}

	replace := cmd.Bool("replace")
	copied, err := actions.Copy(ctx, source, target, replace)
	if err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	return r.writeLine(ui.RuleLine(r.palette, tasks.RuleResult{
		Rule:    models.PlaylistRule{Source: source, Target: target, ReplaceMode: replace},
		Matched: true,
		Action:  models.ActionCopy,
		Copy:    copied,
	}))
}

type nowView struct {
	Time        string        `json:"time"`
	Weekday     int           `json:"weekday"`
	WeekdayName string        `json:"weekday_name"`
	Period      models.Period `json:"period"`
}

// Now prints the weekday index and time period rules are matched against.
func (r *Runner) Now(ctx context.Context, cmd *cli.Command) error {
	c, err := r.now()
	if err != nil {
		return err
	}

	moment := clock.Classify(c)
	view := nowView{
		Time:        moment.Time.Format(tasks.TimestampLayout),
		Weekday:     moment.Weekday,
		WeekdayName: clock.WeekdayName(moment.Weekday),
		Period:      moment.Period,
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}

	return r.writePlain("%s\n%s (day %d), %s\n",
		r.palette.Title(view.Time), view.WeekdayName, view.Weekday, view.Period)
}
