package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/daysync/internal/clock"
	"github.com/desertthunder/daysync/internal/models"
	"github.com/desertthunder/daysync/internal/shared"
)

// Policy adjusts how rules are matched.
type Policy struct {
	// MatchAllWeekdays makes every day-based rule fire regardless of its day. Period-based
	// rules are unaffected.
	MatchAllWeekdays bool
}

// RuleRunner performs the side effect a matched rule dispatches to.
//
// Implemented by [Actions].
type RuleRunner interface {
	Copy(ctx context.Context, source, target string, replace bool) (*CopyResult, error)
	Capture(ctx context.Context, embedID string) (*CaptureResult, error)
}

// RuleResult is the outcome of one configured rule.
type RuleResult struct {
	Index   int // position in the configured list, 0-based
	Rule    models.PlaylistRule
	Matched bool
	Action  models.Action
	Reused  bool // capture already performed earlier in the same pass
	Err     error
	Copy    *CopyResult
	Capture *CaptureResult
}

// Handled reports whether the rule's action completed.
func (r RuleResult) Handled() bool {
	return r.Matched && r.Err == nil
}

// Report aggregates a scheduler pass.
type Report struct {
	RunID   string
	Moment  clock.Moment
	Total   int // rules in the configured list
	// Handled counts matched rules whose action completed, including captures reused
	// from an earlier rule of the same pass; those are also counted in Reused.
	Handled int
	Reused  int // handled capture rules that reused an earlier capture instead of dispatching
	Matched int
	Skipped int // valid rules whose trigger did not match
	Failed  int // invalid rules and failed actions
	Results []RuleResult
}

// Errors returns every per-rule error in list order.
func (r *Report) Errors() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// SchedulerOpts configures a [Scheduler].
type SchedulerOpts struct {
	Runner  RuleRunner
	Clock   clock.Clock
	Policy  Policy
	EmbedID string // Daylist embed ID used by capture rules with the daylist source
	Logger  *log.Logger
}

// Scheduler decides which rules fire now and dispatches them, one at a time.
type Scheduler struct {
	runner  RuleRunner
	clock   clock.Clock
	policy  Policy
	embedID string
	logger  *log.Logger
}

// NewScheduler creates a Scheduler from opts.
func NewScheduler(opts SchedulerOpts) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Scheduler{
		runner:  opts.Runner,
		clock:   opts.Clock,
		policy:  opts.Policy,
		embedID: opts.EmbedID,
		logger:  opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (s *Scheduler) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Matches reports whether rule fires at moment under policy.
//
// A rule with a time period fires iff the period equals the current one, whatever its day.
// Otherwise it fires when the policy matches all weekdays, the rule has no day, or the
// day equals the current weekday.
func Matches(rule models.PlaylistRule, moment clock.Moment, policy Policy) bool {
	if rule.TimePeriod != nil {
		return *rule.TimePeriod == moment.Period
	}
	if policy.MatchAllWeekdays || rule.Day == nil {
		return true
	}
	return *rule.Day == moment.Weekday
}

// ParseRules splits raw into per-rule elements. Only a failure to read raw as a JSON
// array is an error; element decoding is left to [DecodeRule].
func ParseRules(raw []byte) ([]json.RawMessage, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("%w: rule list is empty", shared.ErrValidation)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: rule list is not a JSON array: %v", shared.ErrValidation, err)
	}
	if elems == nil {
		return nil, fmt.Errorf("%w: rule list is not a JSON array: null", shared.ErrValidation)
	}
	return elems, nil
}

// DecodeRule decodes and validates one rule element.
//
// time_period and action are matched case-insensitively; an empty time_period counts as absent.
func DecodeRule(raw json.RawMessage) (models.PlaylistRule, error) {
	var rule models.PlaylistRule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return rule, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	if rule.TimePeriod != nil {
		p := models.Period(strings.ToLower(strings.TrimSpace(string(*rule.TimePeriod))))
		if p == "" {
			rule.TimePeriod = nil
		} else {
			rule.TimePeriod = &p
		}
	}
	rule.Action = models.Action(strings.ToLower(strings.TrimSpace(string(rule.Action))))
	if rule.Action == "auto" {
		rule.Action = models.ActionAuto
	}

	if err := rule.Validate(); err != nil {
		return rule, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return rule, nil
}

// Run performs one pass over the rule list in raw.
//
// A raw list that is not a JSON array yields an empty report and an [shared.ErrValidation]
// error without any network calls. Per-rule failures are recorded in the report and never
// stop the pass.
func (s *Scheduler) Run(ctx context.Context, raw []byte, progress chan<- ProgressUpdate) (*Report, error) {
	moment := clock.Classify(s.clock)
	report := &Report{RunID: shared.GenerateID(), Moment: moment}
	logger := shared.WithLogger(s.logger, "run", report.RunID)

	logger.Info("starting pass",
		"time", moment.Time.Format(TimestampLayout),
		"weekday", clock.WeekdayName(moment.Weekday),
		"period", moment.Period,
		"match_all_weekdays", s.policy.MatchAllWeekdays)

	elems, err := ParseRules(raw)
	if err != nil {
		logger.Error("could not parse rule list", "error", err)
		s.sendProgress(progress, passDoneUpdate(report))
		return report, err
	}

	report.Total = len(elems)
	s.sendProgress(progress, parsedRulesUpdate(report.Total))

	captures := make(map[string]*CaptureResult)

	for i, elem := range elems {
		step := i + 1
		s.sendProgress(progress, evaluateRuleUpdate(step, report.Total))

		result := s.runRule(ctx, logger, i, report.Total, elem, moment, captures, progress)
		report.Results = append(report.Results, result)

		switch {
		case result.Handled():
			report.Handled++
			if result.Reused {
				report.Reused++
			}
		case result.Err != nil:
			report.Failed++
		default:
			report.Skipped++
		}
		if result.Matched {
			report.Matched++
		}

		s.sendProgress(progress, ruleDoneUpdate(step, report.Total, result))
	}

	logger.Info("pass complete", "handled", report.Handled, "reused", report.Reused, "skipped", report.Skipped, "failed", report.Failed)
	s.sendProgress(progress, passDoneUpdate(report))
	return report, nil
}

func (s *Scheduler) runRule(
	ctx context.Context,
	logger *log.Logger,
	index, total int,
	elem json.RawMessage,
	moment clock.Moment,
	captures map[string]*CaptureResult,
	progress chan<- ProgressUpdate,
) RuleResult {
	result := RuleResult{Index: index}

	rule, err := DecodeRule(elem)
	result.Rule = rule
	if err != nil {
		result.Err = fmt.Errorf("rule %d: %w", index+1, err)
		logger.Warn("skipping invalid rule", "index", index+1, "error", err)
		return result
	}

	if !Matches(rule, moment, s.policy) {
		logger.Debug("rule does not match", "index", index+1, "rule", rule.String())
		return result
	}

	result.Matched = true
	result.Action = rule.Resolve()
	s.sendProgress(progress, dispatchUpdate(index+1, total, result.Action, rule))

	if err := ctx.Err(); err != nil {
		result.Err = fmt.Errorf("rule %d: %w", index+1, err)
		return result
	}

	switch result.Action {
	case models.ActionCapture:
		embedID := s.captureID(rule)
		if prev, ok := captures[embedID]; ok {
			result.Reused = true
			result.Capture = prev
			logger.Info("reusing capture from earlier rule", "index", index+1, "embed_id", embedID, "playlist", prev.PlaylistID)
			return result
		}

		logger.Info("capturing Daylist", "index", index+1, "embed_id", embedID)
		capture, err := s.runner.Capture(ctx, embedID)
		if err != nil {
			result.Err = fmt.Errorf("rule %d (%s): %w", index+1, rule, err)
			logger.Error("capture failed", "index", index+1, "error", err)
			return result
		}
		captures[embedID] = capture
		result.Capture = capture
		logger.Info("captured Daylist", "index", index+1, "name", capture.Snapshot.Name, "tracks", len(capture.Snapshot.TrackURIs), "playlist", capture.PlaylistID)
	default:
		logger.Info("copying playlist", "index", index+1, "rule", rule.String())
		copied, err := s.runner.Copy(ctx, rule.Source, rule.Target, rule.ReplaceMode)
		if err != nil {
			result.Err = fmt.Errorf("rule %d (%s): %w", index+1, rule, err)
			logger.Error("copy failed", "index", index+1, "error", err)
			return result
		}
		result.Copy = copied
		logger.Info("copied playlist", "index", index+1, "source", copied.SourceName, "tracks", copied.Tracks, "replaced", copied.Replaced)
	}

	return result
}

// captureID picks the embed ID for a capture rule: the configured Daylist embed for the
// daylist source, the source itself otherwise.
func (s *Scheduler) captureID(rule models.PlaylistRule) string {
	if rule.IsDaylistSource() {
		return s.embedID
	}
	return strings.TrimSpace(rule.Source)
}
