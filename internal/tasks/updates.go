package tasks

import (
	"fmt"

	"github.com/desertthunder/daysync/internal/models"
)

// ProgressUpdate represents a progress event during a scheduler pass.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current rule number, 1-based
	Total   int    // Rules in this pass
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data, a [RuleResult] for completed rules
}

// Operation phase enumeration
type Phase int

const (
	ParsedRules Phase = iota
	EvaluateRule
	CaptureDaylist
	CopyPlaylist
	RuleDone
	PassDone
)

func (p Phase) String() string {
	switch p {
	case ParsedRules:
		return "parse_rules"
	case EvaluateRule:
		return "evaluate_rule"
	case CaptureDaylist:
		return "capture_daylist"
	case CopyPlaylist:
		return "copy_playlist"
	case RuleDone:
		return "rule_done"
	case PassDone:
		return "pass_done"
	default:
		return ""
	}
}

func parsedRulesUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParsedRules,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Loaded %d rule(s)", total),
	}
}

func evaluateRuleUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EvaluateRule,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Evaluating rule %d/%d", step, total),
	}
}

func dispatchUpdate(step, total int, action models.Action, rule models.PlaylistRule) ProgressUpdate {
	phase, verb := CopyPlaylist, "Copying"
	if action == models.ActionCapture {
		phase, verb = CaptureDaylist, "Capturing"
	}
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s %s", verb, rule),
		Data:    rule,
	}
}

func ruleDoneUpdate(step, total int, result RuleResult) ProgressUpdate {
	msg := fmt.Sprintf("Rule %d/%d skipped", step, total)
	switch {
	case result.Err != nil:
		msg = fmt.Sprintf("Rule %d/%d failed: %v", step, total, result.Err)
	case result.Handled():
		msg = fmt.Sprintf("Rule %d/%d done", step, total)
	}
	return ProgressUpdate{
		Phase:   RuleDone,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    result,
	}
}

func passDoneUpdate(report *Report) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PassDone,
		Step:    report.Total,
		Total:   report.Total,
		Message: fmt.Sprintf("Handled %d playlist(s)", report.Handled),
		Data:    report,
	}
}
