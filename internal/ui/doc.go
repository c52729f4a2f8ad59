// Package ui renders human-readable status lines for the terminal.
//
// A [Palette] maps roles (title, success, failure, warning, muted) onto [lipgloss] styles.
// [Styles] is the colored default; [Plain] is used when output is not a terminal.
//
// Rule outcomes are rendered one per line with a leading mark:
//
//	✓ completed   ✗ failed   ⚠ invalid rule   ↺ capture reused   · not scheduled
//
// [Follow] drains a scheduler progress channel in its own goroutine.
package ui
