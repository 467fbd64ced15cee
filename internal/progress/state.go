// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package progress tracks and renders the live state of a driven session
// run. It consumes the event stream the session driver emits and keeps
// enough state to render a docker-compose-like progress display and a
// final summary.
package progress

import (
	"sync"
	"unicode/utf8"

	"sapdrive/cli/internal/scripting"
)

// RunState accumulates what happened during one driver run. All methods
// are safe for concurrent use; the driver may emit events from a
// different goroutine than the renderer ticks on.
type RunState struct {
	mu        sync.Mutex
	current   scripting.Step
	visited   []scripting.Step
	warnings  []string
	skipped   []string
	dismissed []string
	status    string
}

// NewRunState creates a RunState ready to observe a run.
func NewRunState() *RunState {
	return &RunState{current: scripting.StepIdle}
}

// Observe folds one driver event into the state.
func (rs *RunState) Observe(ev scripting.Event) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	switch ev.Type {
	case scripting.EventStep:
		rs.current = ev.Step
		rs.visited = append(rs.visited, ev.Step)
	case scripting.EventFieldSkipped:
		rs.skipped = append(rs.skipped, ev.Field)
		rs.warnings = append(rs.warnings, ev.Message)
	case scripting.EventPopupDismissed:
		rs.dismissed = append(rs.dismissed, ev.Action)
	case scripting.EventStatus:
		rs.status = ev.Message
	}
}

// Current returns the step the run is in right now.
func (rs *RunState) Current() scripting.Step {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.current
}

// Visited returns the steps entered so far, in order.
func (rs *RunState) Visited() []scripting.Step {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]scripting.Step, len(rs.visited))
	copy(out, rs.visited)
	return out
}

// Warnings returns the non-fatal problems collected during the run.
func (rs *RunState) Warnings() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]string, len(rs.warnings))
	copy(out, rs.warnings)
	return out
}

// SkippedFields returns the filter fields that were absent on screen.
func (rs *RunState) SkippedFields() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	out := make([]string, len(rs.skipped))
	copy(out, rs.skipped)
	return out
}

// DismissedCount returns how many popups were dismissed.
func (rs *RunState) DismissedCount() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.dismissed)
}

// StatusText returns the last statusbar message observed.
func (rs *RunState) StatusText() string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.status
}

// LineBuffer pads rendered lines to the longest width seen so a live
// area update does not leave trailing characters from a longer previous
// frame.
type LineBuffer struct {
	mu         sync.Mutex
	maxLineLen int
}

// FormatLine pads line to the running maximum width.
func (lb *LineBuffer) FormatLine(line string) string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	n := utf8.RuneCountInString(line)
	if n > lb.maxLineLen {
		lb.maxLineLen = n
	}
	if pad := lb.maxLineLen - n; pad > 0 {
		b := make([]byte, pad)
		for i := range b {
			b[i] = ' '
		}
		return line + string(b)
	}
	return line
}

// Reset clears the width cache for a new display area.
func (lb *LineBuffer) Reset() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.maxLineLen = 0
}
