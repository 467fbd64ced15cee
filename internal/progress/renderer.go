// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package progress

import (
	"github.com/pterm/pterm"

	"sapdrive/cli/internal/scripting"
)

// stepLabels maps driver steps to the short labels shown in the live line.
var stepLabels = map[scripting.Step]string{
	scripting.StepIdle:                "Waiting",
	scripting.StepNavigating:          "Opening transaction",
	scripting.StepAwaitingReady:       "Waiting for session",
	scripting.StepFillingFilters:      "Filling selection screen",
	scripting.StepExecuting:           "Executing",
	scripting.StepDismissingInterrupt: "Clearing dialogs",
	scripting.StepCheckingStatus:      "Checking result",
	scripting.StepSucceeded:           "Done",
	scripting.StepFailed:              "Failed",
}

// StepLabel returns a human label for a driver step.
func StepLabel(s scripting.Step) string {
	if l, ok := stepLabels[s]; ok {
		return l
	}
	return string(s)
}

// Renderer turns driver events into terminal output. Step transitions
// feed the live line via State; skipped fields and dismissed popups are
// printed immediately so they stay visible after the area collapses.
type Renderer struct {
	State *RunState
	Line  *LineBuffer

	// Quiet suppresses the immediate prints, leaving only state updates.
	Quiet bool
}

// NewRenderer creates a renderer with fresh state.
func NewRenderer() *Renderer {
	return &Renderer{State: NewRunState(), Line: &LineBuffer{}}
}

// Handle processes a single driver event. Safe to install as
// Driver.OnEvent.
func (r *Renderer) Handle(ev scripting.Event) {
	r.State.Observe(ev)
	if r.Quiet {
		return
	}

	switch ev.Type {
	case scripting.EventFieldSkipped:
		pterm.Warning.Println(ev.Message)
	case scripting.EventPopupDismissed:
		pterm.Info.Println("dismissed popup via " + ev.Action)
	}
}

// LiveLine formats the current step for an area update.
func (r *Renderer) LiveLine(frame string) string {
	label := StepLabel(r.State.Current())
	return r.Line.FormatLine(frame + " " + pterm.NewStyle(pterm.FgLightCyan).Sprint(label))
}
