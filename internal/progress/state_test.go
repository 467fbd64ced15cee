// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package progress

import (
	"testing"

	"sapdrive/cli/internal/scripting"
)

func TestRunStateObserve(t *testing.T) {
	rs := NewRunState()

	rs.Observe(scripting.Event{Type: scripting.EventStep, Step: scripting.StepNavigating})
	rs.Observe(scripting.Event{Type: scripting.EventStep, Step: scripting.StepFillingFilters})
	rs.Observe(scripting.Event{
		Type:    scripting.EventFieldSkipped,
		Field:   "BLDAT-LOW",
		Message: "filter field BLDAT-LOW not present on screen, skipped",
	})
	rs.Observe(scripting.Event{Type: scripting.EventPopupDismissed, Action: "wnd[1]/usr/btnSPOP-OPTION1"})
	rs.Observe(scripting.Event{Type: scripting.EventStatus, Message: "42 entries displayed"})

	if got := rs.Current(); got != scripting.StepFillingFilters {
		t.Errorf("Current() = %v, want filling_filters", got)
	}
	if got := rs.Visited(); len(got) != 2 {
		t.Errorf("Visited() = %v, want 2 steps", got)
	}
	if got := rs.SkippedFields(); len(got) != 1 || got[0] != "BLDAT-LOW" {
		t.Errorf("SkippedFields() = %v", got)
	}
	if got := rs.Warnings(); len(got) != 1 {
		t.Errorf("Warnings() = %v, want 1", got)
	}
	if got := rs.DismissedCount(); got != 1 {
		t.Errorf("DismissedCount() = %d, want 1", got)
	}
	if got := rs.StatusText(); got != "42 entries displayed" {
		t.Errorf("StatusText() = %q", got)
	}
}

func TestLineBufferPadding(t *testing.T) {
	var lb LineBuffer

	if got := lb.FormatLine("somewhat longer line"); got != "somewhat longer line" {
		t.Errorf("first line modified: %q", got)
	}
	got := lb.FormatLine("short")
	if len(got) != len("somewhat longer line") {
		t.Errorf("short line not padded to max width: %q (len %d)", got, len(got))
	}

	lb.Reset()
	if got := lb.FormatLine("x"); got != "x" {
		t.Errorf("width cache not reset: %q", got)
	}
}

func TestStepLabelFallback(t *testing.T) {
	if got := StepLabel(scripting.StepExecuting); got != "Executing" {
		t.Errorf("StepLabel(executing) = %q", got)
	}
	if got := StepLabel(scripting.Step("other")); got != "other" {
		t.Errorf("unknown step label = %q, want raw value", got)
	}
}
