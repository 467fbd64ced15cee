// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"fmt"
	"time"

	apperrors "sapdrive/cli/internal/errors"
)

// Step identifies one stage of a driver invocation.
type Step string

const (
	StepIdle                Step = "idle"
	StepNavigating          Step = "navigating"
	StepAwaitingReady       Step = "awaiting_ready"
	StepFillingFilters      Step = "filling_filters"
	StepExecuting           Step = "executing"
	StepDismissingInterrupt Step = "dismissing_interrupt"
	StepCheckingStatus      Step = "checking_status"
	StepSucceeded           Step = "succeeded"
	StepFailed              Step = "failed"
)

// EventType enumerates driver progress event kinds.
type EventType string

const (
	// EventStep marks entry into a state-machine step.
	EventStep EventType = "step"
	// EventFieldSkipped records a filter field absent on the screen variant.
	EventFieldSkipped EventType = "field_skipped"
	// EventPopupDismissed records a cleared modal interrupt.
	EventPopupDismissed EventType = "popup_dismissed"
	// EventStatus carries the final status bar readout.
	EventStatus EventType = "status"
)

// Event is emitted by the driver as it advances, for progress rendering.
type Event struct {
	Type    EventType
	Step    Step
	Message string
	Field   string
	Action  string
}

// Result is the outcome of one driver invocation.
type Result struct {
	// Step is the terminal step: StepSucceeded or StepFailed.
	Step Step
	// FailedAt names the step the failure originated in, when failed.
	FailedAt Step
	// Warnings lists non-fatal irregularities, such as skipped filter fields.
	Warnings []string
	// Status is the host's status bar readout, when one was read.
	Status StatusMessage
	// Err is the originating error, when failed.
	Err error
}

// Succeeded reports whether the invocation reached the terminal success step.
func (r Result) Succeeded() bool { return r.Step == StepSucceeded }

// Options configure the driver's resilience parameters. All of them come
// from configuration; none are hard-coded.
type Options struct {
	FindRetries    int
	FindRetryDelay time.Duration
	PollInterval   time.Duration
	ReadyTimeout   time.Duration
}

// Driver composes the locator, readiness gate and dismisser into one named
// multi-step interaction against a host session: navigate, filter, execute,
// clear interrupts, check status. Extraction of results is left to the
// caller.
//
// A driver is strictly sequential and owns its host for the duration of a
// Run; never share one host between concurrent drivers.
type Driver struct {
	host      Host
	locator   *Locator
	gate      *ReadyGate
	dismisser *Dismisser
	opts      Options

	// OnEvent, when set, receives progress events during Run.
	OnEvent func(Event)
}

// NewDriver creates a driver over the given host.
func NewDriver(host Host, opts Options) *Driver {
	return &Driver{
		host:      host,
		locator:   NewLocator(host, opts.FindRetries, opts.FindRetryDelay),
		gate:      NewReadyGate(host, opts.PollInterval),
		dismisser: NewDismisser(host),
		opts:      opts,
	}
}

func (d *Driver) emit(ev Event) {
	if d.OnEvent != nil {
		d.OnEvent(ev)
	}
}

func (d *Driver) enter(s Step) {
	d.emit(Event{Type: EventStep, Step: s})
}

// Run performs one interaction: switch to the target transaction, apply
// the filters in order, trigger execution, confirm any resulting popup,
// and read the status bar. A filter field missing from the current screen
// variant is recorded as a warning, not a failure. Any other error ends
// the run in StepFailed with the originating step attached.
//
// When trigger is empty the standard execute key (F8) is sent; otherwise
// trigger names the control to press.
func (d *Driver) Run(ctx context.Context, tcode string, filters FilterSet, trigger string) Result {
	res := Result{Step: StepIdle}

	fail := func(at Step, err error) Result {
		res.Step = StepFailed
		res.FailedAt = at
		res.Err = fmt.Errorf("%s: %w", at, err)
		d.enter(StepFailed)
		return res
	}

	d.enter(StepNavigating)
	if err := d.host.StartTransaction(ctx, tcode); err != nil {
		return fail(StepNavigating, err)
	}
	d.enter(StepAwaitingReady)
	if err := d.gate.Wait(ctx, d.opts.ReadyTimeout); err != nil {
		return fail(StepAwaitingReady, err)
	}

	d.enter(StepFillingFilters)
	for _, f := range filters {
		path := FieldPath(f.Field)
		ctl, err := d.locator.Find(ctx, path)
		if err != nil {
			if apperrors.IsKind(err, apperrors.ControlNotFound) {
				// Screen variants legitimately omit optional fields.
				w := fmt.Sprintf("filter field %s not present on screen, skipped", f.Field)
				res.Warnings = append(res.Warnings, w)
				d.emit(Event{Type: EventFieldSkipped, Step: StepFillingFilters, Field: f.Field, Message: w})
				continue
			}
			return fail(StepFillingFilters, err)
		}
		if err := ctl.SetText(ctx, f.Value); err != nil {
			return fail(StepFillingFilters, err)
		}
	}

	d.enter(StepExecuting)
	if trigger == "" {
		if err := d.host.SendVKey(ctx, MainWindow, VKeyExecute); err != nil {
			return fail(StepExecuting, err)
		}
	} else {
		btn, err := d.locator.Find(ctx, trigger)
		if err != nil {
			return fail(StepExecuting, err)
		}
		if err := btn.Press(ctx); err != nil {
			return fail(StepExecuting, err)
		}
	}
	d.enter(StepAwaitingReady)
	if err := d.gate.Wait(ctx, d.opts.ReadyTimeout); err != nil {
		return fail(StepAwaitingReady, err)
	}

	d.enter(StepDismissingInterrupt)
	out, err := d.dismisser.Dismiss(ctx, DismissConfirm)
	if err != nil {
		return fail(StepDismissingInterrupt, err)
	}
	if out.Found {
		d.emit(Event{Type: EventPopupDismissed, Step: StepDismissingInterrupt, Action: out.Action})
	}

	d.enter(StepCheckingStatus)
	st, err := d.host.Statusbar(ctx)
	if err != nil {
		return fail(StepCheckingStatus, err)
	}
	res.Status = st
	if st.Text != "" {
		d.emit(Event{Type: EventStatus, Step: StepCheckingStatus, Message: st.Text})
	}
	if st.Severity.IsError() {
		return fail(StepCheckingStatus, apperrors.Wrap(apperrors.RemoteOperationFailed,
			st.Text, &StatusError{Severity: st.Severity, Text: st.Text}))
	}

	res.Step = StepSucceeded
	d.enter(StepSucceeded)
	return res
}
