// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"time"

	apperrors "sapdrive/cli/internal/errors"
)

// ReadyGate blocks until the host reports idle. The host offers no push
// notification, so readiness is a bounded poll of the busy indicator. It
// must run after every state-changing action before the next lookup: the
// UI tree is only guaranteed stable once the host is idle.
type ReadyGate struct {
	host     Host
	interval time.Duration

	// sleep and since are swapped out in tests
	sleep func(time.Duration)
	since func(time.Time) time.Duration
}

// NewReadyGate creates a gate polling at the given interval.
func NewReadyGate(host Host, interval time.Duration) *ReadyGate {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &ReadyGate{host: host, interval: interval, sleep: time.Sleep, since: time.Since}
}

// Wait polls the busy indicator until the host is idle or elapsed time
// exceeds timeout. It returns promptly on idle. On timeout the error
// carries the elapsed duration, which is at least the timeout. The wait
// blocks the calling goroutine; expiry is the only cancellation, matching
// the synchronous nature of host control.
func (g *ReadyGate) Wait(ctx context.Context, timeout time.Duration) error {
	start := time.Now()
	for {
		busy, err := g.host.Busy(ctx)
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
		if elapsed := g.since(start); elapsed > timeout {
			return apperrors.Wrap(apperrors.SessionTimeout,
				"host did not return to idle",
				&TimeoutError{Elapsed: elapsed, Limit: timeout})
		}
		g.sleep(g.interval)
	}
}
