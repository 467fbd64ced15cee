// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "sapdrive/cli/internal/errors"
)

// Locator resolves control paths against a host, retrying lookups that
// fail because the screen has not settled yet. It has no side effects
// beyond the host-side lookup itself.
type Locator struct {
	host    Host
	retries int
	delay   time.Duration

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// NewLocator creates a locator performing up to retries attempts with the
// given delay between them. A retry count below 1 is treated as 1.
func NewLocator(host Host, retries int, delay time.Duration) *Locator {
	if retries < 1 {
		retries = 1
	}
	return &Locator{host: host, retries: retries, delay: delay, sleep: time.Sleep}
}

// Find resolves path to a live control handle. Only not-found results are
// retried; transport and host faults propagate immediately. When the retry
// budget is exhausted the error carries the path and attempt count. The
// returned handle is valid until the next state-changing action.
func (l *Locator) Find(ctx context.Context, path string) (Control, error) {
	for attempt := 1; attempt <= l.retries; attempt++ {
		if attempt > 1 {
			l.sleep(l.delay)
		}
		c, err := l.host.FindByID(ctx, path)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrControlNotFound) {
			return nil, err
		}
	}
	return nil, apperrors.Wrap(apperrors.ControlNotFound,
		fmt.Sprintf("lookup of %s exhausted retry budget", path),
		&NotFoundError{Path: path, Attempts: l.retries})
}
