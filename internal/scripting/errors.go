// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"fmt"
	"strings"
	"time"
)

// NotFoundError reports an exhausted control lookup.
type NotFoundError struct {
	Path     string
	Attempts int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("control %q did not resolve after %d attempt(s)", e.Path, e.Attempts)
}

func (e *NotFoundError) Unwrap() error { return ErrControlNotFound }

// TimeoutError reports that the host stayed busy past the allowed wait.
type TimeoutError struct {
	Elapsed time.Duration
	Limit   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("host still busy after %s (limit %s)", e.Elapsed, e.Limit)
}

// StatusError carries an error-severity status bar message verbatim.
type StatusError struct {
	Severity Severity
	Text     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Severity, e.Text)
}

// DismissError reports a popup that survived every dismissal action.
type DismissError struct {
	Tried []string
}

func (e *DismissError) Error() string {
	return fmt.Sprintf("popup not dismissed, tried: %s", strings.Join(e.Tried, ", "))
}
