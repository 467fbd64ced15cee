// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package scripting wraps the SAP GUI scripting surface exposed by the
// sapdrive bridge. It provides the resilient primitives every automation
// run is built from: control lookup with retries, readiness polling,
// popup dismissal, and a step-wise driver that composes them into one
// transaction interaction.
//
// The scripting surface is a single shared mutable UI tree. All operations
// against one Host must stay strictly sequential: issuing an action before
// the readiness gate has confirmed idle invalidates subsequent lookups.
// Control handles are valid only until the next state-changing action and
// are never cached across actions.
package scripting

import (
	"context"
	"errors"
)

// ErrControlNotFound signals that a control path did not resolve on the
// host's current screen. The host raises on any unresolved reference; the
// bridge translates that into this sentinel so absence is a value the
// wrapper can branch on, never an uncaught fault.
var ErrControlNotFound = errors.New("control not found")

// Host is the automation surface of one connected SAP GUI session.
// It is acquired from the bridge and externally owned; the wrapper never
// constructs or releases it.
type Host interface {
	// FindByID resolves a hierarchical control path against the current
	// screen. Absence is reported as an error wrapping ErrControlNotFound.
	FindByID(ctx context.Context, id string) (Control, error)
	// Busy reports whether the host is still processing the last action.
	Busy(ctx context.Context) (bool, error)
	// StartTransaction navigates the session to a transaction code.
	StartTransaction(ctx context.Context, tcode string) error
	// SendVKey sends a virtual key to a window.
	SendVKey(ctx context.Context, window string, key int) error
	// Statusbar reads the session's status message and severity.
	Statusbar(ctx context.Context) (StatusMessage, error)
	// SessionInfo reads identity and state of the session.
	SessionInfo(ctx context.Context) (SessionInfo, error)
}

// Control is a live handle to one UI element. The handle is scoped to the
// host's current screen state: any state-changing action invalidates it.
type Control interface {
	ID() string
	Type() string
	Text(ctx context.Context) (string, error)
	SetText(ctx context.Context, value string) error
	Press(ctx context.Context) error
	Select(ctx context.Context) error
	Changeable(ctx context.Context) (bool, error)
}

// Grid is implemented by controls exposing tabular results (ALV grids).
type Grid interface {
	Control
	RowCount(ctx context.Context) (int, error)
	Columns(ctx context.Context) ([]string, error)
	Cell(ctx context.Context, row int, column string) (string, error)
}

// Severity classifies a status bar message, using SAP's single-letter codes.
type Severity string

const (
	SeverityNone    Severity = ""
	SeveritySuccess Severity = "S"
	SeverityInfo    Severity = "I"
	SeverityWarning Severity = "W"
	SeverityError   Severity = "E"
	SeverityAbort   Severity = "A"
)

// IsError reports whether the severity denotes a failed operation.
func (s Severity) IsError() bool {
	return s == SeverityError || s == SeverityAbort
}

// StatusMessage is the host's status bar readout after an action.
type StatusMessage struct {
	Severity Severity
	Text     string
}

// SessionInfo identifies one session on the host.
type SessionInfo struct {
	System          string
	Client          string
	User            string
	Transaction     string
	ConnectionIndex int
	SessionIndex    int
	ResponseTimeMS  int
}
