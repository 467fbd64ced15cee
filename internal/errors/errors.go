// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ControlNotFound indicates a control path did not resolve within the retry budget.
	ControlNotFound Kind = "control_not_found"
	// SessionTimeout indicates the host did not return to idle within the allotted time.
	SessionTimeout Kind = "session_timeout"
	// RemoteOperationFailed indicates the host reported an error-severity status.
	RemoteOperationFailed Kind = "remote_operation_failed"
	// InterruptUnhandled indicates a modal popup was detected but no dismissal action worked.
	InterruptUnhandled Kind = "interrupt_unhandled"
	// BridgeUnavailable indicates the scripting bridge could not be reached.
	BridgeUnavailable Kind = "bridge_unavailable"
	// LogonFailed indicates the SAP logon did not succeed.
	LogonFailed Kind = "logon_failed"
	// ExportFailed indicates result extraction or export failed.
	ExportFailed Kind = "export_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// IsKind reports whether the outermost categorized error in err's chain
// carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
