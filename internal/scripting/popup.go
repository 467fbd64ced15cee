// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"errors"
	"fmt"

	apperrors "sapdrive/cli/internal/errors"
)

// DismissMode selects how a modal popup is cleared.
type DismissMode int

const (
	// DismissConfirm acknowledges the popup (confirm buttons, then Enter).
	DismissConfirm DismissMode = iota
	// DismissReject cancels the popup (cancel buttons, then F12).
	DismissReject
)

// DismissOutcome reports whether a popup was present and which action
// cleared it. Absent popup is the common case and not an error.
type DismissOutcome struct {
	Found  bool
	Action string
}

// Dismisser detects and clears modal interrupts the host raises in front
// of the main interaction surface. Calling it with no popup showing is a
// safe no-op.
type Dismisser struct {
	host Host
}

// NewDismisser creates a dismisser for the given host.
func NewDismisser(host Host) *Dismisser { return &Dismisser{host: host} }

// Confirm and reject buttons share numeric key codes on some screens, so
// each mode keeps its own priority list. First action that works wins.
var (
	confirmActions = []string{
		"wnd[1]/usr/btnSPOP-OPTION1",
		"wnd[1]/tbar[0]/btn[0]",
	}
	rejectActions = []string{
		"wnd[1]/usr/btnSPOP-OPTION2",
		"wnd[1]/tbar[0]/btn[12]",
	}
)

// Dismiss looks for a modal popup once and, if present, tries the mode's
// dismissal actions in priority order, stopping at the first success.
// When every action fails the popup is surfaced to the caller rather than
// silently swallowed.
func (d *Dismisser) Dismiss(ctx context.Context, mode DismissMode) (DismissOutcome, error) {
	_, err := d.host.FindByID(ctx, PopupWindow)
	if err != nil {
		if errors.Is(err, ErrControlNotFound) {
			return DismissOutcome{}, nil
		}
		return DismissOutcome{}, err
	}

	actions := confirmActions
	vkey := VKeyEnter
	if mode == DismissReject {
		actions = rejectActions
		vkey = VKeyCancel
	}

	tried := make([]string, 0, len(actions)+1)
	for _, id := range actions {
		btn, err := d.host.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrControlNotFound) {
				tried = append(tried, id)
				continue
			}
			return DismissOutcome{Found: true}, err
		}
		if err := btn.Press(ctx); err != nil {
			if errors.Is(err, ErrControlNotFound) {
				// stale handle, popup changed under us
				tried = append(tried, id)
				continue
			}
			return DismissOutcome{Found: true}, err
		}
		return DismissOutcome{Found: true, Action: id}, nil
	}

	// Last resort: send the virtual key to the popup window itself.
	vkeyAction := fmt.Sprintf("%s vkey %d", PopupWindow, vkey)
	if err := d.host.SendVKey(ctx, PopupWindow, vkey); err != nil {
		if errors.Is(err, ErrControlNotFound) {
			tried = append(tried, vkeyAction)
			return DismissOutcome{Found: true}, apperrors.Wrap(apperrors.InterruptUnhandled,
				"modal popup could not be dismissed", &DismissError{Tried: tried})
		}
		return DismissOutcome{Found: true}, err
	}
	return DismissOutcome{Found: true, Action: vkeyAction}, nil
}
