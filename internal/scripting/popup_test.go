// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "sapdrive/cli/internal/errors"
)

func TestDismissNoPopup(t *testing.T) {
	host := newFakeHost()
	d := NewDismisser(host)

	out, err := d.Dismiss(context.Background(), DismissConfirm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Found {
		t.Error("outcome reports a popup where none exists")
	}
	if len(host.vkeys) != 0 {
		t.Errorf("vkeys sent = %v, want none", host.vkeys)
	}
}

func TestDismissFirstActionWins(t *testing.T) {
	host := newFakeHost()
	host.add(PopupWindow)
	btn := host.add("wnd[1]/usr/btnSPOP-OPTION1")
	host.add("wnd[1]/tbar[0]/btn[0]")

	d := NewDismisser(host)
	out, err := d.Dismiss(context.Background(), DismissConfirm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Found || out.Action != "wnd[1]/usr/btnSPOP-OPTION1" {
		t.Errorf("outcome = %+v, want first confirm button", out)
	}
	if btn.pressed != 1 {
		t.Errorf("first button pressed %d times, want 1", btn.pressed)
	}
	if host.findCalls["wnd[1]/tbar[0]/btn[0]"] != 0 {
		t.Error("second action attempted after first succeeded")
	}
	if len(host.vkeys) != 0 {
		t.Errorf("vkeys sent = %v, want none", host.vkeys)
	}
}

func TestDismissThirdActionWins(t *testing.T) {
	// First two dismissal actions unavailable, the vkey fallback works.
	host := newFakeHost()
	host.add(PopupWindow)

	d := NewDismisser(host)
	out, err := d.Dismiss(context.Background(), DismissConfirm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Found {
		t.Fatal("outcome does not report the popup")
	}
	wantAction := fmt.Sprintf("%s vkey %d", PopupWindow, VKeyEnter)
	if out.Action != wantAction {
		t.Errorf("outcome action = %q, want %q", out.Action, wantAction)
	}
	if len(host.vkeys) != 1 || host.vkeys[0] != (vkeyCall{window: PopupWindow, key: VKeyEnter}) {
		t.Errorf("vkeys sent = %v, want single Enter on popup", host.vkeys)
	}
}

func TestDismissRejectMode(t *testing.T) {
	host := newFakeHost()
	host.add(PopupWindow)
	cancel := host.add("wnd[1]/tbar[0]/btn[12]")

	d := NewDismisser(host)
	out, err := d.Dismiss(context.Background(), DismissReject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Action != "wnd[1]/tbar[0]/btn[12]" {
		t.Errorf("outcome action = %q, want cancel toolbar button", out.Action)
	}
	if cancel.pressed != 1 {
		t.Errorf("cancel pressed %d times, want 1", cancel.pressed)
	}
	// Confirm-mode buttons must not be touched in reject mode.
	if host.findCalls["wnd[1]/usr/btnSPOP-OPTION1"] != 0 {
		t.Error("confirm button attempted in reject mode")
	}
}

func TestDismissUnhandled(t *testing.T) {
	host := newFakeHost()
	host.add(PopupWindow)
	host.onVKey = func(window string, key int) error {
		return fmt.Errorf("%s: %w", window, ErrControlNotFound)
	}

	d := NewDismisser(host)
	out, err := d.Dismiss(context.Background(), DismissConfirm)
	if err == nil {
		t.Fatal("expected error, got none")
	}
	if !out.Found {
		t.Error("outcome does not report the popup")
	}
	if !apperrors.IsKind(err, apperrors.InterruptUnhandled) {
		t.Errorf("error kind = %v, want interrupt_unhandled", err)
	}
	var de *DismissError
	if !errors.As(err, &de) {
		t.Fatalf("error %v does not carry DismissError", err)
	}
	if len(de.Tried) != 3 {
		t.Errorf("tried actions = %v, want all three", de.Tried)
	}
}
