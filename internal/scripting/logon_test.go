// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"testing"
	"time"

	apperrors "sapdrive/cli/internal/errors"
)

func TestDetectScreen(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *fakeHost)
		want  ScreenState
	}{
		{
			name: "client field present means login screen",
			setup: func(h *fakeHost) {
				h.add(fieldClient)
			},
			want: ScreenLogin,
		},
		{
			name: "active transaction means menu",
			setup: func(h *fakeHost) {
				h.info = SessionInfo{Transaction: "SESSION_MANAGER"}
			},
			want: ScreenMenu,
		},
		{
			name: "window title means menu",
			setup: func(h *fakeHost) {
				h.add(MainWindow).text = "SAP Easy Access"
			},
			want: ScreenMenu,
		},
		{
			name:  "nothing recognizable",
			setup: func(h *fakeHost) {},
			want:  ScreenUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			tt.setup(host)
			if got := DetectScreen(context.Background(), host); got != tt.want {
				t.Errorf("DetectScreen() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogonPasswordMode(t *testing.T) {
	host := newFakeHost()
	client := host.add(fieldClient)
	user := host.add(fieldUser)
	pwd := host.add(fieldPassword)
	lang := host.add(fieldLanguage)

	err := Logon(context.Background(), host, LogonParams{
		Client:   "100",
		User:     "JDOE",
		Password: "secret",
		Language: "EN",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.text != "100" || user.text != "JDOE" || pwd.text != "secret" || lang.text != "EN" {
		t.Errorf("fields = %q/%q/%q/%q, want 100/JDOE/secret/EN",
			client.text, user.text, pwd.text, lang.text)
	}
	if len(host.vkeys) != 1 || host.vkeys[0] != (vkeyCall{window: MainWindow, key: VKeyEnter}) {
		t.Errorf("vkeys = %v, want single Enter on main window", host.vkeys)
	}
}

func TestLogonSSOSkipsCredentials(t *testing.T) {
	host := newFakeHost()
	client := host.add(fieldClient)
	user := host.add(fieldUser)

	err := Logon(context.Background(), host, LogonParams{Client: "200", SSO: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.text != "200" {
		t.Errorf("client = %q, want 200", client.text)
	}
	if len(user.setCalls) != 0 {
		t.Errorf("user field written in SSO mode: %v", user.setCalls)
	}
	if host.findCalls[fieldPassword] != 0 {
		t.Error("password field resolved in SSO mode")
	}
}

func TestLogonUnchangeableClientKept(t *testing.T) {
	host := newFakeHost()
	client := host.add(fieldClient)
	client.changeable = false
	client.text = "800"

	if err := Logon(context.Background(), host, LogonParams{Client: "100", SSO: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.text != "800" {
		t.Errorf("client = %q, want pre-set 800 untouched", client.text)
	}
}

func TestDismissLogonPopupsMultipleLogon(t *testing.T) {
	host := newFakeHost()
	host.add(PopupWindow)
	opt := host.add(multiLogonOpt2)
	btn := host.add(popupConfirmBtn)

	selected := false
	opt.onSelect = func() error {
		selected = true
		return nil
	}
	btn.onPress = func() error {
		// Confirming removes the dialog.
		delete(host.controls, PopupWindow)
		delete(host.controls, multiLogonOpt2)
		delete(host.controls, popupConfirmBtn)
		return nil
	}

	gate := NewReadyGate(host, time.Millisecond)
	err := DismissLogonPopups(context.Background(), host, gate, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !selected {
		t.Error("continue-without-terminating option not selected")
	}
	if btn.pressed != 1 {
		t.Errorf("confirm pressed %d times, want 1", btn.pressed)
	}
}

func TestDismissLogonPopupsNonePresent(t *testing.T) {
	host := newFakeHost()
	gate := NewReadyGate(host, time.Millisecond)
	if err := DismissLogonPopups(context.Background(), host, gate, 20*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.vkeys) != 0 {
		t.Errorf("vkeys = %v, want none", host.vkeys)
	}
}

func TestDismissLogonPopupsPersistent(t *testing.T) {
	host := newFakeHost()
	host.add(PopupWindow) // info popup that never goes away

	gate := NewReadyGate(host, time.Millisecond)
	err := DismissLogonPopups(context.Background(), host, gate, 20*time.Millisecond)
	if err == nil {
		t.Fatal("expected error for persistent popup")
	}
	if !apperrors.IsKind(err, apperrors.InterruptUnhandled) {
		t.Errorf("error kind = %v, want interrupt_unhandled", err)
	}
}

func TestVerifyLogon(t *testing.T) {
	tests := []struct {
		name     string
		status   StatusMessage
		wantErr  bool
		wantKind apperrors.Kind
	}{
		{
			name:   "success status passes",
			status: StatusMessage{Severity: SeveritySuccess, Text: "Welcome"},
		},
		{
			name:   "warning status passes",
			status: StatusMessage{Severity: SeverityWarning, Text: "Password expires soon"},
		},
		{
			name:     "error status fails",
			status:   StatusMessage{Severity: SeverityError, Text: "Name or password is incorrect"},
			wantErr:  true,
			wantKind: apperrors.LogonFailed,
		},
		{
			name:     "abort status fails",
			status:   StatusMessage{Severity: SeverityAbort, Text: "System unavailable"},
			wantErr:  true,
			wantKind: apperrors.LogonFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			host.status = tt.status

			st, err := VerifyLogon(context.Background(), host)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if !apperrors.IsKind(err, tt.wantKind) {
					t.Errorf("error kind = %v, want %v", err, tt.wantKind)
				}
				if st.Text != tt.status.Text {
					t.Errorf("status = %+v, want host message preserved", st)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
