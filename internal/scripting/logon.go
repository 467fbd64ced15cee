// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "sapdrive/cli/internal/errors"
)

// ScreenState identifies what a session shows right after a connection opens.
type ScreenState string

const (
	// ScreenLogin is the standard logon screen (RSYST fields present).
	ScreenLogin ScreenState = "login"
	// ScreenMenu is SAP Easy Access or any post-logon screen.
	ScreenMenu ScreenState = "menu"
	// ScreenUnknown is anything else (system message, maintenance screen).
	ScreenUnknown ScreenState = "unknown"
)

// Logon screen field paths.
const (
	fieldClient   = "wnd[0]/usr/txtRSYST-MANDT"
	fieldUser     = "wnd[0]/usr/txtRSYST-BNAME"
	fieldPassword = "wnd[0]/usr/pwdRSYST-BCODE"
	fieldLanguage = "wnd[0]/usr/txtRSYST-LANGU"

	multiLogonOpt2  = "wnd[1]/usr/radMULTI_LOGON_OPT2"
	popupConfirmBtn = "wnd[1]/tbar[0]/btn[0]"
)

// LogonParams describe one logon attempt. User and Password are ignored
// in SSO mode, where SNC/Kerberos pre-fills the credentials.
type LogonParams struct {
	Client   string
	User     string
	Password string
	Language string
	SSO      bool
}

// DetectScreen determines what screen the session currently shows. The
// client field is the reliable logon screen indicator; a non-blank
// transaction or window title means the session is already past logon.
func DetectScreen(ctx context.Context, host Host) ScreenState {
	if _, err := host.FindByID(ctx, fieldClient); err == nil {
		return ScreenLogin
	}

	if info, err := host.SessionInfo(ctx); err == nil {
		if t := strings.TrimSpace(info.Transaction); t != "" && t != "LOGIN" {
			return ScreenMenu
		}
	}

	if wnd, err := host.FindByID(ctx, MainWindow); err == nil {
		if title, err := wnd.Text(ctx); err == nil && strings.TrimSpace(title) != "" {
			return ScreenMenu
		}
	}

	return ScreenUnknown
}

// Logon fills the logon screen and submits it. The client is always set
// when the field is changeable, since it may differ from the SAP Logon
// default; SSO mode skips the credential fields entirely.
func Logon(ctx context.Context, host Host, p LogonParams) error {
	if ctl, err := host.FindByID(ctx, fieldClient); err == nil {
		if ok, cerr := ctl.Changeable(ctx); cerr == nil && ok && p.Client != "" {
			if err := ctl.SetText(ctx, p.Client); err != nil {
				return apperrors.Wrap(apperrors.LogonFailed, "setting client field", err)
			}
		}
	}

	if !p.SSO {
		fields := []struct {
			path  string
			value string
		}{
			{fieldUser, p.User},
			{fieldPassword, p.Password},
			{fieldLanguage, p.Language},
		}
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			ctl, err := host.FindByID(ctx, f.path)
			if err != nil {
				if errors.Is(err, ErrControlNotFound) {
					// Field IDs differ across SAP versions and layouts.
					continue
				}
				return apperrors.Wrap(apperrors.LogonFailed, "resolving logon field", err)
			}
			if err := ctl.SetText(ctx, f.value); err != nil {
				return apperrors.Wrap(apperrors.LogonFailed, "filling logon field", err)
			}
		}
	}

	if err := host.SendVKey(ctx, MainWindow, VKeyEnter); err != nil {
		return apperrors.Wrap(apperrors.LogonFailed, "submitting logon screen", err)
	}
	return nil
}

// DismissLogonPopups clears the dialogs that commonly appear after
// authentication: the copyright/system message (Enter) and the multiple
// logon dialog, where the option to continue without terminating other
// sessions is selected. Attempts are bounded; no popup is a no-op.
func DismissLogonPopups(ctx context.Context, host Host, gate *ReadyGate, timeout time.Duration) error {
	const maxPopups = 5

	for attempt := 0; attempt < maxPopups; attempt++ {
		_, err := host.FindByID(ctx, PopupWindow)
		if err != nil {
			if errors.Is(err, ErrControlNotFound) {
				return nil
			}
			return err
		}

		if opt, err := host.FindByID(ctx, multiLogonOpt2); err == nil {
			// Continue this logon, keep the other sessions.
			if err := opt.Select(ctx); err != nil {
				return err
			}
			if btn, err := host.FindByID(ctx, popupConfirmBtn); err == nil {
				if err := btn.Press(ctx); err != nil {
					return err
				}
			} else if err := host.SendVKey(ctx, PopupWindow, VKeyEnter); err != nil {
				return err
			}
		} else if err := host.SendVKey(ctx, PopupWindow, VKeyEnter); err != nil {
			return err
		}

		if err := gate.Wait(ctx, timeout); err != nil {
			return err
		}
	}

	return apperrors.New(apperrors.InterruptUnhandled, "post-logon popup persisted after repeated dismissal")
}

// VerifyLogon checks whether the logon actually succeeded by reading the
// status bar. Error and abort severities (wrong password, locked user,
// unavailable system) fail with the host's message; an unreadable status
// bar is assumed OK.
func VerifyLogon(ctx context.Context, host Host) (StatusMessage, error) {
	st, err := host.Statusbar(ctx)
	if err != nil {
		return StatusMessage{}, nil
	}
	if st.Severity.IsError() {
		return st, apperrors.Wrap(apperrors.LogonFailed, st.Text,
			&StatusError{Severity: st.Severity, Text: st.Text})
	}
	return st, nil
}
