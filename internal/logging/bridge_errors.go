// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// BridgeErrorType represents the category of a scripting bridge error.
type BridgeErrorType int

const (
	BridgeErrorUnknown BridgeErrorType = iota
	BridgeErrorConnection
	BridgeErrorScripting
	BridgeErrorTimeout
	BridgeErrorInternal
	BridgeErrorUnavailable
)

// ParseBridgeError categorizes a bridge error message.
func ParseBridgeError(errMsg string) BridgeErrorType {
	lower := strings.ToLower(errMsg)

	if strings.Contains(lower, "rst_stream") || strings.Contains(lower, "connection reset") || strings.Contains(lower, "connection refused") {
		return BridgeErrorConnection
	}
	if strings.Contains(lower, "scripting is disabled") || strings.Contains(lower, "scripting support") {
		return BridgeErrorScripting
	}
	if strings.Contains(lower, "internal_error") {
		return BridgeErrorInternal
	}
	if strings.Contains(lower, "unavailable") {
		return BridgeErrorUnavailable
	}
	if strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout") {
		return BridgeErrorTimeout
	}

	return BridgeErrorUnknown
}

// FormatBridgeError formats a bridge error in a user-friendly way.
func FormatBridgeError(errMsg string) string {
	errType := ParseBridgeError(errMsg)

	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Bridge Connection Lost"))
	builder.WriteString("\n\n")

	switch errType {
	case BridgeErrorConnection:
		builder.WriteString("The connection to the sapdrive bridge was interrupted.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • The bridge agent is not running on the SAP workstation\n")
		builder.WriteString("  • The bridge address in your config is wrong\n")
		builder.WriteString("  • A firewall closed the local connection\n")

	case BridgeErrorScripting:
		builder.WriteString("SAP GUI scripting is not available on the host.\n")
		builder.WriteString("To fix this:\n")
		builder.WriteString("  • Enable scripting: SAP GUI → Options → Accessibility & Scripting\n")
		builder.WriteString("  • Check the sapgui/user_scripting profile parameter on the server\n")

	case BridgeErrorInternal:
		builder.WriteString("The bridge agent reported an internal error.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • SAP GUI crashed or was closed mid-operation\n")
		builder.WriteString("  • The bridge agent hit an unexpected COM fault\n")

	case BridgeErrorUnavailable:
		builder.WriteString("The sapdrive bridge is currently unavailable.\n")
		builder.WriteString("Possible reasons:\n")
		builder.WriteString("  • The bridge agent is restarting\n")
		builder.WriteString("  • SAP Logon is not running\n")

	case BridgeErrorTimeout:
		builder.WriteString("The bridge did not respond in time.\n")
		builder.WriteString("This could be due to:\n")
		builder.WriteString("  • A long-running SAP operation blocking the session\n")
		builder.WriteString("  • A modal dialog waiting for input on the SAP workstation\n")

	default:
		builder.WriteString("The scripting session was interrupted.\n")
		builder.WriteString("This could mean:\n")
		builder.WriteString("  • The SAP session was closed on the workstation\n")
		builder.WriteString("  • The bridge agent stopped\n")
	}

	builder.WriteString("\n")
	builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Check the bridge agent and try again"))
	builder.WriteString("\n")

	if strings.TrimSpace(errMsg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(errMsg)))
	}

	return builder.String()
}

// PresentBridgeError displays a formatted bridge error.
func PresentBridgeError(errMsg string) {
	fmt.Println()
	fmt.Println(FormatBridgeError(errMsg))
	fmt.Println()
}
