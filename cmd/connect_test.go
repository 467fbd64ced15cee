// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"testing"

	"sapdrive/cli/internal/scripting"

	"github.com/pterm/pterm"
)

func TestLogonStatusPrinter(t *testing.T) {
	cases := []struct {
		name string
		st   scripting.StatusMessage
		want *pterm.PrefixPrinter
	}{
		{
			name: "warning is surfaced as warning",
			st:   scripting.StatusMessage{Severity: scripting.SeverityWarning, Text: "Password expires in 3 days"},
			want: &pterm.Warning,
		},
		{
			name: "success is surfaced as info",
			st:   scripting.StatusMessage{Severity: scripting.SeveritySuccess, Text: "Welcome"},
			want: &pterm.Info,
		},
		{
			name: "info is surfaced as info",
			st:   scripting.StatusMessage{Severity: scripting.SeverityInfo, Text: "System message"},
			want: &pterm.Info,
		},
		{
			name: "empty text stays silent",
			st:   scripting.StatusMessage{Severity: scripting.SeverityWarning},
			want: nil,
		},
		{
			name: "error is left to verification",
			st:   scripting.StatusMessage{Severity: scripting.SeverityError, Text: "Name or password is incorrect"},
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := logonStatusPrinter(tc.st); got != tc.want {
				t.Fatalf("logonStatusPrinter(%+v) = %v, want %v", tc.st, got, tc.want)
			}
		})
	}
}
