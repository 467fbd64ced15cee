// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"fmt"
	"strings"
)

// Well-known control paths and windows of a SAP GUI session.
const (
	// MainWindow is the primary interaction surface.
	MainWindow = "wnd[0]"
	// PopupWindow is where the host raises modal interrupts.
	PopupWindow = "wnd[1]"
	// StatusbarID addresses the status message readout.
	StatusbarID = "wnd[0]/sbar"

	// userAreaPrefix anchors selection screen fields under the main window.
	userAreaPrefix = "wnd[0]/usr/"
)

// Virtual key codes used by the wrapper.
const (
	VKeyEnter   = 0
	VKeyExecute = 8
	VKeyCancel  = 12
)

// Filter is one query constraint: a logical field name and its textual value.
type Filter struct {
	Field string
	Value string
}

// FilterSet is an ordered list of constraints applied to a selection screen
// before execution. Application order is insertion order.
type FilterSet []Filter

// ParseFilters parses FIELD=VALUE arguments into a FilterSet, preserving
// the order given on the command line.
func ParseFilters(args []string) (FilterSet, error) {
	var fs FilterSet
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid filter %q: expected FIELD=VALUE", a)
		}
		fs = append(fs, Filter{Field: k, Value: v})
	}
	return fs, nil
}

// FieldPath maps a logical filter field name to a control path. A bare
// field name is assumed to live in the selection screen's user area; a
// name that already contains a path separator is used verbatim.
func FieldPath(field string) string {
	if strings.Contains(field, "/") {
		return field
	}
	return userAreaPrefix + field
}
