// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package export

import (
	"strconv"
	"strings"
)

// maxIdentLen is the PostgreSQL identifier length limit.
const maxIdentLen = 63

// NormalizeIdentifier turns an SAP column title into a valid PostgreSQL
// identifier: lower-cased, hyphens and spaces folded to underscores,
// everything else non-alphanumeric dropped. A leading digit gets an
// underscore prefix and an empty result falls back to "col".
func NormalizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '-', r == ' ', r == '.', r == '/':
			b.WriteRune('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")

	if out == "" {
		return "col"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	if len(out) > maxIdentLen {
		out = out[:maxIdentLen]
	}
	return out
}

// UniqueIdentifiers normalizes a column list and disambiguates
// collisions with numeric suffixes, preserving order.
func UniqueIdentifiers(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		id := NormalizeIdentifier(name)
		if n, ok := seen[id]; ok {
			seen[id] = n + 1
			id = id + "_" + strconv.Itoa(n+1)
		}
		seen[id] = 1
		out[i] = id
	}
	return out
}
