// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines shared data structures for bridge communication.
// It provides type definitions for the scripting operations and results
// that are exchanged between the CLI and the local bridge agent.
//
// The types in this package are designed to be transport-agnostic and
// provide a stable interface for different communication protocols.
package model

// Operation names understood by the bridge agent. Each request carries
// exactly one operation; Target identifies the control for control-level
// operations.
const (
	OpPing             = "ping"
	OpVersion          = "version"
	OpOpenConnection   = "open_connection"
	OpListSessions     = "list_sessions"
	OpAttachSession    = "attach_session"
	OpFind             = "find"
	OpGetText          = "get_text"
	OpSetText          = "set_text"
	OpPress            = "press"
	OpSelect           = "select"
	OpChangeable       = "changeable"
	OpBusy             = "busy"
	OpStartTransaction = "start_transaction"
	OpSendVKey         = "send_vkey"
	OpStatusbar        = "statusbar"
	OpSessionInfo      = "session_info"
	OpGridRowCount     = "grid_row_count"
	OpGridColumns      = "grid_columns"
	OpGridCell         = "grid_cell"
)

// Request is one scripting operation sent to the bridge agent. ID pairs
// the request with its response on the shared stream.
type Request struct {
	ID     uint64 `json:"id"`
	Op     string `json:"op"`
	Target string `json:"target,omitempty"`
	Text   string `json:"text,omitempty"`
	Key    int    `json:"key,omitempty"`
	Row    int    `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
	System string `json:"system,omitempty"`

	// AttachSession coordinates.
	Connection int `json:"connection,omitempty"`
	Session    int `json:"session,omitempty"`
}

// Response is the bridge agent's answer to a Request. NotFound is set
// instead of Error when a control lookup misses, so the caller can tell
// a missing control apart from a scripting failure.
type Response struct {
	ID       uint64        `json:"id"`
	OK       bool          `json:"ok"`
	NotFound bool          `json:"not_found,omitempty"`
	Error    string        `json:"error,omitempty"`
	Text     string        `json:"text,omitempty"`
	Type     string        `json:"type,omitempty"`
	Flag     bool          `json:"flag,omitempty"`
	Count    int           `json:"count,omitempty"`
	Columns  []string      `json:"columns,omitempty"`
	Status   *Status       `json:"status,omitempty"`
	Session  *Session      `json:"session,omitempty"`
	Sessions []SessionDesc `json:"sessions,omitempty"`
}

// Status mirrors the statusbar of the attached session.
type Status struct {
	Severity string `json:"severity"`
	Text     string `json:"text"`
}

// Session carries the attached session's identity and timing.
type Session struct {
	System          string `json:"system"`
	Client          string `json:"client"`
	User            string `json:"user"`
	Transaction     string `json:"transaction"`
	ConnectionIndex int    `json:"connection_index"`
	SessionIndex    int    `json:"session_index"`
	ResponseTimeMS  int    `json:"response_time_ms"`
}

// SessionDesc is one entry in a session listing.
type SessionDesc struct {
	ConnectionIndex int    `json:"connection_index"`
	SessionIndex    int    `json:"session_index"`
	System          string `json:"system"`
	Client          string `json:"client"`
	User            string `json:"user"`
	Transaction     string `json:"transaction"`
	Busy            bool   `json:"busy"`
}
