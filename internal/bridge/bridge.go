// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge defines the interface to the local bridge agent, the
// companion process that holds the COM handle to the SAP GUI scripting
// engine. It provides an abstraction over the transport so the CLI can
// drive sessions without knowing how operations reach the host.
package bridge

import (
	"context"

	"sapdrive/cli/internal/bridge/grpcclient"
	"sapdrive/cli/internal/bridge/model"
	"sapdrive/cli/internal/scripting"
)

// Bridge is a connection to the bridge agent. It carries the full
// scripting surface plus the agent-level operations that exist outside
// any one session.
type Bridge interface {
	scripting.Host

	// Connect establishes transport to the agent at addr.
	Connect(ctx context.Context, addr string) error
	Close(ctx context.Context) error

	// Ping verifies the agent answers on the stream.
	Ping(ctx context.Context) error
	// Version reports the agent's version string.
	Version(ctx context.Context) (string, error)

	// OpenConnection opens a new SAP Logon connection to the named system.
	OpenConnection(ctx context.Context, system string) error
	// ListSessions enumerates sessions currently open on the host.
	ListSessions(ctx context.Context) ([]model.SessionDesc, error)
	// AttachSession targets subsequent operations at one session.
	AttachSession(ctx context.Context, connection, session int) error

	// FindGrid resolves a control with the grid operations available.
	FindGrid(ctx context.Context, id string) (scripting.Grid, error)
}

// New creates a new bridge instance backed by the gRPC client.
func New() Bridge {
	return &grpcclient.Client{}
}
