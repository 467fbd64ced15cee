// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcclient provides a gRPC-backed implementation of the Bridge interface.
// It talks to the local bridge agent, the small companion process that holds the
// COM handle to the SAP GUI scripting engine, over a single bidirectional stream
// on the loopback interface.
//
// The wire format is JSON rather than protocol buffers: the agent is a thin
// host-side shim and the message set is small, so a JSON codec on the gRPC
// stream keeps both ends free of generated code. A receive loop pairs
// responses to in-flight requests by ID, so a call can give up on its own
// context even when the agent stops answering.
package grpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"sapdrive/cli/internal/bridge/model"
	apperrors "sapdrive/cli/internal/errors"
	"sapdrive/cli/internal/scripting"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// driveMethod is the literal stream name exposed by the bridge agent.
// The agent registers the handler by name, so there is no generated
// service descriptor on either side.
const driveMethod = "/sapbridge.ScriptingBridge/drive"

const defaultPort = "7461"

// jsonCodec satisfies grpc encoding.Codec with plain JSON framing.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return "json" }

// Client implements bridge.Bridge over the ScriptingBridge.drive bidi stream.
// All operations share one stream; the receive loop owns RecvMsg and hands
// each response to the waiter registered under its request ID.
type Client struct {
	conn   *grpc.ClientConn
	stream grpc.ClientStream

	sendMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan model.Response
	recvErr error
}

// Connect dials the bridge agent and opens the drive stream. The agent
// only listens on loopback; plaintext transport is deliberate.
func (c *Client) Connect(ctx context.Context, addr string) error {
	target := addr
	if _, _, err := net.SplitHostPort(addr); err != nil {
		target = net.JoinHostPort(addr, defaultPort)
	}

	dctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	c.conn, err = grpc.DialContext(dctx, target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock())
	if err != nil {
		return apperrors.Wrap(apperrors.BridgeUnavailable, "bridge agent is not reachable at "+target, err)
	}

	cs, sErr := c.conn.NewStream(ctx,
		&grpc.StreamDesc{ServerStreams: true, ClientStreams: true},
		driveMethod, grpc.ForceCodec(jsonCodec{}))
	if sErr != nil {
		_ = c.conn.Close()
		c.conn = nil
		return apperrors.Wrap(apperrors.BridgeUnavailable, "opening drive stream", sErr)
	}
	c.stream = cs
	c.pending = make(map[uint64]chan model.Response)

	go c.receiveLoop(cs)
	go func() { <-ctx.Done(); _ = c.Close(context.Background()) }()
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		_ = c.stream.CloseSend()
		c.stream = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// receiveLoop reads responses until the stream dies and routes each one to
// the waiter registered under its ID. Responses for abandoned requests have
// no waiter and are dropped. On stream failure every waiter is released so
// no call stays blocked.
func (c *Client) receiveLoop(stream grpc.ClientStream) {
	for {
		var resp model.Response
		if err := stream.RecvMsg(&resp); err != nil {
			c.mu.Lock()
			c.recvErr = streamError(err)
			for id, ch := range c.pending {
				close(ch)
				delete(c.pending, id)
			}
			c.mu.Unlock()
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

// call sends one request and waits for its paired response or for ctx to
// expire, whichever comes first.
func (c *Client) call(ctx context.Context, req model.Request) (model.Response, error) {
	c.mu.Lock()
	if c.stream == nil {
		c.mu.Unlock()
		return model.Response{}, apperrors.New(apperrors.BridgeUnavailable, "bridge is not connected")
	}
	if c.recvErr != nil {
		err := c.recvErr
		c.mu.Unlock()
		return model.Response{}, err
	}
	c.nextID++
	req.ID = c.nextID
	ch := make(chan model.Response, 1)
	c.pending[req.ID] = ch
	stream := c.stream
	c.mu.Unlock()

	c.sendMu.Lock()
	err := stream.SendMsg(&req)
	c.sendMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
		return model.Response{}, streamError(err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			c.mu.Lock()
			err := c.recvErr
			c.mu.Unlock()
			if err == nil {
				err = apperrors.New(apperrors.BridgeUnavailable, "bridge closed the stream")
			}
			return model.Response{}, err
		}
		return resp, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
		return model.Response{}, ctx.Err()
	}
}

// streamError normalizes transport failures so callers can distinguish
// them from scripting failures reported inside a Response.
func streamError(err error) error {
	if err == io.EOF {
		return apperrors.New(apperrors.BridgeUnavailable, "bridge closed the stream")
	}
	if st, ok := status.FromError(err); ok {
		return apperrors.Wrap(apperrors.BridgeUnavailable, st.Code().String()+": "+st.Message(), err)
	}
	return apperrors.Wrap(apperrors.BridgeUnavailable, "bridge stream failed", err)
}

// opError maps a non-OK response to an error. A not-found result
// wraps scripting.ErrControlNotFound so retry logic can match on it.
func opError(target string, resp model.Response) error {
	if resp.NotFound {
		return fmt.Errorf("%s: %w", target, scripting.ErrControlNotFound)
	}
	if !resp.OK {
		return apperrors.New(apperrors.RemoteOperationFailed, resp.Error)
	}
	return nil
}

// Ping checks that the agent answers on the stream.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.call(ctx, model.Request{Op: model.OpPing})
	if err != nil {
		return err
	}
	return opError("", resp)
}

// Version reports the agent's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.call(ctx, model.Request{Op: model.OpVersion})
	if err != nil {
		return "", err
	}
	if err := opError("", resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// OpenConnection asks the agent to open a new SAP Logon connection to the
// named system and attach to its first session.
func (c *Client) OpenConnection(ctx context.Context, system string) error {
	resp, err := c.call(ctx, model.Request{Op: model.OpOpenConnection, System: system})
	if err != nil {
		return err
	}
	if resp.NotFound {
		return apperrors.New(apperrors.BridgeUnavailable, "system "+system+" is not defined in SAP Logon")
	}
	return opError(system, resp)
}

// ListSessions enumerates the sessions currently open on the host.
func (c *Client) ListSessions(ctx context.Context) ([]model.SessionDesc, error) {
	resp, err := c.call(ctx, model.Request{Op: model.OpListSessions})
	if err != nil {
		return nil, err
	}
	if err := opError("", resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// AttachSession points subsequent operations at the given connection and
// session indices.
func (c *Client) AttachSession(ctx context.Context, connection, session int) error {
	resp, err := c.call(ctx, model.Request{Op: model.OpAttachSession, Connection: connection, Session: session})
	if err != nil {
		return err
	}
	return opError(fmt.Sprintf("con[%d]/ses[%d]", connection, session), resp)
}

// FindByID implements scripting.Host.
func (c *Client) FindByID(ctx context.Context, id string) (scripting.Control, error) {
	resp, err := c.call(ctx, model.Request{Op: model.OpFind, Target: id})
	if err != nil {
		return nil, err
	}
	if err := opError(id, resp); err != nil {
		return nil, err
	}
	return &control{client: c, path: id, ctype: resp.Type}, nil
}

// FindGrid resolves a control and exposes it with the grid operations.
func (c *Client) FindGrid(ctx context.Context, id string) (scripting.Grid, error) {
	resp, err := c.call(ctx, model.Request{Op: model.OpFind, Target: id})
	if err != nil {
		return nil, err
	}
	if err := opError(id, resp); err != nil {
		return nil, err
	}
	return &gridControl{control{client: c, path: id, ctype: resp.Type}}, nil
}

// Busy implements scripting.Host.
func (c *Client) Busy(ctx context.Context) (bool, error) {
	resp, err := c.call(ctx, model.Request{Op: model.OpBusy})
	if err != nil {
		return false, err
	}
	if err := opError("", resp); err != nil {
		return false, err
	}
	return resp.Flag, nil
}

// StartTransaction implements scripting.Host.
func (c *Client) StartTransaction(ctx context.Context, tcode string) error {
	resp, err := c.call(ctx, model.Request{Op: model.OpStartTransaction, Text: tcode})
	if err != nil {
		return err
	}
	return opError(tcode, resp)
}

// SendVKey implements scripting.Host.
func (c *Client) SendVKey(ctx context.Context, window string, key int) error {
	resp, err := c.call(ctx, model.Request{Op: model.OpSendVKey, Target: window, Key: key})
	if err != nil {
		return err
	}
	return opError(window, resp)
}

// Statusbar implements scripting.Host.
func (c *Client) Statusbar(ctx context.Context) (scripting.StatusMessage, error) {
	resp, err := c.call(ctx, model.Request{Op: model.OpStatusbar})
	if err != nil {
		return scripting.StatusMessage{}, err
	}
	if err := opError(scripting.StatusbarID, resp); err != nil {
		return scripting.StatusMessage{}, err
	}
	if resp.Status == nil {
		return scripting.StatusMessage{}, nil
	}
	return scripting.StatusMessage{
		Severity: scripting.Severity(resp.Status.Severity),
		Text:     resp.Status.Text,
	}, nil
}

// SessionInfo implements scripting.Host.
func (c *Client) SessionInfo(ctx context.Context) (scripting.SessionInfo, error) {
	resp, err := c.call(ctx, model.Request{Op: model.OpSessionInfo})
	if err != nil {
		return scripting.SessionInfo{}, err
	}
	if err := opError("", resp); err != nil {
		return scripting.SessionInfo{}, err
	}
	if resp.Session == nil {
		return scripting.SessionInfo{}, nil
	}
	s := resp.Session
	return scripting.SessionInfo{
		System:          s.System,
		Client:          s.Client,
		User:            s.User,
		Transaction:     s.Transaction,
		ConnectionIndex: s.ConnectionIndex,
		SessionIndex:    s.SessionIndex,
		ResponseTimeMS:  s.ResponseTimeMS,
	}, nil
}

// control is a handle to a resolved control. The agent does not pin COM
// references between calls, so every operation re-sends the path.
type control struct {
	client *Client
	path   string
	ctype  string
}

func (c *control) ID() string   { return c.path }
func (c *control) Type() string { return c.ctype }

func (c *control) Text(ctx context.Context) (string, error) {
	resp, err := c.client.call(ctx, model.Request{Op: model.OpGetText, Target: c.path})
	if err != nil {
		return "", err
	}
	if err := opError(c.path, resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *control) SetText(ctx context.Context, value string) error {
	resp, err := c.client.call(ctx, model.Request{Op: model.OpSetText, Target: c.path, Text: value})
	if err != nil {
		return err
	}
	return opError(c.path, resp)
}

func (c *control) Press(ctx context.Context) error {
	resp, err := c.client.call(ctx, model.Request{Op: model.OpPress, Target: c.path})
	if err != nil {
		return err
	}
	return opError(c.path, resp)
}

func (c *control) Select(ctx context.Context) error {
	resp, err := c.client.call(ctx, model.Request{Op: model.OpSelect, Target: c.path})
	if err != nil {
		return err
	}
	return opError(c.path, resp)
}

func (c *control) Changeable(ctx context.Context) (bool, error) {
	resp, err := c.client.call(ctx, model.Request{Op: model.OpChangeable, Target: c.path})
	if err != nil {
		return false, err
	}
	if err := opError(c.path, resp); err != nil {
		return false, err
	}
	return resp.Flag, nil
}

type gridControl struct {
	control
}

func (g *gridControl) RowCount(ctx context.Context) (int, error) {
	resp, err := g.client.call(ctx, model.Request{Op: model.OpGridRowCount, Target: g.path})
	if err != nil {
		return 0, err
	}
	if err := opError(g.path, resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (g *gridControl) Columns(ctx context.Context) ([]string, error) {
	resp, err := g.client.call(ctx, model.Request{Op: model.OpGridColumns, Target: g.path})
	if err != nil {
		return nil, err
	}
	if err := opError(g.path, resp); err != nil {
		return nil, err
	}
	return resp.Columns, nil
}

func (g *gridControl) Cell(ctx context.Context, row int, column string) (string, error) {
	resp, err := g.client.call(ctx, model.Request{Op: model.OpGridCell, Target: g.path, Row: row, Column: column})
	if err != nil {
		return "", err
	}
	if err := opError(g.path, resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}
