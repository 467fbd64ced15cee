// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"fmt"
)

// fakeControl is a scriptable Control for tests.
type fakeControl struct {
	id         string
	ctype      string
	text       string
	changeable bool
	setCalls   []string
	pressed    int
	onPress    func() error
	onSelect   func() error
}

func (c *fakeControl) ID() string   { return c.id }
func (c *fakeControl) Type() string { return c.ctype }

func (c *fakeControl) Text(ctx context.Context) (string, error) { return c.text, nil }

func (c *fakeControl) SetText(ctx context.Context, v string) error {
	c.setCalls = append(c.setCalls, v)
	c.text = v
	return nil
}

func (c *fakeControl) Press(ctx context.Context) error {
	c.pressed++
	if c.onPress != nil {
		return c.onPress()
	}
	return nil
}

func (c *fakeControl) Select(ctx context.Context) error {
	if c.onSelect != nil {
		return c.onSelect()
	}
	return nil
}

func (c *fakeControl) Changeable(ctx context.Context) (bool, error) { return c.changeable, nil }

type vkeyCall struct {
	window string
	key    int
}

// fakeHost is a scriptable Host for tests. Controls are registered with
// add; appearAt delays a control's visibility until the n-th lookup.
type fakeHost struct {
	controls  map[string]*fakeControl
	appearAt  map[string]int
	findErr   map[string]error
	findCalls map[string]int

	busySeq   []bool
	busyCalls int
	busyErr   error

	tcodes []string
	vkeys  []vkeyCall
	onVKey func(window string, key int) error

	status    StatusMessage
	statusErr error
	info      SessionInfo
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		controls:  make(map[string]*fakeControl),
		appearAt:  make(map[string]int),
		findErr:   make(map[string]error),
		findCalls: make(map[string]int),
	}
}

func (h *fakeHost) add(id string) *fakeControl {
	c := &fakeControl{id: id, changeable: true}
	h.controls[id] = c
	return c
}

func (h *fakeHost) FindByID(ctx context.Context, id string) (Control, error) {
	h.findCalls[id]++
	if err, ok := h.findErr[id]; ok {
		return nil, err
	}
	c, ok := h.controls[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrControlNotFound)
	}
	if n, gated := h.appearAt[id]; gated && h.findCalls[id] < n {
		return nil, fmt.Errorf("%s: %w", id, ErrControlNotFound)
	}
	return c, nil
}

func (h *fakeHost) Busy(ctx context.Context) (bool, error) {
	if h.busyErr != nil {
		return false, h.busyErr
	}
	i := h.busyCalls
	h.busyCalls++
	if len(h.busySeq) == 0 {
		return false, nil
	}
	if i >= len(h.busySeq) {
		return h.busySeq[len(h.busySeq)-1], nil
	}
	return h.busySeq[i], nil
}

func (h *fakeHost) StartTransaction(ctx context.Context, tcode string) error {
	h.tcodes = append(h.tcodes, tcode)
	return nil
}

func (h *fakeHost) SendVKey(ctx context.Context, window string, key int) error {
	if h.onVKey != nil {
		if err := h.onVKey(window, key); err != nil {
			return err
		}
	}
	h.vkeys = append(h.vkeys, vkeyCall{window: window, key: key})
	return nil
}

func (h *fakeHost) Statusbar(ctx context.Context) (StatusMessage, error) {
	return h.status, h.statusErr
}

func (h *fakeHost) SessionInfo(ctx context.Context) (SessionInfo, error) {
	return h.info, nil
}
