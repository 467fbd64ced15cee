// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scripting

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "sapdrive/cli/internal/errors"
)

func TestLocatorRetryBudget(t *testing.T) {
	tests := []struct {
		name        string
		retries     int
		appearAt    int // 0 = never
		wantFinds   int
		wantSleeps  int
		wantFailure bool
	}{
		{
			name:        "never resolves exhausts budget",
			retries:     3,
			appearAt:    0,
			wantFinds:   3,
			wantSleeps:  2,
			wantFailure: true,
		},
		{
			name:       "resolves on second attempt",
			retries:    3,
			appearAt:   2,
			wantFinds:  2,
			wantSleeps: 1,
		},
		{
			name:       "resolves immediately",
			retries:    5,
			appearAt:   1,
			wantFinds:  1,
			wantSleeps: 0,
		},
		{
			name:        "retry count below one clamps to one",
			retries:     0,
			appearAt:    0,
			wantFinds:   1,
			wantSleeps:  0,
			wantFailure: true,
		},
	}

	const path = "wnd[0]/usr/ctxtBLDAT-LOW"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			if tt.appearAt > 0 {
				host.add(path)
				host.appearAt[path] = tt.appearAt
			}

			loc := NewLocator(host, tt.retries, 50*time.Millisecond)
			sleeps := 0
			loc.sleep = func(d time.Duration) {
				if d != 50*time.Millisecond {
					t.Errorf("sleep duration = %v, want 50ms", d)
				}
				sleeps++
			}

			ctl, err := loc.Find(context.Background(), path)

			if host.findCalls[path] != tt.wantFinds {
				t.Errorf("find calls = %d, want %d", host.findCalls[path], tt.wantFinds)
			}
			if sleeps != tt.wantSleeps {
				t.Errorf("sleeps = %d, want %d", sleeps, tt.wantSleeps)
			}

			if tt.wantFailure {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if !apperrors.IsKind(err, apperrors.ControlNotFound) {
					t.Errorf("error kind = %v, want control_not_found", err)
				}
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("error %v does not carry NotFoundError", err)
				}
				if nf.Path != path {
					t.Errorf("NotFoundError.Path = %q, want %q", nf.Path, path)
				}
				wantAttempts := tt.retries
				if wantAttempts < 1 {
					wantAttempts = 1
				}
				if nf.Attempts != wantAttempts {
					t.Errorf("NotFoundError.Attempts = %d, want %d", nf.Attempts, wantAttempts)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ctl == nil || ctl.ID() != path {
					t.Errorf("resolved control = %v, want %s", ctl, path)
				}
			}
		})
	}
}

func TestLocatorTransportErrorNotRetried(t *testing.T) {
	const path = "wnd[0]/usr/txtREGION"
	host := newFakeHost()
	transportErr := errors.New("bridge: connection reset")
	host.findErr[path] = transportErr

	loc := NewLocator(host, 4, time.Millisecond)
	sleeps := 0
	loc.sleep = func(time.Duration) { sleeps++ }

	_, err := loc.Find(context.Background(), path)
	if !errors.Is(err, transportErr) {
		t.Fatalf("error = %v, want transport error to propagate", err)
	}
	if host.findCalls[path] != 1 {
		t.Errorf("find calls = %d, want 1", host.findCalls[path])
	}
	if sleeps != 0 {
		t.Errorf("sleeps = %d, want 0", sleeps)
	}
	if apperrors.IsKind(err, apperrors.ControlNotFound) {
		t.Error("transport error must not be classified as control_not_found")
	}
}
