// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package creds

import (
	"errors"
	"testing"
)

// fakeStore swaps the keychain persistence for an in-memory state.
func fakeStore(t *testing.T, initial State) *State {
	t.Helper()
	st := initial
	origLoad, origSave := loadState, saveState
	loadState = func() (State, error) { return st, nil }
	saveState = func(s State) error { st = s; return nil }
	t.Cleanup(func() { loadState, saveState = origLoad, origSave })
	return &st
}

func TestSetLoggedInPropagatesLoadFailure(t *testing.T) {
	loadErr := errors.New("keychain is locked")
	saved := false
	origLoad, origSave := loadState, saveState
	loadState = func() (State, error) { return State{}, loadErr }
	saveState = func(State) error { saved = true; return nil }
	t.Cleanup(func() { loadState, saveState = origLoad, origSave })

	err := SetLoggedIn("PRD", "JDOE", false)
	if !errors.Is(err, loadErr) {
		t.Fatalf("SetLoggedIn() error = %v, want the load failure", err)
	}
	if saved {
		t.Fatal("state was saved despite the load failure")
	}
}

func TestSetLoggedInKeepsOtherSystems(t *testing.T) {
	st := fakeStore(t, State{Systems: []Entry{
		{System: "DEV", User: "JDOE"},
		{System: "QAS", SSO: true},
	}})

	if err := SetLoggedIn("PRD", "JDOE", false); err != nil {
		t.Fatalf("SetLoggedIn() error = %v", err)
	}
	if len(st.Systems) != 3 {
		t.Fatalf("got %d systems, want 3: %+v", len(st.Systems), st.Systems)
	}

	// Updating an existing system replaces its entry in place.
	if err := SetLoggedIn("DEV", "ADMIN", false); err != nil {
		t.Fatalf("SetLoggedIn() error = %v", err)
	}
	if len(st.Systems) != 3 || st.Systems[0].User != "ADMIN" {
		t.Fatalf("DEV entry not updated in place: %+v", st.Systems)
	}
}

func TestSetLoggedOutRemovesOnlyNamedSystem(t *testing.T) {
	st := fakeStore(t, State{Systems: []Entry{
		{System: "DEV", User: "JDOE"},
		{System: "PRD", User: "JDOE"},
	}})

	if err := SetLoggedOut("DEV"); err != nil {
		t.Fatalf("SetLoggedOut() error = %v", err)
	}
	if len(st.Systems) != 1 || st.Systems[0].System != "PRD" {
		t.Fatalf("got %+v, want only PRD", st.Systems)
	}
}
