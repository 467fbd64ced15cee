// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package creds implements persistence for SAP credential state.
//
// This file stores the serialized state in the OS keychain via internal/keychain.
package creds

import (
	"encoding/json"

	"sapdrive/cli/internal/keychain"
)

// Entry records one SAP system with stored credentials.
type Entry struct {
	System string `json:"system"`
	User   string `json:"user"`
	SSO    bool   `json:"sso"`
}

// State represents persisted credential bookkeeping for the current user.
type State struct {
	Systems []Entry `json:"systems"`
}

// Load reads the credential state from the keychain. Missing state yields zero value.
func Load() (State, error) {
	var s State
	km, err := keychain.GetManager()
	if err != nil {
		return s, err
	}

	data, err := km.LoadCredState()
	if err != nil {
		return s, err
	}
	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// Save writes the credential state to the keychain.
func Save(s State) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.SaveCredState(b)
}

// Clear removes all credential state from the keychain.
func Clear() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.ClearCredState()
}
