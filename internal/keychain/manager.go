// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for sapdrive.
// This module manages all interactions with the OS keychain/credential store,
// providing a unified interface for storing and retrieving sensitive data such as
// SAP logon credentials, the export database DSN, and serialized login state.
//
// The package supports multiple operating systems including macOS Keychain and
// Windows Credential Manager, with thread-safe operations and proper error handling.
package keychain

import (
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "sapdrive"

// Keys used for storing secrets in the OS keychain.
const (
	KeyCredState = "cred_state"
	KeyExportDSN = "export_dsn"

	keyUserPrefix     = "sap_user_"
	keyPasswordPrefix = "sap_password_"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}

	return &Manager{
		ring: ring,
	}, nil
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}

	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
// Forces use of macOS Keychain or Windows Credential Manager - no file fallback.
func openRing() (keyring.Keyring, error) {
	// Only support darwin/windows platforms
	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		return nil, errors.New("secure storage not supported on this OS (macOS/Windows only)")
	}

	var allowedBackends []keyring.BackendType
	if runtime.GOOS == "darwin" {
		// Try macOS Keychain first, then pass (password store) as fallback
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	} else if runtime.GOOS == "windows" {
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}

	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}

	return ring, nil
}

// set stores a single key using the native backend when available.
func (m *Manager) set(key, value string) error {
	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

// get retrieves a single key using the native backend when available.
func (m *Manager) get(key string) (string, error) {
	if m.backend != nil {
		return m.backend.Get(key)
	}
	it, err := m.ring.Get(key)
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

// delete removes a single key using the native backend when available.
func (m *Manager) delete(key string) error {
	if m.backend != nil {
		return m.backend.Delete(key)
	}
	return m.ring.Remove(key)
}

// SaveSAPCredentials stores the SAP username and password for a system.
// This method is thread-safe.
func (m *Manager) SaveSAPCredentials(system, user, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if system == "" {
		return errors.New("system name is required")
	}
	if user != "" {
		if err := m.set(keyUserPrefix+system, user); err != nil {
			return err
		}
	}
	if password != "" {
		if err := m.set(keyPasswordPrefix+system, password); err != nil {
			return err
		}
	}
	return nil
}

// LoadSAPCredentials retrieves the SAP username and password for a system.
// This method is thread-safe.
func (m *Manager) LoadSAPCredentials(system string) (user, password string, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, err = m.get(keyUserPrefix + system)
	if err != nil {
		return "", "", err
	}
	password, err = m.get(keyPasswordPrefix + system)
	if err != nil {
		return "", "", err
	}
	if user == "" {
		return "", "", errors.New("no stored SAP user for system " + system)
	}
	return user, password, nil
}

// ClearSAPCredentials removes the stored SAP credentials for a system.
// This method is thread-safe.
func (m *Manager) ClearSAPCredentials(system string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.delete(keyUserPrefix + system)
	_ = m.delete(keyPasswordPrefix + system)
	return nil
}

// SaveCredState stores serialized login state in the keychain.
// This method is thread-safe.
func (m *Manager) SaveCredState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(KeyCredState, string(data))
}

// LoadCredState retrieves serialized login state from the keychain.
// Missing state yields an empty slice, not an error.
// This method is thread-safe.
func (m *Manager) LoadCredState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.get(KeyCredState)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(v), nil
}

// ClearCredState removes the stored login state from the keychain.
// This method is thread-safe.
func (m *Manager) ClearCredState() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delete(KeyCredState)
}

// SaveExportDSN stores the export database DSN in the keychain.
// This method is thread-safe.
func (m *Manager) SaveExportDSN(dsn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(KeyExportDSN, dsn)
}

// LoadExportDSN retrieves the export database DSN from the keychain.
// This method is thread-safe.
func (m *Manager) LoadExportDSN() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(KeyExportDSN)
}

// ClearExport removes export-related secrets from the keychain.
// This method is thread-safe.
func (m *Manager) ClearExport() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delete(KeyExportDSN)
}
