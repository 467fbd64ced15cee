// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; SAP credentials and the export
// DSN go to the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"sapdrive/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string       `json:"log_level"`
	Bridge   BridgeConfig `json:"bridge"`
	SAP      SAPConfig    `json:"sap"`
	Timing   TimingConfig `json:"timing"`
}

// BridgeConfig holds scripting bridge connection settings.
type BridgeConfig struct {
	// Addr is the gRPC address of the scripting bridge agent.
	// The bridge binds to loopback on the SAP workstation.
	Addr string `json:"addr"`
}

// SAPConfig holds default SAP logon settings.
type SAPConfig struct {
	// System is the SAP Logon entry description, exactly as shown in SAP Logon.
	System string `json:"system"`
	// Client is the SAP client number, e.g. "100".
	Client string `json:"client"`
	// Language is the logon language code, e.g. "EN".
	Language string `json:"language"`
	// SSO selects single sign-on logon over username/password.
	SSO bool `json:"sso"`
}

// TimingConfig holds polling and retry settings for host interaction.
// Poll interval and timeouts are configuration, not constants: the right
// values depend on the SAP system's response times.
type TimingConfig struct {
	// PollIntervalMS is the busy-indicator polling interval in milliseconds.
	PollIntervalMS int `json:"poll_interval_ms"`
	// ReadyTimeoutMS bounds how long a readiness wait may block, in milliseconds.
	ReadyTimeoutMS int `json:"ready_timeout_ms"`
	// FindRetries is the total number of control lookup attempts (at least 1).
	FindRetries int `json:"find_retries"`
	// FindRetryDelayMS is the delay between lookup attempts in milliseconds.
	FindRetryDelayMS int `json:"find_retry_delay_ms"`
}

// PollInterval returns the busy polling interval as a duration.
func (t TimingConfig) PollInterval() time.Duration {
	return time.Duration(t.PollIntervalMS) * time.Millisecond
}

// ReadyTimeout returns the readiness wait bound as a duration.
func (t TimingConfig) ReadyTimeout() time.Duration {
	return time.Duration(t.ReadyTimeoutMS) * time.Millisecond
}

// FindRetryDelay returns the inter-attempt delay as a duration.
func (t TimingConfig) FindRetryDelay() time.Duration {
	return time.Duration(t.FindRetryDelayMS) * time.Millisecond
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Bridge:   BridgeConfig{Addr: "127.0.0.1:7461"},
		SAP:      SAPConfig{Language: "EN", SSO: true},
		Timing: TimingConfig{
			PollIntervalMS:   250,
			ReadyTimeoutMS:   30000,
			FindRetries:      3,
			FindRetryDelayMS: 500,
		},
	}
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	c := Defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	// Guard against hand-edited configs that would stall or spin the wrapper.
	if c.Timing.FindRetries < 1 {
		c.Timing.FindRetries = 1
	}
	if c.Timing.PollIntervalMS <= 0 {
		c.Timing.PollIntervalMS = Defaults().Timing.PollIntervalMS
	}
	if c.Timing.ReadyTimeoutMS <= 0 {
		c.Timing.ReadyTimeoutMS = Defaults().Timing.ReadyTimeoutMS
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
