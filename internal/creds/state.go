// Package creds provides SAP credential state management for the CLI.
// It tracks which SAP systems have stored credentials and what mode
// (SSO or password) each uses. The secrets themselves live in the OS
// keychain via internal/keychain; this package persists only the
// non-secret bookkeeping.
package creds

// Indirection over the keychain-backed persistence so the state logic is
// testable without an OS keychain.
var (
	loadState = Load
	saveState = Save
)

// IsLoggedIn reports whether credentials are stored for the given system.
func IsLoggedIn(system string) (bool, error) {
	st, err := loadState()
	if err != nil {
		return false, err
	}
	for _, e := range st.Systems {
		if e.System == system {
			return true, nil
		}
	}
	return false, nil
}

// SetLoggedIn records that credentials for a system are stored. A load
// failure aborts the update; starting from an empty state here would let
// the following save drop every other recorded system.
func SetLoggedIn(system, user string, sso bool) error {
	st, err := loadState()
	if err != nil {
		return err
	}
	for i, e := range st.Systems {
		if e.System == system {
			st.Systems[i] = Entry{System: system, User: user, SSO: sso}
			return saveState(st)
		}
	}
	st.Systems = append(st.Systems, Entry{System: system, User: user, SSO: sso})
	return saveState(st)
}

// SetLoggedOut removes the record for a system, or all systems when empty.
func SetLoggedOut(system string) error {
	if system == "" {
		return Clear()
	}
	st, err := loadState()
	if err != nil {
		return err
	}
	kept := st.Systems[:0]
	for _, e := range st.Systems {
		if e.System != system {
			kept = append(kept, e)
		}
	}
	st.Systems = kept
	return saveState(st)
}
