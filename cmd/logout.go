// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"sapdrive/cli/internal/creds"
	"sapdrive/cli/internal/keychain"

	"github.com/spf13/cobra"
)

var logoutSystem string

// logoutCmd removes stored SAP credentials. Without --system it clears
// everything sapdrive keeps in the keychain, including the export DSN.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored SAP credentials",
	Long: `The logout command removes SAP credentials from the OS keychain.

With --system only that system's credentials are removed. Without it, all
stored credentials, the credential state, and the export database DSN are
cleared.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if logoutSystem != "" {
			if km, err := keychain.GetManager(); err == nil {
				_ = km.ClearSAPCredentials(logoutSystem)
			}
			if err := creds.SetLoggedOut(logoutSystem); err != nil {
				return err
			}
			fmt.Printf("✅ Credentials for %s have been removed\n", logoutSystem)
			return nil
		}

		st, err := creds.Load()
		if err == nil {
			if km, kerr := keychain.GetManager(); kerr == nil {
				for _, e := range st.Systems {
					_ = km.ClearSAPCredentials(e.System)
				}
				_ = km.ClearExport()
			}
		}
		_ = creds.Clear()

		fmt.Println("✅ All stored credentials have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().StringVar(&logoutSystem, "system", "", "Remove credentials for this system only")
}
