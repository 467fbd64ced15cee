package cmd

import (
	"fmt"

	"sapdrive/cli/internal/creds"

	"github.com/spf13/cobra"
)

// whoamiCmd shows which SAP systems have stored credentials and what
// logon mode each uses.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show stored SAP credential state",
	Long: `The whoami command lists the SAP systems that have credentials stored in
the OS keychain, together with the user name and logon mode for each.

This command is useful for verifying what 'sapdrive connect' will use
before opening a session.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := creds.Load()
		if err != nil || len(st.Systems) == 0 {
			fmt.Println("🔒 No SAP credentials stored yet!")
			fmt.Println("   Run 'sapdrive login' to get started.")
			return nil
		}

		for _, e := range st.Systems {
			if e.SSO {
				fmt.Printf("👤 %s: single sign-on\n", e.System)
				continue
			}
			fmt.Printf("👤 %s: user %s\n", e.System, e.User)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
