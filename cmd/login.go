// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"sapdrive/cli/internal/config"
	"sapdrive/cli/internal/creds"
	"sapdrive/cli/internal/keychain"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginSystem string
	loginUser   string
	loginSSO    bool
)

// loginCmd stores SAP credentials for a system in the OS keychain.
// Nothing is sent anywhere at login time; the credentials are used later
// when 'sapdrive connect' fills the logon screen.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Store SAP credentials for a system",
	Long: `The login command stores SAP logon credentials for a system securely in the
OS keychain. The credentials are only ever sent to the SAP logon screen of
that system, through the local scripting bridge.

With --sso the password prompt is skipped and single sign-on is recorded for
the system; the logon screen will then be submitted without credentials.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		system := strings.TrimSpace(loginSystem)
		if system == "" {
			system = cfg.SAP.System
		}
		if system == "" {
			return errors.New("no system given; use --system or set sap.system in the config")
		}

		if ok, _ := creds.IsLoggedIn(system); ok {
			fmt.Printf("Credentials for %s are already stored. Run 'sapdrive logout --system %s' first to replace them.\n", system, system)
			return nil
		}

		if loginSSO {
			if err := creds.SetLoggedIn(system, "", true); err != nil {
				return err
			}
			fmt.Printf("✅ Single sign-on recorded for %s\n", system)
			return nil
		}

		reader := bufio.NewReader(os.Stdin)
		user := strings.TrimSpace(loginUser)
		if user == "" {
			fmt.Printf("SAP user for %s: ", system)
			line, _ := reader.ReadString('\n')
			user = strings.TrimSpace(line)
		}
		if user == "" {
			return errors.New("user is required")
		}

		fmt.Print("Password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		if len(pw) == 0 {
			return errors.New("password is required")
		}

		km, err := keychain.GetManager()
		if err != nil {
			fmt.Println("❌ Secure storage is not available on this system.")
			fmt.Println("   Keychain is only supported on macOS and Windows.")
			return err
		}
		if err := km.SaveSAPCredentials(system, user, string(pw)); err != nil {
			fmt.Println("❌ Failed to save credentials securely.")
			return err
		}
		if err := creds.SetLoggedIn(system, user, false); err != nil {
			return err
		}

		fmt.Printf("✅ Credentials for %s stored as %s\n", system, user)
		fmt.Println("   You're ready to run 'sapdrive connect'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginSystem, "system", "", "SAP Logon system description")
	loginCmd.Flags().StringVar(&loginUser, "user", "", "SAP user name")
	loginCmd.Flags().BoolVar(&loginSSO, "sso", false, "Record single sign-on instead of storing a password")
}
