// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"sapdrive/cli/internal/bridge"
	"sapdrive/cli/internal/config"
	"sapdrive/cli/internal/creds"
	"sapdrive/cli/internal/keychain"
	"sapdrive/cli/internal/logging"
	"sapdrive/cli/internal/scripting"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	connectSystem  string
	connectClient  string
	verboseConnect bool
)

// connectCmd opens an SAP connection through the bridge agent and logs
// on with the stored credentials. SSO systems are submitted without
// credentials; post-logon popups (system message, multiple logon) are
// cleared automatically.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Open an SAP connection and log on",
	Long: `The connect command asks the bridge agent to open a connection to an SAP
system and performs the logon with the credentials stored for it.

The logon screen is detected and filled, post-logon dialogs such as the
system message or the multiple logon dialog are dismissed, and the status
bar is checked to confirm the logon actually succeeded.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseConnect {
			os.Setenv("SAPDRIVE_VERBOSE", "1")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		system := connectSystem
		if system == "" {
			system = cfg.SAP.System
		}
		if system == "" {
			return errors.New("no system given; use --system or set sap.system in the config")
		}
		client := connectClient
		if client == "" {
			client = cfg.SAP.Client
		}

		st, err := creds.Load()
		if err != nil {
			fmt.Println("⚠️  No stored credentials found.")
			fmt.Println("   Please run: sapdrive login --system " + system)
			return nil
		}
		var entry *creds.Entry
		for i := range st.Systems {
			if st.Systems[i].System == system {
				entry = &st.Systems[i]
				break
			}
		}
		if entry == nil {
			fmt.Printf("⚠️  No credentials stored for %s.\n", system)
			fmt.Println("   Please run: sapdrive login --system " + system)
			return nil
		}

		params := scripting.LogonParams{
			Client:   client,
			Language: cfg.SAP.Language,
			SSO:      entry.SSO,
		}
		if !entry.SSO {
			km, err := keychain.GetManager()
			if err != nil {
				return err
			}
			user, password, err := km.LoadSAPCredentials(system)
			if err != nil {
				fmt.Printf("❌ Could not load credentials for %s from the keychain.\n", system)
				return err
			}
			params.User = user
			params.Password = password
		}

		ctx := cmd.Context()
		br := bridge.New()
		if err := br.Connect(ctx, cfg.Bridge.Addr); err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}
		defer br.Close(ctx)

		stopSpinner := startInlineSpinner(os.Stdout, "opening connection to "+system, stickFrames, 120*time.Millisecond)
		err = br.OpenConnection(ctx, system)
		stopSpinner()
		if err != nil {
			fmt.Printf("❌ Could not open a connection to %s\n", system)
			fmt.Println(logging.PresentError("", err))
			return err
		}

		gate := scripting.NewReadyGate(br, cfg.Timing.PollInterval())
		if err := gate.Wait(ctx, cfg.Timing.ReadyTimeout()); err != nil {
			return err
		}

		stopSpinner = startInlineSpinner(os.Stdout, "logging on", stickFrames, 120*time.Millisecond)
		err = performLogon(cmd.Context(), br, gate, cfg, params)
		stopSpinner()
		if err != nil {
			fmt.Println("❌ Logon failed")
			fmt.Println(logging.PresentError("", err))
			return err
		}

		info, _ := br.SessionInfo(ctx)
		if info.User != "" {
			fmt.Printf("✅ Logged on to %s client %s as %s\n", system, info.Client, info.User)
		} else {
			fmt.Printf("✅ Logged on to %s\n", system)
		}
		fmt.Println("   You're ready to run 'sapdrive run'")
		return nil
	},
}

// performLogon handles whatever screen the fresh connection shows.
func performLogon(ctx context.Context, br bridge.Bridge, gate *scripting.ReadyGate, cfg config.Config, params scripting.LogonParams) error {
	switch scripting.DetectScreen(ctx, br) {
	case scripting.ScreenLogin:
		if err := scripting.Logon(ctx, br, params); err != nil {
			return err
		}
		if err := gate.Wait(ctx, cfg.Timing.ReadyTimeout()); err != nil {
			return err
		}
		if err := scripting.DismissLogonPopups(ctx, br, gate, cfg.Timing.ReadyTimeout()); err != nil {
			return err
		}
		st, err := scripting.VerifyLogon(ctx, br)
		if err != nil {
			return err
		}
		reportLogonStatus(st)
		return nil
	case scripting.ScreenMenu:
		// Session is already past logon, nothing to do.
		return nil
	default:
		return errors.New("session shows an unrecognized screen; log on manually and retry")
	}
}

// logonStatusPrinter picks how a non-fatal logon status message is shown.
// Warnings such as "password expires in N days" stand out; success and info
// messages are informational. Errors never reach here, VerifyLogon fails on
// them first.
func logonStatusPrinter(st scripting.StatusMessage) *pterm.PrefixPrinter {
	if st.Text == "" {
		return nil
	}
	switch st.Severity {
	case scripting.SeverityWarning:
		return &pterm.Warning
	case scripting.SeveritySuccess, scripting.SeverityInfo:
		return &pterm.Info
	default:
		return nil
	}
}

func reportLogonStatus(st scripting.StatusMessage) {
	if p := logonStatusPrinter(st); p != nil {
		p.Println(st.Text)
	}
}

func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.Flags().StringVar(&connectSystem, "system", "", "SAP Logon system description")
	connectCmd.Flags().StringVar(&connectClient, "client", "", "SAP client number")
	connectCmd.Flags().BoolVarP(&verboseConnect, "verbose", "v", false, "Enable verbose debug output")
}
