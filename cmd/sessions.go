// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"

	"sapdrive/cli/internal/bridge"
	"sapdrive/cli/internal/config"
	"sapdrive/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var attachTo string

// sessionsCmd lists the sessions open on the workstation and optionally
// attaches subsequent commands to one of them.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List open SAP sessions",
	Long: `The sessions command shows every SAP GUI session the bridge agent can see,
with its connection and session indices, system, client, user, and current
transaction.

With --attach CONN:SES the bridge agent switches its attached session, so
following 'sapdrive run' invocations drive that session.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		br := bridge.New()
		if err := br.Connect(ctx, cfg.Bridge.Addr); err != nil {
			logging.PresentBridgeError(err.Error())
			return err
		}
		defer br.Close(ctx)

		sessions, err := br.ListSessions(ctx)
		if err != nil {
			fmt.Println(logging.PresentError("listing sessions", err))
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No open SAP sessions. Run 'sapdrive connect' first.")
			return nil
		}

		rows := pterm.TableData{{"ID", "System", "Client", "User", "Transaction", "Busy"}}
		for _, s := range sessions {
			busy := ""
			if s.Busy {
				busy = "yes"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d:%d", s.ConnectionIndex, s.SessionIndex),
				s.System, s.Client, s.User, s.Transaction, busy,
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}

		if attachTo != "" {
			conn, ses, err := parseSessionID(attachTo)
			if err != nil {
				return err
			}
			if err := br.AttachSession(ctx, conn, ses); err != nil {
				fmt.Println(logging.PresentError("attaching session", err))
				return err
			}
			fmt.Printf("✅ Attached to session %d:%d\n", conn, ses)
		}
		return nil
	},
}

// parseSessionID splits "CONN:SES" into its two indices.
func parseSessionID(id string) (int, int, error) {
	for i := 0; i < len(id); i++ {
		if id[i] == ':' {
			conn, err := strconv.Atoi(id[:i])
			if err != nil {
				return 0, 0, fmt.Errorf("invalid session id %q", id)
			}
			ses, err := strconv.Atoi(id[i+1:])
			if err != nil {
				return 0, 0, fmt.Errorf("invalid session id %q", id)
			}
			return conn, ses, nil
		}
	}
	return 0, 0, fmt.Errorf("invalid session id %q, expected CONN:SES", id)
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().StringVar(&attachTo, "attach", "", "Attach to session CONN:SES for subsequent runs")
}
