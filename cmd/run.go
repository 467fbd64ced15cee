// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"sapdrive/cli/internal/bridge"
	"sapdrive/cli/internal/config"
	"sapdrive/cli/internal/export"
	"sapdrive/cli/internal/keychain"
	"sapdrive/cli/internal/logging"
	"sapdrive/cli/internal/progress"
	"sapdrive/cli/internal/scripting"
	"sapdrive/cli/internal/xdg"

	"atomicgo.dev/cursor"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	runTCode   string
	runFilters []string
	runTrigger string
	runCSV     string
	runTable   string
	runGrid    string
	verboseRun bool
)

// runCmd executes one transaction on the attached session: navigate,
// fill the selection screen, execute, clear interrupting dialogs, and
// check the status bar. Results can optionally be exported from the ALV
// grid to CSV or a PostgreSQL table.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a transaction on the attached SAP session",
	Long: `The run command drives one transaction end to end on the attached session.
It opens the transaction, fills the selection screen fields given with
--filter, triggers execution, dismisses any modal dialog that interrupts,
and reads the status bar to decide success or failure.

Filter fields that do not exist on the current screen variant are skipped
with a warning instead of failing the run. With --csv or --table the ALV
grid contents are exported after a successful run.`,
	Example: `  sapdrive run --tcode FBL3N --filter SD_SAKNR-LOW=113100 --filter SD_BUKRS-LOW=1000
  sapdrive run --tcode ZQUERY --trigger wnd[0]/tbar[1]/btn[8] --csv items.csv
  sapdrive run --tcode FBL3N --filter SD_BUKRS-LOW=1000 --table fbl3n_items`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if verboseRun {
			os.Setenv("SAPDRIVE_VERBOSE", "1")
		}
		if strings.TrimSpace(runTCode) == "" {
			return errors.New("--tcode is required")
		}

		filters, err := scripting.ParseFilters(runFilters)
		if err != nil {
			return err
		}

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

		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Transaction: ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(runTCode))
		if len(filters) > 0 {
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Filters:     ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(fmt.Sprint(len(filters))))
		}
		pterm.Println()

		driver := scripting.NewDriver(br, scripting.Options{
			FindRetries:    cfg.Timing.FindRetries,
			FindRetryDelay: cfg.Timing.FindRetryDelay(),
			PollInterval:   cfg.Timing.PollInterval(),
			ReadyTimeout:   cfg.Timing.ReadyTimeout(),
		})

		render := progress.NewRenderer()
		render.Quiet = true
		driver.OnEvent = render.Handle

		// Live step line, removed when the run settles.
		cursor.Hide()
		area, aerr := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
		frameIdx := 0
		spinStop := make(chan struct{})
		var spinWG sync.WaitGroup
		if aerr == nil {
			spinWG.Add(1)
			go func() {
				defer spinWG.Done()
				t := time.NewTicker(120 * time.Millisecond)
				defer t.Stop()
				for {
					select {
					case <-t.C:
						frameIdx++
						area.Update(render.LiveLine(brailleFrames[frameIdx%len(brailleFrames)]))
					case <-spinStop:
						return
					}
				}
			}()
		}

		startAt := time.Now()
		res := driver.Run(ctx, runTCode, filters, runTrigger)
		elapsed := time.Since(startAt).Round(time.Millisecond)
		appendRunRecord(runTCode, res, elapsed)

		close(spinStop)
		spinWG.Wait()
		if area != nil {
			_ = area.Stop()
		}
		cursor.Show()

		for _, w := range res.Warnings {
			pterm.Warning.Println(w)
		}
		if n := render.State.DismissedCount(); n > 0 {
			pterm.Info.Printf("dismissed %d popup(s)\n", n)
		}

		if !res.Succeeded() {
			pterm.Error.Printf("run failed at step %s\n", progress.StepLabel(res.FailedAt))
			if res.Err != nil {
				pterm.Println(logging.PresentError("", res.Err))
			}
			return errors.New("transaction run failed")
		}

		if res.Status.Text != "" {
			pterm.Success.Printf("%s (%s)\n", res.Status.Text, elapsed)
		} else {
			pterm.Success.Printf("transaction %s completed (%s)\n", runTCode, elapsed)
		}

		if runCSV == "" && runTable == "" {
			return nil
		}
		return exportResults(cmd, br, cfg)
	},
}

// appendRunRecord keeps a local history of runs in the XDG state dir.
// Best effort; history must never fail a run.
func appendRunRecord(tcode string, res scripting.Result, elapsed time.Duration) {
	dir, err := xdg.StateDir()
	if err != nil {
		return
	}
	rec := struct {
		At       time.Time `json:"at"`
		TCode    string    `json:"tcode"`
		Step     string    `json:"step"`
		Status   string    `json:"status,omitempty"`
		Warnings int       `json:"warnings,omitempty"`
		Elapsed  string    `json:"elapsed"`
	}{
		At:       time.Now(),
		TCode:    tcode,
		Step:     string(res.Step),
		Status:   res.Status.Text,
		Warnings: len(res.Warnings),
		Elapsed:  elapsed.String(),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(append(b, '\n'))
}

// exportResults pulls the ALV grid and writes it to the requested sinks.
func exportResults(cmd *cobra.Command, br bridge.Bridge, cfg config.Config) error {
	ctx := cmd.Context()

	gridPath := runGrid
	if gridPath == "" {
		gridPath = export.DefaultGridPath
	}

	stop := startInlineSpinner(os.Stdout, "reading result grid", stickFrames, 120*time.Millisecond)
	table, err := export.Extract(ctx, br, gridPath)
	stop()
	if err != nil {
		pterm.Error.Println("could not read the result grid")
		pterm.Println(logging.PresentError("", err))
		return err
	}
	pterm.Info.Printf("extracted %d rows, %d columns\n", len(table.Rows), len(table.Columns))

	if runCSV != "" {
		if err := export.WriteCSVFile(runCSV, table); err != nil {
			pterm.Println(logging.PresentError("writing CSV", err))
			return err
		}
		pterm.Success.Printf("wrote %s\n", runCSV)
	}

	if runTable != "" {
		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		dsn, err := km.LoadExportDSN()
		if err != nil || strings.TrimSpace(dsn) == "" {
			pterm.Warning.Println("no export database configured; run 'sapdrive exportdb' first")
			return errors.New("export database not configured")
		}

		stop := startInlineSpinner(os.Stdout, "loading into database", stickFrames, 120*time.Millisecond)
		pool, err := export.Connect(ctx, dsn)
		if err != nil {
			stop()
			pterm.Println(logging.PresentError("", err))
			return err
		}
		defer pool.Close()

		n, err := export.NewLoader(pool).Load(ctx, runTable, table)
		stop()
		if err != nil {
			pterm.Println(logging.PresentError("", err))
			return err
		}
		pterm.Success.Printf("inserted %d rows into %s\n", n, runTable)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runTCode, "tcode", "", "Transaction code to run")
	runCmd.Flags().StringArrayVar(&runFilters, "filter", nil, "Selection screen field as FIELD=VALUE (repeatable)")
	runCmd.Flags().StringVar(&runTrigger, "trigger", "", "Control path to press instead of the execute key")
	runCmd.Flags().StringVar(&runCSV, "csv", "", "Write the result grid to this CSV file")
	runCmd.Flags().StringVar(&runTable, "table", "", "Load the result grid into this PostgreSQL table")
	runCmd.Flags().StringVar(&runGrid, "grid", "", "Result grid control path (default ALV grid location)")
	runCmd.Flags().BoolVarP(&verboseRun, "verbose", "v", false, "Enable verbose debug output")
}
