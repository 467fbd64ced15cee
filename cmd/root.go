// Copyright (c) 2025 Sapdrive
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the sapdrive CLI.
// It implements subcommands for SAP credential management, session control,
// and transaction execution using the Cobra framework, with a rich terminal
// UI built on spinners and live progress areas.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"sapdrive/cli/internal/bridge"
	"sapdrive/cli/internal/config"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "sapdrive",
	Short:         "sapdrive CLI for driving SAP GUI sessions via a scripting bridge",
	Long:          `sapdrive is a command-line tool that automates SAP GUI transactions through a local scripting bridge agent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("sapdrive %s\n", Version)

			// Probe the bridge agent; its absence is not an error here.
			cfg, err := config.Load()
			if err == nil {
				ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
				defer cancel()
				br := bridge.New()
				if err := br.Connect(ctx, cfg.Bridge.Addr); err == nil {
					defer br.Close(ctx)
					if v, err := br.Version(ctx); err == nil {
						fmt.Printf("bridge agent %s\n", v)
						return nil
					}
				}
			}
			fmt.Println("bridge agent unavailable")
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and bridge agent version information")
}
