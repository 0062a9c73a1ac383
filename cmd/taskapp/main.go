// Package main provides the taskapp binary: an interactive task tracker
// backed by flat CSV files or an embedded bolt database, with an optional
// HTTP API over the same stores.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "taskapp"

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Console task tracker",
		Long: `taskapp tracks tasks for a small team.

Run without a subcommand to log in and manage tasks interactively.
Data lives in users.csv, tasks.csv and logs.csv under DATA_DIR, or in a
bolt database when STORAGE_DRIVER=bolt.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd, envFile)
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file instead of .env")

	cmd.AddCommand(serveCmd(&envFile))
	cmd.AddCommand(importCmd(&envFile))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}
