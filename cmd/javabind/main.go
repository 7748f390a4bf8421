package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/javabind/cmd/javabind/commands"
	"github.com/teranos/javabind/logger"
)

var rootCmd = &cobra.Command{
	Use:   "javabind",
	Short: "javabind - Java bindings for UniFFI components",
	Long: `javabind - Generate Java (JNA) bindings from UniFFI interface descriptions.

Each component description becomes a Java package: one file per top-level
declaration, plus the FFI library interface and the converters that move
values across the native boundary.

Available commands:
  generate     - Generate Java sources for one or more descriptions
  print-repr   - Print the decoded model of a description
  config       - Show, validate or create javabind.toml
  scaffolding  - Not provided (scaffolding comes from the host framework)
  version      - Show version information

Examples:
  javabind generate --out-dir src/main/java arithmetic.yaml
  javabind generate --watch --config javabind.toml *.yaml
  javabind print-repr geometry.yaml
  javabind config init --package com.example.geometry`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(false, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.PrintReprCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.ScaffoldingCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
