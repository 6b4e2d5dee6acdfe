package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tressel-dev/tressel/internal/cli"
)

var (
	configPath string
	verbose    bool
	directory  string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tressel",
		Short: "A fast npm-compatible package installer",
		Long: `tressel installs npm packages with:
- deterministic lockfile-based resolution
- a content-addressed store shared across installs
- nested, hoisting-free node_modules layouts`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&directory, "directory", "C", "", "project directory (default: working directory)")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.Directory = &directory

	// Add subcommands
	cmd.AddCommand(
		cli.NewInstallCmd(),
		cli.NewAddCmd(),
		cli.NewRemoveCmd(),
		cli.NewUpdateCmd(),
		cli.NewWhyCmd(),
		cli.NewRunCmd(),
		cli.NewCleanCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
