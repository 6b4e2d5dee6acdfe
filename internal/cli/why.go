package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhyCmd creates the why command.
func NewWhyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "why PACKAGE",
		Short: "Explain why a package is installed",
		Long: `Print every requirement chain from package.json down to each installed
version of the given package, based on the lockfile.`,
		Args: cobra.ExactArgs(1),
		RunE: runWhy,
	}
}

func runWhy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir, err := projectDir()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, dir, 0)
	if err != nil {
		return err
	}
	lines, err := orch.Why(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}
