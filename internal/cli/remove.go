package cli

import (
	"github.com/spf13/cobra"
)

// NewRemoveCmd creates the remove command.
func NewRemoveCmd() *cobra.Command {
	var dev bool

	cmd := &cobra.Command{
		Use:   "remove PACKAGE...",
		Short: "Remove dependencies from package.json and reinstall",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args, dev)
		},
	}

	cmd.Flags().BoolVarP(&dev, "dev", "D", false, "Remove from devDependencies")

	return cmd
}

func runRemove(cmd *cobra.Command, names []string, dev bool) error {
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
	return orch.Remove(cmd.Context(), names, dev)
}
