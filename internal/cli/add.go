package cli

import (
	"github.com/spf13/cobra"
	"github.com/tressel-dev/tressel/pkg/orchestrator"
)

// NewAddCmd creates the add command.
func NewAddCmd() *cobra.Command {
	var (
		dev bool
		pin bool
	)

	cmd := &cobra.Command{
		Use:   "add PACKAGE...",
		Short: "Add dependencies to package.json and install them",
		Long: `Add one or more packages to package.json and install them. A bare name
is resolved to the latest published version and written as a caret range;
NAME@RANGE keeps the given range verbatim.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args, dev, pin)
		},
	}

	cmd.Flags().BoolVarP(&dev, "dev", "D", false, "Add to devDependencies")
	cmd.Flags().BoolVar(&pin, "pin", false, "Write the exact version instead of a caret range")

	return cmd
}

func runAdd(cmd *cobra.Command, names []string, dev, pin bool) error {
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
	return orch.Add(cmd.Context(), names, orchestrator.AddOptions{Dev: dev, Pin: pin})
}
