package cli

import (
	"github.com/spf13/cobra"
	"github.com/tressel-dev/tressel/pkg/orchestrator"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		immutable   bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install all dependencies from package.json",
		Long: `Resolve the dependencies declared in package.json, write the lockfile
and place every package under node_modules. With --immutable the lockfile
is used as-is and resolution is skipped; a manifest requirement the
lockfile cannot satisfy fails the install.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstall(cmd, immutable, concurrency)
		},
	}

	cmd.Flags().BoolVar(&immutable, "immutable", false, "Use the lockfile verbatim, do not re-resolve")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Number of parallel downloads (0=config default)")

	return cmd
}

func runInstall(cmd *cobra.Command, immutable bool, concurrency int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir, err := projectDir()
	if err != nil {
		return err
	}
	orch, err := buildOrchestrator(cfg, dir, concurrency)
	if err != nil {
		return err
	}
	return orch.Install(cmd.Context(), orchestrator.InstallOptions{Immutable: immutable})
}
