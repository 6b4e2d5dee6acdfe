package cli

import (
	"github.com/spf13/cobra"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Re-resolve every dependency to its newest satisfying version",
		Long: `Discard the lockfile's pins and resolve every requirement in
package.json again, picking the newest published versions the declared
ranges allow. The lockfile is rewritten and node_modules updated.`,
		Args: cobra.NoArgs,
		RunE: runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, _ []string) error {
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
	return orch.Update(cmd.Context())
}
