package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/manifest"
	"github.com/tressel-dev/tressel/pkg/script"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run SCRIPT [ARGS...]",
		Short: "Run a script from package.json",
		Long: `Run a script declared in the manifest's scripts section with
node_modules/.bin prepended to PATH. Extra arguments are appended to the
script command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScript,
	}
}

func runScript(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	dir, err := projectDir()
	if err != nil {
		return err
	}
	m, err := manifest.Load(dir)
	if err != nil {
		return err
	}

	name := args[0]
	command, ok := m.Script(name)
	if !ok {
		return errors.Wrapf(errors.ErrScriptFailed, "script %q is not defined in package.json", name)
	}
	for _, arg := range args[1:] {
		command += " " + arg
	}

	env := map[string]string{
		"PATH": filepath.Join(dir, "node_modules", ".bin") + string(os.PathListSeparator) + os.Getenv("PATH"),
	}
	runner := script.NewShellRunner()
	if code, err := runner.Run(cmd.Context(), command, dir, env); err != nil {
		return errors.Wrapf(errors.ErrScriptFailed, "script %q exited with code %d", name, code)
	}
	return nil
}
