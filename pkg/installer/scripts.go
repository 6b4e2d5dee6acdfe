package installer

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/tressel-dev/tressel/internal/logger"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/fsutil"
	"github.com/tressel-dev/tressel/pkg/manifest"
	"github.com/tressel-dev/tressel/pkg/model"
	"github.com/tressel-dev/tressel/pkg/plan"
)

// RunScripts executes the lifecycle scripts of every placed package, parents
// strictly before their children, in the fixed order preinstall, install,
// postinstall. The first failing script aborts the whole run.
func (i *Installer) RunScripts(ctx context.Context, p *plan.Plan) error {
	emit(i.hooks, Event{Phase: "scripts"})
	for _, name := range sortedTreeNames(p.Trees) {
		if err := i.runTreeScripts(ctx, p.Trees[name], nil); err != nil {
			return err
		}
	}
	return nil
}

func (i *Installer) runTreeScripts(ctx context.Context, node *model.DependencyTree, prefix []string) error {
	if err := i.runNodeScripts(ctx, node, prefix); err != nil {
		return err
	}
	childPrefix := append(append([]string{}, prefix...), node.Root.Name)
	names := make([]string, 0, len(node.Children))
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := i.runTreeScripts(ctx, node.Children[name], childPrefix); err != nil {
			return err
		}
	}
	return nil
}

func (i *Installer) runNodeScripts(ctx context.Context, node *model.DependencyTree, prefix []string) error {
	dep := node.Root

	modDir, err := i.nodeModulesDirFor(prefix)
	if err != nil {
		return errors.Wrapf(errors.ErrInstallPath, "%s: %v", dep.ID(), err)
	}
	pkgDir, err := fsutil.ScopedJoin(modDir, dep.Name)
	if err != nil {
		return errors.Wrapf(errors.ErrInstallPath, "%s: %v", dep.ID(), err)
	}

	m, err := manifest.Load(pkgDir)
	if err != nil {
		// A package without a manifest has no scripts to run.
		if err == errors.ErrManifestMissing {
			return nil
		}
		return err
	}

	env := map[string]string{
		"PATH": filepath.Join(modDir, ".bin") + string(os.PathListSeparator) + os.Getenv("PATH"),
	}
	for _, name := range manifest.LifecycleScripts {
		command, ok := m.Script(name)
		if !ok {
			continue
		}
		logger.Debug("Running lifecycle script", logger.Fields{"id": dep.ID(), "script": name})
		code, err := i.runner.Run(ctx, command, pkgDir, env)
		if err != nil || code != 0 {
			return errors.Wrapf(errors.ErrScriptFailed, "%s script %q exited with code %d", dep.ID(), name, code)
		}
	}
	return nil
}

func sortedTreeNames(trees map[string]*model.DependencyTree) []string {
	names := make([]string, 0, len(trees))
	for name := range trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
