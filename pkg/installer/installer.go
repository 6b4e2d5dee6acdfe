// Package installer materializes an install plan under node_modules by
// hardlinking package contents out of the store, nesting each dependency
// under its requirer without hoisting.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tressel-dev/tressel/internal/logger"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/fsutil"
	"github.com/tressel-dev/tressel/pkg/model"
	"github.com/tressel-dev/tressel/pkg/plan"
	"github.com/tressel-dev/tressel/pkg/script"
	"golang.org/x/sync/errgroup"
)

// markerPrefix names the per-identity files that record a completed
// placement inside a node_modules directory.
const markerPrefix = ".installed!"

// PackageStore is the subset of the store the installer consumes.
type PackageStore interface {
	Download(ctx context.Context, dep *model.ResolvedDependency) error
	PackageDir(dep *model.ResolvedDependency) (string, error)
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // downloading|installing|scripts|bins|done|error
	ID    string // package identity name@version
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Installer places plan trees under a node_modules directory.
type Installer struct {
	store      PackageStore
	runner     script.Runner
	modulesDir string
	hooks      Hooks
}

// New creates an installer targeting modulesDir.
func New(store PackageStore, runner script.Runner, modulesDir string, hooks Hooks) *Installer {
	return &Installer{
		store:      store,
		runner:     runner,
		modulesDir: modulesDir,
		hooks:      hooks,
	}
}

// ExecutePlan downloads and places every node of every tree. Within a branch
// a parent is fully placed before its children are queued; independent
// branches proceed concurrently. The first failure cancels all outstanding
// work.
func (i *Installer) ExecutePlan(ctx context.Context, p *plan.Plan) error {
	emit(i.hooks, Event{Phase: "downloading", Msg: fmt.Sprintf("%d packages", p.Size())})

	g, ctx := errgroup.WithContext(ctx)

	// Warm the store up front so downloads overlap placement. Placement
	// awaits its own Download call, which joins the in-flight fetch.
	var warmup sync.WaitGroup
	defer warmup.Wait()
	for _, tree := range p.Trees {
		tree.Walk(func(_ []string, node *model.DependencyTree) {
			warmup.Add(1)
			go func() {
				defer warmup.Done()
				_ = i.store.Download(ctx, node.Root)
			}()
		})
	}

	for _, tree := range p.Trees {
		tree := tree
		g.Go(func() error {
			return i.installBranch(ctx, g, tree, nil)
		})
	}
	return g.Wait()
}

// installBranch places one node and then queues its children. Spawning
// children from inside a group goroutine is safe because the group's counter
// stays above zero until this function returns.
func (i *Installer) installBranch(ctx context.Context, g *errgroup.Group, node *model.DependencyTree, prefix []string) error {
	if err := i.installNode(ctx, node, prefix); err != nil {
		return err
	}
	childPrefix := append(append([]string{}, prefix...), node.Root.Name)
	for _, child := range node.Children {
		child := child
		g.Go(func() error {
			return i.installBranch(ctx, g, child, childPrefix)
		})
	}
	return nil
}

func (i *Installer) installNode(ctx context.Context, node *model.DependencyTree, prefix []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dep := node.Root

	modDir, err := i.nodeModulesDirFor(prefix)
	if err != nil {
		return errors.Wrapf(errors.ErrInstallPath, "%s: %v", dep.ID(), err)
	}
	target, err := fsutil.ScopedJoin(modDir, dep.Name)
	if err != nil {
		return errors.Wrapf(errors.ErrInstallPath, "%s: %v", dep.ID(), err)
	}

	marker := filepath.Join(modDir, markerFor(dep))
	if _, err := os.Stat(marker); err == nil {
		logger.Debug("Already installed", logger.Fields{"id": dep.ID()})
		return nil
	}

	if err := i.store.Download(ctx, dep); err != nil {
		return err
	}
	pkgDir, err := i.store.PackageDir(dep)
	if err != nil {
		return err
	}

	// Replace whatever version was placed here before.
	if err := os.RemoveAll(target); err != nil {
		return errors.Wrapf(err, "failed to clear %s", target)
	}
	if err := removeMarkersFor(modDir, dep.Name); err != nil {
		return err
	}

	if _, err := fsutil.HardlinkTree(pkgDir, target); err != nil {
		return errors.Wrapf(errors.ErrInstallLink, "%s: %v", dep.ID(), err)
	}
	if err := writeMarker(marker); err != nil {
		return err
	}

	emit(i.hooks, Event{Phase: "installing", ID: dep.ID()})
	return nil
}

// nodeModulesDirFor returns the node_modules directory holding packages at
// the given ancestor path, e.g. ["foo"] maps to
// node_modules/foo/node_modules.
func (i *Installer) nodeModulesDirFor(prefix []string) (string, error) {
	if len(prefix) == 0 {
		return i.modulesDir, nil
	}
	parts := make([]string, 0, len(prefix)*2)
	for _, ancestor := range prefix {
		parts = append(parts, ancestor, "node_modules")
	}
	return fsutil.ScopedJoin(i.modulesDir, parts...)
}

// markerFor flattens the identity into a single path element; scoped names
// contain a slash.
func markerFor(dep *model.ResolvedDependency) string {
	return markerPrefix + strings.ReplaceAll(dep.ID(), "/", "+")
}

func writeMarker(path string) error {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return errors.Wrap(err, "failed to create marker directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to write install marker")
	}
	return f.Close()
}

// removeMarkersFor drops markers of any version of name so an interrupted
// replacement is redone rather than trusted.
func removeMarkersFor(modDir, name string) error {
	flat := strings.ReplaceAll(name, "/", "+")
	stale, err := filepath.Glob(filepath.Join(modDir, markerPrefix+flat+"@*"))
	if err != nil {
		return errors.Wrap(err, "failed to list install markers")
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return errors.Wrap(err, "failed to remove stale install marker")
		}
	}
	return nil
}
