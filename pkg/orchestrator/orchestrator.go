//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . DependencyResolver,PlanExecutor,StoreCleaner

// Package orchestrator ties the manifest, resolver, lockfile, plan and
// installer together into the command-level flows.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tressel-dev/tressel/internal/logger"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/manifest"
	"github.com/tressel-dev/tressel/pkg/model"
	"github.com/tressel-dev/tressel/pkg/plan"
	"github.com/tressel-dev/tressel/pkg/registry"
	"github.com/tressel-dev/tressel/pkg/resolve"
)

// SnapshotDir is the private directory under node_modules holding install
// bookkeeping.
const SnapshotDir = ".tressel"

// Orchestrator coordinates installs for one project directory.
type Orchestrator struct {
	Resolver DependencyResolver
	Fetcher  registry.MetadataFetcher
	Executor PlanExecutor
	Store    StoreCleaner
	// Dir is the project root holding package.json and node_modules.
	Dir             string
	DisallowScripts bool
	Hooks           Hooks
}

// New creates an orchestrator. Hooks can be nil if no event handling is
// needed.
func New(resolver DependencyResolver, fetcher registry.MetadataFetcher, executor PlanExecutor, store StoreCleaner, dir string, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Resolver: resolver,
		Fetcher:  fetcher,
		Executor: executor,
		Store:    store,
		Dir:      dir,
		Hooks:    hooks,
	}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

func (o *Orchestrator) lockfilePath() string {
	return filepath.Join(o.Dir, resolve.LockfileName)
}

func (o *Orchestrator) modulesDir() string {
	return filepath.Join(o.Dir, "node_modules")
}

func (o *Orchestrator) snapshotPath() string {
	return filepath.Join(o.modulesDir(), SnapshotDir, "plan.json")
}

// Install brings node_modules in line with the manifest, resolving through
// the lockfile when one exists.
func (o *Orchestrator) Install(ctx context.Context, opts InstallOptions) error {
	m, err := manifest.LoadOrDefault(o.Dir)
	if err != nil {
		return err
	}
	graph, err := resolve.LoadGraph(o.lockfilePath())
	if err != nil {
		return err
	}
	return o.sync(ctx, m, graph, opts.Immutable)
}

// Update discards the lockfile's pins and re-resolves every requirement to
// the newest satisfying versions.
func (o *Orchestrator) Update(ctx context.Context) error {
	m, err := manifest.LoadOrDefault(o.Dir)
	if err != nil {
		return err
	}
	return o.sync(ctx, m, resolve.NewGraph(), false)
}

// sync resolves, locks, plans and installs. No lockfile is written if
// resolution fails, and no snapshot is written if any install step fails.
func (o *Orchestrator) sync(ctx context.Context, m *manifest.Manifest, graph *resolve.Graph, immutable bool) error {
	specs := m.Specifiers()

	emit(o.Hooks, Event{Phase: "resolving", Msg: fmt.Sprintf("%d requirements", len(specs))})
	if err := o.Resolver.Append(ctx, graph, specs, immutable); err != nil {
		return err
	}

	if !immutable {
		emit(o.Hooks, Event{Phase: "locking", Msg: resolve.LockfileName})
		if err := resolve.FromGraph(graph).Write(o.lockfilePath()); err != nil {
			return err
		}
	}

	emit(o.Hooks, Event{Phase: "planning"})
	trees, err := graph.BuildTrees(specs)
	if err != nil {
		return err
	}
	fresh := plan.New(trees)

	snapshot, err := plan.ReadSnapshot(o.snapshotPath())
	if err != nil {
		logger.Warnf("Ignoring unreadable plan snapshot: %v", err)
	}
	if snapshot != nil && fresh.Equal(snapshot) && fresh.Satisfies(m) {
		emit(o.Hooks, Event{Phase: "done", Msg: "already up to date"})
		return nil
	}

	emit(o.Hooks, Event{Phase: "installing", Msg: fmt.Sprintf("%d packages", fresh.Size())})
	if err := o.Executor.ExecutePlan(ctx, fresh); err != nil {
		return err
	}
	if o.DisallowScripts {
		logger.Debug("Lifecycle scripts disabled by configuration")
	} else if err := o.Executor.RunScripts(ctx, fresh); err != nil {
		return err
	}
	if err := o.Executor.SetupBins(fresh); err != nil {
		return err
	}
	if err := fresh.WriteSnapshot(o.snapshotPath()); err != nil {
		return err
	}

	emit(o.Hooks, Event{Phase: "done", Msg: fmt.Sprintf("%d packages installed", fresh.Size())})
	return nil
}

// Add writes new requirements into the manifest and installs. A bare name is
// resolved to the latest dist-tag; "name@range" keeps the given range.
func (o *Orchestrator) Add(ctx context.Context, names []string, opts AddOptions) error {
	m, err := manifest.LoadOrDefault(o.Dir)
	if err != nil {
		return err
	}
	for _, raw := range names {
		name, versionRange := splitNameRange(raw)
		if versionRange == "" {
			metadata, err := o.Fetcher.FetchMetadata(ctx, name)
			if err != nil {
				return err
			}
			latest, ok := metadata.Latest()
			if !ok {
				return errors.Wrapf(errors.ErrPackageNotFound, "%s has no latest tag", name)
			}
			if opts.Pin {
				versionRange = latest
			} else {
				versionRange = "^" + latest
			}
		}
		logger.Info("Adding dependency", logger.Fields{"name": name, "range": versionRange, "dev": opts.Dev})
		m.SetDependency(name, versionRange, opts.Dev)
	}
	if err := m.Save(o.Dir); err != nil {
		return err
	}
	return o.Install(ctx, InstallOptions{})
}

// Remove drops requirements from the manifest and installs.
func (o *Orchestrator) Remove(ctx context.Context, names []string, dev bool) error {
	m, err := manifest.LoadOrDefault(o.Dir)
	if err != nil {
		return err
	}
	for _, name := range names {
		if !m.RemoveDependency(name, dev) {
			logger.Warnf("%s is not a declared dependency", name)
		}
	}
	if err := m.Save(o.Dir); err != nil {
		return err
	}
	return o.Install(ctx, InstallOptions{})
}

// Why explains why a package is installed: one line per requirement chain
// from package.json down to each resolved version of name.
func (o *Orchestrator) Why(_ context.Context, name string) ([]string, error) {
	graph, err := resolve.LoadGraph(o.lockfilePath())
	if err != nil {
		return nil, err
	}
	m, err := manifest.LoadOrDefault(o.Dir)
	if err != nil {
		return nil, err
	}

	targets := graph.ResolvedVersions(name)
	if len(targets) == 0 {
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "%s is not in the lockfile", name)
	}

	var lines []string
	for _, target := range targets {
		chains := requirementChains(graph, m, target, map[string]bool{target.ID(): true})
		for _, chain := range chains {
			lines = append(lines, strings.Join(chain, " > "))
		}
	}
	return lines, nil
}

// requirementChains walks the graph upward from dep, collecting every acyclic
// path of requirers and prepending "package.json" where the manifest itself
// requires the identity.
func requirementChains(g *resolve.Graph, m *manifest.Manifest, dep *model.ResolvedDependency, onPath map[string]bool) [][]string {
	var chains [][]string
	if manifestRequires(g, m, dep) {
		chains = append(chains, []string{"package.json", dep.ID()})
	}
	for _, requirer := range g.RequirersOf(dep.ID()) {
		if onPath[requirer.ID()] {
			continue
		}
		onPath[requirer.ID()] = true
		for _, parent := range requirementChains(g, m, requirer, onPath) {
			chain := append(append([]string{}, parent...), dep.ID())
			chains = append(chains, chain)
		}
		delete(onPath, requirer.ID())
	}
	if len(chains) == 0 {
		chains = append(chains, []string{dep.ID()})
	}
	return chains
}

func manifestRequires(g *resolve.Graph, m *manifest.Manifest, dep *model.ResolvedDependency) bool {
	for _, spec := range m.Specifiers() {
		if resolved, ok := g.Resolve(spec); ok && resolved.ID() == dep.ID() {
			return true
		}
	}
	return false
}

// Clean removes node_modules and the package store.
func (o *Orchestrator) Clean(_ context.Context) error {
	if err := os.RemoveAll(o.modulesDir()); err != nil {
		return errors.Wrap(err, "failed to remove node_modules")
	}
	if o.Store != nil {
		if err := o.Store.Clean(); err != nil {
			return err
		}
	}
	emit(o.Hooks, Event{Phase: "done", Msg: "cleaned"})
	return nil
}

// splitNameRange splits "name@range" into its parts. The leading @ of a
// scoped name is not a separator.
func splitNameRange(raw string) (name, versionRange string) {
	if idx := strings.LastIndex(raw, "@"); idx > 0 {
		return raw[:idx], raw[idx+1:]
	}
	return raw, ""
}
