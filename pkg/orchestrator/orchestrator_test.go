package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/manifest"
	"github.com/tressel-dev/tressel/pkg/model"
	"github.com/tressel-dev/tressel/pkg/orchestrator/mocks"
	"github.com/tressel-dev/tressel/pkg/registry"
	registrymocks "github.com/tressel-dev/tressel/pkg/registry/mocks"
	"github.com/tressel-dev/tressel/pkg/resolve"
	"go.uber.org/mock/gomock"
)

func writeManifest(t *testing.T, dir string, m *manifest.Manifest) {
	t.Helper()
	require.NoError(t, m.Save(dir))
}

// populateWith returns an Append stub that records the given relations into
// the graph, standing in for a registry round-trip.
func populateWith(deps map[model.Specifier]*model.ResolvedDependency) func(context.Context, *resolve.Graph, []model.Specifier, bool) error {
	return func(_ context.Context, g *resolve.Graph, _ []model.Specifier, _ bool) error {
		for spec, dep := range deps {
			g.AddRelation(spec, dep)
		}
		return nil
	}
}

func leftPad(version string) *model.ResolvedDependency {
	return &model.ResolvedDependency{
		Name:    "left-pad",
		Version: version,
		Tarball: "https://registry.example.org/left-pad/-/left-pad-" + version + ".tgz",
	}
}

func TestInstallResolvesLocksAndExecutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{
		Name:         "app",
		Version:      "1.0.0",
		Dependencies: map[string]string{"left-pad": "^1.0.0"},
	})

	spec := model.NewSpecifier("left-pad", "^1.0.0")
	resolver := mocks.NewMockDependencyResolver(ctrl)
	resolver.EXPECT().
		Append(gomock.Any(), gomock.Any(), []model.Specifier{spec}, false).
		DoAndReturn(populateWith(map[model.Specifier]*model.ResolvedDependency{spec: leftPad("1.2.0")}))

	executor := mocks.NewMockPlanExecutor(ctrl)
	gomock.InOrder(
		executor.EXPECT().ExecutePlan(gomock.Any(), gomock.Any()).Return(nil),
		executor.EXPECT().RunScripts(gomock.Any(), gomock.Any()).Return(nil),
		executor.EXPECT().SetupBins(gomock.Any()).Return(nil),
	)

	var phases []string
	o := New(resolver, nil, executor, nil, dir, Hooks{OnEvent: func(e Event) {
		phases = append(phases, e.Phase)
	}})
	require.NoError(t, o.Install(context.Background(), InstallOptions{}))

	assert.FileExists(t, filepath.Join(dir, resolve.LockfileName))
	assert.FileExists(t, filepath.Join(dir, "node_modules", SnapshotDir, "plan.json"))
	assert.Equal(t, []string{"resolving", "locking", "planning", "installing", "done"}, phases)
}

func TestInstallShortCircuitsWhenPlanUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{
		Name:         "app",
		Version:      "1.0.0",
		Dependencies: map[string]string{"left-pad": "^1.0.0"},
	})

	spec := model.NewSpecifier("left-pad", "^1.0.0")
	resolver := mocks.NewMockDependencyResolver(ctrl)
	resolver.EXPECT().
		Append(gomock.Any(), gomock.Any(), gomock.Any(), false).
		DoAndReturn(populateWith(map[model.Specifier]*model.ResolvedDependency{spec: leftPad("1.2.0")})).
		Times(2)

	executor := mocks.NewMockPlanExecutor(ctrl)
	executor.EXPECT().ExecutePlan(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	executor.EXPECT().RunScripts(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	executor.EXPECT().SetupBins(gomock.Any()).Return(nil).Times(1)

	o := New(resolver, nil, executor, nil, dir, Hooks{})
	require.NoError(t, o.Install(context.Background(), InstallOptions{}))
	// The snapshot now matches the fresh plan; no install work happens.
	require.NoError(t, o.Install(context.Background(), InstallOptions{}))
}

func TestInstallImmutableSkipsLockfileWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{
		Name:         "app",
		Version:      "1.0.0",
		Dependencies: map[string]string{"left-pad": "^1.0.0"},
	})

	spec := model.NewSpecifier("left-pad", "^1.0.0")
	resolver := mocks.NewMockDependencyResolver(ctrl)
	resolver.EXPECT().
		Append(gomock.Any(), gomock.Any(), gomock.Any(), true).
		DoAndReturn(populateWith(map[model.Specifier]*model.ResolvedDependency{spec: leftPad("1.2.0")}))

	executor := mocks.NewMockPlanExecutor(ctrl)
	executor.EXPECT().ExecutePlan(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().RunScripts(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().SetupBins(gomock.Any()).Return(nil)

	o := New(resolver, nil, executor, nil, dir, Hooks{})
	require.NoError(t, o.Install(context.Background(), InstallOptions{Immutable: true}))
	assert.NoFileExists(t, filepath.Join(dir, resolve.LockfileName))
}

func TestInstallResolutionFailureAbortsBeforeLockfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{
		Name:         "app",
		Version:      "1.0.0",
		Dependencies: map[string]string{"does-not-exist": "^1.0.0"},
	})

	resolver := mocks.NewMockDependencyResolver(ctrl)
	resolver.EXPECT().
		Append(gomock.Any(), gomock.Any(), gomock.Any(), false).
		Return(errors.ErrPackageNotFound)

	executor := mocks.NewMockPlanExecutor(ctrl)

	o := New(resolver, nil, executor, nil, dir, Hooks{})
	err := o.Install(context.Background(), InstallOptions{})
	assert.ErrorIs(t, err, errors.ErrPackageNotFound)
	assert.NoFileExists(t, filepath.Join(dir, resolve.LockfileName))
}

func TestInstallDisallowedScripts(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{
		Name:         "app",
		Version:      "1.0.0",
		Dependencies: map[string]string{"left-pad": "^1.0.0"},
	})

	spec := model.NewSpecifier("left-pad", "^1.0.0")
	resolver := mocks.NewMockDependencyResolver(ctrl)
	resolver.EXPECT().
		Append(gomock.Any(), gomock.Any(), gomock.Any(), false).
		DoAndReturn(populateWith(map[model.Specifier]*model.ResolvedDependency{spec: leftPad("1.2.0")}))

	executor := mocks.NewMockPlanExecutor(ctrl)
	executor.EXPECT().ExecutePlan(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().SetupBins(gomock.Any()).Return(nil)
	// No RunScripts expectation: calling it would fail the controller.

	o := New(resolver, nil, executor, nil, dir, Hooks{})
	o.DisallowScripts = true
	require.NoError(t, o.Install(context.Background(), InstallOptions{}))
}

func TestAddResolvesLatestAndWritesManifest(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{Name: "app", Version: "1.0.0"})

	fetcher := registrymocks.NewMockMetadataFetcher(ctrl)
	fetcher.EXPECT().FetchMetadata(gomock.Any(), "left-pad").Return(&registry.PackageMetadata{
		Name:     "left-pad",
		DistTags: map[string]string{"latest": "1.2.0"},
		Versions: map[string]registry.VersionMetadata{"1.2.0": {Version: "1.2.0"}},
	}, nil)

	spec := model.NewSpecifier("left-pad", "^1.2.0")
	resolver := mocks.NewMockDependencyResolver(ctrl)
	resolver.EXPECT().
		Append(gomock.Any(), gomock.Any(), []model.Specifier{spec}, false).
		DoAndReturn(populateWith(map[model.Specifier]*model.ResolvedDependency{spec: leftPad("1.2.0")}))

	executor := mocks.NewMockPlanExecutor(ctrl)
	executor.EXPECT().ExecutePlan(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().RunScripts(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().SetupBins(gomock.Any()).Return(nil)

	o := New(resolver, fetcher, executor, nil, dir, Hooks{})
	require.NoError(t, o.Add(context.Background(), []string{"left-pad"}, AddOptions{}))

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "^1.2.0", m.Dependencies["left-pad"])
}

func TestAddExplicitRangeSkipsFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{Name: "app", Version: "1.0.0"})

	spec := model.NewSpecifier("left-pad", "~1.1.0")
	resolver := mocks.NewMockDependencyResolver(ctrl)
	resolver.EXPECT().
		Append(gomock.Any(), gomock.Any(), gomock.Any(), false).
		DoAndReturn(populateWith(map[model.Specifier]*model.ResolvedDependency{spec: leftPad("1.1.5")}))

	executor := mocks.NewMockPlanExecutor(ctrl)
	executor.EXPECT().ExecutePlan(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().RunScripts(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().SetupBins(gomock.Any()).Return(nil)

	// Fetcher is nil: an unexpected metadata fetch would panic.
	o := New(resolver, nil, executor, nil, dir, Hooks{})
	require.NoError(t, o.Add(context.Background(), []string{"left-pad@~1.1.0"}, AddOptions{Dev: true}))

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "~1.1.0", m.DevDependencies["left-pad"])
}

func TestRemoveDropsRequirement(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{
		Name:         "app",
		Version:      "1.0.0",
		Dependencies: map[string]string{"left-pad": "^1.0.0"},
	})

	resolver := mocks.NewMockDependencyResolver(ctrl)
	resolver.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Len(0), false).Return(nil)

	executor := mocks.NewMockPlanExecutor(ctrl)
	executor.EXPECT().ExecutePlan(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().RunScripts(gomock.Any(), gomock.Any()).Return(nil)
	executor.EXPECT().SetupBins(gomock.Any()).Return(nil)

	o := New(resolver, nil, executor, nil, dir, Hooks{})
	require.NoError(t, o.Remove(context.Background(), []string{"left-pad"}, false))

	m, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.NotContains(t, m.Dependencies, "left-pad")
}

func TestWhyTracesRequirementChains(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, &manifest.Manifest{
		Name:         "app",
		Version:      "1.0.0",
		Dependencies: map[string]string{"foo": "^1.0.0"},
	})

	foo := &model.ResolvedDependency{
		Name:         "foo",
		Version:      "1.0.0",
		Tarball:      "https://registry.example.org/foo/-/foo-1.0.0.tgz",
		Dependencies: map[string]string{"left-pad": "^2.0.0"},
	}
	graph := resolve.NewGraph()
	graph.AddRelation(model.NewSpecifier("foo", "^1.0.0"), foo)
	graph.AddRelation(model.NewSpecifier("left-pad", "^2.0.0"), leftPad("2.0.0"))
	require.NoError(t, resolve.FromGraph(graph).Write(filepath.Join(dir, resolve.LockfileName)))

	o := New(nil, nil, nil, nil, dir, Hooks{})
	lines, err := o.Why(context.Background(), "left-pad")
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json > foo@1.0.0 > left-pad@2.0.0"}, lines)

	_, err = o.Why(context.Background(), "unknown")
	assert.ErrorIs(t, err, errors.ErrPackageNotFound)
}

func TestCleanRemovesModulesAndStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "left-pad"), 0o755))

	store := mocks.NewMockStoreCleaner(ctrl)
	store.EXPECT().Clean().Return(nil)

	o := New(nil, nil, nil, store, dir, Hooks{})
	require.NoError(t, o.Clean(context.Background()))
	assert.NoDirExists(t, filepath.Join(dir, "node_modules"))
}

func TestSplitNameRange(t *testing.T) {
	tests := []struct {
		raw           string
		expectedName  string
		expectedRange string
	}{
		{"left-pad", "left-pad", ""},
		{"left-pad@^1.0.0", "left-pad", "^1.0.0"},
		{"@babel/core", "@babel/core", ""},
		{"@babel/core@7.24.0", "@babel/core", "7.24.0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			name, versionRange := splitNameRange(tt.raw)
			assert.Equal(t, tt.expectedName, name)
			assert.Equal(t, tt.expectedRange, versionRange)
		})
	}
}
