package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tressel-dev/tressel/pkg/model"
)

func dep(name, version string, deps map[string]string) *model.ResolvedDependency {
	return &model.ResolvedDependency{
		Name:         name,
		Version:      version,
		Tarball:      "https://example.com/" + name + "-" + version + ".tgz",
		Dependencies: deps,
	}
}

func TestBuildTreesNestedDuplication(t *testing.T) {
	// left-pad is required at two ranges resolving to two versions: the
	// manifest's v1 and foo's v2. Each position keeps its own tree node.
	g := NewGraph()
	g.AddRelation(model.NewSpecifier("left-pad", "^1.0.0"), dep("left-pad", "1.3.0", nil))
	g.AddRelation(model.NewSpecifier("foo", "^1.0.0"), dep("foo", "1.0.0", map[string]string{"left-pad": "^2.0.0"}))
	g.AddRelation(model.NewSpecifier("left-pad", "^2.0.0"), dep("left-pad", "2.0.0", nil))

	trees, err := g.BuildTrees([]model.Specifier{
		model.NewSpecifier("left-pad", "^1.0.0"),
		model.NewSpecifier("foo", "^1.0.0"),
	})
	require.NoError(t, err)
	require.Len(t, trees, 2)

	assert.Equal(t, "1.3.0", trees["left-pad"].Root.Version)
	require.Contains(t, trees["foo"].Children, "left-pad")
	assert.Equal(t, "2.0.0", trees["foo"].Children["left-pad"].Root.Version)
}

func TestBuildTreesTerminatesOnCycle(t *testing.T) {
	g := NewGraph()
	g.AddRelation(model.NewSpecifier("a", "^1.0.0"), dep("a", "1.0.0", map[string]string{"b": "^1.0.0"}))
	g.AddRelation(model.NewSpecifier("b", "^1.0.0"), dep("b", "1.0.0", map[string]string{"a": "^1.0.0"}))

	trees, err := g.BuildTrees([]model.Specifier{model.NewSpecifier("a", "^1.0.0")})
	require.NoError(t, err)

	tree := trees["a"]
	require.NotNil(t, tree)
	require.Contains(t, tree.Children, "b")
	// The cycle back to a is a boundary, not an infinite descent.
	assert.NotContains(t, tree.Children["b"].Children, "a")
}

func TestBuildTreesSelfCycle(t *testing.T) {
	g := NewGraph()
	g.AddRelation(model.NewSpecifier("self", "^1.0.0"), dep("self", "1.0.0", map[string]string{"self": "^1.0.0"}))

	trees, err := g.BuildTrees([]model.Specifier{model.NewSpecifier("self", "^1.0.0")})
	require.NoError(t, err)
	assert.Empty(t, trees["self"].Children)
}

func TestBuildTreesUnresolvedSpec(t *testing.T) {
	g := NewGraph()
	_, err := g.BuildTrees([]model.Specifier{model.NewSpecifier("ghost", "^1.0.0")})
	require.Error(t, err)

	var unresolved *UnresolvedError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "ghost", unresolved.Spec.Name)
}

func TestResolvedVersions(t *testing.T) {
	g := NewGraph()
	g.AddRelation(model.NewSpecifier("util", "^1.0.0"), dep("util", "1.2.0", nil))
	g.AddRelation(model.NewSpecifier("util", "~1.2.0"), dep("util", "1.2.0", nil))
	g.AddRelation(model.NewSpecifier("util", "^2.0.0"), dep("util", "2.0.0", nil))

	versions := g.ResolvedVersions("util")
	assert.Len(t, versions, 2)
}

func TestRequirersOf(t *testing.T) {
	g := NewGraph()
	g.AddRelation(model.NewSpecifier("parent", "^1.0.0"), dep("parent", "1.0.0", map[string]string{"shared": "^1.0.0"}))
	g.AddRelation(model.NewSpecifier("other", "^1.0.0"), dep("other", "1.0.0", map[string]string{"shared": "^1.0.0"}))
	g.AddRelation(model.NewSpecifier("shared", "^1.0.0"), dep("shared", "1.5.0", nil))

	requirers := g.RequirersOf("shared@1.5.0")
	require.Len(t, requirers, 2)
	assert.Equal(t, "other@1.0.0", requirers[0].ID())
	assert.Equal(t, "parent@1.0.0", requirers[1].ID())

	assert.Empty(t, g.RequirersOf("shared@9.9.9"))
}
