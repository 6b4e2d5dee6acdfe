// Package resolve implements the dependency graph resolver and the lockfile
// that makes its decisions reproducible. The graph records one relation per
// requirement: which concrete package version a specifier was resolved to.
package resolve

import (
	"sort"
	"sync"

	"github.com/tressel-dev/tressel/pkg/model"
)

// Relation is one resolution decision: a requirement bound to the resolved
// dependency chosen for it.
type Relation struct {
	Spec     model.Specifier
	Resolved *model.ResolvedDependency
}

// Graph is the set of all resolution decisions for a project. It is
// append-only within one resolution pass; a full update discards and rebuilds
// it from the manifest.
type Graph struct {
	mu        sync.RWMutex
	relations map[model.Specifier]*model.ResolvedDependency
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{relations: make(map[model.Specifier]*model.ResolvedDependency)}
}

// AddRelation records that spec resolved to dep, replacing any previous
// resolution for the same spec.
func (g *Graph) AddRelation(spec model.Specifier, dep *model.ResolvedDependency) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.relations[spec] = dep
}

// Resolve returns the resolved dependency recorded for a specifier.
func (g *Graph) Resolve(spec model.Specifier) (*model.ResolvedDependency, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	dep, ok := g.relations[spec]
	return dep, ok
}

// ResolvedVersions returns every distinct resolved dependency recorded for a
// package name, in no particular order.
func (g *Graph) ResolvedVersions(name string) []*model.ResolvedDependency {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]struct{})
	var deps []*model.ResolvedDependency
	for spec, dep := range g.relations {
		if spec.Name != name {
			continue
		}
		if _, ok := seen[dep.ID()]; ok {
			continue
		}
		seen[dep.ID()] = struct{}{}
		deps = append(deps, dep)
	}
	return deps
}

// Relations returns a snapshot of all relations sorted by specifier, for
// stable serialization and comparison.
func (g *Graph) Relations() []Relation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	relations := make([]Relation, 0, len(g.relations))
	for spec, dep := range g.relations {
		relations = append(relations, Relation{Spec: spec, Resolved: dep})
	}
	sort.Slice(relations, func(i, j int) bool {
		if relations[i].Spec.Name != relations[j].Spec.Name {
			return relations[i].Spec.Name < relations[j].Spec.Name
		}
		return relations[i].Spec.Range < relations[j].Spec.Range
	})
	return relations
}

// Len returns the number of relations.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.relations)
}

// RequirersOf returns the resolved dependencies whose own requirements
// resolve to the given identity, plus whether any relation resolves to it at
// all. Manifest-level requesters are not represented in the graph and are the
// caller's concern.
func (g *Graph) RequirersOf(id string) []*model.ResolvedDependency {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]struct{})
	var requirers []*model.ResolvedDependency
	for _, dep := range g.relations {
		if _, ok := seen[dep.ID()]; ok {
			continue
		}
		seen[dep.ID()] = struct{}{}
		for _, childSpec := range dep.Requirements() {
			if child, ok := g.relations[childSpec]; ok && child.ID() == id {
				requirers = append(requirers, dep)
				break
			}
		}
	}
	sort.Slice(requirers, func(i, j int) bool { return requirers[i].ID() < requirers[j].ID() })
	return requirers
}

// BuildTrees unrolls the graph's relations reachable from each root specifier
// into a dependency tree per root. Cycles in the relation set are broken by
// not descending into an identity already present on the current branch.
func (g *Graph) BuildTrees(roots []model.Specifier) (map[string]*model.DependencyTree, error) {
	trees := make(map[string]*model.DependencyTree, len(roots))
	for _, root := range roots {
		tree, err := g.buildTree(root, map[string]struct{}{})
		if err != nil {
			return nil, err
		}
		if tree != nil {
			trees[root.Name] = tree
		}
	}
	return trees, nil
}

func (g *Graph) buildTree(spec model.Specifier, path map[string]struct{}) (*model.DependencyTree, error) {
	dep, ok := g.Resolve(spec)
	if !ok {
		return nil, &UnresolvedError{Spec: spec}
	}
	if _, onPath := path[dep.ID()]; onPath {
		// Cycle boundary: the ancestor's installation already covers it.
		return nil, nil
	}
	path[dep.ID()] = struct{}{}
	defer delete(path, dep.ID())

	tree := &model.DependencyTree{Root: dep}
	for _, childSpec := range dep.Requirements() {
		child, err := g.buildTree(childSpec, path)
		if err != nil {
			return nil, err
		}
		if child != nil {
			if tree.Children == nil {
				tree.Children = make(map[string]*model.DependencyTree)
			}
			tree.Children[childSpec.Name] = child
		}
	}
	return tree, nil
}

// UnresolvedError reports a specifier with no relation in the graph.
type UnresolvedError struct {
	Spec model.Specifier
}

func (e *UnresolvedError) Error() string {
	return "no resolution recorded for " + e.Spec.String()
}
