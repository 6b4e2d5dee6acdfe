// Package plan converts a resolved dependency graph into the installable
// forest of dependency trees and persists a snapshot of it for idempotent
// re-install detection.
package plan

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"

	"github.com/natefinch/atomic"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/fsutil"
	"github.com/tressel-dev/tressel/pkg/manifest"
	"github.com/tressel-dev/tressel/pkg/model"
)

// Plan is the installable forest: one dependency tree per top-level
// requirement, keyed by the root package name.
type Plan struct {
	Trees map[string]*model.DependencyTree `json:"trees"`
}

// New creates a plan from a set of trees.
func New(trees map[string]*model.DependencyTree) *Plan {
	if trees == nil {
		trees = map[string]*model.DependencyTree{}
	}
	return &Plan{Trees: trees}
}

// Satisfies reports whether every requirement of the manifest is met by the
// version of the corresponding tree root. It is a pure predicate: weaker than
// structural equality, it only checks ranges against root versions, and it
// performs no I/O.
func (p *Plan) Satisfies(m *manifest.Manifest) bool {
	roots := make(map[string]string, len(p.Trees))
	for name, tree := range p.Trees {
		roots[name] = tree.Root.Version
	}
	for _, spec := range m.Specifiers() {
		version, ok := roots[spec.Name]
		if !ok || !spec.Satisfied(version) {
			return false
		}
	}
	return true
}

// Equal reports whether two plans are structurally identical.
func (p *Plan) Equal(other *Plan) bool {
	if other == nil {
		return false
	}
	return reflect.DeepEqual(p.Trees, other.Trees)
}

// Size returns the total number of tree nodes in the plan, for progress
// accounting.
func (p *Plan) Size() int {
	return TreeSize(p.Trees)
}

// TreeSize counts all nodes in a forest.
func TreeSize(trees map[string]*model.DependencyTree) int {
	n := 0
	for _, tree := range trees {
		n += tree.Size()
	}
	return n
}

// WriteSnapshot persists the plan atomically at path, creating parent
// directories as needed.
func (p *Plan) WriteSnapshot(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return errors.Wrap(err, "failed to encode plan snapshot")
	}
	if err := os.MkdirAll(filepath.Dir(path), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create snapshot directory")
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return errors.Wrap(err, "failed to write plan snapshot")
	}
	return nil
}

// ReadSnapshot loads a previously written plan. A missing snapshot returns
// (nil, nil): no successful install has been recorded.
func ReadSnapshot(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read plan snapshot")
	}
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "failed to parse plan snapshot")
	}
	return &p, nil
}
