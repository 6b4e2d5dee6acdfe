package resolve

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/natefinch/atomic"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/model"
)

// LockfileName is the lockfile's location relative to the project root.
const LockfileName = "tressel.lock"

// lockfileVersion guards against reading lockfiles written by an
// incompatible format revision.
const lockfileVersion = 1

// Lockfile is a serializable snapshot of a graph's relation set. It contains
// no resolution logic; reading it back reconstructs an equivalent graph
// without touching the registry.
type Lockfile struct {
	Version   int         `json:"lockfileVersion"`
	Relations []LockEntry `json:"relations"`
}

// LockEntry is one serialized relation.
type LockEntry struct {
	Name     string                   `json:"name"`
	Range    string                   `json:"range"`
	Resolved model.ResolvedDependency `json:"resolved"`
}

// FromGraph snapshots a graph into a lockfile. Entries are sorted by
// specifier so repeated writes of the same graph produce identical bytes.
func FromGraph(g *Graph) *Lockfile {
	relations := g.Relations()
	entries := make([]LockEntry, 0, len(relations))
	for _, rel := range relations {
		entries = append(entries, LockEntry{
			Name:     rel.Spec.Name,
			Range:    rel.Spec.Range,
			Resolved: *rel.Resolved,
		})
	}
	return &Lockfile{Version: lockfileVersion, Relations: entries}
}

// ToGraph reconstructs the graph this lockfile was snapshotted from.
func (l *Lockfile) ToGraph() *Graph {
	g := NewGraph()
	for _, entry := range l.Relations {
		resolved := entry.Resolved
		g.AddRelation(model.Specifier{Name: entry.Name, Range: entry.Range}, &resolved)
	}
	return g
}

// Write persists the lockfile atomically.
func (l *Lockfile) Write(path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(l); err != nil {
		return errors.Wrap(err, "failed to encode lockfile")
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return errors.Wrap(err, "failed to write lockfile")
	}
	return nil
}

// ReadLockfile reads a lockfile from disk. A missing file means no prior
// resolution and yields an empty lockfile.
func ReadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Lockfile{Version: lockfileVersion}, nil
		}
		return nil, errors.Wrap(err, "failed to read lockfile")
	}

	var lockfile Lockfile
	if err := json.Unmarshal(data, &lockfile); err != nil {
		return nil, errors.Wrap(err, "failed to parse lockfile")
	}
	if lockfile.Version != lockfileVersion {
		return nil, errors.Wrapf(errors.ErrLockfileMismatch, "unsupported lockfile version %d", lockfile.Version)
	}
	return &lockfile, nil
}

// LoadGraph reads the lockfile at path and reconstructs its graph. A missing
// file yields an empty graph.
func LoadGraph(path string) (*Graph, error) {
	lockfile, err := ReadLockfile(path)
	if err != nil {
		return nil, err
	}
	return lockfile.ToGraph(), nil
}
