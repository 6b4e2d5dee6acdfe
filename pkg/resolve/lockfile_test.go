package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgerrors "github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/model"
)

func TestLockfileRoundTrip(t *testing.T) {
	g := NewGraph()
	g.AddRelation(model.NewSpecifier("left-pad", "^1.0.0"), dep("left-pad", "1.3.0", nil))
	g.AddRelation(model.NewSpecifier("foo", "^1.0.0"), dep("foo", "1.0.0", map[string]string{"left-pad": "^2.0.0"}))
	g.AddRelation(model.NewSpecifier("left-pad", "^2.0.0"), dep("left-pad", "2.0.0", nil))

	path := filepath.Join(t.TempDir(), LockfileName)
	require.NoError(t, FromGraph(g).Write(path))

	loaded, err := LoadGraph(path)
	require.NoError(t, err)

	assert.Equal(t, g.Relations(), loaded.Relations())
}

func TestLockfileStableBytes(t *testing.T) {
	g := NewGraph()
	g.AddRelation(model.NewSpecifier("b", "^1.0.0"), dep("b", "1.0.0", nil))
	g.AddRelation(model.NewSpecifier("a", "^1.0.0"), dep("a", "1.0.0", nil))

	dir := t.TempDir()
	first := filepath.Join(dir, "first.lock")
	second := filepath.Join(dir, "second.lock")
	require.NoError(t, FromGraph(g).Write(first))
	require.NoError(t, FromGraph(g).Write(second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestReadLockfileMissingYieldsEmptyGraph(t *testing.T) {
	g, err := LoadGraph(filepath.Join(t.TempDir(), LockfileName))
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestReadLockfileRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockfileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"lockfileVersion": 99, "relations": []}`), 0o644))

	_, err := ReadLockfile(path)
	require.ErrorIs(t, err, pkgerrors.ErrLockfileMismatch)
}

func TestReadLockfileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockfileName)
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := ReadLockfile(path)
	require.Error(t, err)
}
