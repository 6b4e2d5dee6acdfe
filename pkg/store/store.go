// Package store manages the content-addressed package store. Every resolved
// identity is downloaded and unpacked at most once per store; installs link
// out of the store instead of re-downloading.
package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/tressel-dev/tressel/internal/logger"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/fsutil"
	"github.com/tressel-dev/tressel/pkg/model"
	"github.com/tressel-dev/tressel/pkg/registry"
	"github.com/tressel-dev/tressel/pkg/retry"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// completeMarker is written into an entry directory after a fully successful
// unpack. An entry without the marker is treated as absent and redone.
const completeMarker = "_complete"

// Store downloads package tarballs into per-identity directories under its
// root. Concurrent requests for the same identity are collapsed into a single
// download, and the total number of in-flight downloads is bounded.
type Store struct {
	root   string
	client registry.TarballClient
	retry  retry.Policy
	group  singleflight.Group
	gate   *semaphore.Weighted
}

// New creates a store rooted at root. maxConcurrent bounds the number of
// simultaneous downloads across all callers.
func New(root string, client registry.TarballClient, maxConcurrent int, policy retry.Policy) (*Store, error) {
	if root == "" {
		return nil, errors.ErrStoreDirectory
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Store{
		root:   root,
		client: client,
		retry:  policy,
		gate:   semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

// EntryDir returns the store directory for a resolved identity. Scoped names
// contain a slash, so the identity is flattened into a single path element.
func (s *Store) EntryDir(dep *model.ResolvedDependency) string {
	return filepath.Join(s.root, strings.ReplaceAll(dep.ID(), "/", "+"))
}

// Contains reports whether the store already holds a complete entry for dep.
func (s *Store) Contains(dep *model.ResolvedDependency) bool {
	_, err := os.Stat(filepath.Join(s.EntryDir(dep), completeMarker))
	return err == nil
}

// Download ensures the store holds a complete entry for dep, fetching and
// unpacking its tarball if needed. It is safe to call concurrently for the
// same identity; only one download is performed.
func (s *Store) Download(ctx context.Context, dep *model.ResolvedDependency) error {
	_, err, _ := s.group.Do(dep.ID(), func() (interface{}, error) {
		if s.Contains(dep) {
			return nil, nil
		}
		if err := s.gate.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer s.gate.Release(1)
		return nil, s.retry.Do(ctx, func() error {
			return s.fetch(ctx, dep)
		})
	})
	return err
}

// PackageDir returns the directory holding the unpacked package contents of a
// complete entry. Registry tarballs nest their files under a single top-level
// directory, usually but not always named "package".
func (s *Store) PackageDir(dep *model.ResolvedDependency) (string, error) {
	dir := s.EntryDir(dep)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read store entry for %s", dep.ID())
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", errors.Wrapf(errors.ErrStoreCorrupt, "%s", dep.ID())
}

// Clean removes the entire store.
func (s *Store) Clean() error {
	if err := os.RemoveAll(s.root); err != nil {
		return errors.Wrap(err, "failed to remove store")
	}
	return nil
}

func (s *Store) fetch(ctx context.Context, dep *model.ResolvedDependency) error {
	tarballURL := dep.GetTarballURL()
	if tarballURL == nil {
		return errors.Wrapf(errors.ErrTarballMissing, "%s", dep.ID())
	}

	dir := s.EntryDir(dep)
	// A directory without the marker is a leftover from an interrupted run.
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "failed to clear store entry for %s", dep.ID())
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return errors.Wrapf(err, "failed to create store entry for %s", dep.ID())
	}

	logger.Debug("Downloading tarball", logger.Fields{"id": dep.ID(), "url": tarballURL.String()})

	body, err := s.client.OpenTarball(ctx, tarballURL.String())
	if err != nil {
		return errors.Wrapf(err, "%s", dep.ID())
	}
	defer func() { _ = body.Close() }()

	if err := s.unpack(ctx, body, dir); err != nil {
		_ = os.RemoveAll(dir)
		return errors.Wrapf(err, "%s", dep.ID())
	}

	marker, err := os.Create(filepath.Join(dir, completeMarker))
	if err != nil {
		return errors.Wrapf(err, "failed to mark store entry for %s", dep.ID())
	}
	return marker.Close()
}

// unpack streams a gzipped tar archive into destDir.
func (s *Store) unpack(ctx context.Context, r io.Reader, destDir string) error {
	decompressed, err := archives.Gz{}.OpenReader(r)
	if err != nil {
		return errors.Wrap(errors.ErrStoreExtract, err.Error())
	}
	defer func() { _ = decompressed.Close() }()

	err = archives.Tar{}.Extract(ctx, decompressed, func(ctx context.Context, f archives.FileInfo) error {
		return s.writeEntry(f, destDir)
	})
	if err != nil {
		return errors.Wrap(errors.ErrStoreExtract, err.Error())
	}
	return nil
}

// writeEntry places a single archive entry under destDir, rejecting paths
// that would escape it.
func (s *Store) writeEntry(f archives.FileInfo, destDir string) error {
	// Some tarballs carry a "./" entry for the archive root.
	if filepath.Clean(f.NameInArchive) == "." {
		return nil
	}
	targetPath, err := fsutil.ScopedJoin(destDir, f.NameInArchive)
	if err != nil {
		return err
	}

	if f.IsDir() {
		return os.MkdirAll(targetPath, fsutil.DirModeDefault)
	}
	if err := fsutil.EnsureFileDir(targetPath); err != nil {
		return err
	}
	if f.LinkTarget != "" {
		_ = os.Remove(targetPath)
		return os.Symlink(f.LinkTarget, targetPath)
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = fsutil.FileModeDefault
	}
	dst, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return os.Chmod(targetPath, mode)
}
