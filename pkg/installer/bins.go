package installer

import (
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/tressel-dev/tressel/internal/logger"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/fsutil"
	"github.com/tressel-dev/tressel/pkg/plan"
)

// SetupBins exposes the executables of every top-level package under
// node_modules/.bin. Entries that already exist are left alone so repeated
// installs do not fight over them.
func (i *Installer) SetupBins(p *plan.Plan) error {
	emit(i.hooks, Event{Phase: "bins"})

	binDir := filepath.Join(i.modulesDir, ".bin")
	for _, name := range sortedTreeNames(p.Trees) {
		root := p.Trees[name].Root
		if len(root.Bins) == 0 {
			continue
		}
		if err := fsutil.EnsureDir(binDir); err != nil {
			return errors.Wrap(err, "failed to create bin directory")
		}
		for command, relPath := range root.Bins {
			if err := i.setupBin(binDir, root.Name, command, relPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *Installer) setupBin(binDir, pkgName, command, relPath string) error {
	linkPath, err := fsutil.ScopedJoin(binDir, command)
	if err != nil {
		return errors.Wrapf(errors.ErrInstallPath, "bin %q: %v", command, err)
	}
	if _, err := os.Lstat(linkPath); err == nil {
		return nil
	}

	targetPath, err := fsutil.ScopedJoin(i.modulesDir, pkgName, relPath)
	if err != nil {
		return errors.Wrapf(errors.ErrInstallPath, "bin %q: %v", command, err)
	}
	// Interpreted bin entries are published without the executable bit more
	// often than not.
	if err := os.Chmod(targetPath, fsutil.FileModeExec); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to mark %s executable", targetPath)
	}

	logger.Debug("Linking bin", logger.Fields{"command": command, "package": pkgName})

	if runtime.GOOS == "windows" {
		return writeCmdShim(linkPath, pkgName, relPath)
	}
	relTarget := path.Join("..", pkgName, filepath.ToSlash(relPath))
	if err := os.Symlink(relTarget, linkPath); err != nil {
		return errors.Wrapf(errors.ErrInstallLink, "bin %q: %v", command, err)
	}
	return nil
}

// writeCmdShim writes a cmd wrapper that forwards to the package script,
// since Windows has no usable symlinks without elevated rights.
func writeCmdShim(linkPath, pkgName, relPath string) error {
	target := filepath.Join("%~dp0", "..", pkgName, relPath)
	shim := "@ECHO off\r\nnode \"" + target + "\" %*\r\n"
	if err := os.WriteFile(linkPath+".cmd", []byte(shim), fsutil.FileModeExec); err != nil {
		return errors.Wrap(errors.ErrInstallLink, err.Error())
	}
	return nil
}
