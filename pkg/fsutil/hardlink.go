package fsutil

import (
	"os"
	"path/filepath"
)

// HardlinkTree recreates the directory structure of src under dst and
// hardlinks every regular file. Because links share inodes with the source,
// the copy costs no additional disk space; symlinks inside src are recreated
// as symlinks. Returns the number of files linked.
func HardlinkTree(src, dst string) (int, error) {
	if err := EnsureDir(dst); err != nil {
		return 0, err
	}

	linked := 0
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			n, err := HardlinkTree(srcPath, dstPath)
			if err != nil {
				return linked, err
			}
			linked += n
		case entry.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return linked, err
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return linked, err
			}
		default:
			if err := os.Link(srcPath, dstPath); err != nil {
				return linked, err
			}
			linked++
		}
	}
	return linked, nil
}
