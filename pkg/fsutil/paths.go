package fsutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ScopedJoin joins parts onto root and verifies that the result stays inside
// root. Package names come from manifests and registry metadata, so a crafted
// name like "../../etc" must not be able to escape the installation area.
func ScopedJoin(root string, parts ...string) (string, error) {
	joined := filepath.Join(append([]string{root}, parts...)...)

	cleanRoot := filepath.Clean(root)
	if len(parts) == 0 {
		return joined, nil
	}
	// Resolving to the root itself (a part like "." or an empty name) is as
	// dangerous as escaping it: callers delete and replace the result.
	if !strings.HasPrefix(joined, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %q", filepath.Join(parts...), root)
	}
	return joined, nil
}
