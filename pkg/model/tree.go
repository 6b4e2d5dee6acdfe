package model

// DependencyTree is one node of an installable dependency tree: a resolved
// root plus the subtrees for each of its resolved child requirements, keyed
// by child package name. Tree nodes are exclusively owned; the same resolved
// identity reachable from two roots appears as two separate nodes even though
// both map to one store entry.
type DependencyTree struct {
	Root     *ResolvedDependency        `json:"root"`
	Children map[string]*DependencyTree `json:"children,omitempty"`
}

// Size returns the number of nodes in this tree, itself included.
func (t *DependencyTree) Size() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, child := range t.Children {
		n += child.Size()
	}
	return n
}

// Walk calls fn for this node and every descendant, parent before children.
// The path argument carries the names of all ancestors from the tree root
// down to the visited node's parent.
func (t *DependencyTree) Walk(fn func(path []string, node *DependencyTree)) {
	t.walk(nil, fn)
}

func (t *DependencyTree) walk(path []string, fn func(path []string, node *DependencyTree)) {
	if t == nil {
		return
	}
	fn(path, t)
	childPath := append(append([]string{}, path...), t.Root.Name)
	for _, child := range t.Children {
		child.walk(childPath, fn)
	}
}
