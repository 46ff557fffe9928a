package filesystem

import (
	"github.com/tmayer/consolefs"
)

// Node is a single entity in the tree: a file with inline content or a
// directory with an ordered child list. Children are held in insertion
// order (listing order) in a slice whose capacity is fixed at allocation;
// parent is a non-owning back-reference used only for upward traversal and
// nil only for the root.
type Node struct {
	name     string
	kind     consolefs.NodeKind
	content  string
	children []*Node
	parent   *Node
	perms    consolefs.Perm
	flags    consolefs.Flag
}

func (n *Node) Name() string { return n.name }

func (n *Node) Kind() consolefs.NodeKind { return n.kind }

func (n *Node) Perms() consolefs.Perm { return n.perms }

func (n *Node) Flags() consolefs.Flag { return n.flags }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Content() string { return n.content }

func (n *Node) ChildCount() int { return len(n.children) }

func (n *Node) IsDir() bool { return n.kind == consolefs.DirNode }

func (n *Node) IsRoot() bool { return n.parent == nil }

// findChild looks up a child by exact, case-sensitive name. Returns nil if
// absent.
func (n *Node) findChild(name string) *Node {
	for _, child := range n.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

// addChild appends child to the ordered child list and sets its parent
// back-reference. Returns ErrDirectoryFull at capacity and ErrExists on a
// sibling name collision; the child is linked only when both checks pass.
func (n *Node) addChild(child *Node) error {
	if n.findChild(child.name) != nil {
		return consolefs.ErrExists
	}
	if len(n.children) >= cap(n.children) {
		return consolefs.ErrDirectoryFull
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// removeChild unlinks the named child, compacting the child list while
// preserving the relative order of the survivors. The node's arena slot is
// not reclaimed. Returns false if no such child exists.
func (n *Node) removeChild(name string) bool {
	for i, child := range n.children {
		if child.name == name {
			child.parent = nil
			n.children = append(n.children[:i], n.children[i+1:]...)
			return true
		}
	}
	return false
}

// Path renders the node's absolute path by walking parent references up to
// the root and joining names with the separator. The root renders as "/".
func (n *Node) Path() string {
	if n.IsRoot() {
		return "/"
	}
	parent := n.parent.Path()
	if parent == "/" {
		return "/" + n.name
	}
	return parent + "/" + n.name
}

// Entry returns the node's listing row.
func (n *Node) Entry() consolefs.Entry {
	return consolefs.Entry{
		Name:  n.name,
		Kind:  n.kind,
		Perms: n.perms,
		Flags: n.flags,
	}
}

// Info returns the node's stat view. Size is content bytes for files and
// child count for directories.
func (n *Node) Info() consolefs.Info {
	size := len(n.content)
	if n.IsDir() {
		size = len(n.children)
	}
	name := n.name
	if n.IsRoot() {
		name = Separator
	}
	return consolefs.Info{
		Name:  name,
		Kind:  n.kind,
		Perms: n.perms,
		Flags: n.flags,
		Size:  size,
	}
}
