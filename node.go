package consolefs

// NodeKind distinguishes the two node shapes in the tree.
type NodeKind uint8

const (
	FileNode NodeKind = iota
	DirNode
)

func (k NodeKind) String() string {
	if k == DirNode {
		return "directory"
	}
	return "file"
}

// Entry is one row of a directory listing, in insertion order.
type Entry struct {
	Name  string
	Kind  NodeKind
	Perms Perm
	Flags Flag
}

// Info is the result of a stat call. Size is content bytes for files and
// child count for directories.
type Info struct {
	Name  string
	Kind  NodeKind
	Perms Perm
	Flags Flag
	Size  int
}
