package filesystem

import (
	"github.com/tmayer/consolefs"
)

// Arena is a fixed-capacity node pool with monotonic bump allocation. There
// is no free: a node unlinked from the tree keeps its slot forever, so the
// high-water mark only grows. The backing slice is sized up front, which
// keeps node pointers stable for the arena's whole lifetime.
type Arena struct {
	nodes       []Node
	count       int
	maxChildren int
}

// NewArena creates an arena holding at most maxNodes nodes, each directory
// capped at maxChildren children.
func NewArena(maxNodes, maxChildren int) *Arena {
	return &Arena{
		nodes:       make([]Node, maxNodes),
		maxChildren: maxChildren,
	}
}

// Allocate returns a freshly zeroed node: empty name, file kind, no parent,
// no children, read+write permission, no flags. Returns ErrArenaExhausted
// once the pool is full.
func (a *Arena) Allocate() (*Node, error) {
	if a.count >= len(a.nodes) {
		return nil, consolefs.ErrArenaExhausted
	}
	n := &a.nodes[a.count]
	a.count++
	*n = Node{
		children: make([]*Node, 0, a.maxChildren),
		perms:    consolefs.DefaultFilePerm,
	}
	return n, nil
}

// Len returns the allocation high-water mark.
func (a *Arena) Len() int { return a.count }

// Cap returns the fixed pool capacity.
func (a *Arena) Cap() int { return len(a.nodes) }
