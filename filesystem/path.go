package filesystem

import (
	"fmt"
	"strings"

	"github.com/tmayer/consolefs"
)

// Separator is the path component separator.
const Separator = "/"

// SplitPath parses a textual path into its ordered components plus an
// absolute/relative flag. Repeated separators are tolerated (empty
// components are skipped) and each component is silently truncated to
// maxName bytes, matching the bounded name buffers of the tree.
//
// "." and ".." are returned as ordinary components; the resolver gives them
// meaning.
func SplitPath(path string, maxName int) (components []string, absolute bool) {
	absolute = strings.HasPrefix(path, Separator)
	for _, comp := range strings.Split(path, Separator) {
		if comp == "" {
			continue
		}
		components = append(components, truncate(comp, maxName))
	}
	return components, absolute
}

// SplitLeaf splits a path into a parent path and a leaf name at the last
// separator. An empty parent path means the leaf lives in the current
// directory; a parent path of just "/" means it lives in the root.
func SplitLeaf(path string) (parentPath, leaf string) {
	idx := strings.LastIndex(path, Separator)
	if idx < 0 {
		return "", path
	}
	if idx == 0 {
		return Separator, path[1:]
	}
	return path[:idx], path[idx+1:]
}

// truncate bounds s to max bytes without signaling; overlong names and
// content are clipped, not rejected.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// resolve walks path from the root (absolute) or the current directory
// (relative) and returns the final node. "." stays put, ".." moves to the
// parent and is a no-op at the root. A file is only accepted as the final
// component. With createMissing, absent components are created as
// directories with default rwx permissions.
//
// resolve performs no permission checks; each operation enforces
// permissions on the specific nodes it touches.
func (fs *FileSystem) resolve(path string, createMissing bool) (*Node, error) {
	components, absolute := SplitPath(path, fs.cfg.MaxNameLen)

	current := fs.cwd
	if absolute {
		current = fs.root
	}

	for i, comp := range components {
		switch comp {
		case ".":
			continue
		case "..":
			if current.parent != nil {
				current = current.parent
			}
			continue
		}

		child := current.findChild(comp)
		if child == nil {
			if !createMissing {
				return nil, fmt.Errorf("no such directory %q in path %q: %w", comp, path, consolefs.ErrNotFound)
			}
			if !current.perms.CanWrite() {
				return nil, fmt.Errorf("cannot create %q in %q: %w", comp, current.Path(), consolefs.ErrPermissionDenied)
			}
			var err error
			if child, err = fs.createDir(current, comp, consolefs.DefaultDirPerm); err != nil {
				return nil, err
			}
		}

		if !child.IsDir() && i < len(components)-1 {
			return nil, fmt.Errorf("path component %q is not a directory: %w", comp, consolefs.ErrNotADirectory)
		}
		current = child
	}

	return current, nil
}

// createDir allocates a directory node and links it under parent. The
// capacity check runs before allocation so a full directory never burns an
// arena slot; an arena failure after the checks leaves parent untouched.
func (fs *FileSystem) createDir(parent *Node, name string, perms consolefs.Perm) (*Node, error) {
	if len(parent.children) >= fs.cfg.MaxChildren {
		return nil, fmt.Errorf("directory %q: %w", parent.name, consolefs.ErrDirectoryFull)
	}
	node, err := fs.arena.Allocate()
	if err != nil {
		return nil, err
	}
	node.kind = consolefs.DirNode
	node.name = name
	node.perms = perms
	if err := parent.addChild(node); err != nil {
		return nil, err
	}
	return node, nil
}
