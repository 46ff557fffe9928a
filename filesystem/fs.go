package filesystem

import (
	"fmt"

	"github.com/tmayer/consolefs"
	"github.com/tmayer/consolefs/config"
	"github.com/tmayer/consolefs/internal/util"
)

// SeedPasswd is the fixed content of the seeded /etc/passwd file.
const SeedPasswd = "root:x:0:0:operator:/home:/bin/sh"

// FileSystem owns one in-memory tree: the node arena, the root and the
// current-directory reference. There is exactly one execution context, so
// none of this is synchronized; independent instances are fully isolated,
// which is what the tests rely on.
type FileSystem struct {
	cfg   *config.Config
	arena *Arena
	root  *Node
	cwd   *Node
}

// New builds a filesystem with the standard seeded layout:
//
//	/       (system, rwx)
//	/bin    (system, r-x)
//	/etc    (system, r-x)
//	/etc/passwd (system, r--)
//	/home   (rwx)
//	/tmp    (rwx)
//
// The current directory starts at the root.
func New(cfg *config.Config) (*FileSystem, error) {
	arena := NewArena(cfg.MaxNodes, cfg.MaxChildren)

	root, err := arena.Allocate()
	if err != nil {
		return nil, err
	}
	root.kind = consolefs.DirNode
	root.perms = consolefs.PermAll
	root.flags = consolefs.FlagSystem

	fs := &FileSystem{cfg: cfg, arena: arena, root: root, cwd: root}
	if err := fs.seed(); err != nil {
		return nil, err
	}

	logger := util.GetLogger("filesystem")
	logger.Debug().Int("nodes", arena.Len()).Int("capacity", arena.Cap()).Msg("Filesystem initialized")
	return fs, nil
}

func (fs *FileSystem) seed() error {
	seedDirs := []struct {
		name  string
		perms consolefs.Perm
		flags consolefs.Flag
	}{
		{"bin", consolefs.PermRead | consolefs.PermExecute, consolefs.FlagSystem},
		{"etc", consolefs.PermRead | consolefs.PermExecute, consolefs.FlagSystem},
		{"home", consolefs.PermAll, consolefs.FlagNone},
		{"tmp", consolefs.PermAll, consolefs.FlagNone},
	}

	var etc *Node
	for _, d := range seedDirs {
		dir, err := fs.createDir(fs.root, d.name, d.perms)
		if err != nil {
			return err
		}
		dir.flags = d.flags
		if d.name == "etc" {
			etc = dir
		}
	}

	passwd, err := fs.createFile(etc, "passwd", consolefs.ReadOnlyPerm)
	if err != nil {
		return err
	}
	passwd.flags = consolefs.FlagSystem
	passwd.content = truncate(SeedPasswd, fs.cfg.MaxContentLen)
	return nil
}

// Root returns the root node.
func (fs *FileSystem) Root() *Node { return fs.root }

// Cwd returns the current-directory node.
func (fs *FileSystem) Cwd() *Node { return fs.cwd }

// WorkingDir renders the current directory's absolute path.
func (fs *FileSystem) WorkingDir() string { return fs.cwd.Path() }

// NodeCount returns the arena's monotonic high-water mark.
func (fs *FileSystem) NodeCount() int { return fs.arena.Len() }

// lookupParent splits path into parent path and leaf name, resolves the
// parent without creating anything, and bounds the leaf to the name
// capacity. An empty parent path means the current directory.
func (fs *FileSystem) lookupParent(path string) (*Node, string, error) {
	parentPath, leaf := SplitLeaf(path)
	leaf = truncate(leaf, fs.cfg.MaxNameLen)
	if leaf == "" || leaf == "." || leaf == ".." {
		return nil, "", fmt.Errorf("invalid leaf name %q: %w", leaf, consolefs.ErrInvalidArgument)
	}

	parent := fs.cwd
	if parentPath != "" {
		var err error
		if parent, err = fs.resolve(parentPath, false); err != nil {
			return nil, "", err
		}
	}
	if !parent.IsDir() {
		return nil, "", fmt.Errorf("%q: %w", parentPath, consolefs.ErrNotADirectory)
	}
	return parent, leaf, nil
}

// Mkdir creates a directory with default rwx permissions. The parent must
// already exist and be writable.
func (fs *FileSystem) Mkdir(path string) error {
	parent, name, err := fs.lookupParent(path)
	if err != nil {
		return err
	}
	if !parent.perms.CanWrite() {
		return fmt.Errorf("mkdir %q: %w", path, consolefs.ErrPermissionDenied)
	}
	if parent.findChild(name) != nil {
		return fmt.Errorf("mkdir %q: %w", path, consolefs.ErrExists)
	}
	if _, err := fs.createDir(parent, name, consolefs.DefaultDirPerm); err != nil {
		return fmt.Errorf("mkdir %q: %w", path, err)
	}
	logger := util.GetLogger("fs.Mkdir")
	logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// MkdirAll resolves path creating any missing components as directories
// with default rwx permissions, like `mkdir -p`. It does not error if the
// leaf already exists as a directory.
func (fs *FileSystem) MkdirAll(path string) error {
	node, err := fs.resolve(path, true)
	if err != nil {
		return fmt.Errorf("mkdir -p %q: %w", path, err)
	}
	if !node.IsDir() {
		return fmt.Errorf("mkdir -p %q: %w", path, consolefs.ErrNotADirectory)
	}
	return nil
}

// CreateFile creates an empty file with the given permission bits. The
// parent must already exist and be writable.
func (fs *FileSystem) CreateFile(path string, perms consolefs.Perm) error {
	parent, name, err := fs.lookupParent(path)
	if err != nil {
		return err
	}
	if !parent.perms.CanWrite() {
		return fmt.Errorf("touch %q: %w", path, consolefs.ErrPermissionDenied)
	}
	if parent.findChild(name) != nil {
		return fmt.Errorf("touch %q: %w", path, consolefs.ErrExists)
	}
	if _, err := fs.createFile(parent, name, perms); err != nil {
		return fmt.Errorf("touch %q: %w", path, err)
	}
	logger := util.GetLogger("fs.CreateFile")
	logger.Debug().Str("path", path).Str("perms", perms.String()).Msg("Created file")
	return nil
}

// Touch creates an empty file with the default read+write permissions.
func (fs *FileSystem) Touch(path string) error {
	return fs.CreateFile(path, consolefs.DefaultFilePerm)
}

// createFile allocates a file node and links it under parent, mirroring
// createDir's check-before-allocate ordering.
func (fs *FileSystem) createFile(parent *Node, name string, perms consolefs.Perm) (*Node, error) {
	if len(parent.children) >= fs.cfg.MaxChildren {
		return nil, fmt.Errorf("directory %q: %w", parent.name, consolefs.ErrDirectoryFull)
	}
	node, err := fs.arena.Allocate()
	if err != nil {
		return nil, err
	}
	node.kind = consolefs.FileNode
	node.name = name
	node.perms = perms
	if err := parent.addChild(node); err != nil {
		return nil, err
	}
	return node, nil
}

// List enumerates a directory's children in insertion order. An empty path
// lists the current directory. Hidden-flagged entries are omitted unless
// includeHidden is set. The directory must be readable.
func (fs *FileSystem) List(path string, includeHidden bool) ([]consolefs.Entry, error) {
	dir := fs.cwd
	if path != "" {
		var err error
		if dir, err = fs.resolve(path, false); err != nil {
			return nil, err
		}
	}
	if !dir.IsDir() {
		return nil, fmt.Errorf("ls %q: %w", path, consolefs.ErrNotADirectory)
	}
	if !dir.perms.CanRead() {
		return nil, fmt.Errorf("ls %q: %w", path, consolefs.ErrPermissionDenied)
	}

	entries := make([]consolefs.Entry, 0, len(dir.children))
	for _, child := range dir.children {
		if child.flags.IsHidden() && !includeHidden {
			continue
		}
		entries = append(entries, child.Entry())
	}
	return entries, nil
}

// Chdir moves the current directory to the target, which must be a
// directory with the Execute bit set.
func (fs *FileSystem) Chdir(path string) error {
	target, err := fs.resolve(path, false)
	if err != nil {
		return err
	}
	if !target.IsDir() {
		return fmt.Errorf("cd %q: %w", path, consolefs.ErrNotADirectory)
	}
	if !target.perms.CanExecute() {
		return fmt.Errorf("cd %q: %w", path, consolefs.ErrPermissionDenied)
	}
	fs.cwd = target
	return nil
}

// lookupFile resolves the parent and looks up the leaf, requiring it to
// exist and be a file.
func (fs *FileSystem) lookupFile(path string) (*Node, error) {
	parent, name, err := fs.lookupParent(path)
	if err != nil {
		return nil, err
	}
	file := parent.findChild(name)
	if file == nil {
		return nil, fmt.Errorf("file %q does not exist: %w", path, consolefs.ErrNotFound)
	}
	if file.IsDir() {
		return nil, fmt.Errorf("%q: %w", path, consolefs.ErrNotAFile)
	}
	return file, nil
}

// WriteFile overwrites a file's content with text, truncated to the content
// capacity. The file must already exist and be writable.
func (fs *FileSystem) WriteFile(path, text string) error {
	file, err := fs.lookupFile(path)
	if err != nil {
		return err
	}
	if !file.perms.CanWrite() {
		return fmt.Errorf("write %q: %w", path, consolefs.ErrPermissionDenied)
	}
	file.content = truncate(text, fs.cfg.MaxContentLen)
	logger := util.GetLogger("fs.WriteFile")
	logger.Debug().Str("path", path).Int("bytes", len(file.content)).Msg("Wrote file")
	return nil
}

// ReadFile returns a file's content. The file must be readable.
func (fs *FileSystem) ReadFile(path string) (string, error) {
	file, err := fs.lookupFile(path)
	if err != nil {
		return "", err
	}
	if !file.perms.CanRead() {
		return "", fmt.Errorf("cat %q: %w", path, consolefs.ErrPermissionDenied)
	}
	return file.content, nil
}

// Remove unlinks a file from its parent, compacting the child list. System
// files refuse deletion regardless of permission bits; the parent needs the
// Write bit. The arena slot is retired, not reused.
func (fs *FileSystem) Remove(path string) error {
	parent, name, err := fs.lookupParent(path)
	if err != nil {
		return err
	}
	file := parent.findChild(name)
	if file == nil {
		return fmt.Errorf("rm %q: %w", path, consolefs.ErrNotFound)
	}
	if file.IsDir() {
		return fmt.Errorf("rm %q: %w", path, consolefs.ErrNotAFile)
	}
	if file.flags.IsSystem() {
		return fmt.Errorf("rm %q: %w", path, consolefs.ErrSystemProtected)
	}
	if !parent.perms.CanWrite() {
		return fmt.Errorf("rm %q: %w", path, consolefs.ErrPermissionDenied)
	}
	parent.removeChild(name)
	logger := util.GetLogger("fs.Remove")
	logger.Debug().Str("path", path).Msg("Removed file")
	return nil
}

// RemoveDir unlinks an empty directory from its parent. System directories
// refuse deletion; the parent needs the Write bit.
func (fs *FileSystem) RemoveDir(path string) error {
	parent, name, err := fs.lookupParent(path)
	if err != nil {
		return err
	}
	dir := parent.findChild(name)
	if dir == nil {
		return fmt.Errorf("rmdir %q: %w", path, consolefs.ErrNotFound)
	}
	if !dir.IsDir() {
		return fmt.Errorf("rmdir %q: %w", path, consolefs.ErrNotADirectory)
	}
	if dir.flags.IsSystem() {
		return fmt.Errorf("rmdir %q: %w", path, consolefs.ErrSystemProtected)
	}
	if !parent.perms.CanWrite() {
		return fmt.Errorf("rmdir %q: %w", path, consolefs.ErrPermissionDenied)
	}
	if len(dir.children) > 0 {
		return fmt.Errorf("rmdir %q: %w", path, consolefs.ErrNotEmpty)
	}
	parent.removeChild(name)
	logger := util.GetLogger("fs.RemoveDir")
	logger.Debug().Str("path", path).Msg("Removed directory")
	return nil
}

// Chmod overwrites a node's permission bits with value (0-7). System nodes
// refuse permission changes.
func (fs *FileSystem) Chmod(path string, value int) error {
	parent, name, err := fs.lookupParent(path)
	if err != nil {
		return err
	}
	node := parent.findChild(name)
	if node == nil {
		return fmt.Errorf("chmod %q: %w", path, consolefs.ErrNotFound)
	}
	if node.flags.IsSystem() {
		return fmt.Errorf("chmod %q: %w", path, consolefs.ErrSystemProtected)
	}
	perms, err := consolefs.PermFromValue(value)
	if err != nil {
		return fmt.Errorf("chmod %q: %w", path, err)
	}
	node.perms = perms
	logger := util.GetLogger("fs.Chmod")
	logger.Debug().Str("path", path).Str("perms", perms.String()).Msg("Changed permissions")
	return nil
}

// Stat reports a node's name, kind, permissions, flags and size.
func (fs *FileSystem) Stat(path string) (consolefs.Info, error) {
	node, err := fs.resolve(path, false)
	if err != nil {
		return consolefs.Info{}, fmt.Errorf("stat %q: %w", path, err)
	}
	return node.Info(), nil
}

// Executable returns a file's content for script execution. The file must
// exist and carry the Execute bit; Read is not required, matching the cd
// semantics where Execute alone gates entry.
func (fs *FileSystem) Executable(path string) (string, error) {
	file, err := fs.lookupFile(path)
	if err != nil {
		return "", err
	}
	if !file.perms.CanExecute() {
		return "", fmt.Errorf("exec %q: %w", path, consolefs.ErrPermissionDenied)
	}
	return file.content, nil
}
