package filesystem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmayer/consolefs"
	"github.com/tmayer/consolefs/config"
	"github.com/tmayer/consolefs/internal/util"
)

// newTestFS builds a filesystem with default capacities and the standard
// seeded layout.
func newTestFS(t *testing.T) *FileSystem {
	t.Helper()
	fs, err := New(config.NewDefaultConfig())
	require.NoError(t, err)
	return fs
}

func TestNew_SeededLayout(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	entries, err := fs.List("/", false)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"bin", "etc", "home", "tmp"}, names, "seed order is insertion order")

	info, err := fs.Stat("/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, consolefs.FileNode, info.Kind)
	assert.Equal(t, consolefs.ReadOnlyPerm, info.Perms)
	assert.True(t, info.Flags.IsSystem())
	assert.Equal(t, len(SeedPasswd), info.Size)

	assert.Equal(t, "/", fs.WorkingDir())
}

func TestMkdir_CreatesWithDefaultPerms(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	require.NoError(t, fs.Mkdir("/home/projects"))

	info, err := fs.Stat("/home/projects")
	require.NoError(t, err)
	assert.Equal(t, consolefs.DirNode, info.Kind)
	assert.Equal(t, consolefs.PermAll, info.Perms)
	assert.Equal(t, consolefs.FlagNone, info.Flags)
}

func TestMkdir_Failures(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Mkdir("/home/a"))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"existing_name", "/home/a", consolefs.ErrExists},
		{"missing_parent", "/home/missing/b", consolefs.ErrNotFound},
		{"unwritable_parent", "/bin/b", consolefs.ErrPermissionDenied},
		{"empty_leaf", "/home/", consolefs.ErrInvalidArgument},
		{"dot_leaf", ".", consolefs.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.Mkdir(tt.path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestMkdir_DirectoryFull verifies that creation past the child capacity
// fails and leaves the directory's children unchanged.
func TestMkdir_DirectoryFull(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig(&config.ConfigOverride{
		MaxChildren: util.Pointer(6),
	})
	fs, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, fs.Mkdir("/tmp/d1"))
	for i := 0; i < 6; i++ {
		err := fs.Mkdir("/tmp/d1/" + string(rune('a'+i)))
		require.NoError(t, err)
	}

	before, err := fs.List("/tmp/d1", true)
	require.NoError(t, err)

	err = fs.Mkdir("/tmp/d1/overflow")
	assert.ErrorIs(t, err, consolefs.ErrDirectoryFull)

	after, err := fs.List("/tmp/d1", true)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed create must not mutate the child list")
}

// TestMkdir_ArenaExhausted verifies the hard allocation failure once the
// fixed pool is used up, and that the high-water mark never shrinks.
func TestMkdir_ArenaExhausted(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig(&config.ConfigOverride{
		MaxNodes: util.Pointer(8), // 6 are consumed by the seed
	})
	fs, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, 6, fs.NodeCount())

	require.NoError(t, fs.Mkdir("/tmp/a"))
	require.NoError(t, fs.Mkdir("/tmp/b"))
	require.Equal(t, 8, fs.NodeCount())

	err = fs.Mkdir("/tmp/c")
	assert.ErrorIs(t, err, consolefs.ErrArenaExhausted)

	// Deleting does not reclaim slots.
	require.NoError(t, fs.RemoveDir("/tmp/a"))
	assert.Equal(t, 8, fs.NodeCount())
	err = fs.Mkdir("/tmp/c")
	assert.ErrorIs(t, err, consolefs.ErrArenaExhausted)
}

func TestMkdirAll_CreatesMissingComponents(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	require.NoError(t, fs.MkdirAll("/home/a/b/c"))

	info, err := fs.Stat("/home/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, consolefs.DirNode, info.Kind)
	assert.Equal(t, consolefs.PermAll, info.Perms)

	// Existing leaf directory is not an error.
	assert.NoError(t, fs.MkdirAll("/home/a/b/c"))

	// An existing file on the path is.
	require.NoError(t, fs.Touch("/home/f"))
	assert.ErrorIs(t, fs.MkdirAll("/home/f"), consolefs.ErrNotADirectory)
	assert.ErrorIs(t, fs.MkdirAll("/home/f/x"), consolefs.ErrNotADirectory)
}

func TestMkdirAll_RefusesUnwritableParent(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	before, err := fs.List("/bin", true)
	require.NoError(t, err)

	// /bin is seeded r-x, so nothing may be created under it, directly or
	// deeper down the requested path.
	assert.ErrorIs(t, fs.MkdirAll("/bin/y"), consolefs.ErrPermissionDenied)
	assert.ErrorIs(t, fs.MkdirAll("/bin/y/z"), consolefs.ErrPermissionDenied)

	after, err := fs.List("/bin", true)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// TestResolve_AbsoluteIndependentOfCwd checks that absolute paths resolve to
// the same node no matter what the current directory is.
func TestResolve_AbsoluteIndependentOfCwd(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Mkdir("/home/a"))

	fromRoot, err := fs.resolve("/home/a", false)
	require.NoError(t, err)

	require.NoError(t, fs.Chdir("/tmp"))
	fromTmp, err := fs.resolve("/home/a", false)
	require.NoError(t, err)

	assert.Same(t, fromRoot, fromTmp)
}

func TestChdir_DotDotRestoresCwd(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Chdir("/home"))
	orig := fs.Cwd()

	require.NoError(t, fs.Mkdir("a"))
	require.NoError(t, fs.Chdir("a"))
	assert.Equal(t, "/home/a", fs.WorkingDir())

	require.NoError(t, fs.Chdir(".."))
	assert.Same(t, orig, fs.Cwd())
}

func TestChdir_DotDotAtRootIsNoop(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	require.NoError(t, fs.Chdir(".."))
	assert.Equal(t, "/", fs.WorkingDir())
	require.NoError(t, fs.Chdir("../.."))
	assert.Equal(t, "/", fs.WorkingDir())
}

func TestChdir_Failures(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Touch("/tmp/f"))
	require.NoError(t, fs.Mkdir("/tmp/noexec"))
	require.NoError(t, fs.Chmod("/tmp/noexec", 6))

	assert.ErrorIs(t, fs.Chdir("/tmp/f"), consolefs.ErrNotADirectory)
	assert.ErrorIs(t, fs.Chdir("/tmp/noexec"), consolefs.ErrPermissionDenied)
	assert.ErrorIs(t, fs.Chdir("/tmp/missing"), consolefs.ErrNotFound)
	assert.Equal(t, "/", fs.WorkingDir(), "failed cd must not move the current directory")
}

func TestResolve_ToleratesRepeatedSeparators(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Mkdir("/home/a"))

	require.NoError(t, fs.Chdir("//home///a"))
	assert.Equal(t, "/home/a", fs.WorkingDir())
}

func TestResolve_FileMidPath(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Touch("/tmp/f"))

	_, err := fs.Stat("/tmp/f/x")
	assert.ErrorIs(t, err, consolefs.ErrNotADirectory)
}

// TestNameTruncation checks the silent truncate-on-overflow quirk: a
// component longer than the name capacity is clipped, and the same overlong
// spelling keeps resolving to the clipped node.
func TestNameTruncation(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	long := "abcdefghijklmnopqrstuvwxyz"
	require.NoError(t, fs.Mkdir("/tmp/" + long))

	info, err := fs.Stat("/tmp/" + long[:15])
	require.NoError(t, err)
	assert.Equal(t, long[:15], info.Name)

	// The overlong spelling truncates to the same leaf.
	info, err = fs.Stat("/tmp/" + long)
	require.NoError(t, err)
	assert.Equal(t, long[:15], info.Name)
}

func TestWriteReadFile_RoundTrip(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Chdir("/home"))
	require.NoError(t, fs.Touch("f"))

	require.NoError(t, fs.WriteFile("f", "hello"))
	content, err := fs.ReadFile("f")
	require.NoError(t, err)
	assert.Equal(t, "hello", content)

	// Rewrites replace, not append.
	require.NoError(t, fs.WriteFile("f", "bye"))
	content, err = fs.ReadFile("f")
	require.NoError(t, err)
	assert.Equal(t, "bye", content)
}

func TestWriteFile_TruncatesAtContentCapacity(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Touch("/tmp/f"))

	long := strings.Repeat("x", 300)
	require.NoError(t, fs.WriteFile("/tmp/f", long))

	content, err := fs.ReadFile("/tmp/f")
	require.NoError(t, err)
	assert.Equal(t, long[:config.DefaultMaxContentLen], content)
}

func TestWriteFile_Failures(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Mkdir("/tmp/d"))
	require.NoError(t, fs.CreateFile("/tmp/ro", consolefs.ReadOnlyPerm))

	assert.ErrorIs(t, fs.WriteFile("/tmp/missing", "x"), consolefs.ErrNotFound)
	assert.ErrorIs(t, fs.WriteFile("/tmp/d", "x"), consolefs.ErrNotAFile)
	assert.ErrorIs(t, fs.WriteFile("/tmp/ro", "x"), consolefs.ErrPermissionDenied)
}

// TestChmod_GatesRead mirrors the chmod/cat property: dropping the Read bit
// denies cat, restoring it succeeds with the stored content intact.
func TestChmod_GatesRead(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Touch("/tmp/f"))
	require.NoError(t, fs.WriteFile("/tmp/f", "secret"))

	require.NoError(t, fs.Chmod("/tmp/f", 0))
	_, err := fs.ReadFile("/tmp/f")
	assert.ErrorIs(t, err, consolefs.ErrPermissionDenied)

	require.NoError(t, fs.Chmod("/tmp/f", 4))
	content, err := fs.ReadFile("/tmp/f")
	require.NoError(t, err)
	assert.Equal(t, "secret", content)
}

func TestChmod_Failures(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Touch("/tmp/f"))

	assert.ErrorIs(t, fs.Chmod("/tmp/missing", 7), consolefs.ErrNotFound)
	assert.ErrorIs(t, fs.Chmod("/tmp/f", 8), consolefs.ErrInvalidArgument)
	assert.ErrorIs(t, fs.Chmod("/tmp/f", -1), consolefs.ErrInvalidArgument)
	assert.ErrorIs(t, fs.Chmod("/etc/passwd", 7), consolefs.ErrSystemProtected)
}

// TestSystemProtection verifies System-flagged nodes refuse delete and
// chmod regardless of their rwx bits.
func TestSystemProtection(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	assert.ErrorIs(t, fs.Remove("/etc/passwd"), consolefs.ErrSystemProtected)
	assert.ErrorIs(t, fs.RemoveDir("/etc"), consolefs.ErrSystemProtected)
	assert.ErrorIs(t, fs.Chmod("/bin", 0), consolefs.ErrSystemProtected)

	// Still present and untouched.
	info, err := fs.Stat("/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, consolefs.ReadOnlyPerm, info.Perms)
}

func TestRemove_UnlinksAndCompacts(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Chdir("/tmp"))
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, fs.Touch(name))
	}

	require.NoError(t, fs.Remove("b"))

	entries, err := fs.List("", true)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "c"}, names, "removal compacts preserving relative order")
}

func TestRemove_Failures(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Mkdir("/tmp/d"))

	assert.ErrorIs(t, fs.Remove("/tmp/missing"), consolefs.ErrNotFound)
	assert.ErrorIs(t, fs.Remove("/tmp/d"), consolefs.ErrNotAFile)

	// Parent without Write refuses deletion even of writable children.
	require.NoError(t, fs.Touch("/tmp/d/f"))
	require.NoError(t, fs.Chmod("/tmp/d", 5))
	assert.ErrorIs(t, fs.Remove("/tmp/d/f"), consolefs.ErrPermissionDenied)
}

// TestRemoveDir_RestoresParentState mirrors the mkdir/rmdir property: the
// parent's child set ends up exactly as it began.
func TestRemoveDir_RestoresParentState(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	before, err := fs.List("/tmp", true)
	require.NoError(t, err)

	require.NoError(t, fs.Mkdir("/tmp/x"))
	require.NoError(t, fs.RemoveDir("/tmp/x"))

	after, err := fs.List("/tmp", true)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRemoveDir_Failures(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Mkdir("/tmp/d"))
	require.NoError(t, fs.Touch("/tmp/d/f"))
	require.NoError(t, fs.Touch("/tmp/f"))

	assert.ErrorIs(t, fs.RemoveDir("/tmp/missing"), consolefs.ErrNotFound)
	assert.ErrorIs(t, fs.RemoveDir("/tmp/f"), consolefs.ErrNotADirectory)
	assert.ErrorIs(t, fs.RemoveDir("/tmp/d"), consolefs.ErrNotEmpty)
}

// TestList_HiddenFlag verifies plain listings omit Hidden-flagged children
// while ls -a includes them.
func TestList_HiddenFlag(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Touch("/tmp/visible"))
	require.NoError(t, fs.Touch("/tmp/secret"))

	tmp, err := fs.resolve("/tmp", false)
	require.NoError(t, err)
	tmp.findChild("secret").flags |= consolefs.FlagHidden

	plain, err := fs.List("/tmp", false)
	require.NoError(t, err)
	require.Len(t, plain, 1)
	assert.Equal(t, "visible", plain[0].Name)

	all, err := fs.List("/tmp", true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[1].Flags.IsHidden())
}

func TestList_Failures(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Touch("/tmp/f"))
	require.NoError(t, fs.Mkdir("/tmp/noread"))
	require.NoError(t, fs.Chmod("/tmp/noread", 3))

	_, err := fs.List("/tmp/f", false)
	assert.ErrorIs(t, err, consolefs.ErrNotADirectory)
	_, err = fs.List("/tmp/noread", false)
	assert.ErrorIs(t, err, consolefs.ErrPermissionDenied)
	_, err = fs.List("/tmp/missing", false)
	assert.ErrorIs(t, err, consolefs.ErrNotFound)
}

func TestStat_Directory(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Mkdir("/tmp/d"))
	require.NoError(t, fs.Touch("/tmp/d/a"))
	require.NoError(t, fs.Touch("/tmp/d/b"))

	info, err := fs.Stat("/tmp/d")
	require.NoError(t, err)
	assert.Equal(t, consolefs.DirNode, info.Kind)
	assert.Equal(t, 2, info.Size, "directory size is its child count")
}

func TestStat_Root(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)

	info, err := fs.Stat("/")
	require.NoError(t, err)
	assert.Equal(t, "/", info.Name)
	assert.Equal(t, consolefs.DirNode, info.Kind)
	assert.Equal(t, consolefs.PermAll, info.Perms)
	assert.True(t, info.Flags.IsSystem())
	assert.Equal(t, 4, info.Size, "root holds the four seeded directories")

	// Relative forms land on the same node.
	require.NoError(t, fs.Chdir("/home"))
	up, err := fs.Stat("..")
	require.NoError(t, err)
	assert.Equal(t, info, up)
}

func TestExecutable(t *testing.T) {
	t.Parallel()
	fs := newTestFS(t)
	require.NoError(t, fs.Touch("/tmp/s"))
	require.NoError(t, fs.WriteFile("/tmp/s", "pwd"))

	_, err := fs.Executable("/tmp/s")
	assert.ErrorIs(t, err, consolefs.ErrPermissionDenied, "rw- file is not runnable")

	require.NoError(t, fs.Chmod("/tmp/s", 7))
	content, err := fs.Executable("/tmp/s")
	require.NoError(t, err)
	assert.Equal(t, "pwd", content)

	_, err = fs.Executable("/tmp/missing")
	assert.ErrorIs(t, err, consolefs.ErrNotFound)
	require.NoError(t, fs.Mkdir("/tmp/d"))
	_, err = fs.Executable("/tmp/d")
	assert.ErrorIs(t, err, consolefs.ErrNotAFile)
}
