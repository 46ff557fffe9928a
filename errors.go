package consolefs

import "errors"

// Sentinel errors returned by filesystem operations. Operations wrap these
// with path context via fmt.Errorf("...: %w", ...); callers branch with
// errors.Is.
var (
	// ErrNotFound reports a missing path component or leaf.
	ErrNotFound = errors.New("not found")

	// ErrNotADirectory reports a file where a directory was required.
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotAFile reports a directory where a file was required.
	ErrNotAFile = errors.New("not a file")

	// ErrExists reports a name collision on create.
	ErrExists = errors.New("name already exists")

	// ErrArenaExhausted reports that the fixed node pool is full.
	ErrArenaExhausted = errors.New("node limit reached")

	// ErrDirectoryFull reports that a directory's child list is at capacity.
	ErrDirectoryFull = errors.New("directory full")

	// ErrPermissionDenied reports a missing Read/Write/Execute bit for the
	// attempted action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrSystemProtected reports a delete or chmod aimed at a System node.
	ErrSystemProtected = errors.New("system node protected")

	// ErrNotEmpty reports rmdir on a directory that still has children.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrInvalidArgument reports a malformed argument such as a chmod value
	// out of range or an empty leaf name.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNestingLimit reports that the script re-entrancy guard tripped.
	ErrNestingLimit = errors.New("script nesting limit exceeded")
)
