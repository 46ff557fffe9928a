package consolefs

import "fmt"

// Perm is a 3-bit rwx permission set attached to every node. Read gates
// listing a directory or reading a file's content, Write gates structural
// mutation of a directory or content mutation of a file, Execute gates
// entering a directory or running a file as a script.
type Perm uint8

const (
	PermExecute Perm = 1 << iota
	PermWrite
	PermRead

	PermNone Perm = 0
	PermAll  Perm = PermRead | PermWrite | PermExecute
)

// Creation defaults: directories are fully open, files are read-write,
// touchro files are read-only.
const (
	DefaultDirPerm  = PermAll
	DefaultFilePerm = PermRead | PermWrite
	ReadOnlyPerm    = PermRead
)

func (p Perm) CanRead() bool    { return p&PermRead != 0 }
func (p Perm) CanWrite() bool   { return p&PermWrite != 0 }
func (p Perm) CanExecute() bool { return p&PermExecute != 0 }

// Value returns the numeric 0-7 form used by chmod.
func (p Perm) Value() int {
	return int(p & PermAll)
}

// String renders the permission set in the conventional 3-character form,
// e.g. "rw-" for read+write.
func (p Perm) String() string {
	buf := [3]byte{'-', '-', '-'}
	if p.CanRead() {
		buf[0] = 'r'
	}
	if p.CanWrite() {
		buf[1] = 'w'
	}
	if p.CanExecute() {
		buf[2] = 'x'
	}
	return string(buf[:])
}

// PermFromValue converts a chmod-style numeric value to a Perm.
// Values outside [0,7] are rejected with ErrInvalidArgument.
func PermFromValue(v int) (Perm, error) {
	if v < 0 || v > 7 {
		return 0, fmt.Errorf("permission value %d out of range 0-7: %w", v, ErrInvalidArgument)
	}
	return Perm(v), nil
}
