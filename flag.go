package consolefs

import "strings"

// Flag marks special node behavior orthogonal to the rwx bits. System nodes
// refuse deletion and permission changes no matter what their permissions
// say; Hidden nodes are omitted from plain listings.
type Flag uint8

const (
	FlagSystem Flag = 1 << iota
	FlagHidden

	FlagNone Flag = 0
)

func (f Flag) IsSystem() bool { return f&FlagSystem != 0 }
func (f Flag) IsHidden() bool { return f&FlagHidden != 0 }

// String renders flags as bracketed tags, e.g. "[SYSTEM]" or
// "[SYSTEM] [HIDDEN]". A node with no flags renders as "(none)".
func (f Flag) String() string {
	if f == FlagNone {
		return "(none)"
	}
	tags := make([]string, 0, 2)
	if f.IsSystem() {
		tags = append(tags, "[SYSTEM]")
	}
	if f.IsHidden() {
		tags = append(tags, "[HIDDEN]")
	}
	return strings.Join(tags, " ")
}
