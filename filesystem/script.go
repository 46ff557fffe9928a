package filesystem

import (
	"fmt"
	"strings"

	"github.com/tmayer/consolefs"
	"github.com/tmayer/consolefs/internal/util"
)

// DispatchFunc runs one command line exactly as if it had been typed
// interactively. Errors are the dispatcher's to render; a failing line does
// not stop the rest of the script.
type DispatchFunc func(line string)

// Executor runs executable files as command scripts. A single depth counter
// bounds re-entrancy so scripts that exec themselves (or each other) stop at
// the configured limit instead of recursing unboundedly. One Executor
// belongs to one shell session, the sole execution context.
type Executor struct {
	fs       *FileSystem
	maxDepth int
	depth    int
}

// NewExecutor creates an Executor bound to fs, with the depth limit taken
// from its configuration.
func NewExecutor(fs *FileSystem) *Executor {
	return &Executor{fs: fs, maxDepth: fs.cfg.MaxScriptDepth}
}

// Run looks up path, requires it to be an executable file, and dispatches
// its content line by line. When the nesting limit is already reached the
// call refuses without incrementing the counter.
func (e *Executor) Run(path string, dispatch DispatchFunc) error {
	content, err := e.fs.Executable(path)
	if err != nil {
		return err
	}
	if e.depth >= e.maxDepth {
		return fmt.Errorf("exec %q at depth %d: %w", path, e.depth, consolefs.ErrNestingLimit)
	}

	e.depth++
	defer func() { e.depth-- }()

	logger := util.GetLogger("script")
	lines := ScriptLines(content)
	logger.Debug().Str("path", path).Int("depth", e.depth).Int("lines", len(lines)).Msg("Running script")
	for _, line := range lines {
		dispatch(line)
	}
	return nil
}

// Depth returns the current nesting depth; 0 when no script is running.
func (e *Executor) Depth() int { return e.depth }

// ScriptLines splits script content into logical command lines. Lines break
// on newlines and semicolons; blank lines and lines whose first non-space
// character is '#' are dropped.
func ScriptLines(content string) []string {
	var lines []string
	for _, raw := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == ';'
	}) {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
