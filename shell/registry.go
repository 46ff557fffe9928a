package shell

import (
	"github.com/puzpuzpuz/xsync/v4"
)

// Handler executes one shell command. args is the remainder of the line
// after the command token, already separator-trimmed.
type Handler func(s *Shell, args string)

var registry = xsync.NewMap[string, Handler]()

// Register ties a handler to a command token and should be called for each
// command during app init.
func Register(name string, h Handler) {
	registry.Store(name, h)
}

// lookup finds the handler for a command token. All expected commands
// should be registered with [Register] before the shell loop starts.
func lookup(name string) (Handler, bool) {
	return registry.Load(name)
}
