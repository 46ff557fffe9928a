package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tmayer/consolefs/filesystem"
	"github.com/tmayer/consolefs/internal/util"
)

// maxLineLen bounds the interactive line buffer; input past it is dropped.
const maxLineLen = 100

// Shell is one interactive session over a console byte stream. It is thin
// glue: commands map onto filesystem operations and errors are rendered as
// text on the console, never aborting the loop.
type Shell struct {
	fs     *filesystem.FileSystem
	exec   *filesystem.Executor
	con    *Console
	logger zerolog.Logger

	colorError  *color.Color
	colorDir    *color.Color
	colorPrompt *color.Color
}

// New creates a shell session bound to fs, reading and writing con.
func New(fs *filesystem.FileSystem, con *Console) *Shell {
	session := uuid.NewString()
	return &Shell{
		fs:          fs,
		exec:        filesystem.NewExecutor(fs),
		con:         con,
		logger:      util.GetLogger("shell").With().Str("session", session).Logger(),
		colorError:  color.New(color.FgRed),
		colorDir:    color.New(color.FgCyan),
		colorPrompt: color.New(color.FgGreen),
	}
}

// Run drives the prompt/read/dispatch loop until the input stream ends.
func (s *Shell) Run() error {
	s.println("consolefs: ready. Type 'help' for a list of commands.")
	s.logger.Info().Msg("Shell session started")

	for {
		s.colorPrompt.Fprint(s.con, "> ") //nolint:errcheck
		line, err := s.con.ReadLine(maxLineLen)
		if err != nil {
			if errors.Is(err, io.EOF) {
				// A final line without a terminator still runs.
				if line != "" {
					s.Dispatch(line)
				}
				s.logger.Info().Msg("Input stream closed, ending session")
				return nil
			}
			return err
		}
		s.Dispatch(line)
	}
}

// Dispatch runs one command line. Scripted lines come through here exactly
// like interactive ones.
func (s *Shell) Dispatch(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	name, args := splitToken(line)
	handler, ok := lookup(name)
	if !ok {
		s.errorf("Unknown command. Type 'help' for a list.")
		s.logger.Debug().Str("cmd", name).Msg("Unknown command")
		return
	}
	handler(s, args)
}

// splitToken splits off the first space-delimited token; rest keeps its
// interior spacing but loses the leading separator run.
func splitToken(line string) (token, rest string) {
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		return line[:idx], strings.TrimLeft(line[idx+1:], " ")
	}
	return line, ""
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.con, format, args...)
}

// println writes one output line with the CRLF convention of a raw console.
func (s *Shell) println(line string) {
	s.con.WriteString(line + "\r\n") //nolint:errcheck
}

// errorf renders a failure as a human-readable line.
func (s *Shell) errorf(format string, args ...any) {
	s.colorError.Fprintf(s.con, format, args...) //nolint:errcheck
	s.con.WriteString("\r\n")                    //nolint:errcheck
}

// fail reports an operation error on the console.
func (s *Shell) fail(err error) {
	s.errorf("%s", err.Error())
}
