package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tmayer/consolefs"
)

// RegisterBuiltins registers the full built-in command surface. Call once
// during app init before running any shell session.
func RegisterBuiltins() {
	Register("help", cmdHelp)
	Register("echo", cmdEcho)
	Register("mkdir", cmdMkdir)
	Register("rmdir", cmdRmdir)
	Register("touch", cmdTouch)
	Register("touchro", cmdTouchRO)
	Register("rm", cmdRm)
	Register("ls", cmdLs)
	Register("cd", cmdCd)
	Register("pwd", cmdPwd)
	Register("write", cmdWrite)
	Register("cat", cmdCat)
	Register("chmod", cmdChmod)
	Register("stat", cmdStat)
	Register("exec", cmdExec)
}

var helpText = []string{
	"Available commands:",
	"  help              - Show this help message",
	"  echo <text>       - Echo text back",
	"",
	"--- File Operations ---",
	"  touch <path>      - Create file (default: rw permissions)",
	"  touchro <path>    - Create read-only file",
	"  cat <path>        - Print file contents",
	"  write <path> <txt>- Write text to file",
	"  rm <path>         - Delete a file",
	"",
	"--- Directory Operations ---",
	"  mkdir [-p] <path> - Create directory (-p creates parents)",
	"  rmdir <path>      - Delete empty directory",
	"  ls [path]         - List files (shows permissions)",
	"  ls -a [path]      - List all files (incl. hidden)",
	"  cd <path>         - Change directory",
	"  pwd               - Print working directory",
	"",
	"--- Protection & Permissions ---",
	"  chmod <path> <n>  - Change permissions (0-7)",
	"  stat <path>       - Show file/dir info",
	"  exec <path>       - Run file as a command script",
	"",
	"Permission values: 4=read, 2=write, 1=execute",
	"  Examples: 7=rwx, 6=rw-, 5=r-x, 4=r--, 0=---",
	"System nodes ([SYSTEM] flag) cannot be deleted or modified.",
}

func cmdHelp(s *Shell, _ string) {
	for _, line := range helpText {
		s.println(line)
	}
}

func cmdEcho(s *Shell, args string) {
	s.println(args)
}

func cmdMkdir(s *Shell, args string) {
	recursive := false
	if args == "-p" || strings.HasPrefix(args, "-p ") {
		recursive = true
		args = strings.TrimLeft(strings.TrimPrefix(args, "-p"), " ")
	}
	if args == "" {
		s.errorf("Usage: mkdir [-p] <path>")
		return
	}
	var err error
	if recursive {
		err = s.fs.MkdirAll(args)
	} else {
		err = s.fs.Mkdir(args)
	}
	if err != nil {
		s.fail(err)
	}
}

func cmdRmdir(s *Shell, args string) {
	if args == "" {
		s.errorf("Usage: rmdir <path>")
		return
	}
	if err := s.fs.RemoveDir(args); err != nil {
		s.fail(err)
	}
}

func cmdTouch(s *Shell, args string) {
	if args == "" {
		s.errorf("Usage: touch <path>")
		return
	}
	if err := s.fs.Touch(args); err != nil {
		s.fail(err)
	}
}

func cmdTouchRO(s *Shell, args string) {
	if args == "" {
		s.errorf("Usage: touchro <path>")
		return
	}
	if err := s.fs.CreateFile(args, consolefs.ReadOnlyPerm); err != nil {
		s.fail(err)
	}
}

func cmdRm(s *Shell, args string) {
	if args == "" {
		s.errorf("Usage: rm <path>")
		return
	}
	if err := s.fs.Remove(args); err != nil {
		s.fail(err)
	}
}

func cmdLs(s *Shell, args string) {
	includeHidden := false
	if args == "-a" || strings.HasPrefix(args, "-a ") {
		includeHidden = true
		args = strings.TrimLeft(strings.TrimPrefix(args, "-a"), " ")
	}

	entries, err := s.fs.List(args, includeHidden)
	if err != nil {
		s.fail(err)
		return
	}
	for _, e := range entries {
		s.printf("%s %s  ", e.Perms, flagMarker(e.Flags))
		if e.Kind == consolefs.DirNode {
			s.colorDir.Fprint(s.con, e.Name+"/") //nolint:errcheck
		} else {
			s.printf("%s", e.Name)
		}
		s.println("")
	}
}

// flagMarker renders the compact two-column S/H marker used in listings.
func flagMarker(f consolefs.Flag) string {
	marker := [2]byte{'-', '-'}
	if f.IsSystem() {
		marker[0] = 'S'
	}
	if f.IsHidden() {
		marker[1] = 'H'
	}
	return string(marker[:])
}

func cmdCd(s *Shell, args string) {
	if args == "" {
		s.errorf("Usage: cd <path>")
		return
	}
	if err := s.fs.Chdir(args); err != nil {
		s.fail(err)
	}
}

func cmdPwd(s *Shell, _ string) {
	s.println(s.fs.WorkingDir())
}

func cmdWrite(s *Shell, args string) {
	path, text := splitToken(args)
	if path == "" {
		s.errorf("Usage: write <path> <text>")
		return
	}
	if err := s.fs.WriteFile(path, text); err != nil {
		s.fail(err)
		return
	}
	s.println("File written.")
}

func cmdCat(s *Shell, args string) {
	if args == "" {
		s.errorf("Usage: cat <path>")
		return
	}
	content, err := s.fs.ReadFile(args)
	if err != nil {
		s.fail(err)
		return
	}
	s.println(content)
}

func cmdChmod(s *Shell, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		s.errorf("Usage: chmod <path> <0-7>")
		return
	}
	value, err := strconv.Atoi(fields[1])
	if err != nil {
		s.fail(fmt.Errorf("permission value %q is not a number: %w", fields[1], consolefs.ErrInvalidArgument))
		return
	}
	if err := s.fs.Chmod(fields[0], value); err != nil {
		s.fail(err)
	}
}

func cmdStat(s *Shell, args string) {
	if args == "" {
		s.errorf("Usage: stat <path>")
		return
	}
	info, err := s.fs.Stat(args)
	if err != nil {
		s.fail(err)
		return
	}
	s.printf("Name:  %s\r\n", info.Name)
	s.printf("Type:  %s\r\n", info.Kind)
	s.printf("Perms: %s (%d)\r\n", info.Perms, info.Perms.Value())
	s.printf("Flags: %s\r\n", info.Flags)
	if info.Kind == consolefs.DirNode {
		s.printf("Size:  %d entries\r\n", info.Size)
	} else {
		s.printf("Size:  %d bytes\r\n", info.Size)
	}
}

func cmdExec(s *Shell, args string) {
	if args == "" {
		s.errorf("Usage: exec <path>")
		return
	}
	if err := s.exec.Run(args, s.Dispatch); err != nil {
		s.fail(err)
	}
}
