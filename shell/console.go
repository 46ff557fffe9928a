package shell

import (
	"bufio"
	"io"
)

// Control bytes recognized by the line reader.
const (
	byteBackspace = 0x08
	byteDelete    = 0x7f
)

// Console wraps the two primitives the shell consumes from its transport:
// read one byte (blocking) and write bytes. The transport itself — serial
// device, pty, test buffer — is the caller's business.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a Console over a raw byte stream pair.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{in: bufio.NewReader(r), out: w}
}

// Write implements io.Writer so renderers (including color printers) can
// target the console directly.
func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// WriteString writes s to the console.
func (c *Console) WriteString(s string) error {
	_, err := io.WriteString(c.out, s)
	return err
}

// ReadLine reads one line of input, echoing printable bytes back and
// honoring backspace/delete by erasing the previous character visually.
// CR or LF terminates the line. Input past max-1 bytes is ignored, the
// bounded-buffer behavior of a fixed line buffer.
func (c *Console) ReadLine(max int) (string, error) {
	buf := make([]byte, 0, max)
	for {
		b, err := c.in.ReadByte()
		if err != nil {
			return string(buf), err
		}

		switch b {
		case '\r', '\n':
			c.WriteString("\r\n") //nolint:errcheck
			return string(buf), nil

		case byteBackspace, byteDelete:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				c.WriteString("\b \b") //nolint:errcheck
			}

		default:
			if len(buf) < max-1 {
				buf = append(buf, b)
				c.Write([]byte{b}) //nolint:errcheck
			}
		}
	}
}
