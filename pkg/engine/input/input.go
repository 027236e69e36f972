package input

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// ErrClosed is returned by Reader.Next once the input is exhausted.
var ErrClosed = errors.New("input closed")

// Reader turns terminal input into RawInput events. On a real terminal it
// reads single keys in raw mode; otherwise (pipes, tests) it reads one
// command word per line.
type Reader struct {
	file *os.File
	in   *bufio.Reader
	raw  bool
}

// NewReader creates a reader over f, normally os.Stdin.
func NewReader(f *os.File) *Reader {
	return &Reader{
		file: f,
		in:   bufio.NewReader(f),
		raw:  term.IsTerminal(int(f.Fd())),
	}
}

// NewLineReader creates a reader that always reads whole lines from r.
func NewLineReader(r io.Reader) *Reader {
	return &Reader{in: bufio.NewReader(r)}
}

// Next blocks until the next event is available.
func (r *Reader) Next() (RawInput, error) {
	var (
		code string
		err  error
	)
	if r.raw {
		code, err = r.readKey()
	} else {
		code, err = r.readLine()
	}
	if err != nil {
		return RawInput{}, err
	}
	return RawInput{Device: DeviceTerminal, Code: code, Timestamp: time.Now()}, nil
}

func (r *Reader) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrClosed
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "enter", nil
	}
	return line, nil
}

// readKey reads one key press in raw mode.
func (r *Reader) readKey() (string, error) {
	fd := int(r.file.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(fd, oldState)

	return decodeKey(r.in)
}

// decodeKey maps the bytes of one key press to a code. Arrow keys arrive
// as CSI (ESC [) or SS3 (ESC O) sequences.
func decodeKey(in io.ByteReader) (string, error) {
	b, err := in.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrClosed
		}
		return "", err
	}

	switch b {
	case 0x1b:
		return decodeEscape(in)
	case 3:
		return "ctrl_c", nil
	case 25:
		return "ctrl_y", nil
	case 26:
		return "ctrl_z", nil
	case '\r', '\n':
		return "enter", nil
	case ' ':
		return "space", nil
	}
	if b >= 32 && b < 127 {
		return strings.ToLower(string(b)), nil
	}
	return "", nil
}

func decodeEscape(in io.ByteReader) (string, error) {
	b2, err := in.ReadByte()
	if err != nil {
		return "escape", nil
	}
	if b2 != '[' && b2 != 'O' {
		return "escape", nil
	}

	b3, err := in.ReadByte()
	if err != nil {
		return "escape", nil
	}
	switch b3 {
	case 'A':
		return "arrow_up", nil
	case 'B':
		return "arrow_down", nil
	case 'C':
		return "arrow_right", nil
	case 'D':
		return "arrow_left", nil
	}
	// Unknown escape sequence - discard it
	return "", nil
}
