package ctlgrepd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MaxLineBytes bounds one framed message. Design exports are loaded by
// path, not shipped inline, so no legitimate request comes close.
const MaxLineBytes = 1 << 20

var ErrLineTooLong = fmt.Errorf("line exceeds %d bytes", MaxLineBytes)

// ReadOneLine returns the next non-blank line, trimmed. A final line
// without a trailing newline is still delivered before EOF.
func ReadOneLine(r *bufio.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("reader is nil")
	}

	for {
		line, err := r.ReadBytes('\n')
		if len(line) > MaxLineBytes {
			return nil, ErrLineTooLong
		}
		if err != nil && (err != io.EOF || len(line) == 0) {
			return nil, err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err == io.EOF {
				return nil, io.EOF
			}
			continue
		}
		return line, nil
	}
}

func WriteOneLine(w io.Writer, obj any) error {
	if w == nil {
		return fmt.Errorf("writer is nil")
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	if len(b) > MaxLineBytes {
		return ErrLineTooLong
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
