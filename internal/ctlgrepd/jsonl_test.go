package ctlgrepd

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadOneLine_SkipsBlankLines(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\n  \n{\"a\":1}\n"))
	line, err := ReadOneLine(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(line) != `{"a":1}` {
		t.Fatalf("line=%q", line)
	}
}

func TestReadOneLine_EOFWithoutNewline(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(`{"a":1}`))
	line, err := ReadOneLine(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(line) != `{"a":1}` {
		t.Fatalf("line=%q", line)
	}
	if _, err := ReadOneLine(r); !errors.Is(err, io.EOF) {
		t.Fatalf("err=%v", err)
	}
}

func TestReadOneLine_TooLong(t *testing.T) {
	huge := strings.Repeat("x", MaxLineBytes+1) + "\n"
	r := bufio.NewReader(strings.NewReader(huge))
	if _, err := ReadOneLine(r); !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("err=%v", err)
	}
}

func TestWriteOneLine_TooLong(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOneLine(&buf, strings.Repeat("x", MaxLineBytes))
	if !errors.Is(err, ErrLineTooLong) {
		t.Fatalf("err=%v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("partial write: %d bytes", buf.Len())
	}
}
