package search

import (
	"strings"

	"ctlgrep/internal/core/pattern"
)

// scan drives both Count and Locate. After every match the cursor moves
// to matchStart+1, not matchEnd, so overlapping matches are counted.
// Count and Locate share this single iterator; their totals cannot
// diverge.
func scan(text string, m pattern.Matcher, visit func(start, end int)) error {
	from := 0
	for from <= len(text) {
		start, end, ok, err := m.Find(text, from)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		visit(start, end)
		from = start + 1
	}
	return nil
}

// splitLines splits on \n with a conceptual trailing newline, so text
// without a final terminator still yields its last line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// position resolves a 0-based byte offset to its 1-based line and
// column plus the raw line text. Each line accounts for its length plus
// one terminator character.
func position(lines []string, offset int) (line, col int, text string) {
	lineStart := 0
	for i, l := range lines {
		next := lineStart + len(l) + 1
		if offset < next {
			return i + 1, offset - lineStart + 1, l
		}
		lineStart = next
	}
	// Offset past the last terminator (an end-anchored pattern match):
	// clamp to the final line.
	if n := len(lines); n > 0 {
		last := lines[n-1]
		start := lineStart - len(last) - 1
		return n, offset - start + 1, last
	}
	return 1, offset + 1, ""
}
