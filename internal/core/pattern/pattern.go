// Package pattern compiles search expressions into matchers. Two modes
// exist: literal substring matching and Lua patterns (the dialect of
// gopher-lua's string library). Capture groups are never used, so in
// pattern mode every ( and ) is pre-escaped to match literally.
package pattern

import (
	"fmt"
	"strings"

	"github.com/yuin/gopher-lua/pm"
)

// Specials are the Lua pattern characters the user must escape with %
// when they are meant literally. Parentheses are escaped automatically.
const Specials = ". [ ] * + - ? ^ $ %"

// SyntaxError reports a malformed pattern. Pattern holds the original
// user-entered string, before capture escaping.
type SyntaxError struct {
	Pattern string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Matcher finds the next match at or after a 0-based byte offset.
// start/end are 0-based, end exclusive. A Lua matcher can fail with a
// SyntaxError; the literal matcher never fails.
type Matcher interface {
	Find(text string, from int) (start, end int, ok bool, err error)
}

var parenEscaper = strings.NewReplacer("(", "%(", ")", "%)")

// EscapeCaptures escapes every ( and ) with % so the Lua matcher treats
// them as literal characters instead of capture delimiters.
func EscapeCaptures(expr string) string {
	return parenEscaper.Replace(expr)
}

// New builds a matcher for expr. In pattern mode the expression is
// capture-escaped and validated once against the empty string, so a
// malformed pattern is rejected before any buffer is scanned. An empty
// expression matches nothing in either mode.
func New(expr string, patternMode bool) (Matcher, error) {
	if expr == "" {
		return nothingMatcher{}, nil
	}
	if !patternMode {
		return literalMatcher{needle: expr}, nil
	}

	escaped := EscapeCaptures(expr)
	// pm lets a dangling % through; Lua's matcher rejects it.
	if endsWithDanglingEscape(escaped) {
		return nil, &SyntaxError{Pattern: expr, Err: fmt.Errorf("malformed pattern (ends with '%%')")}
	}
	if _, err := pm.Find(escaped, nil, 0, 1); err != nil {
		return nil, &SyntaxError{Pattern: expr, Err: err}
	}
	return &luaMatcher{expr: expr, escaped: escaped}, nil
}

// endsWithDanglingEscape reports whether p ends in an unpaired %: an
// odd run of trailing % leaves the last one with nothing to escape.
func endsWithDanglingEscape(p string) bool {
	n := 0
	for i := len(p) - 1; i >= 0 && p[i] == '%'; i-- {
		n++
	}
	return n%2 == 1
}

type literalMatcher struct {
	needle string
}

func (m literalMatcher) Find(text string, from int) (int, int, bool, error) {
	if from < 0 {
		from = 0
	}
	if from > len(text) {
		return 0, 0, false, nil
	}
	i := strings.Index(text[from:], m.needle)
	if i < 0 {
		return 0, 0, false, nil
	}
	start := from + i
	return start, start + len(m.needle), true, nil
}

type luaMatcher struct {
	expr    string
	escaped string
}

func (m *luaMatcher) Find(text string, from int) (int, int, bool, error) {
	if from < 0 {
		from = 0
	}
	if from > len(text) {
		return 0, 0, false, nil
	}
	mds, err := pm.Find(m.escaped, []byte(text), from, 1)
	if err != nil {
		return 0, 0, false, &SyntaxError{Pattern: m.expr, Err: err}
	}
	if len(mds) == 0 {
		return 0, 0, false, nil
	}
	md := mds[0]
	return md.Capture(0), md.Capture(1), true, nil
}

type nothingMatcher struct{}

func (nothingMatcher) Find(string, int) (int, int, bool, error) {
	return 0, 0, false, nil
}
