// Package report renders search results into the fixed text format the
// tool has always emitted: one summary line per matching buffer, then a
// three-line block per occurrence with a caret under the match column.
package report

import (
	"fmt"
	"strings"

	"ctlgrep/internal/core/pattern"
	"ctlgrep/internal/model"
)

const (
	// NoOccurrences is the whole-report sentinel for an empty result.
	NoOccurrences = "No occurrences found in any component"

	// PatternModeNote is appended to the sentinel when pattern mode is
	// on, since a miss is often an unescaped special character.
	PatternModeNote = "Note: pattern mode is on. Escape special characters " + pattern.Specials + " with %."

	indent = "      "
	caret  = "^"
)

// Builder accumulates report entries in scan order. One search
// invocation exclusively owns its Builder.
type Builder struct {
	entries []string
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Len() int { return len(b.entries) }

// AppendSummary writes the buffer-level header line.
func (b *Builder) AppendSummary(count int, label string) {
	word := "occurrences"
	if count == 1 {
		word = "occurrence"
	}
	b.entries = append(b.entries, fmt.Sprintf("%d %s found in component: %s", count, word, label))
}

// AppendOccurrence writes the three lines for one occurrence: the
// index/line/column header, the trimmed source line, and the caret
// marker. The caret column comes from the untrimmed line, so it can sit
// left of the match when the line had leading whitespace; that display
// quirk is kept on purpose.
func (b *Builder) AppendOccurrence(k int, occ model.Occurrence) {
	b.entries = append(b.entries,
		fmt.Sprintf("  [%d] Line %d, Column %d:", k, occ.Line, occ.Col),
		indent+strings.TrimSpace(occ.Text),
		indent+strings.Repeat(" ", occ.Col-1)+caret,
	)
}

// Render joins the accumulated entries. An empty report renders the
// sentinel, with the usage note when pattern mode was active.
func (b *Builder) Render(patternMode bool) string {
	if len(b.entries) == 0 {
		if patternMode {
			return NoOccurrences + "\n" + PatternModeNote
		}
		return NoOccurrences
	}
	return strings.Join(b.entries, "\n")
}

// InvalidPattern formats the error string that replaces the entire
// report when the pattern cannot be compiled. It shows the original
// user-entered pattern and the raw library diagnostic.
func InvalidPattern(err *pattern.SyntaxError) string {
	return fmt.Sprintf("Invalid pattern '%s': %v", err.Pattern, err.Err)
}
