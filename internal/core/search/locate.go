package search

import (
	"ctlgrep/internal/core/pattern"
	"ctlgrep/internal/model"
)

// Locate re-scans text with the same iterator as Count and resolves
// each match to its line, column and containing line. Column is
// computed against the untrimmed line; display-side trimming does not
// adjust it.
func Locate(text string, m pattern.Matcher) ([]model.Occurrence, error) {
	var out []model.Occurrence
	var lines []string

	err := scan(text, m, func(start, end int) {
		if lines == nil {
			lines = splitLines(text)
		}
		line, col, raw := position(lines, start)
		out = append(out, model.Occurrence{
			Start: start,
			End:   end,
			Line:  line,
			Col:   col,
			Text:  raw,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
