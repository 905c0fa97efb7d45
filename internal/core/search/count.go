package search

import "ctlgrep/internal/core/pattern"

// Count returns the number of matches in text without materializing
// positional detail. Pure function of its inputs; the only failure is
// the matcher's SyntaxError.
func Count(text string, m pattern.Matcher) (int, error) {
	n := 0
	if err := scan(text, m, func(int, int) { n++ }); err != nil {
		return 0, err
	}
	return n, nil
}
