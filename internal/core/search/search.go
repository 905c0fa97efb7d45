// Package search scans buffers for a literal substring or Lua pattern.
// Count and Locate are two passes over the same iterator: the first
// produces the occurrence total, the second the per-match positions.
package search

import (
	"ctlgrep/internal/core/pattern"
	"ctlgrep/internal/core/report"
	"ctlgrep/internal/model"
)

type Options struct {
	Pattern     string
	PatternMode bool
}

// Run searches every buffer in order and renders the full report. A
// pattern SyntaxError aborts the whole search: the partial accumulation
// is discarded and the error is returned for the caller to surface as
// the entire output.
func Run(buffers []model.Buffer, opts Options) (string, error) {
	m, err := pattern.New(opts.Pattern, opts.PatternMode)
	if err != nil {
		return "", err
	}

	b := report.NewBuilder()
	for _, buf := range buffers {
		if err := scanInto(b, buf, m); err != nil {
			return "", err
		}
	}
	return b.Render(opts.PatternMode), nil
}

// Collect is Run with structured results instead of rendered text, for
// JSONL output and RPC responses. Buffers with no occurrences are
// omitted, matching the report.
func Collect(buffers []model.Buffer, opts Options) ([]model.ResultItem, error) {
	m, err := pattern.New(opts.Pattern, opts.PatternMode)
	if err != nil {
		return nil, err
	}

	var items []model.ResultItem
	for _, buf := range buffers {
		n, err := Count(buf.Text, m)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			continue
		}
		occs, err := Locate(buf.Text, m)
		if err != nil {
			return nil, err
		}
		items = append(items, model.ResultItem{
			Label:       buf.Label,
			Count:       n,
			Occurrences: occs,
		})
	}
	return items, nil
}

// scanInto appends one buffer's entries: nothing when the count is
// zero, otherwise the summary line followed by every occurrence block.
func scanInto(b *report.Builder, buf model.Buffer, m pattern.Matcher) error {
	n, err := Count(buf.Text, m)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	b.AppendSummary(n, buf.Label)
	occs, err := Locate(buf.Text, m)
	if err != nil {
		return err
	}
	for i, occ := range occs {
		b.AppendOccurrence(i+1, occ)
	}
	return nil
}
