package model

// Buffer is one named unit of searchable text. The label is the
// component-qualified control name, e.g. "Mixer.code".
type Buffer struct {
	Label string `json:"label"`
	Text  string `json:"-"`
}

// Occurrence is one located match within a buffer. Offsets are 0-based
// byte positions; Line and Col are 1-based. Text is the raw (untrimmed)
// line containing the match start.
type Occurrence struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
	Text  string `json:"text"`
}

// ResultItem groups the occurrences found in one buffer.
type ResultItem struct {
	Label       string       `json:"label"`
	Count       int          `json:"count"`
	Occurrences []Occurrence `json:"occurrences,omitempty"`
}
