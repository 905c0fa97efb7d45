// Package store defines the snapshot store contract shared by the
// sqlite and bleve backends. A snapshot is a persisted copy of a
// design's text controls; searches scan the raw stored text, so the
// backend choice never changes match semantics.
package store

type Snapshot struct {
	ID        string
	Source    string
	CreatedAt int64
}

type Control struct {
	Component string
	Name      string
	Text      string
}

type Store interface {
	Backend() string
	EnsureSnapshot(id string, source string) error
	GetSnapshot(id string) (Snapshot, error)
	// ReplaceControls swaps the full control set of a snapshot.
	// Controls returns them in insertion order.
	ReplaceControls(snapshotID string, controls []Control) error
	Controls(snapshotID string) ([]Control, error)
	CountControls(snapshotID string) (int, error)
	Close() error
}
