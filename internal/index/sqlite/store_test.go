package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"ctlgrep/internal/index/store"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestReplaceAndListControls(t *testing.T) {
	s := openTemp(t)

	controls := []store.Control{
		{Component: "Mixer", Name: "code", Text: "foo = 1"},
		{Component: "Router", Name: "code", Text: "route(1, 2)"},
	}
	if err := s.ReplaceControls("snap1", controls); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.Controls("snap1")
	if err != nil {
		t.Fatalf("controls: %v", err)
	}
	if len(got) != 2 || got[0].Component != "Mixer" || got[1].Component != "Router" {
		t.Fatalf("controls=%+v", got)
	}
	if got[1].Text != "route(1, 2)" {
		t.Fatalf("text=%q", got[1].Text)
	}

	n, err := s.CountControls("snap1")
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestReplaceControls_ReplacesExisting(t *testing.T) {
	s := openTemp(t)

	if err := s.ReplaceControls("snap1", []store.Control{
		{Component: "A", Name: "code", Text: "old"},
		{Component: "B", Name: "code", Text: "old"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.ReplaceControls("snap1", []store.Control{
		{Component: "A", Name: "code", Text: "new"},
	}); err != nil {
		t.Fatalf("replace2: %v", err)
	}

	got, err := s.Controls("snap1")
	if err != nil {
		t.Fatalf("controls: %v", err)
	}
	if len(got) != 1 || got[0].Text != "new" {
		t.Fatalf("controls=%+v", got)
	}
}

func TestGetSnapshot(t *testing.T) {
	s := openTemp(t)

	if err := s.EnsureSnapshot("snap1", "design.json"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	snap, err := s.GetSnapshot("snap1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if snap.ID != "snap1" || snap.Source != "design.json" || snap.CreatedAt == 0 {
		t.Fatalf("snap=%+v", snap)
	}
}

func TestGetSnapshot_NotFound(t *testing.T) {
	s := openTemp(t)

	_, err := s.GetSnapshot("missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestReplaceControls_AllowsRepeatedNames(t *testing.T) {
	s := openTemp(t)

	// Design exports can repeat a control name within a component; both
	// rows are kept, in insertion order.
	if err := s.ReplaceControls("snap1", []store.Control{
		{Component: "Mixer", Name: "code", Text: "first"},
		{Component: "Mixer", Name: "code", Text: "second"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := s.Controls("snap1")
	if err != nil {
		t.Fatalf("controls: %v", err)
	}
	if len(got) != 2 || got[0].Text != "first" || got[1].Text != "second" {
		t.Fatalf("controls=%+v", got)
	}
}

func TestReplaceControls_Validation(t *testing.T) {
	s := openTemp(t)

	if err := s.ReplaceControls("", nil); err == nil {
		t.Fatal("expected error for empty snapshot id")
	}
	if err := s.ReplaceControls("snap1", []store.Control{{Component: "", Name: "code"}}); err == nil {
		t.Fatal("expected error for empty component")
	}
}
