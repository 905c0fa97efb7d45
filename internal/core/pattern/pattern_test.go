package pattern

import (
	"errors"
	"testing"
)

func TestEscapeCaptures(t *testing.T) {
	got := EscapeCaptures("f(x, y)")
	if got != "f%(x, y%)" {
		t.Fatalf("escaped=%q", got)
	}
}

func TestLiteralFind(t *testing.T) {
	m, err := New("foo", false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	start, end, ok, err := m.Find("a foo b", 0)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if start != 2 || end != 5 {
		t.Fatalf("start=%d end=%d", start, end)
	}
}

func TestLiteralFind_FromOffset(t *testing.T) {
	m, _ := New("aa", false)
	start, _, ok, _ := m.Find("aaaa", 1)
	if !ok || start != 1 {
		t.Fatalf("ok=%v start=%d", ok, start)
	}
	_, _, ok, _ = m.Find("aaaa", 4)
	if ok {
		t.Fatal("expected no match past end")
	}
}

func TestLiteralNeverFails(t *testing.T) {
	m, err := New("a%b[", false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, _, ok, err := m.Find("x a%b[ y", 0)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestLuaFind(t *testing.T) {
	m, err := New("%d+", true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	start, end, ok, err := m.Find("ab 123 cd", 0)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if start != 3 || end != 6 {
		t.Fatalf("start=%d end=%d", start, end)
	}
}

func TestLuaFind_ParensAreLiteral(t *testing.T) {
	// Parentheses are neutralized: they must match literal ( and ),
	// never open a capture, and never error.
	m, err := New("call(x)", true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	start, end, ok, err := m.Find("y = call(x) + 1", 0)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if start != 4 || end != 11 {
		t.Fatalf("start=%d end=%d", start, end)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	for _, expr := range []string{"abc%", "[abc", "a%%%", "%"} {
		_, err := New(expr, true)
		if err == nil {
			t.Fatalf("expected error for %q", expr)
		}
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Fatalf("expected SyntaxError, got %T", err)
		}
		if serr.Pattern != expr {
			t.Fatalf("pattern=%q", serr.Pattern)
		}
	}
}

func TestNew_EscapedPercentIsValid(t *testing.T) {
	// An even run of trailing % is a literal percent, not a dangling
	// escape: "abc%%" matches "abc%".
	m, err := New("abc%%", true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	start, end, ok, err := m.Find("x abc% y", 0)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if start != 2 || end != 6 {
		t.Fatalf("start=%d end=%d", start, end)
	}
}

func TestNew_EmptyMatchesNothing(t *testing.T) {
	for _, patternMode := range []bool{false, true} {
		m, err := New("", patternMode)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		_, _, ok, err := m.Find("anything", 0)
		if err != nil || ok {
			t.Fatalf("patternMode=%v ok=%v err=%v", patternMode, ok, err)
		}
	}
}
