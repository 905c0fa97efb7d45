package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ctlgrep/internal/core/walk"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestFileWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	design := filepath.Join(dir, "design.json")
	if err := os.WriteFile(design, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var mu sync.Mutex
	var fired []string
	w, err := NewFileWatcher(design, Options{
		Debounce: 50 * time.Millisecond,
		OnChange: func(paths []string) {
			mu.Lock()
			fired = append(fired, paths...)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(design, []byte(`{"Components":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fired) > 0
	})

	mu.Lock()
	defer mu.Unlock()
	if fired[0] != "design.json" {
		t.Fatalf("fired=%v", fired)
	}
}

func TestFileWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	design := filepath.Join(dir, "design.json")
	if err := os.WriteFile(design, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var mu sync.Mutex
	count := 0
	w, err := NewFileWatcher(design, Options{
		Debounce: 50 * time.Millisecond,
		OnChange: func(paths []string) {
			mu.Lock()
			count++
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Fatalf("expected no callback, got %d", count)
	}
}

func TestDirWatcher_FiresOnNewFile(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var fired []string
	w, err := NewDirWatcher(dir, walk.Options{ScanAll: true}, Options{
		Debounce: 50 * time.Millisecond,
		OnChange: func(paths []string) {
			mu.Lock()
			fired = append(fired, paths...)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "snippet.lua"), []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fired) > 0
	})

	mu.Lock()
	defer mu.Unlock()
	if fired[0] != "snippet.lua" {
		t.Fatalf("fired=%v", fired)
	}
}
