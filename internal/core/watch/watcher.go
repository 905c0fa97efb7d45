package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"ctlgrep/internal/core/walk"
)

// Watcher observes either a single design file or a directory of
// control files and fires OnChange after changes settle. When watching
// a single file, events for siblings in the same directory are ignored.
type Watcher struct {
	rootAbs string
	fileRel string // non-empty in single-file mode

	filter    *walk.Filter
	debouncer *Debouncer
	debounce  time.Duration

	watcher   *fsnotify.Watcher
	closeOnce sync.Once
	closed    chan struct{}
}

type Options struct {
	Debounce         time.Duration
	AdaptiveDebounce bool
	DebounceMin      time.Duration
	DebounceMax      time.Duration
	OnChange         func(paths []string)
}

// NewFileWatcher watches one design file. fsnotify watches directories
// reliably across platforms, so the parent directory is registered and
// events are filtered down to the file itself. This also survives the
// rename-and-replace save style editors use.
func NewFileWatcher(path string, wopts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	abs = filepath.Clean(abs)
	if strings.TrimSpace(abs) == "" {
		return nil, fmt.Errorf("path is required")
	}

	w, err := newWatcher(filepath.Dir(abs), nil, wopts)
	if err != nil {
		return nil, err
	}
	w.fileRel = filepath.Base(abs)

	if err := w.watcher.Add(w.rootAbs); err != nil {
		_ = w.watcher.Close()
		return nil, err
	}
	return w, nil
}

// NewDirWatcher watches a directory tree of control files, honoring the
// same include/exclude rules the directory loader uses.
func NewDirWatcher(root string, walkOpts walk.Options, wopts Options) (*Watcher, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	rootAbs = filepath.Clean(rootAbs)
	if strings.TrimSpace(rootAbs) == "" {
		return nil, fmt.Errorf("root is required")
	}

	filter, err := walk.NewFilter(rootAbs, walkOpts)
	if err != nil {
		return nil, err
	}

	w, err := newWatcher(rootAbs, filter, wopts)
	if err != nil {
		return nil, err
	}

	if err := w.addExistingDirs(); err != nil {
		_ = w.watcher.Close()
		return nil, err
	}
	return w, nil
}

func newWatcher(rootAbs string, filter *walk.Filter, wopts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounce := wopts.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	minDelay := wopts.DebounceMin
	if minDelay <= 0 {
		minDelay = 50 * time.Millisecond
	}
	maxDelay := wopts.DebounceMax
	if maxDelay <= 0 {
		maxDelay = 500 * time.Millisecond
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	w := &Watcher{
		rootAbs:   rootAbs,
		filter:    filter,
		debouncer: NewDebouncer(debounce),
		debounce:  debounce,
		watcher:   fsw,
		closed:    make(chan struct{}),
	}
	if wopts.AdaptiveDebounce {
		w.debouncer.SetDelayFunc(func(count int) time.Duration {
			switch {
			case count <= 10:
				return minDelay
			case count <= 100:
				return minDelay * 2
			case count <= 500:
				return minDelay * 4
			default:
				return maxDelay
			}
		})
	}
	if wopts.OnChange != nil {
		w.debouncer.OnFire(wopts.OnChange)
	}
	return w, nil
}

func (w *Watcher) Debounce() time.Duration {
	if w == nil {
		return 0
	}
	return w.debounce
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}

	w.closeOnce.Do(func() {
		close(w.closed)
		// A reload queued just before Close must not fire after it.
		w.debouncer.Stop()
	})

	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.watcher == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.closed:
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (w *Watcher) addExistingDirs() error {
	return filepath.WalkDir(w.rootAbs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p == w.rootAbs {
			return w.watcher.Add(p)
		}

		rel, err := filepath.Rel(w.rootAbs, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if w.filter != nil && !w.filter.ShouldInclude(rel, true) {
			return filepath.SkipDir
		}

		return w.watcher.Add(p)
	})
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	rel, ok := w.toRel(ev.Name)
	if !ok {
		return
	}

	if w.fileRel != "" {
		if rel == w.fileRel && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
			w.debouncer.Push(rel)
		}
		return
	}

	if ev.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			_ = w.addDirRecursive(ev.Name)
			return
		}
	}

	if w.filter != nil && !w.filter.ShouldInclude(rel, false) {
		return
	}

	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.debouncer.Push(rel)
	}
}

func (w *Watcher) toRel(abs string) (string, bool) {
	if strings.TrimSpace(abs) == "" {
		return "", false
	}

	abs = filepath.Clean(abs)
	rel, err := filepath.Rel(w.rootAbs, abs)
	if err != nil {
		return "", false
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	return rel, true
}

func (w *Watcher) addDirRecursive(absDir string) error {
	absDir = filepath.Clean(absDir)

	return filepath.WalkDir(absDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		rel, ok := w.toRel(p)
		if !ok {
			return nil
		}
		if w.filter != nil && !w.filter.ShouldInclude(rel, true) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}
