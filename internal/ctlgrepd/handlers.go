package ctlgrepd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ctlgrep/internal/core/cache"
	"ctlgrep/internal/core/pattern"
	"ctlgrep/internal/core/report"
	"ctlgrep/internal/core/search"
	"ctlgrep/internal/core/walk"
	"ctlgrep/internal/core/watch"
	"ctlgrep/internal/registry"
)

// designState is one loaded design. The mutex guards the registry and
// the version counter; the watcher bumps the version on every reload so
// stale cache entries die by key, never by purge.
type designState struct {
	source   string
	isDir    bool
	walkOpts walk.Options

	mu      sync.RWMutex
	design  *registry.Design
	version int

	watcher *watch.Watcher
	cancel  context.CancelFunc
}

type Handlers struct {
	mu      sync.RWMutex
	designs map[string]*designState
	cache   *cache.Results
}

func NewHandlers() *Handlers {
	return &Handlers{
		designs: map[string]*designState{},
		cache:   cache.NewResults(128),
	}
}

func (h *Handlers) DesignLoad(p DesignLoadParams) (DesignLoadResult, error) {
	if h == nil {
		return DesignLoadResult{}, fmt.Errorf("handlers is nil")
	}

	path := strings.TrimSpace(p.Path)
	dir := strings.TrimSpace(p.Dir)
	if (path == "") == (dir == "") {
		return DesignLoadResult{}, fmt.Errorf("exactly one of path and dir is required")
	}

	st := &designState{
		walkOpts: walk.Options{
			IncludeGlobs: p.IncludeGlobs,
			ExcludeGlobs: p.ExcludeGlobs,
			ScanAll:      p.ScanAll,
		},
		version: 1,
	}

	var err error
	if path != "" {
		if st.source, err = filepath.Abs(path); err != nil {
			return DesignLoadResult{}, err
		}
		st.design, err = registry.LoadFile(st.source)
	} else {
		st.isDir = true
		if st.source, err = filepath.Abs(dir); err != nil {
			return DesignLoadResult{}, err
		}
		st.design, err = registry.LoadDir(st.source, st.walkOpts)
	}
	if err != nil {
		return DesignLoadResult{}, err
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.designs[id] = st
	h.mu.Unlock()

	return DesignLoadResult{
		DesignID: id,
		Controls: len(st.design.Buffers(true, "")),
	}, nil
}

func (h *Handlers) Search(p SearchParams) (SearchResult, error) {
	if h == nil {
		return SearchResult{}, fmt.Errorf("handlers is nil")
	}

	st, ok := h.getDesign(p.DesignID)
	if !ok {
		return SearchResult{}, fmt.Errorf("design not found")
	}

	controlName := strings.TrimSpace(p.ControlName)
	if !p.AllControls && controlName == "" {
		controlName = "code"
	}

	st.mu.RLock()
	design := st.design
	version := st.version
	st.mu.RUnlock()

	key := cache.Key(p.DesignID, version, p.Q, p.PatternMode, p.AllControls, controlName)
	if res, ok := h.cache.Get(key); ok {
		log.Printf("search %s q=%q patternMode=%t: cache hit", p.DesignID, p.Q, p.PatternMode)
		return SearchResult{Report: res.Report, Items: res.Items}, nil
	}

	buffers := design.Buffers(p.AllControls, controlName)
	items, err := search.Collect(buffers, search.Options{
		Pattern:     p.Q,
		PatternMode: p.PatternMode,
	})
	if err != nil {
		var serr *pattern.SyntaxError
		if errors.As(err, &serr) {
			log.Printf("search %s q=%q: malformed pattern: %v", p.DesignID, p.Q, serr.Err)
			return SearchResult{Report: report.InvalidPattern(serr)}, nil
		}
		return SearchResult{}, err
	}

	total := 0
	for _, item := range items {
		total += item.Count
	}
	log.Printf("search %s q=%q patternMode=%t: %d occurrences in %d of %d buffers", p.DesignID, p.Q, p.PatternMode, total, len(items), len(buffers))

	// Rebuild the rendered report from the structured items. The two
	// views come from one scan, so they cannot disagree.
	b := report.NewBuilder()
	for _, item := range items {
		b.AppendSummary(item.Count, item.Label)
		for i, occ := range item.Occurrences {
			b.AppendOccurrence(i+1, occ)
		}
	}
	res := cache.Result{Report: b.Render(p.PatternMode), Items: items}
	h.cache.Put(key, res)

	return SearchResult{Report: res.Report, Items: res.Items}, nil
}

func (h *Handlers) WatchStart(p WatchStartParams) (WatchStatusResult, error) {
	if h == nil {
		return WatchStatusResult{}, fmt.Errorf("handlers is nil")
	}

	st, ok := h.getDesign(p.DesignID)
	if !ok {
		return WatchStatusResult{}, fmt.Errorf("design not found")
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.watcher != nil {
		return WatchStatusResult{Running: true, Version: st.version}, nil
	}

	wopts := watch.Options{
		Debounce: time.Duration(p.DebounceMS) * time.Millisecond,
		OnChange: func(paths []string) { h.reload(p.DesignID, st) },
	}

	var w *watch.Watcher
	var err error
	if st.isDir {
		w, err = watch.NewDirWatcher(st.source, st.walkOpts, wopts)
	} else {
		w, err = watch.NewFileWatcher(st.source, wopts)
	}
	if err != nil {
		return WatchStatusResult{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	st.watcher = w
	st.cancel = cancel
	go func() {
		if err := w.Run(ctx); err != nil {
			log.Printf("watch %s: %v", p.DesignID, err)
		}
	}()

	return WatchStatusResult{Running: true, Version: st.version}, nil
}

func (h *Handlers) WatchStop(p WatchStopParams) (WatchStatusResult, error) {
	if h == nil {
		return WatchStatusResult{}, fmt.Errorf("handlers is nil")
	}

	st, ok := h.getDesign(p.DesignID)
	if !ok {
		return WatchStatusResult{}, fmt.Errorf("design not found")
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.watcher != nil {
		_ = st.watcher.Close()
		st.watcher = nil
	}
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}

	return WatchStatusResult{Running: false, Version: st.version}, nil
}

func (h *Handlers) WatchStatus(p WatchStatusParams) (WatchStatusResult, error) {
	if h == nil {
		return WatchStatusResult{}, fmt.Errorf("handlers is nil")
	}

	st, ok := h.getDesign(p.DesignID)
	if !ok {
		return WatchStatusResult{}, fmt.Errorf("design not found")
	}

	st.mu.RLock()
	defer st.mu.RUnlock()
	return WatchStatusResult{Running: st.watcher != nil, Version: st.version}, nil
}

// reload re-reads the design source and bumps the version. A source
// that fails to parse mid-edit keeps the previous registry; the next
// successful reload replaces it.
func (h *Handlers) reload(id string, st *designState) {
	var d *registry.Design
	var err error
	if st.isDir {
		d, err = registry.LoadDir(st.source, st.walkOpts)
	} else {
		d, err = registry.LoadFile(st.source)
	}
	if err != nil {
		log.Printf("reload %s: %v", id, err)
		return
	}

	st.mu.Lock()
	st.design = d
	st.version++
	version := st.version
	st.mu.Unlock()

	log.Printf("reloaded %s (version %d)", id, version)
}

func (h *Handlers) getDesign(id string) (*designState, bool) {
	h.mu.RLock()
	st, ok := h.designs[strings.TrimSpace(id)]
	h.mu.RUnlock()
	return st, ok
}
