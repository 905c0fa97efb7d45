package cache

import (
	"container/list"
	"fmt"
	"sync"

	"ctlgrep/internal/model"
)

// Result is a cached search outcome: the rendered report plus the
// structured items it was built from.
type Result struct {
	Report string
	Items  []model.ResultItem
}

// Key builds a cache key from everything that affects a search result.
// The design version is part of the key, so reloading a design naturally
// invalidates older entries without an explicit purge.
func Key(designID string, version int, pattern string, patternMode bool, allControls bool, controlName string) string {
	return fmt.Sprintf("%s|%d|%t|%t|%s|%s", designID, version, patternMode, allControls, controlName, pattern)
}

type entry struct {
	key string
	val Result
}

// Results is an LRU cache of search results, safe for concurrent use.
type Results struct {
	mu  sync.Mutex
	cap int
	ll  *list.List
	m   map[string]*list.Element
}

func NewResults(capacity int) *Results {
	if capacity <= 0 {
		capacity = 1
	}
	return &Results{
		cap: capacity,
		ll:  list.New(),
		m:   map[string]*list.Element{},
	}
}

func (c *Results) Get(key string) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.m[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*entry).val, true
	}
	return Result{}, false
}

func (c *Results) Put(key string, val Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.m[key]; ok {
		el.Value.(*entry).val = val
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry{key: key, val: val})
	c.m[key] = el

	for c.ll.Len() > c.cap {
		last := c.ll.Back()
		if last == nil {
			break
		}
		ent := last.Value.(*entry)
		delete(c.m, ent.key)
		c.ll.Remove(last)
	}
}

func (c *Results) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
