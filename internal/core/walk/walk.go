// Package walk lists the script files under a directory tree that a
// search should treat as buffers, honoring globs and gitignore rules.
package walk

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

type Options struct {
	IncludeGlobs []string
	ExcludeGlobs []string
	ScanAll      bool
}

// Filter decides whether a relative path belongs in a scan. It is also
// used by the watcher so watch and walk can never disagree.
type Filter struct {
	opts Options
	ig   *ignoreMatcher
}

func NewFilter(root string, opts Options) (*Filter, error) {
	ig, err := loadIgnoreMatcher(root, opts.ScanAll)
	if err != nil {
		return nil, err
	}
	return &Filter{opts: opts, ig: ig}, nil
}

func (f *Filter) ShouldInclude(rel string, isDir bool) bool {
	if f == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	name := path.Base(rel)

	if !f.opts.ScanAll {
		if isHidden(name) || (isDir && isSkippedDir(name)) {
			return false
		}
		if f.ig.isIgnored(rel, isDir) {
			return false
		}
	}
	if isDir {
		return true
	}

	if len(f.opts.IncludeGlobs) > 0 && !anyGlobMatch(f.opts.IncludeGlobs, rel) {
		return false
	}
	return !anyGlobMatch(f.opts.ExcludeGlobs, rel)
}

// ListFiles returns the sorted relative paths of every file under root
// that passes the filter.
func ListFiles(root string, opts Options) ([]string, error) {
	f, err := NewFilter(root, opts)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if !f.ShouldInclude(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if f.ShouldInclude(rel, false) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isSkippedDir(name string) bool {
	switch name {
	case ".git", "node_modules":
		return true
	default:
		return false
	}
}

func anyGlobMatch(patterns []string, rel string) bool {
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}
		// Patterns without a path separator match against the basename.
		target := rel
		if !strings.Contains(pat, "/") {
			target = path.Base(rel)
		}
		if ok, _ := path.Match(pat, target); ok {
			return true
		}
	}
	return false
}
