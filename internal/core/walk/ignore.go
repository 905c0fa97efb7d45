package walk

import (
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

type ignoreMatcher struct {
	matcher gitignore.Matcher
}

func loadIgnoreMatcher(root string, scanAll bool) (*ignoreMatcher, error) {
	if scanAll {
		return &ignoreMatcher{}, nil
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, err
	}
	return &ignoreMatcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

func (m *ignoreMatcher) isIgnored(rel string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return false
	}
	return m.matcher.Match(strings.Split(rel, "/"), isDir)
}
