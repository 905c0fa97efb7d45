package backend

import (
	"fmt"
	"path/filepath"
	"strings"

	"ctlgrep/internal/index/bleve"
	"ctlgrep/internal/index/sqlite"
	"ctlgrep/internal/index/store"
)

func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "sqlite", "sqlite3":
		return "sqlite"
	default:
		return name
	}
}

func DefaultPath(backend string) string {
	if NormalizeName(backend) == "bleve" {
		return filepath.Join(".ctlgrep", "snapshot.bleve")
	}
	return filepath.Join(".ctlgrep", "snapshot.db")
}

func Open(backend string, path string) (store.Store, error) {
	switch NormalizeName(backend) {
	case "sqlite":
		return sqlite.Open(path)
	case "bleve":
		return bleve.Open(path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
