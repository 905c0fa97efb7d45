package ctlgrepcli

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestIndexBuildThenQuery(t *testing.T) {
	design := writeSampleDesign(t)
	db := filepath.Join(t.TempDir(), "snapshot.db")

	out, err := runCLI(t, "index", "build", "-f", design, "-d", db)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(out, "indexed 3 controls") {
		t.Fatalf("output: %s", out)
	}

	out, err = runCLI(t, "q", "gamma", "-d", db)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(out, "1 occurrence found in component: Router.code") {
		t.Fatalf("output: %s", out)
	}
}

func TestIndexBuild_RequiresSource(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshot.db")
	if _, err := runCLI(t, "index", "build", "-d", db); err == nil {
		t.Fatal("expected error without --design or --dir")
	}
}

func TestQ_EmptySnapshot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "snapshot.db")
	if _, err := runCLI(t, "q", "x", "-d", db); err == nil {
		t.Fatal("expected error for empty snapshot")
	}
}
