package ctlgrepcli

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDesignJSON = `{
  "Design": "Demo",
  "Components": [
    {
      "Name": "Mixer",
      "Controls": [
        {"Name": "code", "Type": "Text", "String": "alpha\nbeta alpha"},
        {"Name": "notes", "Type": "Text", "String": "beta only"}
      ]
    },
    {
      "Name": "Router",
      "Controls": [
        {"Name": "code", "Type": "Text", "String": "gamma"}
      ]
    }
  ]
}`

func writeSampleDesign(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "design.json")
	if err := os.WriteFile(path, []byte(sampleDesignJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolateConfig(t)
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	out, _, err := ExecuteForTest(cmd)
	return out, err
}

func TestQ_DesignFile(t *testing.T) {
	design := writeSampleDesign(t)

	out, err := runCLI(t, "q", "alpha", "-f", design)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "2 occurrences found in component: Mixer.code") {
		t.Fatalf("output: %s", out)
	}
	if !strings.Contains(out, "[2] Line 2, Column 6:") {
		t.Fatalf("output: %s", out)
	}
}

func TestQ_AllControls(t *testing.T) {
	design := writeSampleDesign(t)

	out, err := runCLI(t, "q", "beta", "-f", design, "-a")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Mixer.code") || !strings.Contains(out, "Mixer.notes") {
		t.Fatalf("output: %s", out)
	}
}

func TestQ_NamedControlSkipsOthers(t *testing.T) {
	design := writeSampleDesign(t)

	out, err := runCLI(t, "q", "beta", "-f", design, "-n", "notes")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Contains(out, "Mixer.code") {
		t.Fatalf("expected only notes, got: %s", out)
	}
	if !strings.Contains(out, "1 occurrence found in component: Mixer.notes") {
		t.Fatalf("output: %s", out)
	}
}

func TestQ_NoMatchSentinel(t *testing.T) {
	design := writeSampleDesign(t)

	out, err := runCLI(t, "q", "zzz", "-f", design)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "No occurrences found in any component") {
		t.Fatalf("output: %s", out)
	}
	if strings.Contains(out, "Note: pattern mode is on") {
		t.Fatalf("note should not appear in literal mode: %s", out)
	}
}

func TestQ_InvalidPatternGoesToStdout(t *testing.T) {
	design := writeSampleDesign(t)

	out, err := runCLI(t, "q", "abc%", "-f", design, "-p")
	if err != nil {
		t.Fatalf("invalid pattern must not be an error: %v", err)
	}
	if !strings.Contains(out, "Invalid pattern 'abc%'") {
		t.Fatalf("output: %s", out)
	}
}

func TestQ_Jsonl(t *testing.T) {
	design := writeSampleDesign(t)

	out, err := runCLI(t, "q", "gamma", "-f", design, "--jsonl")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, `"label":"Router.code"`) || !strings.Contains(out, `"count":1`) {
		t.Fatalf("output: %s", out)
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestQ_LogsDiagnosticSummary(t *testing.T) {
	design := writeSampleDesign(t)
	logged := captureLog(t)

	out, err := runCLI(t, "q", "alpha", "-f", design)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	// The report goes to stdout; the diagnostic summary goes to the log
	// channel, not the report sink.
	if !strings.Contains(logged.String(), `q "alpha" patternMode=false: 2 occurrences in 1 of 2 buffers`) {
		t.Fatalf("log: %s", logged.String())
	}
	if strings.Contains(out, "patternMode=") {
		t.Fatalf("diagnostic leaked into stdout: %s", out)
	}
}

func TestQ_LogsMalformedPattern(t *testing.T) {
	design := writeSampleDesign(t)
	logged := captureLog(t)

	if _, err := runCLI(t, "q", "abc%", "-f", design, "-p"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(logged.String(), "malformed pattern") {
		t.Fatalf("log: %s", logged.String())
	}
}

func TestQ_DirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.lua"), []byte("alpha beta"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := runCLI(t, "q", "alpha", "-D", dir, "-a")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "1 occurrence found in component: a.lua.text") {
		t.Fatalf("output: %s", out)
	}
}
