package ctlgrepcli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigReset_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("CTLGREP_CONFIG", path)

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"config", "reset"})
	if _, _, err := ExecuteForTest(cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := LoadConfig(path)
	if cfg != DefaultConfig() {
		t.Fatalf("cfg=%+v", cfg)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"control_name": "code"`) {
		t.Fatalf("raw=%s", raw)
	}
}

func TestConfigSuppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("CTLGREP_CONFIG", path)
	if err := SaveConfig(path, Config{PatternMode: true, ControlName: "notes"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	cmd := NewRootCommand()
	cmd.SetArgs([]string{})
	_, opts, err := ExecuteForTest(cmd)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !opts.PatternMode || opts.ControlName != "notes" {
		t.Fatalf("opts=%+v", opts)
	}
}

func TestFlagsBeatConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("CTLGREP_CONFIG", path)
	if err := SaveConfig(path, Config{ControlName: "notes"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"-n", "code"})
	_, opts, err := ExecuteForTest(cmd)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if opts.ControlName != "code" {
		t.Fatalf("opts=%+v", opts)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if cfg != DefaultConfig() {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := LoadConfig(path)
	if cfg != DefaultConfig() {
		t.Fatalf("cfg=%+v", cfg)
	}
}
