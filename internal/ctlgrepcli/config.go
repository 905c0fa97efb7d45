package ctlgrepcli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// DefaultControlName is the control searched when no selection is made.
const DefaultControlName = "code"

// Config holds the persisted defaults for mode and control selection.
// Flags set on the command line always win over the config file.
type Config struct {
	PatternMode bool   `json:"pattern_mode"`
	AllControls bool   `json:"all_controls"`
	ControlName string `json:"control_name"`
}

func DefaultConfig() Config {
	return Config{ControlName: DefaultControlName}
}

func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ctlgrep", "config.json"), nil
}

// LoadConfig reads the config file, falling back to shipped defaults
// when the file is missing or unreadable.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return DefaultConfig()
	}
	if cfg.ControlName == "" {
		cfg.ControlName = DefaultControlName
	}
	return cfg
}

func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	buf, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(buf, '\n'), 0o644)
}

// applyConfig fills options from the config file, skipping anything the
// user set explicitly on the command line.
func applyConfig(cmd *cobra.Command, opts *Options, cfg Config) {
	flags := cmd.Root().PersistentFlags()

	if !flags.Changed("pattern") {
		opts.PatternMode = cfg.PatternMode
	}
	if !flags.Changed("all") {
		opts.AllControls = cfg.AllControls
	}
	if !flags.Changed("control") {
		opts.ControlName = cfg.ControlName
	}
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Config management",
	}

	cmd.AddCommand(newConfigResetCommand())
	return cmd
}

func newConfigResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the shipped config defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			if err := SaveConfig(path, DefaultConfig()); err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write([]byte("config reset\n"))
			return nil
		},
	}
}

// configPath honors CTLGREP_CONFIG when set, which tests use to avoid
// touching the real home directory.
func configPath() (string, error) {
	if p := os.Getenv("CTLGREP_CONFIG"); p != "" {
		return p, nil
	}
	return ConfigPath()
}
