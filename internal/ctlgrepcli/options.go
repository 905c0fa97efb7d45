package ctlgrepcli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ctlgrep/internal/index/backend"
)

type Options struct {
	PatternMode bool
	AllControls bool
	ControlName string

	DesignPath string
	DirPath    string
	DBPath     string
	Backend    string

	ScanAll      bool
	IncludeGlobs []string
	ExcludeGlobs []string

	Jsonl bool
}

func (o *Options) Prepare() error {
	o.normalize()

	if !o.AllControls && o.ControlName == "" {
		return fmt.Errorf("a control name is required unless --all is set")
	}

	o.Backend = backend.NormalizeName(o.Backend)
	switch o.Backend {
	case "sqlite", "bleve":
	default:
		return fmt.Errorf("invalid --backend %q (expected: sqlite|bleve)", o.Backend)
	}

	if o.DBPath == "" {
		o.DBPath = backend.DefaultPath(o.Backend)
	}

	return nil
}

func (o *Options) normalize() {
	o.ControlName = strings.TrimSpace(o.ControlName)
	o.DesignPath = strings.TrimSpace(o.DesignPath)
	o.DirPath = strings.TrimSpace(o.DirPath)
	o.DBPath = strings.TrimSpace(o.DBPath)
	o.Backend = strings.TrimSpace(o.Backend)
}

type optionsKey struct{}

func optionsFrom(cmd *cobra.Command) *Options {
	if cmd == nil {
		return nil
	}
	root := cmd.Root()
	if root == nil {
		root = cmd
	}
	v := root.Context().Value(optionsKey{})
	opts, _ := v.(*Options)
	return opts
}

func bindFlags(cmd *cobra.Command, opts *Options) {
	cmd.PersistentFlags().BoolVarP(&opts.PatternMode, "pattern", "p", opts.PatternMode, "treat the search string as a Lua pattern")
	cmd.PersistentFlags().BoolVarP(&opts.AllControls, "all", "a", opts.AllControls, "search every text control in the design")
	cmd.PersistentFlags().StringVarP(&opts.ControlName, "control", "n", opts.ControlName, "control name to search when --all is not set")

	cmd.PersistentFlags().StringVarP(&opts.DesignPath, "design", "f", opts.DesignPath, "design file to search")
	cmd.PersistentFlags().StringVarP(&opts.DirPath, "dir", "D", opts.DirPath, "directory of control files to search")
	cmd.PersistentFlags().StringVarP(&opts.DBPath, "database", "d", opts.DBPath, "snapshot database path")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", opts.Backend, "snapshot backend: sqlite|bleve")

	cmd.PersistentFlags().BoolVarP(&opts.ScanAll, "scan-all", "A", opts.ScanAll, "include hidden and ignored files when loading a directory")
	cmd.PersistentFlags().StringSliceVarP(&opts.ExcludeGlobs, "exclude", "x", nil, "exclude these files (comma separated list: -x *.js,*.sql)")
	cmd.PersistentFlags().StringSliceVarP(&opts.IncludeGlobs, "glob", "g", nil, "only load these files (can repeat)")

	cmd.PersistentFlags().BoolVar(&opts.Jsonl, "jsonl", opts.Jsonl, "output as JSONL")
}

func ExecuteForTest(cmd *cobra.Command) (string, Options, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()

	opts := optionsFrom(cmd)
	if opts == nil {
		return out.String(), Options{}, err
	}
	opts.normalize()

	return out.String(), *opts, err
}

func newDefaultOptions() *Options {
	return &Options{
		ControlName: DefaultControlName,
	}
}

func withOptionsContext(cmd *cobra.Command, opts *Options) {
	cmd.SetContext(context.WithValue(context.Background(), optionsKey{}, opts))
}
