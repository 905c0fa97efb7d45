package ctlgrepcli

import (
	"github.com/spf13/cobra"

	"ctlgrep/internal/version"
)

func NewRootCommand() *cobra.Command {
	opts := newDefaultOptions()
	cmd := &cobra.Command{
		Use:   "ctlgrep",
		Short: "Search text controls in design files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.Version = version.String()
	cmd.InitDefaultVersionFlag()
	if f := cmd.Flags().Lookup("version"); f != nil {
		f.Shorthand = "v"
	}

	withOptionsContext(cmd, opts)
	bindFlags(cmd, opts)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		opts := optionsFrom(cmd)
		if opts == nil {
			return nil
		}
		if path, err := configPath(); err == nil {
			applyConfig(cmd, opts, LoadConfig(path))
		}
		return opts.Prepare()
	}

	cmd.AddCommand(newQCommand())
	cmd.AddCommand(newIndexCommand())
	cmd.AddCommand(newConfigCommand())
	return cmd
}
