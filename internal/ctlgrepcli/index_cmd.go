package ctlgrepcli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ctlgrep/internal/core/walk"
	"ctlgrep/internal/index/backend"
	"ctlgrep/internal/index/store"
	"ctlgrep/internal/registry"
)

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Snapshot management",
	}

	cmd.AddCommand(newIndexBuildCommand())
	return cmd
}

func newIndexBuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build (or rebuild) the control snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFrom(cmd)
			if opts == nil {
				return fmt.Errorf("options missing")
			}

			var design *registry.Design
			var source string
			switch {
			case opts.DesignPath != "":
				d, err := registry.LoadFile(opts.DesignPath)
				if err != nil {
					return err
				}
				design, source = d, opts.DesignPath
			case opts.DirPath != "":
				d, err := registry.LoadDir(opts.DirPath, walk.Options{
					IncludeGlobs: opts.IncludeGlobs,
					ExcludeGlobs: opts.ExcludeGlobs,
					ScanAll:      opts.ScanAll,
				})
				if err != nil {
					return err
				}
				design, source = d, opts.DirPath
			default:
				return fmt.Errorf("--design or --dir is required")
			}

			st, err := backend.Open(opts.Backend, opts.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			// Snapshots always hold every text control; selection
			// happens at search time.
			var controls []store.Control
			for _, comp := range design.Components {
				for _, ctl := range comp.Controls {
					controls = append(controls, store.Control{
						Component: comp.Name,
						Name:      ctl.Name,
						Text:      ctl.Text,
					})
				}
			}

			if err := st.EnsureSnapshot(SnapshotID, source); err != nil {
				return err
			}
			if err := st.ReplaceControls(SnapshotID, controls); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d controls\n", len(controls))
			return nil
		},
	}
}
