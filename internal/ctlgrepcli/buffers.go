package ctlgrepcli

import (
	"fmt"

	"ctlgrep/internal/core/walk"
	"ctlgrep/internal/index/backend"
	"ctlgrep/internal/model"
	"ctlgrep/internal/registry"
)

// SnapshotID is the snapshot the CLI reads and writes. The daemon keeps
// one snapshot per loaded design instead.
const SnapshotID = "current"

// resolveBuffers picks the search source: an explicit design file wins,
// then a directory of control files, then the snapshot database.
func resolveBuffers(opts *Options) ([]model.Buffer, error) {
	switch {
	case opts.DesignPath != "":
		design, err := registry.LoadFile(opts.DesignPath)
		if err != nil {
			return nil, err
		}
		return design.Buffers(opts.AllControls, opts.ControlName), nil

	case opts.DirPath != "":
		design, err := registry.LoadDir(opts.DirPath, walk.Options{
			IncludeGlobs: opts.IncludeGlobs,
			ExcludeGlobs: opts.ExcludeGlobs,
			ScanAll:      opts.ScanAll,
		})
		if err != nil {
			return nil, err
		}
		return design.Buffers(opts.AllControls, opts.ControlName), nil

	default:
		return snapshotBuffers(opts)
	}
}

func snapshotBuffers(opts *Options) ([]model.Buffer, error) {
	st, err := backend.Open(opts.Backend, opts.DBPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	controls, err := st.Controls(SnapshotID)
	if err != nil {
		return nil, err
	}
	if len(controls) == 0 {
		return nil, fmt.Errorf("snapshot is empty; run 'ctlgrep index build' first")
	}

	var out []model.Buffer
	for _, c := range controls {
		if !opts.AllControls && c.Name != opts.ControlName {
			continue
		}
		out = append(out, model.Buffer{
			Label: c.Component + "." + c.Name,
			Text:  c.Text,
		})
	}
	return out, nil
}
