package registry

import (
	"os"
	"path/filepath"

	"ctlgrep/internal/core/walk"
)

// DirControlName is the control name given to file-backed buffers.
const DirControlName = "text"

// LoadDir builds a design from a directory of script files: one
// component per file, named by its slash-relative path, holding a
// single text control. Binary files are skipped.
func LoadDir(root string, opts walk.Options) (*Design, error) {
	files, err := walk.ListFiles(root, opts)
	if err != nil {
		return nil, err
	}

	d := &Design{Name: filepath.Base(root)}
	for _, rel := range files {
		b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		if isBinary(b) {
			continue
		}
		d.Components = append(d.Components, Component{
			Name: rel,
			Controls: []Control{
				{Name: DirControlName, Text: string(b)},
			},
		})
	}
	return d, nil
}

func isBinary(b []byte) bool {
	for _, c := range b {
		if c == 0 {
			return true
		}
	}
	return false
}
