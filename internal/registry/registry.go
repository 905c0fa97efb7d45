// Package registry enumerates the searchable text buffers of a design:
// named components, each holding named text-valued controls. The
// registry is read-only from the engine's point of view.
package registry

import (
	"ctlgrep/internal/model"
)

type Control struct {
	Name string
	Text string
}

type Component struct {
	Name     string
	Controls []Control
}

// Design is an ordered collection of components. Order is preserved
// from the source; the report follows it.
type Design struct {
	Name       string
	Components []Component
}

// Buffers flattens the design into the buffers one search invocation
// scans. With allControls every text control is included; otherwise
// only the control named controlName, and components without it are
// skipped silently.
func (d *Design) Buffers(allControls bool, controlName string) []model.Buffer {
	if d == nil {
		return nil
	}

	var out []model.Buffer
	for _, comp := range d.Components {
		for _, ctl := range comp.Controls {
			if !allControls && ctl.Name != controlName {
				continue
			}
			out = append(out, model.Buffer{
				Label: comp.Name + "." + ctl.Name,
				Text:  ctl.Text,
			})
		}
	}
	return out
}

// Control fetches one named control from one component.
func (d *Design) Control(component, name string) (Control, bool) {
	if d == nil {
		return Control{}, false
	}
	for _, comp := range d.Components {
		if comp.Name != component {
			continue
		}
		for _, ctl := range comp.Controls {
			if ctl.Name == name {
				return ctl, true
			}
		}
	}
	return Control{}, false
}
