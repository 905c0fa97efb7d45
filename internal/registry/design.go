package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// designFile mirrors the design export JSON. Only controls that carry a
// string value survive loading; everything else (faders, buttons,
// meters) is not searchable text and is dropped here so the engine
// never sees it.
type designFile struct {
	Design     string          `json:"Design"`
	Components []componentFile `json:"Components"`
}

type componentFile struct {
	Name     string        `json:"Name"`
	Controls []controlFile `json:"Controls"`
}

type controlFile struct {
	Name   string  `json:"Name"`
	Type   string  `json:"Type"`
	String *string `json:"String"`
}

// LoadFile reads a design export and keeps its text-valued controls in
// file order.
func LoadFile(path string) (*Design, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseDesign(b)
}

func parseDesign(b []byte) (*Design, error) {
	var df designFile
	if err := json.Unmarshal(b, &df); err != nil {
		return nil, fmt.Errorf("parse design: %w", err)
	}

	d := &Design{Name: df.Design}
	for _, cf := range df.Components {
		name := strings.TrimSpace(cf.Name)
		if name == "" {
			continue
		}
		comp := Component{Name: name}
		for _, ctl := range cf.Controls {
			if !isText(ctl) {
				continue
			}
			comp.Controls = append(comp.Controls, Control{
				Name: ctl.Name,
				Text: *ctl.String,
			})
		}
		d.Components = append(d.Components, comp)
	}
	return d, nil
}

func isText(ctl controlFile) bool {
	if strings.TrimSpace(ctl.Name) == "" || ctl.String == nil {
		return false
	}
	switch ctl.Type {
	case "Text", "":
		return true
	default:
		return false
	}
}
