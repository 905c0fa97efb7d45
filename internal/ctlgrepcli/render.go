package ctlgrepcli

import (
	"encoding/json"
	"strings"

	"ctlgrep/internal/model"
)

func RenderJSONL(items []model.ResultItem) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	for _, item := range items {
		_ = enc.Encode(item)
	}
	return b.String()
}
