package ctlgrepd

import (
	"encoding/json"

	"ctlgrep/internal/model"
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DesignLoadParams names the design source: a design export file or a
// directory of control files. Exactly one of Path and Dir is set.
type DesignLoadParams struct {
	Path         string   `json:"path,omitempty"`
	Dir          string   `json:"dir,omitempty"`
	ScanAll      bool     `json:"scan_all,omitempty"`
	IncludeGlobs []string `json:"include_globs,omitempty"`
	ExcludeGlobs []string `json:"exclude_globs,omitempty"`
}

type DesignLoadResult struct {
	DesignID string `json:"design_id"`
	Controls int    `json:"controls"`
}

type SearchParams struct {
	DesignID    string `json:"design_id"`
	Q           string `json:"q"`
	PatternMode bool   `json:"pattern_mode,omitempty"`
	AllControls bool   `json:"all_controls,omitempty"`
	ControlName string `json:"control_name,omitempty"`
}

// SearchResult carries both renditions of one search. A malformed
// pattern in pattern mode puts its diagnostic in Report with no items;
// it is not an RPC error.
type SearchResult struct {
	Report string             `json:"report"`
	Items  []model.ResultItem `json:"items,omitempty"`
}

type WatchStartParams struct {
	DesignID   string `json:"design_id"`
	DebounceMS int    `json:"debounce_ms,omitempty"`
}

type WatchStopParams struct {
	DesignID string `json:"design_id"`
}

type WatchStatusParams struct {
	DesignID string `json:"design_id"`
}

type WatchStatusResult struct {
	Running bool `json:"running"`
	Version int  `json:"version"`
}
