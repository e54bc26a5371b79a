package config

import (
	"encoding/json"
	"os"

	"github.com/avoronin/jotter/internal/flagx"
	"github.com/avoronin/jotter/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like
// "300ms" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	DatabasePath   string         `json:"database_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	AutosaveDelay  timex.Duration `json:"autosave_delay"`
	SearchDebounce timex.Duration `json:"search_debounce"`
	SearchMinQuery int            `json:"search_min_query"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. Absent file path means no JSON is loaded. Only
// fields present in the file override the current values.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AutosaveDelay.Duration > 0 {
		cfg.AutosaveDelay = jc.AutosaveDelay.Duration
	}
	if jc.SearchDebounce.Duration > 0 {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.SearchMinQuery > 0 {
		cfg.SearchMinQuery = jc.SearchMinQuery
	}
}
