// Package config loads runtime configuration for the Jotter CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the journal API
//	-d string   path to the local database file
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "300ms" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "database_path": "jotter.db",
//	  "request_timeout": "10s",
//	  "autosave_delay": "1s",
//	  "search_debounce": "300ms",
//	  "search_min_query": 2
//	}
//
// Note: this package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
