// Package config provides configuration loading for lexrope.
//
// Configuration is applied in layers, each overriding the one below:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← LEXROPE_*
//	├─────────────────────────────┤
//	│  2. Configuration File      │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A missing configuration file is not an error; the defaults apply.
//
// Example TOML:
//
//	language = "go"
//
//	[rope]
//	split_length = 1500
//	join_length = 1000
//
//	[[languages]]
//	name = "lua"
//	extensions = [".lua"]
//	keywords = ["local", "function", "end"]
//	line_comment = "--"
//	quotes = "\"'"
//	escape = "\\"
package config
