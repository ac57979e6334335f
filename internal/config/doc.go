// Package config loads and validates beacon's TOML configuration. Defaults are
// applied first, file values layered on top, then paths are expanded and the
// result validated so downstream packages never see a half-formed config.
package config
