// Package config holds Relay's declarative configuration: file loading
// (JSON or YAML by extension), RELAY_* environment overlays, and the
// per-OS default data directory.
package config
