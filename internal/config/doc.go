// Package config loads and validates takesort's TOML configuration.
package config
