// Package config handles configuration loading and management for hitrelay.
//
// It provides functionality for:
//   - Loading configuration from JSON or YAML config files
//   - Default configuration values
//   - .env files and HITRELAY_* environment overrides
package config
