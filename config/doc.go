// Package config handles loading and parsing of configuration from YAML files
// and environment variables. It defines the application configuration structure
// including server settings, prediction backends, election timeouts and
// circuit breaker thresholds.
package config
