// Package registry resolves the configured prediction backends into an
// ordered, immutable target set with exactly one primary. Health status is
// the only mutable per-target state and is maintained by the healthcheck
// package for observability.
package registry
