// Package breaker maintains one circuit breaker per prediction backend.
//
// Breakers are cross-request state: a backend that keeps failing is
// short-circuited so later requests fail fast instead of burning the
// per-call timeout. An open breaker never triggers a retry; the call is
// simply reported as failed for that request.
package breaker
