// Package elector implements the scatter-gather core of the service: one
// inbound prediction request is dispatched concurrently to every registered
// backend, results are gathered in completion order under a total deadline,
// and a deterministic primary-preference policy elects the single payload
// returned to the caller.
//
// Per call the state machine is Pending -> {Success, Timeout, Error}, each
// terminal and reached exactly once. Per request it is Dispatched ->
// Aggregating -> Resolved. No retries exist at any layer.
package elector
