// Package healthcheck implements periodic health checking for prediction
// backends. It monitors backend availability and updates their health status
// based on HTTP health endpoint responses.
package healthcheck
