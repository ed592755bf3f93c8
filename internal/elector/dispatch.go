package elector

import (
	"context"

	"github.com/aguerrero22/model-elector/internal/registry"
)

// Dispatch starts one call per target, all concurrent, and returns the
// fan-in channel results arrive on in completion order. The channel is
// buffered to len(targets) so calls abandoned by the aggregator still
// deliver their result and the goroutine exits.
func Dispatch(ctx context.Context, executor *Executor, targets []*registry.Target, body []byte) <-chan Result {
	results := make(chan Result, len(targets))

	for _, target := range targets {
		go func(t *registry.Target) {
			results <- executor.Do(ctx, t, body)
		}(target)
	}

	return results
}
