package elector

import (
	"context"
	"log/slog"
	"time"
)

// Collect observes results in completion order until either every dispatched
// call has reported or the total deadline elapses. Hitting the deadline is a
// soft cutoff: whatever was collected so far is returned and the stragglers
// are simply never observed.
func Collect(ctx context.Context, results <-chan Result, expected int, total time.Duration, logger *slog.Logger) []Result {
	timer := time.NewTimer(total)
	defer timer.Stop()

	collected := make([]Result, 0, expected)

	for len(collected) < expected {
		select {
		case result := <-results:
			collected = append(collected, result)

		case <-timer.C:
			logger.Warn("Aggregate deadline exceeded",
				slog.Duration("deadline", total),
				slog.Int("collected", len(collected)),
				slog.Int("expected", expected))
			return collected

		case <-ctx.Done():
			logger.Warn("Aggregation cancelled",
				slog.Int("collected", len(collected)),
				slog.Int("expected", expected))
			return collected
		}
	}

	return collected
}
