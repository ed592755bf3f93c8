package elector

import (
	"context"
	"log/slog"
	"time"

	"github.com/aguerrero22/model-elector/internal/metrics"
	"github.com/aguerrero22/model-elector/internal/registry"
)

// Elector races one request across every registered backend and resolves it
// to a single decision.
type Elector struct {
	executor     *Executor
	targets      []*registry.Target
	totalTimeout time.Duration
	logger       *slog.Logger
	collector    *metrics.Collector
}

// New creates an Elector over a resolved target set. The metrics collector
// may be nil.
func New(executor *Executor, targets []*registry.Target, totalTimeout time.Duration, collector *metrics.Collector, logger *slog.Logger) *Elector {
	return &Elector{
		executor:     executor,
		targets:      targets,
		totalTimeout: totalTimeout,
		logger:       logger,
		collector:    collector,
	}
}

// Predict fans the request body out to every target, waits for results under
// the total deadline and returns the elected decision. The only error it
// returns is ErrNoBackendAvailable.
func (e *Elector) Predict(ctx context.Context, body []byte) (Decision, error) {
	start := time.Now()

	results := Dispatch(ctx, e.executor, e.targets, body)
	collected := Collect(ctx, results, len(e.targets), e.totalTimeout, e.logger)

	decision, err := Decide(collected)
	elapsed := time.Since(start)

	if err != nil {
		e.logger.Warn("Election produced no usable result",
			slog.Int("collected", len(collected)),
			slog.Int("dispatched", len(e.targets)),
			slog.Duration("elapsed", elapsed))

		e.collector.Emit(metrics.MetricEvent{
			Type:      metrics.EventDecisionMade,
			Timestamp: time.Now(),
			Backend:   metrics.NoDecision,
			Duration:  elapsed,
		})

		return Decision{}, err
	}

	e.logger.Info("Election resolved",
		slog.String("backend", decision.Source.Name()),
		slog.Bool("primary", decision.Source.Primary()),
		slog.Int("collected", len(collected)),
		slog.Duration("elapsed", elapsed))

	e.collector.Emit(metrics.MetricEvent{
		Type:      metrics.EventDecisionMade,
		Timestamp: time.Now(),
		Backend:   decision.Source.Name(),
		Duration:  elapsed,
	})

	return decision, nil
}
