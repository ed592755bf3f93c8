package elector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aguerrero22/model-elector/internal/breaker"
	"github.com/aguerrero22/model-elector/internal/metrics"
	"github.com/aguerrero22/model-elector/internal/registry"
)

// Executor performs one outbound prediction call per invocation. Every
// failure mode is contained here: transport errors, non-2xx responses,
// per-call timeouts and open circuit breakers all come back as a tagged
// Result, never as a raised error.
type Executor struct {
	client      *http.Client
	breakers    *breaker.Registry
	callTimeout time.Duration
	logger      *slog.Logger
	collector   *metrics.Collector
}

// NewExecutor creates an Executor with the given per-call timeout.
// The breaker registry and metrics collector may be nil.
func NewExecutor(callTimeout time.Duration, breakers *breaker.Registry, collector *metrics.Collector, logger *slog.Logger) *Executor {
	return &Executor{
		client:      &http.Client{},
		breakers:    breakers,
		callTimeout: callTimeout,
		logger:      logger,
		collector:   collector,
	}
}

// Do posts the request body to the target's /predict endpoint under the
// per-call timeout and returns the tagged outcome.
func (e *Executor) Do(ctx context.Context, target *registry.Target, body []byte) Result {
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	payload, err := e.call(callCtx, target, body)
	elapsed := time.Since(start)

	result := Result{Target: target, Elapsed: elapsed}

	switch {
	case err == nil:
		result.Kind = KindSuccess
		result.Payload = payload
		e.logger.Info("Backend call succeeded",
			slog.String("backend", target.Name()),
			slog.Duration("elapsed", elapsed))

	case errors.Is(err, context.DeadlineExceeded):
		result.Kind = KindTimeout
		result.Err = err
		e.logger.Warn("Backend call timed out",
			slog.String("backend", target.Name()),
			slog.Duration("elapsed", elapsed))

	default:
		result.Kind = KindError
		result.Err = err
		e.logger.Error("Backend call failed",
			slog.String("backend", target.Name()),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
	}

	e.collector.Emit(metrics.MetricEvent{
		Type:      metrics.EventCallCompleted,
		Timestamp: time.Now(),
		Backend:   target.Name(),
		Outcome:   result.Kind.String(),
		Duration:  elapsed,
	})

	return result
}

func (e *Executor) call(ctx context.Context, target *registry.Target, body []byte) ([]byte, error) {
	if e.breakers == nil {
		return e.post(ctx, target, body)
	}

	cb := e.breakers.GetBreaker(target.Name())
	payload, err := cb.Execute(func() (interface{}, error) {
		return e.post(ctx, target, body)
	})
	if err != nil {
		return nil, err
	}

	return payload.([]byte), nil
}

func (e *Executor) post(ctx context.Context, target *registry.Target, body []byte) ([]byte, error) {
	predictURL := target.URL().ResolveReference(&url.URL{Path: "/predict"})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, predictURL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("backend returned status %d", res.StatusCode)
	}

	return payload, nil
}
