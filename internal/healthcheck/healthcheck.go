package healthcheck

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aguerrero22/model-elector/internal/metrics"
	"github.com/aguerrero22/model-elector/internal/registry"
)

// HealthCheck periodically checks if a prediction backend is healthy by
// sending HTTP GET requests to its /health endpoint. The target's health
// status is updated based on the response. Health is observability only:
// unhealthy targets still receive dispatched calls.
func HealthCheck(
	ctx context.Context,
	target *registry.Target,
	interval time.Duration,
	collector *metrics.Collector,
	logger *slog.Logger,
) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Health check stopped",
				slog.String("backend", target.Name()))
			return

		case <-ticker.C:
			healthURL := target.URL().ResolveReference(&url.URL{Path: "/health"})

			req, err := http.NewRequestWithContext(
				ctx, http.MethodGet, healthURL.String(), nil)
			if err != nil {
				continue
			}

			res, err := client.Do(req)
			if err != nil {
				report(target, false, collector, logger)
				continue
			}
			res.Body.Close()

			report(target, res.StatusCode == http.StatusOK, collector, logger)
		}
	}
}

func report(target *registry.Target, healthy bool, collector *metrics.Collector, logger *slog.Logger) {
	changed := target.SetHealthy(healthy)
	if !changed {
		return
	}

	if healthy {
		logger.Info("Backend is back up",
			slog.String("backend", target.Name()))
	} else {
		logger.Warn("Backend is down",
			slog.String("backend", target.Name()))
	}

	collector.Emit(metrics.MetricEvent{
		Type:      metrics.EventHealthChanged,
		Timestamp: time.Now(),
		Backend:   target.Name(),
		Healthy:   healthy,
	})
}
