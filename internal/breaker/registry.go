package breaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

type Registry struct {
	mutex     sync.RWMutex
	breakers  map[string]*gobreaker.CircuitBreaker
	threshold uint32
	timeout   time.Duration
	logger    *slog.Logger
}

func NewRegistry(threshold int, timeout time.Duration, logger *slog.Logger) *Registry {
	if threshold < 1 {
		threshold = 1
	}

	return &Registry{
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
		threshold: uint32(threshold),
		timeout:   timeout,
		logger:    logger,
	}
}

// GetBreaker returns the circuit breaker for a backend, creating it on
// first use.
func (r *Registry) GetBreaker(name string) *gobreaker.CircuitBreaker {
	r.mutex.RLock()
	cb, exists := r.breakers[name]
	r.mutex.RUnlock()

	if exists {
		return cb
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Double-check: another goroutine may have created it
	if cb, exists = r.breakers[name]; exists {
		return cb
	}

	cb = gobreaker.NewCircuitBreaker(r.settings(name))
	r.breakers[name] = cb
	return cb
}

func (r *Registry) settings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:    name,
		Timeout: r.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= r.threshold && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			r.logger.Warn("Circuit breaker state change",
				slog.String("backend", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
}

// Stats returns the current breaker state per backend.
func (r *Registry) Stats() map[string]string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stats := make(map[string]string, len(r.breakers))
	for name, cb := range r.breakers {
		stats[name] = cb.State().String()
	}

	return stats
}
