package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventRequestReceived EventType = "request_received"
	EventCallCompleted   EventType = "call_completed"
	EventDecisionMade    EventType = "decision_made"
	EventHealthChanged   EventType = "health_changed"
)

// NoDecision is recorded as the decision source when a request resolved
// without any usable backend result.
const NoDecision = "none"

type MetricEvent struct {
	Type      EventType
	Timestamp time.Time
	Backend   string
	Outcome   string
	Duration  time.Duration
	Healthy   bool
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// Emit sends an event without blocking; events are dropped when the buffer
// is full. Safe to call on a nil collector.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests()

	case EventCallCompleted:
		c.metrics.RecordCall(event.Backend, event.Outcome, event.Duration)

	case EventDecisionMade:
		c.metrics.RecordDecision(event.Backend)

	case EventHealthChanged:
		c.metrics.UpdateHealthStatus(event.Backend, event.Healthy)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
