package metrics

import (
	"sort"
	"sync"
	"time"
)

type Metrics struct {
	mutex         sync.RWMutex
	totalRequests int64
	calls         map[string]map[string]int64
	callDurations map[string][]time.Duration
	decisions     map[string]int64
	healthStatus  map[string]bool
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64                     `json:"total_requests"`
	Uptime        time.Duration             `json:"uptime"`
	Backends      map[string]BackendMetrics `json:"backends"`
	Decisions     map[string]int64          `json:"decisions"`
}

type BackendMetrics struct {
	Calls       map[string]int64 `json:"calls"`
	Healthy     bool             `json:"healthy"`
	AvgResponse time.Duration    `json:"avg_response"`
	P50Response time.Duration    `json:"p50_response"`
	P95Response time.Duration    `json:"p95_response"`
	P99Response time.Duration    `json:"p99_response"`
}

func (m *Metrics) IncrementRequests() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.totalRequests++
}

// RecordCall stores the outcome kind and duration of one backend call.
func (m *Metrics) RecordCall(backend, outcome string, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.calls[backend] == nil {
		m.calls[backend] = make(map[string]int64)
	}
	m.calls[backend][outcome]++

	m.callDurations[backend] = append(m.callDurations[backend], duration)

	if len(m.callDurations[backend]) > 1000 {
		m.callDurations[backend] = m.callDurations[backend][1:]
	}
}

// RecordDecision counts which backend won the election. Requests that
// resolved without any usable result are recorded under "none".
func (m *Metrics) RecordDecision(source string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.decisions[source]++
}

func (m *Metrics) UpdateHealthStatus(backend string, healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.healthStatus[backend] = healthy
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		TotalRequests: m.totalRequests,
		Uptime:        time.Since(m.startTime),
		Backends:      make(map[string]BackendMetrics),
		Decisions:     make(map[string]int64, len(m.decisions)),
	}

	for source, count := range m.decisions {
		snap.Decisions[source] = count
	}

	// Collect all unique backend names
	allBackends := make(map[string]bool)
	for backend := range m.calls {
		allBackends[backend] = true
	}
	for backend := range m.callDurations {
		allBackends[backend] = true
	}
	for backend := range m.healthStatus {
		allBackends[backend] = true
	}

	for backend := range allBackends {
		bm := BackendMetrics{
			Healthy: m.healthStatus[backend],
		}

		if counts := m.calls[backend]; counts != nil {
			bm.Calls = make(map[string]int64, len(counts))
			for outcome, count := range counts {
				bm.Calls[outcome] = count
			}
		}

		durations := m.callDurations[backend]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			bm.AvgResponse = average(sorted)
			bm.P50Response = percentile(sorted, 0.50)
			bm.P95Response = percentile(sorted, 0.95)
			bm.P99Response = percentile(sorted, 0.99)
		}

		snap.Backends[backend] = bm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		calls:         make(map[string]map[string]int64),
		callDurations: make(map[string][]time.Duration),
		decisions:     make(map[string]int64),
		healthStatus:  make(map[string]bool),
		startTime:     time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
