package registry

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/aguerrero22/model-elector/config"
)

// Target represents one prediction backend. Name, URL and Primary are
// immutable after resolution; only the health flag changes at runtime.
type Target struct {
	name    string
	url     *url.URL
	primary bool

	mutex     sync.Mutex
	isHealthy bool
}

// Name returns the configured backend name.
func (t *Target) Name() string {
	return t.name
}

// URL returns the backend base URL.
func (t *Target) URL() *url.URL {
	return t.url
}

// Primary reports whether this target is the preferred backend.
func (t *Target) Primary() bool {
	return t.primary
}

// IsHealthy returns true if the target is currently healthy.
func (t *Target) IsHealthy() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.isHealthy
}

// SetHealthy updates the target's health status.
// Returns true if the status changed, false if it was already in that state.
func (t *Target) SetHealthy(healthy bool) (changed bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.isHealthy == healthy {
		return false
	}

	t.isHealthy = healthy
	return true
}

// New creates a Target. It starts in a healthy state.
func New(name string, u *url.URL, primary bool) *Target {
	return &Target{
		name:      name,
		url:       u,
		primary:   primary,
		isHealthy: true,
	}
}

// Resolve builds the ordered target set from configuration. Order is
// preserved; exactly one target must be primary.
func Resolve(backends []config.BackendConfig) ([]*Target, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("no backends configured")
	}

	targets := make([]*Target, 0, len(backends))
	primaries := 0

	for _, b := range backends {
		u, err := url.Parse(b.URL)
		if err != nil {
			return nil, fmt.Errorf("backend %q: invalid URL %q: %w", b.Name, b.URL, err)
		}

		if b.Primary {
			primaries++
		}

		targets = append(targets, New(b.Name, u, b.Primary))
	}

	if primaries != 1 {
		return nil, fmt.Errorf("expected exactly one primary backend, got %d", primaries)
	}

	return targets, nil
}

// Primary returns the primary target from a resolved set.
func Primary(targets []*Target) *Target {
	for _, t := range targets {
		if t.Primary() {
			return t
		}
	}
	return nil
}
