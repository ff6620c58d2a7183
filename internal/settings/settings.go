package settings

import (
	"errors"
	"sync"
	"time"
)

// MinRefreshInterval is the lowest refresh interval callers may set.
const MinRefreshInterval = 60 * time.Second

// ErrIntervalTooShort is returned when a caller tries to set a refresh
// interval under MinRefreshInterval.
var ErrIntervalTooShort = errors.New("refresh interval must be at least 60 seconds")

// Settings holds the process-wide mutable runtime configuration. The
// scheduler reads the refresh interval once per sleep cycle; request handlers
// may update it concurrently, and the change takes effect after the current
// sleep completes.
type Settings struct {
	mu              sync.RWMutex
	refreshInterval time.Duration
}

// New creates Settings with the given initial refresh interval. Initial
// values under the minimum are clamped up.
func New(refreshInterval time.Duration) *Settings {
	if refreshInterval < MinRefreshInterval {
		refreshInterval = MinRefreshInterval
	}
	return &Settings{refreshInterval: refreshInterval}
}

// RefreshInterval returns the current refresh interval.
func (s *Settings) RefreshInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshInterval
}

// SetRefreshInterval updates the refresh interval, rejecting values under
// the minimum.
func (s *Settings) SetRefreshInterval(d time.Duration) error {
	if d < MinRefreshInterval {
		return ErrIntervalTooShort
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshInterval = d
	return nil
}
