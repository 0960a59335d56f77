package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger is satisfied by the database store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreStatus is the outcome of the most recent store check.
type StoreStatus struct {
	Up        bool      `json:"up"`
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"error,omitempty"`
}

// StoreMonitor pings the document store and remembers the last result so
// the health endpoint can answer without touching the database.
type StoreMonitor struct {
	pinger  Pinger
	timeout time.Duration
	now     func() time.Time

	mu     sync.RWMutex
	status StoreStatus
}

// NewStoreMonitor creates a monitor. Until the first check runs the store is
// reported as up, since the server only starts after a successful connect.
func NewStoreMonitor(pinger Pinger, timeout time.Duration) *StoreMonitor {
	m := &StoreMonitor{
		pinger:  pinger,
		timeout: timeout,
		now:     time.Now,
	}
	m.status = StoreStatus{Up: true, CheckedAt: m.now().UTC()}
	return m
}

// Check pings the store once and records the result.
func (m *StoreMonitor) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(ctx)
	status := StoreStatus{Up: err == nil, CheckedAt: m.now().UTC()}
	if err != nil {
		status.Error = err.Error()
		logrus.WithError(err).Error("Store health check failed")
	} else {
		logrus.Debug("Store health check passed")
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return err
}

// Status returns the last recorded result.
func (m *StoreMonitor) Status() StoreStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
