package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const healthCheckTimeout = 5 * time.Second

// HealthChecker is implemented by *database.DB
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Name() string
}

// ErrorEmitter is implemented by *events.Manager
type ErrorEmitter interface {
	EmitError(module string, err error, context map[string]interface{})
}

// DatabaseHealth is the result of the most recent health check
type DatabaseHealth struct {
	Healthy   bool
	CheckedAt time.Time
	Error     string
}

// StatusMonitor periodically checks the catalogue database and emits an error event
// when it becomes unhealthy
type StatusMonitor struct {
	db     HealthChecker
	events ErrorEmitter
	log    zerolog.Logger

	mu   sync.RWMutex
	last DatabaseHealth

	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewStatusMonitor creates a new status monitor.
// The database is assumed healthy until the first check runs.
func NewStatusMonitor(db HealthChecker, eventManager ErrorEmitter, log zerolog.Logger) *StatusMonitor {
	return &StatusMonitor{
		db:     db,
		events: eventManager,
		log:    log.With().Str("component", "status_monitor").Logger(),
		last:   DatabaseHealth{Healthy: true},
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins periodic status monitoring
func (m *StatusMonitor) Start(interval time.Duration) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go m.monitor(interval)
}

// Stop ends monitoring and waits for the loop to exit. Safe to call more than once.
func (m *StatusMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	if m.started.Load() {
		<-m.done
	}
}

// monitor runs the periodic monitoring loop
func (m *StatusMonitor) monitor(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Do initial check
	m.Check()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.Check()
		}
	}
}

// Check runs one health check and records the result.
// An error event is emitted on the transition from healthy to unhealthy only.
func (m *StatusMonitor) Check() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	err := m.db.HealthCheck(ctx)
	result := DatabaseHealth{Healthy: err == nil, CheckedAt: time.Now()}
	if err != nil {
		result.Error = err.Error()
	}

	m.mu.Lock()
	wasHealthy := m.last.Healthy
	m.last = result
	m.mu.Unlock()

	switch {
	case err != nil && wasHealthy:
		m.log.Error().Err(err).Str("database", m.db.Name()).Msg("Catalog database health check failed")
		if m.events != nil {
			m.events.EmitError("status_monitor", fmt.Errorf("database %s unhealthy: %w", m.db.Name(), err), map[string]interface{}{
				"database": m.db.Name(),
			})
		}
	case err == nil && !wasHealthy:
		m.log.Info().Str("database", m.db.Name()).Msg("Catalog database recovered")
	}

	return result
}

// Health returns the result of the most recent check
func (m *StatusMonitor) Health() DatabaseHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}
