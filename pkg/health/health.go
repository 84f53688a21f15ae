// Package health exposes liveness and readiness endpoints for the ops side
// of the metrics server.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Component is the result of one health check.
type Component struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Error       string        `json:"error,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration"`
}

// Checker probes one dependency. Check returns nil when healthy.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Manager runs registered checkers on demand.
type Manager struct {
	mu       sync.RWMutex
	checkers []Checker
	timeout  time.Duration
	start    time.Time
}

func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Manager{timeout: timeout, start: time.Now()}
}

func (m *Manager) Register(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, c)
}

// CheckAll probes every registered dependency sequentially. The checker set
// is small enough that concurrency buys nothing here.
func (m *Manager) CheckAll(ctx context.Context) (Status, []Component) {
	m.mu.RLock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	m.mu.RUnlock()

	overall := StatusHealthy
	components := make([]Component, 0, len(checkers))
	for _, c := range checkers {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		begin := time.Now()
		err := c.Check(cctx)
		cancel()

		comp := Component{
			Name:        c.Name,
			Status:      StatusHealthy,
			LastChecked: begin,
			Duration:    time.Since(begin),
		}
		if err != nil {
			comp.Status = StatusUnhealthy
			comp.Error = err.Error()
			overall = StatusUnhealthy
		}
		components = append(components, comp)
	}
	return overall, components
}

// LivenessHandler answers 200 as long as the process serves requests.
func (m *Manager) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": StatusHealthy,
			"uptime": time.Since(m.start).String(),
		})
	}
}

// ReadinessHandler runs all checks and answers 503 when any dependency is
// down.
func (m *Manager) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, components := m.CheckAll(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status != StatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":     status,
			"uptime":     time.Since(m.start).String(),
			"components": components,
		})
	}
}
