// Package metrics implements simple, dependency-free counters and gauges
// with Prometheus text exposition. Atomic values, mutex-protected registry;
// enough for request counts, cache hit rates, and import totals.
package metrics

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Counter is a monotonically increasing number.
type Counter struct {
	name string
	help string
	val  int64
}

func (c *Counter) Inc(delta int64) { atomic.AddInt64(&c.val, delta) }
func (c *Counter) Add(delta int64) { c.Inc(delta) }
func (c *Counter) Get() int64      { return atomic.LoadInt64(&c.val) }

// Gauge is an arbitrary number that can go up and down. The float64 is
// stored atomically via its bit pattern.
type Gauge struct {
	name string
	help string
	bits uint64
}

func (g *Gauge) SetFloat64(v float64) { atomic.StoreUint64(&g.bits, math.Float64bits(v)) }
func (g *Gauge) GetFloat64() float64  { return math.Float64frombits(atomic.LoadUint64(&g.bits)) }

// Registry holds all metrics.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*Counter
	gauges   map[string]*Gauge
}

func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]*Counter), gauges: make(map[string]*Gauge)}
}

var Default = NewRegistry()

// Counter returns the registered counter with this name, creating it on
// first use.
func (r *Registry) Counter(name, help string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := &Counter{name: sanitize(name), help: help}
	r.counters[name] = c
	return c
}

// Gauge returns the registered gauge with this name, creating it on first use.
func (r *Registry) Gauge(name, help string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.gauges[name]; ok {
		return g
	}
	g := &Gauge{name: sanitize(name), help: help}
	r.gauges[name] = g
	return g
}

// Handler returns an http.Handler exposing the registry in Prometheus text
// format with stable ordering.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")

		r.mu.RLock()
		cn := keys(r.counters)
		gn := keys(r.gauges)
		counters := make([]*Counter, 0, len(cn))
		for _, name := range cn {
			counters = append(counters, r.counters[name])
		}
		gauges := make([]*Gauge, 0, len(gn))
		for _, name := range gn {
			gauges = append(gauges, r.gauges[name])
		}
		r.mu.RUnlock()

		for _, c := range counters {
			fmt.Fprintf(w, "# HELP %s %s\n", c.name, escapeHelp(c.help))
			fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
			fmt.Fprintf(w, "%s %d\n", c.name, c.Get())
		}
		for _, g := range gauges {
			fmt.Fprintf(w, "# HELP %s %s\n", g.name, escapeHelp(g.help))
			fmt.Fprintf(w, "# TYPE %s gauge\n", g.name)
			fmt.Fprintf(w, "%s %g\n", g.name, g.GetFloat64())
		}
	})
}

// Handler exposes the Default registry.
func Handler() http.Handler { return Default.Handler() }

func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}

func escapeHelp(s string) string { return strings.ReplaceAll(s, "\n", " ") }

func keys[T any](m map[string]T) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
