package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterAndGauge(t *testing.T) {
	r := NewRegistry()

	c := r.Counter("requests_total", "Total requests")
	c.Inc(1)
	c.Inc(1)
	c.Add(3)
	if got := c.Get(); got != 5 {
		t.Errorf("counter = %d, want 5", got)
	}

	g := r.Gauge("cache_entries", "Cache entry count")
	g.SetFloat64(12)
	if got := g.GetFloat64(); got != 12 {
		t.Errorf("gauge = %g, want 12", got)
	}
	g.SetFloat64(3.5)
	if got := g.GetFloat64(); got != 3.5 {
		t.Errorf("gauge = %g, want 3.5", got)
	}
}

func TestRegistryReturnsSameMetric(t *testing.T) {
	r := NewRegistry()
	a := r.Counter("dup", "first registration wins")
	b := r.Counter("dup", "ignored")
	if a != b {
		t.Error("same name should return the same counter")
	}
	a.Inc(2)
	if b.Get() != 2 {
		t.Errorf("counter = %d, want 2", b.Get())
	}
}

func TestHandlerExposition(t *testing.T) {
	r := NewRegistry()
	r.Counter("imports_total", "Rows imported").Inc(7)
	r.Gauge("open-shops count", "Shops open right now").SetFloat64(4)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"# TYPE imports_total counter",
		"imports_total 7",
		"# TYPE open_shops_count gauge",
		"open_shops_count 4",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q:\n%s", want, body)
		}
	}
}
