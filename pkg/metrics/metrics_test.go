package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCounterAndGauge(t *testing.T) {
	r := New()
	c := r.Counter("jobs_total", "jobs processed")
	c.Inc()
	c.Add(4)
	if c.Value() != 5 {
		t.Fatalf("counter = %d, want 5", c.Value())
	}

	g := r.Gauge("sessions", "")
	g.Set(3)
	g.Inc()
	g.Dec()
	g.Dec()
	if g.Value() != 2 {
		t.Fatalf("gauge = %d, want 2", g.Value())
	}
}

func TestCounterIsIdempotentPerName(t *testing.T) {
	r := New()
	a := r.Counter("hits_total", "")
	b := r.Counter("hits_total", "")
	if a != b {
		t.Fatal("same name should return the same counter")
	}
}

func TestRenderTextFormat(t *testing.T) {
	r := New()
	r.Counter("requests_total", "total requests").Add(7)
	r.Gauge("active", "active things").Set(2)

	out := r.Render()
	for _, want := range []string{
		"# HELP requests_total total requests",
		"# TYPE requests_total counter",
		"requests_total 7",
		"# TYPE active gauge",
		"active 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderLabeledCounters(t *testing.T) {
	r := New()
	r.Counter(WithLabels("requests_total", "route", "/api/chat"), "").Inc()
	r.Counter(WithLabels("requests_total", "route", "/api/advisory"), "").Add(2)

	out := r.Render()
	if !strings.Contains(out, `requests_total{route="/api/advisory"} 2`) {
		t.Fatalf("missing labeled line:\n%s", out)
	}
	if !strings.Contains(out, `requests_total{route="/api/chat"} 1`) {
		t.Fatalf("missing labeled line:\n%s", out)
	}
	if strings.Count(out, "# TYPE requests_total counter") != 1 {
		t.Fatalf("base name should render one TYPE line:\n%s", out)
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	r := New()
	h := r.Histogram("latency_seconds", "", []float64{0.1, 1, 10})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(0.7)
	h.Observe(100) // above all buckets, counted only in +Inf

	out := r.Render()
	for _, want := range []string{
		`latency_seconds_bucket{le="0.1"} 1`,
		`latency_seconds_bucket{le="1"} 3`,
		`latency_seconds_bucket{le="10"} 3`,
		`latency_seconds_bucket{le="+Inf"} 4`,
		`latency_seconds_count 4`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestHistogramSince(t *testing.T) {
	r := New()
	h := r.Histogram("d_seconds", "", nil)
	h.Since(time.Now().Add(-time.Millisecond))
	_, _, sum, count := h.snapshot()
	if count != 1 || sum <= 0 {
		t.Fatalf("count=%d sum=%g", count, sum)
	}
}

func TestHandlerContentType(t *testing.T) {
	r := New()
	r.Counter("x_total", "").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "x_total 1") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}

func TestWithLabels(t *testing.T) {
	if got := WithLabels("m", "a", "1", "b", "2"); got != `m{a="1",b="2"}` {
		t.Fatalf("got %q", got)
	}
	// Odd pairs fall back to the bare name.
	if got := WithLabels("m", "a"); got != "m" {
		t.Fatalf("got %q", got)
	}
}

func TestNewAppRegistersMetrics(t *testing.T) {
	app := NewApp()
	app.AdvisoryRequests.Inc()
	app.VoiceSessions.Set(1)
	out := app.Registry.Render()
	if !strings.Contains(out, "rafiq_advisory_requests_total 1") {
		t.Fatalf("missing advisory counter:\n%s", out)
	}
	if !strings.Contains(out, "rafiq_voice_sessions 1") {
		t.Fatalf("missing voice gauge:\n%s", out)
	}
}
