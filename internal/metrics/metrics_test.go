// ABOUTME: Tests for orbit Prometheus collectors and the metrics mux
// ABOUTME: Uses prometheus testutil to read counter values back
package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecording(t *testing.T) {
	m := New()

	m.CacheLookup("embedding", ResultHit)
	m.CacheLookup("embedding", ResultHit)
	m.CacheLookup("magnet", ResultMiss)
	m.CacheWrite("card")
	m.ObserveOracle("features", time.Now(), nil)
	m.ObserveOracle("features", time.Now(), errors.New("boom"))
	m.ObserveGravity(3)
	m.StoreError("get")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"embedding hits", testutil.ToFloat64(m.CacheLookups.WithLabelValues("embedding", ResultHit)), 2},
		{"magnet misses", testutil.ToFloat64(m.CacheLookups.WithLabelValues("magnet", ResultMiss)), 1},
		{"card writes", testutil.ToFloat64(m.CacheWrites.WithLabelValues("card")), 1},
		{"oracle ok", testutil.ToFloat64(m.OracleCalls.WithLabelValues("features", "ok")), 1},
		{"oracle error", testutil.ToFloat64(m.OracleCalls.WithLabelValues("features", "error")), 1},
		{"store errors", testutil.ToFloat64(m.StoreErrors.WithLabelValues("get")), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(m.GravityPairs); n != 1 {
		t.Errorf("gravity histogram series = %d, want 1", n)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.CacheLookup("card", ResultHit)
	m.CacheWrite("card")
	m.ObserveOracle("card", time.Now(), nil)
	m.ObserveGravity(1)
	m.StoreError("put")
}

func TestMux(t *testing.T) {
	m := New()
	m.CacheWrite("embedding")

	srv := httptest.NewServer(m.NewMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.Contains(string(body), `orbit_cache_writes_total{namespace="embedding"} 1`) {
		t.Errorf("/metrics missing cache writes:\n%s", body)
	}

	resp, err = http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/health status = %d", resp.StatusCode)
	}
}
