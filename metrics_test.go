package sessionrelay

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsFree(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricLoginSuccess)
	m.Observe(MetricVerifyLatency, time.Millisecond)

	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled metrics must not record")
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("disabled snapshot not empty: %+v", snap)
	}
}

func TestMetricsConcurrentIncrements(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				m.Inc(MetricRestoreSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRestoreSuccess); got != goroutines*perGoroutine {
		t.Fatalf("counter = %d, want %d", got, goroutines*perGoroutine)
	}
}

func TestLatencyHistogramBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricVerifyLatency, 3*time.Millisecond)
	m.Observe(MetricVerifyLatency, 40*time.Millisecond)
	m.Observe(MetricVerifyLatency, 2*time.Second)

	buckets := m.Snapshot().Histograms[MetricVerifyLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("bucket count = %d", len(buckets))
	}
	if buckets[0] != 1 || buckets[3] != 1 || buckets[7] != 1 {
		t.Fatalf("unexpected bucket distribution: %v", buckets)
	}
}

func TestHistogramIgnoresOtherMetricIDs(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	m.Observe(MetricLoginSuccess, time.Millisecond)

	if hist, ok := m.Snapshot().Histograms[MetricLoginSuccess]; ok {
		t.Fatalf("unexpected histogram for counter metric: %v", hist)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricLogout)

	snap := m.Snapshot()
	m.Inc(MetricLogout)

	if snap.Counters[MetricLogout] != 1 {
		t.Fatalf("snapshot mutated after the fact: %d", snap.Counters[MetricLogout])
	}
	if m.Value(MetricLogout) != 2 {
		t.Fatalf("live counter = %d", m.Value(MetricLogout))
	}
}
