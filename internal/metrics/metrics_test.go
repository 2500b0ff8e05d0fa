// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func counterValue(mf *dto.MetricFamily, labels map[string]string) float64 {
	if mf == nil {
		return 0
	}
outer:
	for _, m := range mf.GetMetric() {
		got := make(map[string]string)
		for _, lp := range m.GetLabel() {
			got[lp.GetName()] = lp.GetValue()
		}
		for k, v := range labels {
			if got[k] != v {
				continue outer
			}
		}
		return m.GetCounter().GetValue()
	}
	return 0
}

func TestRecordAPIRequest(t *testing.T) {
	labels := map[string]string{"operation": "metrics-test-op", "outcome": "success"}
	before := counterValue(gather(t, "qbraid_api_requests_total"), labels)

	RecordAPIRequest("metrics-test-op", "success", 25*time.Millisecond)
	RecordAPIRequest("metrics-test-op", "success", 50*time.Millisecond)

	after := counterValue(gather(t, "qbraid_api_requests_total"), labels)
	assert.Equal(t, 2.0, after-before)
}

func TestRecordConversion(t *testing.T) {
	labels := map[string]string{"source": "metrics-test-src", "target": "metrics-test-dst"}
	RecordConversion("metrics-test-src", "metrics-test-dst", time.Millisecond)
	IncConversionFailure("metrics-test-src", "metrics-test-dst")

	assert.Equal(t, 1.0, counterValue(gather(t, "qbraid_conversions_total"), labels))
	assert.Equal(t, 1.0, counterValue(gather(t, "qbraid_conversion_failures_total"), labels))
}

func TestJobAndCacheCounters(t *testing.T) {
	IncJobSubmitted("metrics-test-provider")
	IncJobPoll("metrics-test-status")
	IncCacheHit("metrics-test-cache")
	IncCacheMiss("metrics-test-cache")
	IncCacheMiss("metrics-test-cache")

	assert.Equal(t, 1.0, counterValue(gather(t, "qbraid_jobs_submitted_total"),
		map[string]string{"provider": "metrics-test-provider"}))
	assert.Equal(t, 1.0, counterValue(gather(t, "qbraid_job_polls_total"),
		map[string]string{"status": "metrics-test-status"}))
	assert.Equal(t, 1.0, counterValue(gather(t, "qbraid_cache_hits_total"),
		map[string]string{"cache": "metrics-test-cache"}))
	assert.Equal(t, 2.0, counterValue(gather(t, "qbraid_cache_misses_total"),
		map[string]string{"cache": "metrics-test-cache"}))
}

func TestSetCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState("metrics-test-upstream", 2)

	mf := gather(t, "qbraid_circuit_breaker_state")
	require.NotNil(t, mf)
	found := false
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "upstream" && lp.GetValue() == "metrics-test-upstream" {
				assert.Equal(t, 2.0, m.GetGauge().GetValue())
				found = true
			}
		}
	}
	assert.True(t, found)
}
