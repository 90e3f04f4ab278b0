package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterSignIns.WithLabelValues("github").Inc()
	m.CounterWorkoutsLogged.WithLabelValues("Pull 1").Add(2)
	m.CounterRequests.WithLabelValues("GET", "/api/user", "200").Inc()
	m.HistRequestDuration.WithLabelValues("/api/user").Observe(0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterSignIns.WithLabelValues("github")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterWorkoutsLogged.WithLabelValues("Pull 1")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["ringlog_test_sign_ins_total"])
	assert.True(t, names["ringlog_test_request_duration_seconds"])
}

func TestNewTestManager_Independent(t *testing.T) {
	// Separate registries, so building two never panics on duplicate registration.
	a := NewTestManager()
	b := NewTestManager()
	a.CounterPanics.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CounterPanics))
}
