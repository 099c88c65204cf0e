package metric

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	// Double registration fails.
	assert.Error(t, m.Register(reg))
}

func TestObserveOperation(t *testing.T) {
	m := NewMetrics()

	m.ObserveOperation(OperationExpand, 5*time.Millisecond, nil)
	m.ObserveOperation(OperationExpand, time.Millisecond, fmt.Errorf("boom"))
	m.ObserveOperation(OperationCompact, time.Millisecond, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.OperationsTotal.WithLabelValues(OperationExpand, "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.OperationsTotal.WithLabelValues(OperationExpand, "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.OperationsTotal.WithLabelValues(OperationCompact, "success")))
}

func TestObserveRemoteLoad(t *testing.T) {
	m := NewMetrics()
	m.ObserveRemoteLoad(nil)
	m.ObserveRemoteLoad(fmt.Errorf("timeout"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RemoteContextLoads.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RemoteContextLoads.WithLabelValues("error")))
}

func TestObserveError(t *testing.T) {
	m := NewMetrics()
	m.ObserveError("cyclic IRI mapping")
	m.ObserveError("")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("cyclic IRI mapping")))
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveOperation(OperationExpand, time.Millisecond, nil)
	m.ObserveRemoteLoad(nil)
	m.ObserveError("x")
}
