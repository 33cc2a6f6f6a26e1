package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("detailing-test", reg)

	m.ObserveHTTPRequest("POST", "/api/v1/appointments", 201, 20*time.Millisecond)
	m.RecordAppointmentCreated("morning")
	m.RecordAppointmentCreated("morning")
	m.RecordSlotConflict("afternoon")
	m.RecordTransition("pending", "approved")
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.ObserveDBQuery("insert", time.Millisecond, assert.AnError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("detailing-test", "POST", "/api/v1/appointments", "201")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.appointmentsCreated.WithLabelValues("detailing-test", "morning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotConflicts.WithLabelValues("detailing-test", "afternoon")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusTransitions.WithLabelValues("detailing-test", "pending", "approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("detailing-test", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("detailing-test", "insert")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAppointmentCreated("morning")
		m.RecordNotificationFailure("email")
		m.ObserveHTTPRequest("GET", "/healthz", 200, time.Millisecond)
		m.SetDBConnections(1, 0, 1)
	})
}
