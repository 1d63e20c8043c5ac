package metrics

import (
	"errors"
	"testing"

	"clinic-booking/pkg/apperror"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSchedulingMetricsLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveOperation("create_booking", nil)
	m.ObserveOperation("create_booking", apperror.New(apperror.KindSlotUnavailable, "taken"))
	m.ObserveOperation("create_booking", errors.New("boom"))
	m.ObserveSlotConflict()
	m.ObserveCompensation("release_slot", nil)
	m.ObserveNotification("booking_confirmation", errors.New("redis down"))
	m.ObserveHTTP("POST", "/api/bookings", 201, 0.02)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create_booking", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create_booking", "slot_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create_booking", "storage")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compensations.WithLabelValues("release_slot", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("booking_confirmation", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/bookings", "201")))
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveOperation("cancel", nil)
	m.ObserveSlotConflict()
	m.ObserveCompensation("release_slot", errors.New("x"))
	m.ObserveNotification("cancellation", nil)
	m.ObserveHTTP("GET", "/health", 200, 0.001)
}
