package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveClassification(t *testing.T) {
	before := testutil.ToFloat64(ClassificationsTotal.WithLabelValues("filters"))

	ObserveClassification("filters", 0.8)
	ObserveClassification("filters", 0.6)

	assert.InDelta(t, before+2, testutil.ToFloat64(ClassificationsTotal.WithLabelValues("filters")), 1e-9)
}

func TestSetActiveAlerts(t *testing.T) {
	SetActiveAlerts(map[string]int{"critical": 2, "low": 5})
	assert.InDelta(t, 2, testutil.ToFloat64(ActiveAlerts.WithLabelValues("critical")), 1e-9)
	assert.InDelta(t, 5, testutil.ToFloat64(ActiveAlerts.WithLabelValues("low")), 1e-9)

	SetActiveAlerts(map[string]int{"high": 1})
	assert.Equal(t, 1, testutil.CollectAndCount(ActiveAlerts))
}

func TestObservePrioritized(t *testing.T) {
	ObservePrioritized("cashier", 7)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(PrioritizedAlerts), 1)
}
