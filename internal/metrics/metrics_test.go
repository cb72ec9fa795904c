package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, label string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, vec.WithLabelValues(label).Write(&m))
	return m.GetCounter().GetValue()
}

func TestDecisionLabels(t *testing.T) {
	accepted := counterValue(t, decisions, OutcomeAccepted)
	rejected := counterValue(t, decisions, OutcomeRejected)

	Decision(OutcomeAccepted)
	Decision(OutcomeAccepted)
	Decision(OutcomeRejected)

	assert.Equal(t, accepted+2, counterValue(t, decisions, OutcomeAccepted))
	assert.Equal(t, rejected+1, counterValue(t, decisions, OutcomeRejected))
}

func TestRegistrationOutcomes(t *testing.T) {
	before := counterValue(t, registrations, OutcomeConflict)
	Registration(OutcomeConflict)
	assert.Equal(t, before+1, counterValue(t, registrations, OutcomeConflict))
}
