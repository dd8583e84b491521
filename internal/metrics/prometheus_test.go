package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haa-backtest/internal/data"
	"haa-backtest/internal/model"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.StepEvaluated(model.RegimeRiskOn, 10*time.Millisecond)
	r.StepEvaluated(model.RegimeRiskOn, 10*time.Millisecond)
	r.StepEvaluated(model.RegimeRiskOff, 10*time.Millisecond)
	r.StepFailed("insufficient_history", time.Millisecond)
	r.InstrumentDropped("PDBC", data.LoadIncomplete)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.steps.WithLabelValues("RISK_ON")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("RISK_OFF")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("insufficient_history")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.dropped.WithLabelValues("PDBC", "incomplete")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["haa_step_duration_seconds"])
}

func TestRecordersOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
