package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) (Recorder, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)
	return r, reg
}

func TestNewRecorderDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)
	_, err = NewRecorder(reg)
	assert.Error(t, err, "second registration on the same registry must fail")
}

func TestCounters(t *testing.T) {
	r, reg := newTestRecorder(t)

	r.IncRuleSkipped("insurer-notice")
	r.IncRuleSkipped("insurer-notice")
	r.IncRuleSkipped("lat-dispute")
	r.IncGapDetected()
	r.IncSettlementComputed()
	r.IncSettlementComputed()
	r.IncEngineError("TLN_001")

	pr := r.(*promRecorder)
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.rulesSkipped.WithLabelValues("insurer-notice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.rulesSkipped.WithLabelValues("lat-dispute")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.gapsDetected))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.settlements))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.engineErrors.WithLabelValues("TLN_001")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestObserveBulkBatch(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.ObserveBulkBatch(50*time.Millisecond, 10, 2)
	r.ObserveBulkBatch(30*time.Millisecond, 5, 0)

	pr := r.(*promRecorder)
	assert.Equal(t, 15.0, testutil.ToFloat64(pr.bulkProcessed))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.bulkFailed))
	assert.Equal(t, 2, testutil.CollectAndCount(pr.bulkDuration))
}

func TestObserveTimeline(t *testing.T) {
	r, _ := newTestRecorder(t)

	r.ObserveTimeline(10*time.Millisecond, 7)
	r.ObserveTaskGeneration(5*time.Millisecond, 3)

	pr := r.(*promRecorder)
	assert.Equal(t, 1, testutil.CollectAndCount(pr.timelineDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(pr.timelineSize))
	assert.Equal(t, 1, testutil.CollectAndCount(pr.taskDuration))
	assert.Equal(t, 1, testutil.CollectAndCount(pr.taskCount))
}

func TestNopRecorderIsInert(t *testing.T) {
	r := NewNopRecorder()
	r.ObserveTimeline(time.Second, 1)
	r.ObserveTaskGeneration(time.Second, 1)
	r.IncRuleSkipped("x")
	r.IncGapDetected()
	r.IncSettlementComputed()
	r.IncEngineError("COMMON_001")
	r.ObserveBulkBatch(time.Second, 1, 1)
}
