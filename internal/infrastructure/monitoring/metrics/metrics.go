// Package metrics defines the engine's instrumentation contract and its
// Prometheus-backed implementation.  Engine components record through the
// Recorder interface; hosts that do not scrape metrics inject the noop
// implementation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the instrumentation contract for the rules engine.  All methods
// are safe for concurrent use.
type Recorder interface {
	// ObserveTimeline records one timeline computation: how long it took and
	// how many deadlines it produced.
	ObserveTimeline(d time.Duration, deadlines int)

	// ObserveTaskGeneration records one workflow generation pass and the
	// number of tasks it produced.
	ObserveTaskGeneration(d time.Duration, tasks int)

	// IncRuleSkipped counts a rule skipped because its anchor was absent.
	IncRuleSkipped(ruleID string)

	// IncGapDetected counts a detected treatment gap.
	IncGapDetected()

	// IncSettlementComputed counts a completed net settlement computation.
	IncSettlementComputed()

	// IncEngineError counts an engine operation that failed, labeled by the
	// error code.
	IncEngineError(code string)

	// ObserveBulkBatch records one bulk evaluation batch: duration, cases
	// processed and cases failed.
	ObserveBulkBatch(d time.Duration, processed, failed int)
}

// promRecorder implements Recorder on Prometheus collectors.
type promRecorder struct {
	timelineDuration prometheus.Histogram
	timelineSize     prometheus.Histogram
	taskDuration     prometheus.Histogram
	taskCount        prometheus.Histogram
	rulesSkipped     *prometheus.CounterVec
	gapsDetected     prometheus.Counter
	settlements      prometheus.Counter
	engineErrors     *prometheus.CounterVec
	bulkDuration     prometheus.Histogram
	bulkProcessed    prometheus.Counter
	bulkFailed       prometheus.Counter
}

// NewRecorder builds a Prometheus-backed Recorder and registers its
// collectors on reg.  Registration failures surface as errors so duplicate
// registrations are caught at startup rather than at scrape time.
func NewRecorder(reg prometheus.Registerer) (Recorder, error) {
	r := &promRecorder{
		timelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caseflow",
			Subsystem: "timeline",
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing a single case timeline.",
			Buckets:   prometheus.DefBuckets,
		}),
		timelineSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caseflow",
			Subsystem: "timeline",
			Name:      "deadlines_per_case",
			Help:      "Deadlines produced per timeline computation.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caseflow",
			Subsystem: "workflow",
			Name:      "generate_duration_seconds",
			Help:      "Time spent generating workflow tasks for a case.",
			Buckets:   prometheus.DefBuckets,
		}),
		taskCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caseflow",
			Subsystem: "workflow",
			Name:      "tasks_per_generation",
			Help:      "Tasks produced per generation pass.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		rulesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caseflow",
			Subsystem: "timeline",
			Name:      "rules_skipped_total",
			Help:      "Rules skipped because their anchor date was absent.",
		}, []string{"rule_id"}),
		gapsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "caseflow",
			Subsystem: "treatment",
			Name:      "gaps_detected_total",
			Help:      "Treatment gaps detected across all cases.",
		}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "caseflow",
			Subsystem: "settlement",
			Name:      "computed_total",
			Help:      "Net settlement computations completed.",
		}),
		engineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caseflow",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Engine operations that returned an error, by code.",
		}, []string{"code"}),
		bulkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "caseflow",
			Subsystem: "bulk",
			Name:      "batch_duration_seconds",
			Help:      "Wall-clock duration of a bulk evaluation batch.",
			Buckets:   prometheus.DefBuckets,
		}),
		bulkProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "caseflow",
			Subsystem: "bulk",
			Name:      "cases_processed_total",
			Help:      "Cases successfully evaluated in bulk batches.",
		}),
		bulkFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "caseflow",
			Subsystem: "bulk",
			Name:      "cases_failed_total",
			Help:      "Cases that failed evaluation in bulk batches.",
		}),
	}

	collectors := []prometheus.Collector{
		r.timelineDuration, r.timelineSize,
		r.taskDuration, r.taskCount,
		r.rulesSkipped, r.gapsDetected, r.settlements, r.engineErrors,
		r.bulkDuration, r.bulkProcessed, r.bulkFailed,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *promRecorder) ObserveTimeline(d time.Duration, deadlines int) {
	r.timelineDuration.Observe(d.Seconds())
	r.timelineSize.Observe(float64(deadlines))
}

func (r *promRecorder) ObserveTaskGeneration(d time.Duration, tasks int) {
	r.taskDuration.Observe(d.Seconds())
	r.taskCount.Observe(float64(tasks))
}

func (r *promRecorder) IncRuleSkipped(ruleID string) {
	r.rulesSkipped.WithLabelValues(ruleID).Inc()
}

func (r *promRecorder) IncGapDetected() {
	r.gapsDetected.Inc()
}

func (r *promRecorder) IncSettlementComputed() {
	r.settlements.Inc()
}

func (r *promRecorder) IncEngineError(code string) {
	r.engineErrors.WithLabelValues(code).Inc()
}

func (r *promRecorder) ObserveBulkBatch(d time.Duration, processed, failed int) {
	r.bulkDuration.Observe(d.Seconds())
	r.bulkProcessed.Add(float64(processed))
	r.bulkFailed.Add(float64(failed))
}

type nopRecorder struct{}

func (nopRecorder) ObserveTimeline(time.Duration, int)       {}
func (nopRecorder) ObserveTaskGeneration(time.Duration, int) {}
func (nopRecorder) IncRuleSkipped(string)                    {}
func (nopRecorder) IncGapDetected()                          {}
func (nopRecorder) IncSettlementComputed()                   {}
func (nopRecorder) IncEngineError(string)                    {}
func (nopRecorder) ObserveBulkBatch(time.Duration, int, int) {}

// NewNopRecorder returns a Recorder that discards all observations.
func NewNopRecorder() Recorder { return nopRecorder{} }
