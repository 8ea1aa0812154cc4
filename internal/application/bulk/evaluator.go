// Package bulk evaluates many cases in one bounded-concurrency pass, for
// hosts importing an existing book of business.
package bulk

import (
	"context"
	stdliberrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veritas-suite/caseflow/internal/application/timeline"
	"github.com/veritas-suite/caseflow/internal/application/workflow"
	"github.com/veritas-suite/caseflow/internal/config"
	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/internal/domain/task"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/logging"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/metrics"
	"github.com/veritas-suite/caseflow/pkg/errors"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Outcome types
// ---------------------------------------------------------------------------

// CaseStatus is the outcome classification for one case in a batch.
type CaseStatus int

const (
	CaseStatusSuccess   CaseStatus = iota // evaluation completed
	CaseStatusFailed                      // evaluation returned an error
	CaseStatusTimeout                     // batch deadline expired before the case ran
	CaseStatusCancelled                   // batch context was cancelled
)

// String returns the human-readable representation of a CaseStatus.
func (s CaseStatus) String() string {
	switch s {
	case CaseStatusSuccess:
		return "SUCCESS"
	case CaseStatusFailed:
		return "FAILED"
	case CaseStatusTimeout:
		return "TIMEOUT"
	case CaseStatusCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// CaseOutcome holds the evaluation result for a single case.
type CaseOutcome struct {
	Index     int                 `json:"index"`
	CaseID    common.ID           `json:"case_id"`
	Deadlines []deadline.Deadline `json:"deadlines,omitempty"`
	Tasks     []task.Task         `json:"tasks,omitempty"`
	Err       error               `json:"error,omitempty"`
	Status    CaseStatus          `json:"status"`
}

// BatchResult aggregates one bulk evaluation run.  Outcomes are ordered by
// the input position of each case.
type BatchResult struct {
	Outcomes     []CaseOutcome `json:"outcomes"`
	TotalCount   int           `json:"total_count"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Duration     time.Duration `json:"duration"`
}

// ---------------------------------------------------------------------------
// Evaluator
// ---------------------------------------------------------------------------

// Evaluator runs the timeline calculator and workflow generator over a batch
// of independent cases with bounded concurrency.  Each case is pure
// computation, so a failure in one never affects another.
type Evaluator struct {
	calc        *timeline.Calculator
	gen         *workflow.Generator
	concurrency int
	timeout     time.Duration
	logger      logging.Logger
	recorder    metrics.Recorder

	isShutdown atomic.Bool
	activeWg   sync.WaitGroup
}

// NewEvaluator constructs an Evaluator from the bulk configuration.  A
// non-positive concurrency falls back to the default; a nil logger or
// recorder gets the no-op implementation.
func NewEvaluator(calc *timeline.Calculator, gen *workflow.Generator, cfg config.BulkConfig, logger logging.Logger, recorder metrics.Recorder) (*Evaluator, error) {
	if calc == nil {
		return nil, errors.New(errors.ErrCodeBulkInputInvalid, "timeline calculator must not be nil")
	}
	if gen == nil {
		return nil, errors.New(errors.ErrCodeBulkInputInvalid, "workflow generator must not be nil")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New(errors.ErrCodeBulkInputInvalid, fmt.Sprintf("timeout must be ≥ 0, got %s", cfg.Timeout))
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = config.DefaultBulkConcurrency
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if recorder == nil {
		recorder = metrics.NewNopRecorder()
	}
	return &Evaluator{
		calc:        calc,
		gen:         gen,
		concurrency: cfg.Concurrency,
		timeout:     cfg.Timeout,
		logger:      logger.Named("bulk"),
		recorder:    recorder,
	}, nil
}

// EvaluateAll computes the timeline and generates workflow tasks for every
// case, at most concurrency cases in flight at once.  Outcomes come back in
// input order with a per-case status; the batch itself fails only for
// invalid input, cancellation before any work ran, or shutdown.
func (e *Evaluator) EvaluateAll(ctx context.Context, cases []workflow.CaseData, requestedBy common.UserID, now time.Time) (*BatchResult, error) {
	if e.isShutdown.Load() {
		return nil, errors.New(errors.ErrCodeBulkShutdown, "evaluator is shutting down")
	}
	if now.IsZero() {
		return nil, errors.New(errors.ErrCodeBulkInputInvalid, "now must not be zero")
	}
	n := len(cases)
	if n == 0 {
		return &BatchResult{Outcomes: []CaseOutcome{}}, nil
	}

	e.activeWg.Add(1)
	defer e.activeWg.Done()

	batchStart := time.Now()

	batchCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// Semaphore via a buffered channel; each goroutine owns its slot in the
	// preallocated outcome slice, so no further synchronization is needed.
	sem := make(chan struct{}, e.concurrency)
	outcomes := make([]CaseOutcome, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int, cd workflow.CaseData) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-batchCtx.Done():
				outcomes[idx] = CaseOutcome{
					Index:  idx,
					CaseID: cd.CaseID,
					Err:    batchCtx.Err(),
					Status: classifyCtxError(batchCtx.Err()),
				}
				return
			}

			outcomes[idx] = e.evaluateOne(idx, cd, requestedBy, now)
		}(i, cases[i])
	}
	wg.Wait()

	result := &BatchResult{
		Outcomes:   outcomes,
		TotalCount: n,
		Duration:   time.Since(batchStart),
	}
	for i := range outcomes {
		if outcomes[i].Status == CaseStatusSuccess {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
	}

	e.recorder.ObserveBulkBatch(result.Duration, result.SuccessCount, result.FailureCount)
	e.logger.Info("bulk evaluation finished",
		logging.Int("total", result.TotalCount),
		logging.Int("succeeded", result.SuccessCount),
		logging.Int("failed", result.FailureCount),
	)
	return result, nil
}

// evaluateOne runs the full pipeline for a single case: anchors to deadlines
// to tasks.  Engine calls are pure and non-blocking, so no per-case context
// is threaded through them.
func (e *Evaluator) evaluateOne(idx int, cd workflow.CaseData, requestedBy common.UserID, now time.Time) CaseOutcome {
	deadlines, err := e.calc.ComputeTimeline(cd.CaseID, cd.Anchors)
	if err != nil {
		e.recorder.IncEngineError(string(errors.GetCode(err)))
		return CaseOutcome{Index: idx, CaseID: cd.CaseID, Err: err, Status: CaseStatusFailed}
	}

	tasks, err := e.gen.GenerateFromDeadlines(deadlines, cd.CaseID, cd.Title, requestedBy, now)
	if err != nil {
		e.recorder.IncEngineError(string(errors.GetCode(err)))
		return CaseOutcome{Index: idx, CaseID: cd.CaseID, Deadlines: deadlines, Err: err, Status: CaseStatusFailed}
	}

	return CaseOutcome{
		Index:     idx,
		CaseID:    cd.CaseID,
		Deadlines: deadlines,
		Tasks:     tasks,
		Status:    CaseStatusSuccess,
	}
}

// Shutdown stops accepting new batches and waits for in-flight work to
// drain, or for ctx to expire.
func (e *Evaluator) Shutdown(ctx context.Context) error {
	e.isShutdown.Store(true)

	done := make(chan struct{})
	go func() {
		e.activeWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func classifyCtxError(err error) CaseStatus {
	if stdliberrors.Is(err, context.DeadlineExceeded) {
		return CaseStatusTimeout
	}
	return CaseStatusCancelled
}
