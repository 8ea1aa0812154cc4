package bulk

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/veritas-suite/caseflow/internal/application/timeline"
	"github.com/veritas-suite/caseflow/internal/application/workflow"
	"github.com/veritas-suite/caseflow/internal/config"
	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/internal/domain/task"
	"github.com/veritas-suite/caseflow/pkg/errors"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

func newTestEvaluator(t *testing.T, cfg config.BulkConfig) *Evaluator {
	t.Helper()
	calc, err := timeline.NewCalculator(deadline.DefaultRuleTable(), config.DefaultMinorAgeYears, nil, nil)
	if err != nil {
		t.Fatalf("NewCalculator failed: %v", err)
	}
	gen, err := workflow.NewGenerator(task.DefaultTemplateCatalog(), calc, nil, nil)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	ev, err := NewEvaluator(calc, gen, cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	return ev
}

func validCase(id string, anchor time.Time) workflow.CaseData {
	return workflow.CaseData{
		CaseID: common.ID(id),
		Title:  "Doe v. Insurer",
		Anchors: timeline.CaseAnchors{
			PrimaryAnchor: anchor,
		},
	}
}

func TestEvaluateAllSuccessKeepsInputOrder(t *testing.T) {
	ev := newTestEvaluator(t, config.BulkConfig{Concurrency: 4})
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := []workflow.CaseData{
		validCase("case-a", now),
		validCase("case-b", now.AddDate(0, 0, -1)),
		validCase("case-c", now.AddDate(0, 0, -2)),
	}

	result, err := ev.EvaluateAll(context.Background(), cases, "user-1", now)
	if err != nil {
		t.Fatalf("EvaluateAll failed: %v", err)
	}

	if result.TotalCount != 3 || result.SuccessCount != 3 || result.FailureCount != 0 {
		t.Fatalf("expected 3/3/0, got %d/%d/%d", result.TotalCount, result.SuccessCount, result.FailureCount)
	}
	for i, want := range []common.ID{"case-a", "case-b", "case-c"} {
		got := result.Outcomes[i]
		if got.CaseID != want {
			t.Errorf("outcome %d: expected case %s, got %s", i, want, got.CaseID)
		}
		if got.Index != i {
			t.Errorf("outcome %d: expected index %d, got %d", i, i, got.Index)
		}
		if got.Status != CaseStatusSuccess {
			t.Errorf("outcome %d: expected success, got %s", i, got.Status)
		}
		if len(got.Deadlines) == 0 {
			t.Errorf("outcome %d: expected deadlines", i)
		}
		// The insurer-notice deadline is due within its 7-day lead for an
		// incident this recent, so at least one task must come out.
		if len(got.Tasks) == 0 {
			t.Errorf("outcome %d: expected tasks", i)
		}
	}
}

func TestEvaluateAllIsolatesPerCaseFailures(t *testing.T) {
	ev := newTestEvaluator(t, config.BulkConfig{Concurrency: 2})
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := []workflow.CaseData{
		validCase("case-ok", now),
		{CaseID: "case-bad", Title: "Missing anchor"}, // zero primary anchor
		validCase("case-ok-2", now),
	}

	result, err := ev.EvaluateAll(context.Background(), cases, "user-1", now)
	if err != nil {
		t.Fatalf("EvaluateAll failed: %v", err)
	}

	if result.SuccessCount != 2 || result.FailureCount != 1 {
		t.Fatalf("expected 2 succeeded / 1 failed, got %d/%d", result.SuccessCount, result.FailureCount)
	}
	bad := result.Outcomes[1]
	if bad.Status != CaseStatusFailed {
		t.Errorf("expected failed status, got %s", bad.Status)
	}
	if !errors.IsCode(bad.Err, errors.ErrCodeTimelineAnchorMissing) {
		t.Errorf("expected anchor-missing code, got %v", bad.Err)
	}
	if result.Outcomes[0].Status != CaseStatusSuccess || result.Outcomes[2].Status != CaseStatusSuccess {
		t.Error("neighbouring cases must not be affected by one failure")
	}
}

func TestEvaluateAllLargeBatch(t *testing.T) {
	ev := newTestEvaluator(t, config.BulkConfig{Concurrency: 4})
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := make([]workflow.CaseData, 50)
	for i := range cases {
		cases[i] = validCase(fmt.Sprintf("case-%02d", i), now.AddDate(0, 0, -i))
	}

	result, err := ev.EvaluateAll(context.Background(), cases, "user-1", now)
	if err != nil {
		t.Fatalf("EvaluateAll failed: %v", err)
	}
	if result.SuccessCount != 50 {
		t.Fatalf("expected all 50 to succeed, got %d", result.SuccessCount)
	}
	for i := range result.Outcomes {
		if result.Outcomes[i].CaseID != cases[i].CaseID {
			t.Fatalf("outcome %d out of order: %s", i, result.Outcomes[i].CaseID)
		}
	}
}

func TestEvaluateAllEmptyInput(t *testing.T) {
	ev := newTestEvaluator(t, config.BulkConfig{Concurrency: 1})

	result, err := ev.EvaluateAll(context.Background(), nil, "user-1", time.Now())
	if err != nil {
		t.Fatalf("EvaluateAll failed: %v", err)
	}
	if result.TotalCount != 0 || len(result.Outcomes) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestEvaluateAllZeroNow(t *testing.T) {
	ev := newTestEvaluator(t, config.BulkConfig{Concurrency: 1})

	_, err := ev.EvaluateAll(context.Background(), []workflow.CaseData{validCase("c", time.Now())}, "user-1", time.Time{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.IsCode(err, errors.ErrCodeBulkInputInvalid) {
		t.Errorf("expected code %s, got %s", errors.ErrCodeBulkInputInvalid, errors.GetCode(err))
	}
}

func TestEvaluateAllAfterShutdown(t *testing.T) {
	ev := newTestEvaluator(t, config.BulkConfig{Concurrency: 1})

	if err := ev.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	_, err := ev.EvaluateAll(context.Background(), []workflow.CaseData{validCase("c", time.Now())}, "user-1", time.Now())
	if err == nil {
		t.Fatal("expected an error after shutdown")
	}
	if !errors.IsCode(err, errors.ErrCodeBulkShutdown) {
		t.Errorf("expected code %s, got %s", errors.ErrCodeBulkShutdown, errors.GetCode(err))
	}
}

func TestNewEvaluatorValidation(t *testing.T) {
	calc, err := timeline.NewCalculator(deadline.DefaultRuleTable(), config.DefaultMinorAgeYears, nil, nil)
	if err != nil {
		t.Fatalf("NewCalculator failed: %v", err)
	}
	gen, err := workflow.NewGenerator(task.DefaultTemplateCatalog(), calc, nil, nil)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if _, err := NewEvaluator(nil, gen, config.BulkConfig{}, nil, nil); !errors.IsCode(err, errors.ErrCodeBulkInputInvalid) {
		t.Errorf("nil calculator: expected %s, got %v", errors.ErrCodeBulkInputInvalid, err)
	}
	if _, err := NewEvaluator(calc, nil, config.BulkConfig{}, nil, nil); !errors.IsCode(err, errors.ErrCodeBulkInputInvalid) {
		t.Errorf("nil generator: expected %s, got %v", errors.ErrCodeBulkInputInvalid, err)
	}
	if _, err := NewEvaluator(calc, gen, config.BulkConfig{Timeout: -time.Second}, nil, nil); !errors.IsCode(err, errors.ErrCodeBulkInputInvalid) {
		t.Errorf("negative timeout: expected %s, got %v", errors.ErrCodeBulkInputInvalid, err)
	}

	ev, err := NewEvaluator(calc, gen, config.BulkConfig{}, nil, nil)
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	if ev.concurrency != config.DefaultBulkConcurrency {
		t.Errorf("expected default concurrency %d, got %d", config.DefaultBulkConcurrency, ev.concurrency)
	}
}

func TestClassifyCtxError(t *testing.T) {
	if got := classifyCtxError(context.DeadlineExceeded); got != CaseStatusTimeout {
		t.Errorf("deadline exceeded: expected %s, got %s", CaseStatusTimeout, got)
	}
	if got := classifyCtxError(context.Canceled); got != CaseStatusCancelled {
		t.Errorf("canceled: expected %s, got %s", CaseStatusCancelled, got)
	}
}

func TestCaseStatusString(t *testing.T) {
	tests := []struct {
		status CaseStatus
		want   string
	}{
		{CaseStatusSuccess, "SUCCESS"},
		{CaseStatusFailed, "FAILED"},
		{CaseStatusTimeout, "TIMEOUT"},
		{CaseStatusCancelled, "CANCELLED"},
		{CaseStatus(42), "UNKNOWN(42)"},
	}
	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("expected %s, got %s", tc.want, got)
		}
	}
}
