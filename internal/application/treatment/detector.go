// Package treatment scans a case's chronological treatment record for gaps
// that an insurer could point to as a break in the claimant's care.
package treatment

import (
	"fmt"
	"sort"
	"time"

	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/internal/domain/task"
	domain "github.com/veritas-suite/caseflow/internal/domain/treatment"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/logging"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/metrics"
	"github.com/veritas-suite/caseflow/pkg/errors"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// DefaultGapThresholdDays is the minimum interval reported as a gap when the
// caller does not configure one.
const DefaultGapThresholdDays = 14

// Detector finds treatment gaps.  Pure computation; safe for concurrent use.
type Detector struct {
	thresholdDays int
	logger        logging.Logger
	recorder      metrics.Recorder
}

// NewDetector constructs a Detector.  A non-positive threshold falls back to
// the default; a nil logger or recorder gets the no-op implementation.
func NewDetector(thresholdDays int, logger logging.Logger, recorder metrics.Recorder) (*Detector, error) {
	if thresholdDays < 0 {
		return nil, errors.New(errors.ErrCodeTreatmentThresholdInvalid, fmt.Sprintf("threshold must be ≥ 0, got %d", thresholdDays))
	}
	if thresholdDays == 0 {
		thresholdDays = DefaultGapThresholdDays
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if recorder == nil {
		recorder = metrics.NewNopRecorder()
	}
	return &Detector{
		thresholdDays: thresholdDays,
		logger:        logger.Named("treatment"),
		recorder:      recorder,
	}, nil
}

// DetectGaps scans events for intervals longer than the threshold, including
// the trailing open-ended interval from the last event to now.  Events are
// sorted by date before scanning, so callers may pass records in any order.
// Empty input yields no gaps.
func (d *Detector) DetectGaps(caseID common.ID, events []domain.TreatmentEvent, now time.Time) ([]domain.Gap, error) {
	if caseID == "" {
		return nil, errors.InvalidParam("case id must not be empty")
	}
	if now.IsZero() {
		return nil, errors.InvalidParam("now must not be zero")
	}
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTreatmentEventInvalid, fmt.Sprintf("event %d is invalid", i))
		}
	}

	sorted := make([]domain.TreatmentEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var gaps []domain.Gap
	for i := 0; i+1 < len(sorted); i++ {
		days := deadline.DaysBetween(sorted[i].Date, sorted[i+1].Date)
		if days > d.thresholdDays {
			gaps = append(gaps, domain.Gap{
				CaseID:       caseID,
				StartDate:    sorted[i].Date,
				EndDate:      sorted[i+1].Date,
				DurationDays: days,
				ProviderName: sorted[i].ProviderName,
			})
		}
	}

	// Trailing open-ended gap: the client may simply have stopped treating.
	if len(sorted) > 0 {
		last := sorted[len(sorted)-1]
		if days := deadline.DaysBetween(last.Date, now); days > d.thresholdDays {
			gaps = append(gaps, domain.Gap{
				CaseID:       caseID,
				StartDate:    last.Date,
				EndDate:      now,
				DurationDays: days,
				ProviderName: last.ProviderName,
				OpenEnded:    true,
			})
		}
	}

	for range gaps {
		d.recorder.IncGapDetected()
	}
	d.logger.Debug("treatment record scanned",
		logging.String("case_id", string(caseID)),
		logging.Int("events", len(events)),
		logging.Int("gaps", len(gaps)),
	)
	return gaps, nil
}

// GapsToTasks converts gaps into client-communication follow-up tasks.
// Providers already flagged with a detected gap are suppressed so the board
// is not filled with repeats of a known problem.  Priority is high when the
// gap exceeds 30 days.
func (d *Detector) GapsToTasks(
	gaps []domain.Gap,
	caseID common.ID,
	requestedBy common.UserID,
	flaggedProviders map[string]bool,
) ([]task.Task, error) {
	if caseID == "" {
		return nil, errors.InvalidParam("case id must not be empty")
	}

	var tasks []task.Task
	for _, g := range gaps {
		if g.ProviderName != "" && flaggedProviders[g.ProviderName] {
			continue
		}

		priority := task.PriorityMedium
		if g.DurationDays > 30 {
			priority = task.PriorityHigh
		}

		title := fmt.Sprintf("Follow up on %d-day treatment gap", g.DurationDays)
		desc := fmt.Sprintf("No treatment recorded between %s and %s.", g.StartDate.Format("2006-01-02"), g.EndDate.Format("2006-01-02"))
		if g.OpenEnded {
			desc = fmt.Sprintf("No treatment recorded since %s.", g.StartDate.Format("2006-01-02"))
		}
		if g.ProviderName != "" {
			desc += fmt.Sprintf(" Last seen provider: %s.", g.ProviderName)
		}

		tasks = append(tasks, task.Task{
			ID:             common.ID(fmt.Sprintf("task-gap-%s-%s", caseID, g.StartDate.Format("20060102"))),
			CaseID:         caseID,
			Title:          title,
			Description:    desc,
			AssignedToRole: task.RoleLegalAssistant,
			CreatedBy:      requestedBy,
			Status:         task.StatusPending,
			Priority:       priority,
			Category:       task.CategoryClientComms,
			Metadata: common.Metadata{
				task.MetaAutoGenerated: true,
				task.MetaTriggerReason: "treatment_gap",
				task.MetaProviderName:  g.ProviderName,
				task.MetaGapDays:       g.DurationDays,
				task.MetaGapStart:      g.StartDate.Format("2006-01-02"),
			},
		})
	}
	return tasks, nil
}
