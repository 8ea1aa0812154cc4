// Package workflow turns computed deadlines into actionable tasks: trigger
// windows, priority escalation, overdue alerts, and reminder schedules.
package workflow

import (
	"fmt"
	"time"

	"github.com/veritas-suite/caseflow/internal/application/timeline"
	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/internal/domain/task"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/logging"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/metrics"
	"github.com/veritas-suite/caseflow/pkg/errors"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Inputs
// ---------------------------------------------------------------------------

// CaseData carries everything needed to bootstrap a new case's board: the
// identifiers plus the anchors the timeline is derived from.
type CaseData struct {
	CaseID  common.ID            `json:"case_id"`
	Title   string               `json:"title"`
	Anchors timeline.CaseAnchors `json:"anchors"`
}

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

// Generator produces tasks from deadlines and case events.  All operations
// take an explicit now; the generator never reads the wall clock for
// decisions, so identical inputs yield identical output.  Safe for
// concurrent use.
type Generator struct {
	catalog  *task.TemplateCatalog
	calc     *timeline.Calculator
	logger   logging.Logger
	recorder metrics.Recorder
}

// NewGenerator constructs a Generator.  The timeline calculator is required
// only by GenerateInitialCaseTasks; a nil logger or recorder is replaced
// with the no-op implementation.
func NewGenerator(catalog *task.TemplateCatalog, calc *timeline.Calculator, logger logging.Logger, recorder metrics.Recorder) (*Generator, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, errors.New(errors.ErrCodeWorkflowCatalogInvalid, "template catalog must not be empty")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if recorder == nil {
		recorder = metrics.NewNopRecorder()
	}
	return &Generator{
		catalog:  catalog,
		calc:     calc,
		logger:   logger.Named("workflow"),
		recorder: recorder,
	}, nil
}

// escalatePriority overrides the template default as the due date approaches.
func escalatePriority(daysUntilDue int, templateDefault task.Priority) task.Priority {
	switch {
	case daysUntilDue <= 3:
		return task.PriorityCritical
	case daysUntilDue <= 7:
		return task.PriorityHigh
	case daysUntilDue <= 14:
		return task.PriorityMedium
	default:
		return templateDefault
	}
}

// GenerateFromDeadlines produces one task per active auto-generated deadline
// whose matching on-deadline template has entered its trigger window.  A
// deadline kind with no template produces no task; that is the caller's to
// log, not an error.  Task IDs are deterministic, keyed by the deadline ID.
func (g *Generator) GenerateFromDeadlines(
	deadlines []deadline.Deadline,
	caseID common.ID,
	caseTitle string,
	requestedBy common.UserID,
	now time.Time,
) ([]task.Task, error) {
	started := time.Now()

	if caseID == "" {
		return nil, errors.InvalidParam("case id must not be empty")
	}
	if now.IsZero() {
		return nil, errors.InvalidParam("now must not be zero")
	}

	var tasks []task.Task
	for i := range deadlines {
		d := &deadlines[i]
		if d.Status != deadline.StatusActive || !d.AutoGenerated {
			continue
		}

		tpl, ok := g.catalog.FindByDeadlineKind(d.Kind)
		if !ok {
			g.logger.Debug("no template for deadline kind",
				logging.String("case_id", string(caseID)),
				logging.String("kind", string(d.Kind)),
			)
			continue
		}

		daysUntilDue := d.DaysUntilDue(now)
		if daysUntilDue > tpl.LeadDays {
			// Not yet in the trigger window; boards are not flooded with
			// far-future items.
			continue
		}

		due := d.DueDate
		tasks = append(tasks, task.Task{
			ID:             common.ID(fmt.Sprintf("task-%s", d.ID)),
			CaseID:         caseID,
			Title:          fmt.Sprintf("%s — %s", tpl.Name, caseTitle),
			Description:    fmt.Sprintf("%s. %s (due %s)", tpl.Description, d.Description, d.DueDate.Format("2006-01-02")),
			AssignedToRole: tpl.DefaultAssigneeRole,
			CreatedBy:      requestedBy,
			DueDate:        &due,
			Status:         task.StatusPending,
			Priority:       escalatePriority(daysUntilDue, tpl.DefaultPriority),
			Category:       tpl.Category,
			Metadata: common.Metadata{
				task.MetaDeadlineID:    string(d.ID),
				task.MetaDeadlineKind:  string(d.Kind),
				task.MetaAutoGenerated: true,
				task.MetaTriggerReason: "deadline_window",
			},
		})
	}

	g.recorder.ObserveTaskGeneration(time.Since(started), len(tasks))
	g.logger.Debug("tasks generated from deadlines",
		logging.String("case_id", string(caseID)),
		logging.Int("deadlines", len(deadlines)),
		logging.Int("tasks", len(tasks)),
	)
	return tasks, nil
}

// GenerateInitialCaseTasks bootstraps a new case's board: it computes the
// timeline, generates the in-window deadline tasks, and prepends the
// unconditional intake task.  This is the entry point invoked when a case
// record is created.
func (g *Generator) GenerateInitialCaseTasks(caseData CaseData, requestedBy common.UserID, now time.Time) ([]task.Task, error) {
	if g.calc == nil {
		return nil, errors.New(errors.ErrCodeWorkflowCaseInvalid, "generator was built without a timeline calculator")
	}
	if caseData.CaseID == "" {
		return nil, errors.InvalidParam("case id must not be empty")
	}

	deadlines, err := g.calc.ComputeTimeline(caseData.CaseID, caseData.Anchors)
	if err != nil {
		return nil, err
	}

	deadlineTasks, err := g.GenerateFromDeadlines(deadlines, caseData.CaseID, caseData.Title, requestedBy, now)
	if err != nil {
		return nil, err
	}

	intake := g.intakeTask(caseData, requestedBy)
	tasks := make([]task.Task, 0, len(deadlineTasks)+1)
	tasks = append(tasks, intake)
	tasks = append(tasks, deadlineTasks...)

	g.logger.Info("initial case tasks generated",
		logging.String("case_id", string(caseData.CaseID)),
		logging.Int("tasks", len(tasks)),
	)
	return tasks, nil
}

// intakeTask builds the fixed case-open task.  The catalog's on-case-open
// templates drive the blueprint; the intake default is used when a catalog
// carries none.
func (g *Generator) intakeTask(caseData CaseData, requestedBy common.UserID) task.Task {
	tpl := task.TaskTemplate{
		Name:                "Complete client intake",
		Description:         "Collect retainer, contact details, and initial documentation",
		Category:            task.CategoryIntake,
		DefaultAssigneeRole: task.RoleLegalAssistant,
		DefaultPriority:     task.PriorityHigh,
	}
	if opened := g.catalog.OnCaseOpen(); len(opened) > 0 {
		tpl = opened[0]
	}

	return task.Task{
		ID:             common.ID(fmt.Sprintf("task-intake-%s", caseData.CaseID)),
		CaseID:         caseData.CaseID,
		Title:          fmt.Sprintf("%s — %s", tpl.Name, caseData.Title),
		Description:    tpl.Description,
		AssignedToRole: tpl.DefaultAssigneeRole,
		CreatedBy:      requestedBy,
		Status:         task.StatusPending,
		Priority:       tpl.DefaultPriority,
		Category:       tpl.Category,
		Metadata: common.Metadata{
			task.MetaAutoGenerated: true,
			task.MetaTriggerReason: "case_open",
		},
	}
}

// CheckOverdueDeadlines emits exactly one critical alert task per critical
// deadline that is past due and still open.  The engine does not deduplicate
// against previously persisted tasks; the deterministic task ID is the
// caller's idempotency key.
func (g *Generator) CheckOverdueDeadlines(
	deadlines []deadline.Deadline,
	caseID common.ID,
	caseTitle string,
	requestedBy common.UserID,
	now time.Time,
) ([]task.Task, error) {
	if caseID == "" {
		return nil, errors.InvalidParam("case id must not be empty")
	}
	if now.IsZero() {
		return nil, errors.InvalidParam("now must not be zero")
	}

	var tasks []task.Task
	for i := range deadlines {
		d := &deadlines[i]
		if !d.Critical {
			continue
		}
		if d.Status != deadline.StatusActive && d.Status != deadline.StatusOverdue {
			continue
		}
		if !d.DueDate.Before(now) {
			continue
		}

		daysOverdue := -d.DaysUntilDue(now)
		due := d.DueDate
		tasks = append(tasks, task.Task{
			ID:             common.ID(fmt.Sprintf("task-overdue-%s", d.ID)),
			CaseID:         caseID,
			Title:          fmt.Sprintf("[OVERDUE] %s — %s", d.Description, caseTitle),
			Description:    fmt.Sprintf("%s was due %s and is %d day(s) overdue. Immediate review required.", d.Description, d.DueDate.Format("2006-01-02"), daysOverdue),
			AssignedToRole: task.RoleSeniorLawyer,
			CreatedBy:      requestedBy,
			DueDate:        &due,
			Status:         task.StatusPending,
			Priority:       task.PriorityCritical,
			Category:       task.CategoryLitigation,
			Metadata: common.Metadata{
				task.MetaDeadlineID:    string(d.ID),
				task.MetaDeadlineKind:  string(d.Kind),
				task.MetaAutoGenerated: true,
				task.MetaTriggerReason: "overdue",
				task.MetaDaysOverdue:   daysOverdue,
			},
		})
	}

	if len(tasks) > 0 {
		g.logger.Warn("overdue critical deadlines detected",
			logging.String("case_id", string(caseID)),
			logging.Int("count", len(tasks)),
		)
	}
	return tasks, nil
}
