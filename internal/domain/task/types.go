// Package task defines workflow task value objects and the task template
// catalog that drives automatic task generation.
package task

import (
	"time"

	"github.com/veritas-suite/caseflow/pkg/errors"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Enumerations
// ─────────────────────────────────────────────────────────────────────────────

// Status tracks a task through the board workflow.  The engine only ever
// creates tasks as StatusPending; transitions belong to the board layer.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusBlocked    Status = "blocked"
	StatusCancelled  Status = "cancelled"
)

// Priority orders tasks on a board.  Generated tasks carry a priority
// computed at generation time; it is never recomputed afterwards.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Category groups tasks by the kind of work involved.
type Category string

const (
	CategoryFiling         Category = "filing"
	CategoryLitigation     Category = "litigation"
	CategoryIntake         Category = "intake"
	CategoryClientComms    Category = "client_communication"
	CategoryAdministrative Category = "administrative"
)

// AssigneeRole names the firm role a generated task defaults to.  Mapping a
// role to a person is the host's concern.
type AssigneeRole string

const (
	RoleLawyer         AssigneeRole = "lawyer"
	RoleSeniorLawyer   AssigneeRole = "senior_lawyer"
	RoleLawClerk       AssigneeRole = "law_clerk"
	RoleLegalAssistant AssigneeRole = "legal_assistant"
)

// ─────────────────────────────────────────────────────────────────────────────
// Task value object
// ─────────────────────────────────────────────────────────────────────────────

// Well-known metadata keys written by the generators.
const (
	MetaDeadlineID    = "deadline_id"
	MetaDeadlineKind  = "deadline_kind"
	MetaAutoGenerated = "auto_generated"
	MetaTriggerReason = "trigger_reason"
	MetaDaysOverdue   = "days_overdue"
	MetaProviderName  = "provider_name"
	MetaGapDays       = "gap_days"
	MetaGapStart      = "gap_start"
)

// Task is a single actionable item on a case.  The engine appends new tasks;
// it never mutates one after generation.
type Task struct {
	ID             common.ID       `json:"id"`
	CaseID         common.ID       `json:"case_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	AssignedToRole AssigneeRole    `json:"assigned_to_role"`
	CreatedBy      common.UserID   `json:"created_by"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Status         Status          `json:"status"`
	Priority       Priority        `json:"priority"`
	Category       Category        `json:"category"`
	Metadata       common.Metadata `json:"metadata,omitempty"`
}

// Validate checks the task's internal consistency.
func (t *Task) Validate() error {
	if t.ID == "" {
		return errors.InvalidParam("task id must not be empty")
	}
	if t.CaseID == "" {
		return errors.InvalidParam("task case_id must not be empty")
	}
	if t.Title == "" {
		return errors.InvalidParam("task title must not be empty")
	}
	switch t.Status {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked, StatusCancelled:
	default:
		return errors.InvalidParamf("task status %q is not recognized", t.Status)
	}
	switch t.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
	default:
		return errors.InvalidParamf("task priority %q is not recognized", t.Priority)
	}
	return nil
}
