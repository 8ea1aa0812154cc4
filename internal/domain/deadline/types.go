// Package deadline defines the deadline value objects and the rule catalog
// used to derive a case's statutory timeline from its anchor dates.
package deadline

import (
	"fmt"
	"time"

	"github.com/veritas-suite/caseflow/pkg/errors"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Kind enumeration
// ─────────────────────────────────────────────────────────────────────────────

// Kind categorizes the statutory or procedural obligation a deadline tracks.
type Kind string

const (
	// KindInsurerNotice is the deadline to notify the claimant's own insurer
	// of the incident.
	KindInsurerNotice Kind = "insurer_notice"

	// KindMunicipalNotice is the deadline to serve written notice on a
	// municipality when it is a potential defendant.
	KindMunicipalNotice Kind = "municipal_notice"

	// KindOCF1Submission is the deadline to return the completed accident
	// benefits application after the insurer's application package arrives.
	KindOCF1Submission Kind = "ocf1_submission"

	// KindOCF2Submission is the deadline to return the employer's
	// confirmation of income form.
	KindOCF2Submission Kind = "ocf2_submission"

	// KindOCF3Submission is the deadline to return the disability certificate.
	KindOCF3Submission Kind = "ocf3_submission"

	// KindLimitationPeriod is the basic limitation period for commencing a
	// tort action arising from the incident.
	KindLimitationPeriod Kind = "limitation_period"

	// KindLATDispute is the deadline to dispute a benefit denial before the
	// licensing tribunal.
	KindLATDispute Kind = "lat_dispute"

	// KindSOCService is the deadline to serve an issued statement of claim
	// on the defendants.
	KindSOCService Kind = "soc_service"

	// KindMediationRequest is the internal target for requesting mediation
	// comfortably before the limitation period expires.
	KindMediationRequest Kind = "mediation_request"

	// KindBenefitRenewal is the deadline to apply for renewal before a
	// benefit certificate expires.
	KindBenefitRenewal Kind = "benefit_renewal"
)

// ─────────────────────────────────────────────────────────────────────────────
// Status enumeration
// ─────────────────────────────────────────────────────────────────────────────

// Status tracks the lifecycle of a single deadline.  The engine creates
// deadlines as StatusActive; subsequent transitions are owned by the caller
// or by the overdue scanner.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusWaived    Status = "waived"
)

// Valid reports whether s is one of the recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOverdue, StatusWaived:
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Deadline value object
// ─────────────────────────────────────────────────────────────────────────────

// Deadline represents a single time-bound obligation in a case's lifecycle.
// DueDate is derived purely from AnchorUsed and the rule catalog; it is never
// mutated independently of a rule re-evaluation.
type Deadline struct {
	// ID uniquely identifies this deadline.  Engine-generated deadlines use
	// deterministic IDs (see DeterministicID) so that re-evaluating the same
	// case yields byte-identical output.
	ID common.ID `json:"id"`

	// CaseID identifies the case this deadline belongs to.
	CaseID common.ID `json:"case_id"`

	// Kind categorizes the obligation.
	Kind Kind `json:"kind"`

	// Description provides human-readable context about the required action.
	Description string `json:"description"`

	// DueDate is the computed statutory deadline.
	DueDate time.Time `json:"due_date"`

	// AnchorUsed is the resolved anchor date the due date was computed from.
	AnchorUsed time.Time `json:"anchor_used"`

	// Status tracks completion.  Transitions are owned by callers.
	Status Status `json:"status"`

	// Critical marks deadlines whose expiry causes irreversible loss of
	// rights.  Also raised for otherwise non-critical limitation deadlines
	// when the claimant is a minor.
	Critical bool `json:"critical"`

	// AutoGenerated distinguishes engine-derived deadlines from ones entered
	// by hand.
	AutoGenerated bool `json:"auto_generated"`
}

// DeterministicID builds the stable identifier for an engine-generated
// deadline.  One deadline per (case, kind) exists, so the pair is a natural
// key; it doubles as the caller's idempotency key when persisting.
func DeterministicID(caseID common.ID, kind Kind) common.ID {
	return common.ID(fmt.Sprintf("dl-%s-%s", caseID, kind))
}

// IsOverdue reports whether the deadline has passed as of now and has not
// been completed or waived.
func (d *Deadline) IsOverdue(now time.Time) bool {
	if d.Status == StatusCompleted || d.Status == StatusWaived {
		return false
	}
	return d.DueDate.Before(now)
}

// DaysUntilDue returns the number of days from now until the due date,
// rounded up so that a deadline due tomorrow morning still counts as one day
// out.  Negative values indicate the deadline is overdue.
func (d *Deadline) DaysUntilDue(now time.Time) int {
	return CeilDays(d.DueDate.Sub(now))
}

// Validate checks the deadline's internal consistency.
func (d *Deadline) Validate() error {
	if d.ID == "" {
		return errors.InvalidParam("deadline id must not be empty")
	}
	if d.CaseID == "" {
		return errors.InvalidParam("deadline case_id must not be empty")
	}
	if d.Kind == "" {
		return errors.InvalidParam("deadline kind must not be empty")
	}
	if d.DueDate.IsZero() {
		return errors.InvalidParam("deadline due_date must not be zero")
	}
	if !d.Status.Valid() {
		return errors.InvalidParamf("deadline status %q is not recognized", d.Status)
	}
	return nil
}
