// Package timeline evaluates the deadline rule catalog against a case's
// anchor dates, producing its ordered statutory timeline.
package timeline

import (
	"sort"
	"time"

	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/logging"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/metrics"
	"github.com/veritas-suite/caseflow/pkg/errors"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Inputs
// ---------------------------------------------------------------------------

// CaseAnchors collects the dates a case's timeline is derived from.  Only
// PrimaryAnchor is mandatory; absent secondary dates cause the rules that
// need them to be skipped, because the triggering event has not occurred.
type CaseAnchors struct {
	// PrimaryAnchor is the incident date (the date of loss).
	PrimaryAnchor time.Time `json:"primary_anchor"`

	// ClientBirthDate, when known, lets the calculator flag limitation
	// deadlines as critical for minors.  The due date itself is never tolled.
	ClientBirthDate *time.Time `json:"client_birth_date,omitempty"`

	// StatementOfClaimIssued is the date the claim was issued by the court.
	StatementOfClaimIssued *time.Time `json:"statement_of_claim_issued,omitempty"`

	// ReceivedDates records when insurer packages and denials arrived, keyed
	// by the deadline kind the arrival triggers.
	ReceivedDates map[deadline.Kind]time.Time `json:"received_dates,omitempty"`

	// ExpiryDates records certificate expiries, keyed by the deadline kind
	// the expiry triggers.
	ExpiryDates map[deadline.Kind]time.Time `json:"expiry_dates,omitempty"`
}

// ---------------------------------------------------------------------------
// Calculator
// ---------------------------------------------------------------------------

// Calculator derives a case's deadline timeline from the injected rule
// catalog.  ComputeTimeline is a pure function of its inputs: no wall-clock
// reads, no randomness, so identical inputs always yield identical output.
// Safe for concurrent use.
type Calculator struct {
	rules         *deadline.RuleTable
	minorAgeYears int
	logger        logging.Logger
	recorder      metrics.Recorder
}

// NewCalculator constructs a Calculator.  A nil logger or recorder is
// replaced with the no-op implementation.
func NewCalculator(rules *deadline.RuleTable, minorAgeYears int, logger logging.Logger, recorder metrics.Recorder) (*Calculator, error) {
	if rules == nil || rules.Len() == 0 {
		return nil, errors.New(errors.ErrCodeTimelineTableInvalid, "rule table must not be empty")
	}
	if minorAgeYears < 0 {
		return nil, errors.InvalidParamf("minor age years must be ≥ 0, got %d", minorAgeYears)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if recorder == nil {
		recorder = metrics.NewNopRecorder()
	}
	return &Calculator{
		rules:         rules,
		minorAgeYears: minorAgeYears,
		logger:        logger.Named("timeline"),
		recorder:      recorder,
	}, nil
}

// Rules exposes the calculator's rule table for hosts that need to display
// the catalog alongside the computed timeline.
func (c *Calculator) Rules() *deadline.RuleTable { return c.rules }

// ComputeTimeline evaluates every rule in declaration order against the
// case's anchors and returns the resulting deadlines sorted ascending by due
// date, ties broken by declaration order.  Rules whose secondary anchor is
// absent are skipped silently; a chained rule is skipped when its referent
// was.  Re-invocation with identical inputs is idempotent down to the IDs.
func (c *Calculator) ComputeTimeline(caseID common.ID, anchors CaseAnchors) ([]deadline.Deadline, error) {
	started := time.Now()

	if caseID == "" {
		return nil, errors.InvalidParam("case id must not be empty")
	}
	if anchors.PrimaryAnchor.IsZero() {
		return nil, errors.New(errors.ErrCodeTimelineAnchorMissing, "primary anchor date must not be zero")
	}

	minor := c.isMinorAt(anchors.ClientBirthDate, anchors.PrimaryAnchor)

	resolved := make(map[deadline.Kind]time.Time) // kind → due date, for chained rules
	deadlines := make([]deadline.Deadline, 0, c.rules.Len())

	for _, rule := range c.rules.Rules() {
		anchor, ok := c.resolveAnchor(rule, anchors, resolved)
		if !ok {
			c.logger.Debug("rule skipped: anchor not yet available",
				logging.String("case_id", string(caseID)),
				logging.String("kind", string(rule.Kind)),
			)
			c.recorder.IncRuleSkipped(string(rule.Kind))
			continue
		}

		due := applyOffset(anchor, rule)
		resolved[rule.Kind] = due

		deadlines = append(deadlines, deadline.Deadline{
			ID:            deadline.DeterministicID(caseID, rule.Kind),
			CaseID:        caseID,
			Kind:          rule.Kind,
			Description:   rule.Description,
			DueDate:       due,
			AnchorUsed:    anchor,
			Status:        deadline.StatusActive,
			Critical:      rule.Critical || (minor && rule.LimitationClass),
			AutoGenerated: true,
		})
	}

	// Stable: ties keep rule declaration order.
	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].DueDate.Before(deadlines[j].DueDate)
	})

	c.recorder.ObserveTimeline(time.Since(started), len(deadlines))
	c.logger.Debug("timeline computed",
		logging.String("case_id", string(caseID)),
		logging.Int("deadlines", len(deadlines)),
		logging.Bool("minor", minor),
	)
	return deadlines, nil
}

// resolveAnchor applies the rule's anchor selector.  The second return is
// false when the rule must be skipped.
func (c *Calculator) resolveAnchor(
	rule deadline.DeadlineRule,
	anchors CaseAnchors,
	resolved map[deadline.Kind]time.Time,
) (time.Time, bool) {
	switch rule.Anchor {
	case deadline.AnchorPrimary:
		return anchors.PrimaryAnchor, true

	case deadline.AnchorSecondaryEvent:
		switch rule.SecondarySource {
		case deadline.SourceReceived:
			t, ok := anchors.ReceivedDates[rule.SecondaryKind]
			return t, ok && !t.IsZero()
		case deadline.SourceExpiry:
			t, ok := anchors.ExpiryDates[rule.SecondaryKind]
			return t, ok && !t.IsZero()
		case deadline.SourceSOCIssued:
			if anchors.StatementOfClaimIssued == nil || anchors.StatementOfClaimIssued.IsZero() {
				return time.Time{}, false
			}
			return *anchors.StatementOfClaimIssued, true
		}
		return time.Time{}, false

	case deadline.AnchorOtherDeadline:
		t, ok := resolved[rule.RefKind]
		return t, ok
	}
	return time.Time{}, false
}

// applyOffset runs the rule's offset from the resolved anchor.  Rule table
// validation guarantees exactly one offset is set.
func applyOffset(anchor time.Time, rule deadline.DeadlineRule) time.Time {
	sign := 1
	if rule.Direction == deadline.DirectionBefore {
		sign = -1
	}
	if rule.OffsetMonths != 0 {
		return deadline.AddMonthsClamped(anchor, sign*rule.OffsetMonths)
	}
	return anchor.AddDate(0, 0, sign*rule.OffsetDays)
}

// isMinorAt reports whether the claimant was younger than the configured
// majority age on the reference date.
func (c *Calculator) isMinorAt(birth *time.Time, ref time.Time) bool {
	if birth == nil || birth.IsZero() {
		return false
	}
	majority := deadline.AddMonthsClamped(*birth, 12*c.minorAgeYears)
	return ref.Before(majority)
}
