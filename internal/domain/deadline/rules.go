package deadline

import (
	"gopkg.in/yaml.v3"

	"github.com/veritas-suite/caseflow/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Anchor resolution enumerations
// ─────────────────────────────────────────────────────────────────────────────

// AnchorSelector names the strategy for resolving a rule's anchor date.
type AnchorSelector string

const (
	// AnchorPrimary resolves to the case's primary anchor (the incident date).
	AnchorPrimary AnchorSelector = "primary"

	// AnchorSecondaryEvent resolves to a caller-supplied secondary date (e.g.,
	// the day an application package was received).  When the date is absent
	// the rule is skipped: the obligation has not been triggered yet.
	AnchorSecondaryEvent AnchorSelector = "secondary_event"

	// AnchorOtherDeadline resolves to the due date of a previously resolved
	// deadline of the referenced kind, enabling chained rules.
	AnchorOtherDeadline AnchorSelector = "other_deadline"
)

// SecondarySource names which caller-supplied date map a secondary rule
// reads from.
type SecondarySource string

const (
	// SourceReceived reads from the received-dates map (document arrived).
	SourceReceived SecondarySource = "received"

	// SourceExpiry reads from the expiry-dates map (certificate lapses).
	SourceExpiry SecondarySource = "expiry"

	// SourceSOCIssued reads the statement-of-claim issuance date.
	SourceSOCIssued SecondarySource = "soc_issued"
)

// Direction states whether the offset runs forward or backward from the
// resolved anchor.
type Direction string

const (
	DirectionAfter  Direction = "after"
	DirectionBefore Direction = "before"
)

// ─────────────────────────────────────────────────────────────────────────────
// DeadlineRule
// ─────────────────────────────────────────────────────────────────────────────

// DeadlineRule maps a deadline kind to an anchor-relative offset.  Rules are
// immutable, process-wide configuration; exactly one of OffsetDays or
// OffsetMonths is set.
type DeadlineRule struct {
	// Kind is the deadline kind this rule produces.  Unique within a table.
	Kind Kind `yaml:"kind"`

	// Description is carried onto every deadline the rule emits.
	Description string `yaml:"description"`

	// Anchor selects the resolution strategy.
	Anchor AnchorSelector `yaml:"anchor"`

	// SecondarySource and SecondaryKind locate the caller-supplied date when
	// Anchor is AnchorSecondaryEvent.  SecondaryKind keys the received/expiry
	// maps; SourceSOCIssued needs no key.
	SecondarySource SecondarySource `yaml:"secondary_source,omitempty"`
	SecondaryKind   Kind            `yaml:"secondary_kind,omitempty"`

	// RefKind names the earlier-declared deadline kind whose due date anchors
	// this rule when Anchor is AnchorOtherDeadline.
	RefKind Kind `yaml:"ref_kind,omitempty"`

	// OffsetDays / OffsetMonths define the offset magnitude; exactly one is
	// non-zero.  Month arithmetic preserves day-of-month, clamping to the
	// shorter month's length.
	OffsetDays   int `yaml:"offset_days,omitempty"`
	OffsetMonths int `yaml:"offset_months,omitempty"`

	// Direction runs the offset forward (after) or backward (before).
	Direction Direction `yaml:"direction"`

	// Critical marks obligations whose expiry causes irreversible loss.
	Critical bool `yaml:"critical"`

	// LimitationClass marks rules governed by limitation statutes; these are
	// the ones escalated to critical when the claimant is a minor.
	LimitationClass bool `yaml:"limitation_class,omitempty"`
}

// validate checks a single rule's internal consistency.
func (r *DeadlineRule) validate() error {
	if r.Kind == "" {
		return errors.InvalidParam("rule kind must not be empty")
	}
	if r.Description == "" {
		return errors.InvalidParamf("rule %q: description must not be empty", r.Kind)
	}

	switch r.Anchor {
	case AnchorPrimary:
	case AnchorSecondaryEvent:
		switch r.SecondarySource {
		case SourceReceived, SourceExpiry:
			if r.SecondaryKind == "" {
				return errors.InvalidParamf("rule %q: secondary_kind is required for source %q", r.Kind, r.SecondarySource)
			}
		case SourceSOCIssued:
		default:
			return errors.InvalidParamf("rule %q: secondary_source %q is not recognized", r.Kind, r.SecondarySource)
		}
	case AnchorOtherDeadline:
		if r.RefKind == "" {
			return errors.InvalidParamf("rule %q: ref_kind is required for chained rules", r.Kind)
		}
		if r.RefKind == r.Kind {
			return errors.InvalidParamf("rule %q: ref_kind must not reference itself", r.Kind)
		}
	default:
		return errors.InvalidParamf("rule %q: anchor %q is not recognized", r.Kind, r.Anchor)
	}

	days, months := r.OffsetDays != 0, r.OffsetMonths != 0
	if days == months {
		return errors.InvalidParamf("rule %q: exactly one of offset_days or offset_months must be set", r.Kind)
	}
	if r.OffsetDays < 0 || r.OffsetMonths < 0 {
		return errors.InvalidParamf("rule %q: offsets must be positive; use direction to run backward", r.Kind)
	}

	switch r.Direction {
	case DirectionAfter, DirectionBefore:
	default:
		return errors.InvalidParamf("rule %q: direction %q is not recognized", r.Kind, r.Direction)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RuleTable
// ─────────────────────────────────────────────────────────────────────────────

// RuleTable is an ordered, immutable catalog of deadline rules.  Declaration
// order is semantic: chained rules may only reference kinds declared earlier,
// and declaration order is the tiebreak when deadlines share a due date.
// A RuleTable is safe for concurrent use once constructed.
type RuleTable struct {
	rules []DeadlineRule
}

// NewRuleTable validates rules and builds a table.  Validation enforces:
// unique kinds, one offset per rule, and chained rules referencing only
// earlier declarations (so single-pass resolution suffices).
func NewRuleTable(rules []DeadlineRule) (*RuleTable, error) {
	if len(rules) == 0 {
		return nil, errors.InvalidParam("rule table must contain at least one rule")
	}

	seen := make(map[Kind]bool, len(rules))
	for i := range rules {
		r := &rules[i]
		if err := r.validate(); err != nil {
			return nil, err
		}
		if seen[r.Kind] {
			return nil, errors.InvalidParamf("rule %q: kind declared more than once", r.Kind)
		}
		if r.Anchor == AnchorOtherDeadline && !seen[r.RefKind] {
			return nil, errors.InvalidParamf("rule %q: ref_kind %q must be declared earlier in the table", r.Kind, r.RefKind)
		}
		seen[r.Kind] = true
	}

	table := &RuleTable{rules: make([]DeadlineRule, len(rules))}
	copy(table.rules, rules)
	return table, nil
}

// Rules returns the rules in declaration order.  The returned slice is a
// copy; mutating it does not affect the table.
func (t *RuleTable) Rules() []DeadlineRule {
	out := make([]DeadlineRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules in the table.
func (t *RuleTable) Len() int { return len(t.rules) }

// Find returns the rule for kind, or false when the table has none.
func (t *RuleTable) Find(kind Kind) (DeadlineRule, bool) {
	for _, r := range t.rules {
		if r.Kind == kind {
			return r, true
		}
	}
	return DeadlineRule{}, false
}

// ParseRuleTableYAML builds a RuleTable from YAML produced by a
// per-jurisdiction catalog file.  The document is a list of rule objects
// using the field names of DeadlineRule's yaml tags.
func ParseRuleTableYAML(data []byte) (*RuleTable, error) {
	var rules []DeadlineRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "rule catalog YAML is malformed")
	}
	return NewRuleTable(rules)
}

// ─────────────────────────────────────────────────────────────────────────────
// Default catalog — Ontario personal injury / SABS
// ─────────────────────────────────────────────────────────────────────────────

// DefaultRuleTable returns the built-in Ontario catalog.  Construction cannot
// fail; the catalog is covered by tests.
func DefaultRuleTable() *RuleTable {
	table, err := NewRuleTable([]DeadlineRule{
		{
			Kind:        KindInsurerNotice,
			Description: "Notify the accident benefits insurer of the incident",
			Anchor:      AnchorPrimary,
			OffsetDays:  7,
			Direction:   DirectionAfter,
			Critical:    true,
		},
		{
			Kind:        KindMunicipalNotice,
			Description: "Serve written notice of claim on the municipality",
			Anchor:      AnchorPrimary,
			OffsetDays:  10,
			Direction:   DirectionAfter,
			Critical:    true,
		},
		{
			Kind:            KindOCF1Submission,
			Description:     "Submit completed OCF-1 application for accident benefits",
			Anchor:          AnchorSecondaryEvent,
			SecondarySource: SourceReceived,
			SecondaryKind:   KindOCF1Submission,
			OffsetDays:      30,
			Direction:       DirectionAfter,
			Critical:        true,
		},
		{
			Kind:            KindOCF2Submission,
			Description:     "Submit OCF-2 employer's confirmation of income",
			Anchor:          AnchorSecondaryEvent,
			SecondarySource: SourceReceived,
			SecondaryKind:   KindOCF2Submission,
			OffsetDays:      14,
			Direction:       DirectionAfter,
		},
		{
			Kind:            KindOCF3Submission,
			Description:     "Submit OCF-3 disability certificate",
			Anchor:          AnchorSecondaryEvent,
			SecondarySource: SourceReceived,
			SecondaryKind:   KindOCF3Submission,
			OffsetDays:      14,
			Direction:       DirectionAfter,
		},
		{
			Kind:            KindLimitationPeriod,
			Description:     "Commence tort action before the basic limitation period expires",
			Anchor:          AnchorPrimary,
			OffsetMonths:    24,
			Direction:       DirectionAfter,
			Critical:        true,
			LimitationClass: true,
		},
		{
			Kind:            KindLATDispute,
			Description:     "Dispute the benefit denial before the licensing tribunal",
			Anchor:          AnchorSecondaryEvent,
			SecondarySource: SourceReceived,
			SecondaryKind:   KindLATDispute,
			OffsetMonths:    24,
			Direction:       DirectionAfter,
			Critical:        true,
			LimitationClass: true,
		},
		{
			Kind:            KindSOCService,
			Description:     "Serve the issued statement of claim on all defendants",
			Anchor:          AnchorSecondaryEvent,
			SecondarySource: SourceSOCIssued,
			OffsetMonths:    6,
			Direction:       DirectionAfter,
			Critical:        true,
		},
		{
			Kind:        KindMediationRequest,
			Description: "Request mediation well ahead of the limitation expiry",
			Anchor:      AnchorOtherDeadline,
			RefKind:     KindLimitationPeriod,
			OffsetDays:  90,
			Direction:   DirectionBefore,
		},
		{
			Kind:            KindBenefitRenewal,
			Description:     "Apply for benefit renewal before the certificate expires",
			Anchor:          AnchorSecondaryEvent,
			SecondarySource: SourceExpiry,
			SecondaryKind:   KindBenefitRenewal,
			OffsetDays:      30,
			Direction:       DirectionBefore,
		},
	})
	if err != nil {
		panic("deadline: default rule table is invalid: " + err.Error())
	}
	return table
}
