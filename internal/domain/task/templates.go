package task

import (
	"gopkg.in/yaml.v3"

	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TaskTemplate
// ─────────────────────────────────────────────────────────────────────────────

// TriggerKind names the event that causes a template to fire.
type TriggerKind string

const (
	// TriggerOnCaseOpen fires once when a case record is created.
	TriggerOnCaseOpen TriggerKind = "on_case_open"

	// TriggerOnDeadline fires when a deadline of the referenced kind enters
	// its lead-time window.
	TriggerOnDeadline TriggerKind = "on_deadline"

	// TriggerOnFormEvent fires when a supported intake form is submitted.
	TriggerOnFormEvent TriggerKind = "on_form_event"

	// TriggerManual never fires automatically; the template exists so humans
	// can create a consistent task with one click.
	TriggerManual TriggerKind = "manual"
)

// TaskTemplate is an immutable catalog entry mapping a trigger to a task
// blueprint.
type TaskTemplate struct {
	ID                 string        `yaml:"id"`
	Name               string        `yaml:"name"`
	Description        string        `yaml:"description"`
	Category           Category      `yaml:"category"`
	DefaultAssigneeRole AssigneeRole `yaml:"default_assignee_role"`
	DefaultPriority    Priority      `yaml:"default_priority"`
	Trigger            TriggerKind   `yaml:"trigger"`

	// DeadlineKind identifies the deadline kind this template responds to
	// when Trigger is TriggerOnDeadline.
	DeadlineKind deadline.Kind `yaml:"deadline_kind,omitempty"`

	// LeadDays is the trigger window: an on-deadline task is generated only
	// once the deadline is at most this many days out.
	LeadDays int `yaml:"lead_days,omitempty"`
}

func (t *TaskTemplate) validate() error {
	if t.ID == "" {
		return errors.InvalidParam("template id must not be empty")
	}
	if t.Name == "" {
		return errors.InvalidParamf("template %q: name must not be empty", t.ID)
	}
	switch t.Trigger {
	case TriggerOnCaseOpen, TriggerOnFormEvent, TriggerManual:
	case TriggerOnDeadline:
		if t.DeadlineKind == "" {
			return errors.InvalidParamf("template %q: deadline_kind is required for on_deadline triggers", t.ID)
		}
		if t.LeadDays < 1 {
			return errors.InvalidParamf("template %q: lead_days must be ≥ 1 for on_deadline triggers", t.ID)
		}
	default:
		return errors.InvalidParamf("template %q: trigger %q is not recognized", t.ID, t.Trigger)
	}
	switch t.DefaultPriority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
	default:
		return errors.InvalidParamf("template %q: default_priority %q is not recognized", t.ID, t.DefaultPriority)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// TemplateCatalog
// ─────────────────────────────────────────────────────────────────────────────

// TemplateCatalog is an ordered, immutable set of task templates.  Safe for
// concurrent use once constructed.
type TemplateCatalog struct {
	templates  []TaskTemplate
	byDeadline map[deadline.Kind]int
}

// NewTemplateCatalog validates templates and builds a catalog.  At most one
// on-deadline template may exist per deadline kind.
func NewTemplateCatalog(templates []TaskTemplate) (*TemplateCatalog, error) {
	if len(templates) == 0 {
		return nil, errors.InvalidParam("template catalog must contain at least one template")
	}

	c := &TemplateCatalog{
		templates:  make([]TaskTemplate, len(templates)),
		byDeadline: make(map[deadline.Kind]int),
	}
	copy(c.templates, templates)

	seen := make(map[string]bool, len(templates))
	for i := range c.templates {
		t := &c.templates[i]
		if err := t.validate(); err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, errors.InvalidParamf("template %q: id declared more than once", t.ID)
		}
		seen[t.ID] = true

		if t.Trigger == TriggerOnDeadline {
			if _, dup := c.byDeadline[t.DeadlineKind]; dup {
				return nil, errors.InvalidParamf("template %q: deadline kind %q already has an on_deadline template", t.ID, t.DeadlineKind)
			}
			c.byDeadline[t.DeadlineKind] = i
		}
	}
	return c, nil
}

// FindByDeadlineKind returns the on-deadline template for kind, or false
// when none exists.  A missing template is non-fatal: the deadline simply
// generates no task.
func (c *TemplateCatalog) FindByDeadlineKind(kind deadline.Kind) (TaskTemplate, bool) {
	i, ok := c.byDeadline[kind]
	if !ok {
		return TaskTemplate{}, false
	}
	return c.templates[i], true
}

// OnCaseOpen returns the templates fired at case creation, in declaration
// order.
func (c *TemplateCatalog) OnCaseOpen() []TaskTemplate {
	var out []TaskTemplate
	for _, t := range c.templates {
		if t.Trigger == TriggerOnCaseOpen {
			out = append(out, t)
		}
	}
	return out
}

// Templates returns a copy of all templates in declaration order.
func (c *TemplateCatalog) Templates() []TaskTemplate {
	out := make([]TaskTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// Len returns the number of templates in the catalog.
func (c *TemplateCatalog) Len() int { return len(c.templates) }

// ParseTemplateCatalogYAML builds a TemplateCatalog from a YAML list of
// template objects.
func ParseTemplateCatalogYAML(data []byte) (*TemplateCatalog, error) {
	var templates []TaskTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "template catalog YAML is malformed")
	}
	return NewTemplateCatalog(templates)
}

// ─────────────────────────────────────────────────────────────────────────────
// Default catalog
// ─────────────────────────────────────────────────────────────────────────────

// DefaultTemplateCatalog returns the built-in catalog covering every deadline
// kind in the default rule table plus the intake template fired at case open.
func DefaultTemplateCatalog() *TemplateCatalog {
	c, err := NewTemplateCatalog([]TaskTemplate{
		{
			ID:                  "intake-complete",
			Name:                "Complete client intake",
			Description:         "Collect retainer, contact details, insurance particulars, and initial medical documentation",
			Category:            CategoryIntake,
			DefaultAssigneeRole: RoleLegalAssistant,
			DefaultPriority:     PriorityHigh,
			Trigger:             TriggerOnCaseOpen,
		},
		{
			ID:                  "notify-insurer",
			Name:                "Notify accident benefits insurer",
			Description:         "Send written notice of the incident to the client's own insurer",
			Category:            CategoryFiling,
			DefaultAssigneeRole: RoleLawClerk,
			DefaultPriority:     PriorityHigh,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindInsurerNotice,
			LeadDays:            7,
		},
		{
			ID:                  "serve-municipal-notice",
			Name:                "Serve municipal notice of claim",
			Description:         "Prepare and serve the written notice of claim on the municipality",
			Category:            CategoryFiling,
			DefaultAssigneeRole: RoleLawClerk,
			DefaultPriority:     PriorityHigh,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindMunicipalNotice,
			LeadDays:            10,
		},
		{
			ID:                  "submit-ocf1",
			Name:                "Submit OCF-1 application",
			Description:         "Complete and return the application for accident benefits",
			Category:            CategoryFiling,
			DefaultAssigneeRole: RoleLawClerk,
			DefaultPriority:     PriorityMedium,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindOCF1Submission,
			LeadDays:            21,
		},
		{
			ID:                  "submit-ocf2",
			Name:                "Submit OCF-2 employer confirmation",
			Description:         "Obtain the employer's confirmation of income and return it to the insurer",
			Category:            CategoryFiling,
			DefaultAssigneeRole: RoleLegalAssistant,
			DefaultPriority:     PriorityMedium,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindOCF2Submission,
			LeadDays:            10,
		},
		{
			ID:                  "submit-ocf3",
			Name:                "Submit OCF-3 disability certificate",
			Description:         "Have the treating practitioner complete the disability certificate and return it",
			Category:            CategoryFiling,
			DefaultAssigneeRole: RoleLegalAssistant,
			DefaultPriority:     PriorityMedium,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindOCF3Submission,
			LeadDays:            10,
		},
		{
			ID:                  "issue-claim",
			Name:                "Issue statement of claim",
			Description:         "Draft and issue the statement of claim before the limitation period expires",
			Category:            CategoryLitigation,
			DefaultAssigneeRole: RoleLawyer,
			DefaultPriority:     PriorityMedium,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindLimitationPeriod,
			LeadDays:            60,
		},
		{
			ID:                  "file-lat-dispute",
			Name:                "File LAT dispute application",
			Description:         "Prepare and file the tribunal application disputing the benefit denial",
			Category:            CategoryLitigation,
			DefaultAssigneeRole: RoleLawyer,
			DefaultPriority:     PriorityMedium,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindLATDispute,
			LeadDays:            60,
		},
		{
			ID:                  "serve-claim",
			Name:                "Serve statement of claim",
			Description:         "Arrange service of the issued claim on all named defendants",
			Category:            CategoryLitigation,
			DefaultAssigneeRole: RoleLawClerk,
			DefaultPriority:     PriorityMedium,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindSOCService,
			LeadDays:            30,
		},
		{
			ID:                  "request-mediation",
			Name:                "Request mediation",
			Description:         "Send the mediation request to opposing counsel",
			Category:            CategoryLitigation,
			DefaultAssigneeRole: RoleLawyer,
			DefaultPriority:     PriorityMedium,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindMediationRequest,
			LeadDays:            30,
		},
		{
			ID:                  "renew-benefit",
			Name:                "Renew benefit certificate",
			Description:         "Prepare and submit the benefit renewal application",
			Category:            CategoryFiling,
			DefaultAssigneeRole: RoleLegalAssistant,
			DefaultPriority:     PriorityMedium,
			Trigger:             TriggerOnDeadline,
			DeadlineKind:        deadline.KindBenefitRenewal,
			LeadDays:            14,
		},
	})
	if err != nil {
		panic("task: default template catalog is invalid: " + err.Error())
	}
	return c
}
