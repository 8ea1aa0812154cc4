// Package treatment defines the chronological treatment record value objects
// consumed by the gap detector.
package treatment

import (
	"time"

	"github.com/veritas-suite/caseflow/pkg/errors"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// EventKind categorizes a treatment record entry.
type EventKind string

const (
	EventAppointment    EventKind = "appointment"
	EventAssessment     EventKind = "assessment"
	EventTherapySession EventKind = "therapy_session"
	EventImaging        EventKind = "imaging"
	EventSpecialist     EventKind = "specialist_visit"
)

// TreatmentEvent is one entry in a case's chronological treatment record.
// The record is append-only and supplied by the caller; the engine never
// mutates it.
type TreatmentEvent struct {
	Date         time.Time `json:"date"`
	Kind         EventKind `json:"kind"`
	ProviderName string    `json:"provider_name"`
}

// Validate checks the event's internal consistency.
func (e *TreatmentEvent) Validate() error {
	if e.Date.IsZero() {
		return errors.InvalidParam("treatment event date must not be zero")
	}
	if e.Kind == "" {
		return errors.InvalidParam("treatment event kind must not be empty")
	}
	return nil
}

// Gap is a period between two treatment events (or between the last event
// and now) exceeding the configured threshold.  Gaps are derived values,
// recomputed on every scan; the engine never persists them.
type Gap struct {
	CaseID       common.ID `json:"case_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DurationDays int       `json:"duration_days"`

	// ProviderName is the provider of the event that opened the gap; carried
	// so follow-up tasks can name who the client stopped seeing.
	ProviderName string `json:"provider_name,omitempty"`

	// OpenEnded marks the trailing gap from the last event to the scan time.
	OpenEnded bool `json:"open_ended,omitempty"`
}
