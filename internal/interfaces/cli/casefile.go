package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/veritas-suite/caseflow/internal/application/timeline"
	"github.com/veritas-suite/caseflow/internal/application/workflow"
	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/internal/domain/treatment"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// Date unmarshals either "2006-01-02" or a full RFC 3339 timestamp, so case
// files can carry plain calendar dates.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := parseDate(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// caseFile is the JSON document the CLI reads a case from.  Dates accept
// plain YYYY-MM-DD values.
type caseFile struct {
	CaseID                 string           `json:"case_id"`
	Title                  string           `json:"title"`
	IncidentDate           Date             `json:"incident_date"`
	ClientBirthDate        *Date            `json:"client_birth_date,omitempty"`
	StatementOfClaimIssued *Date            `json:"statement_of_claim_issued,omitempty"`
	ReceivedDates          map[string]Date  `json:"received_dates,omitempty"`
	ExpiryDates            map[string]Date  `json:"expiry_dates,omitempty"`
	TreatmentEvents        []treatmentEntry `json:"treatment_events,omitempty"`
}

// treatmentEntry is one treatment record row in a case file.
type treatmentEntry struct {
	Date     Date   `json:"date"`
	Kind     string `json:"kind"`
	Provider string `json:"provider,omitempty"`
}

// loadCaseFile reads and decodes a single-case JSON file.
func loadCaseFile(path string) (*caseFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	var cf caseFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing case file %s: %w", path, err)
	}
	if cf.CaseID == "" {
		return nil, fmt.Errorf("case file %s: case_id is required", path)
	}
	return &cf, nil
}

// loadCaseListFile reads a JSON file holding an array of cases for bulk
// evaluation.
func loadCaseListFile(path string) ([]workflow.CaseData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cases file: %w", err)
	}
	var files []caseFile
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("parsing cases file %s: %w", path, err)
	}
	cases := make([]workflow.CaseData, len(files))
	for i := range files {
		if files[i].CaseID == "" {
			return nil, fmt.Errorf("cases file %s: entry %d: case_id is required", path, i)
		}
		cases[i] = files[i].caseData()
	}
	return cases, nil
}

// anchors converts the file's dates into the calculator's input.
func (cf *caseFile) anchors() timeline.CaseAnchors {
	a := timeline.CaseAnchors{PrimaryAnchor: cf.IncidentDate.Time}
	if cf.ClientBirthDate != nil {
		t := cf.ClientBirthDate.Time
		a.ClientBirthDate = &t
	}
	if cf.StatementOfClaimIssued != nil {
		t := cf.StatementOfClaimIssued.Time
		a.StatementOfClaimIssued = &t
	}
	if len(cf.ReceivedDates) > 0 {
		a.ReceivedDates = make(map[deadline.Kind]time.Time, len(cf.ReceivedDates))
		for k, v := range cf.ReceivedDates {
			a.ReceivedDates[deadline.Kind(k)] = v.Time
		}
	}
	if len(cf.ExpiryDates) > 0 {
		a.ExpiryDates = make(map[deadline.Kind]time.Time, len(cf.ExpiryDates))
		for k, v := range cf.ExpiryDates {
			a.ExpiryDates[deadline.Kind(k)] = v.Time
		}
	}
	return a
}

// caseData bundles the file into the workflow generator's input.
func (cf *caseFile) caseData() workflow.CaseData {
	return workflow.CaseData{
		CaseID:  common.ID(cf.CaseID),
		Title:   cf.Title,
		Anchors: cf.anchors(),
	}
}

// events converts the file's treatment rows into engine events.
func (cf *caseFile) events() []treatment.TreatmentEvent {
	if len(cf.TreatmentEvents) == 0 {
		return nil
	}
	events := make([]treatment.TreatmentEvent, len(cf.TreatmentEvents))
	for i, e := range cf.TreatmentEvents {
		events[i] = treatment.TreatmentEvent{
			Date:         e.Date.Time,
			Kind:         treatment.EventKind(e.Kind),
			ProviderName: e.Provider,
		}
	}
	return events
}
