package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activeDeadline(due time.Time) Deadline {
	return Deadline{
		ID:            DeterministicID("case-1", KindInsurerNotice),
		CaseID:        "case-1",
		Kind:          KindInsurerNotice,
		Description:   "notify insurer",
		DueDate:       due,
		AnchorUsed:    due.AddDate(0, 0, -7),
		Status:        StatusActive,
		Critical:      true,
		AutoGenerated: true,
	}
}

func TestDeterministicID(t *testing.T) {
	id := DeterministicID("case-42", KindLimitationPeriod)
	assert.Equal(t, "dl-case-42-limitation_period", string(id))

	// Same inputs, same ID.
	assert.Equal(t, id, DeterministicID("case-42", KindLimitationPeriod))
}

func TestIsOverdue(t *testing.T) {
	now := date(2024, time.June, 15)

	d := activeDeadline(date(2024, time.June, 10))
	assert.True(t, d.IsOverdue(now))

	d.Status = StatusCompleted
	assert.False(t, d.IsOverdue(now), "completed deadlines are never overdue")

	d.Status = StatusWaived
	assert.False(t, d.IsOverdue(now))

	future := activeDeadline(date(2024, time.June, 20))
	assert.False(t, future.IsOverdue(now))

	marked := activeDeadline(date(2024, time.June, 10))
	marked.Status = StatusOverdue
	assert.True(t, marked.IsOverdue(now))
}

func TestDaysUntilDue(t *testing.T) {
	now := date(2024, time.June, 15)

	d := activeDeadline(date(2024, time.June, 18))
	assert.Equal(t, 3, d.DaysUntilDue(now))

	// A partial day still counts as a day out.
	d = activeDeadline(time.Date(2024, time.June, 15, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, d.DaysUntilDue(now))

	past := activeDeadline(date(2024, time.June, 10))
	assert.Equal(t, -5, past.DaysUntilDue(now))
}

func TestDeadlineValidate(t *testing.T) {
	valid := activeDeadline(date(2024, time.June, 18))
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Deadline)
	}{
		{"empty id", func(d *Deadline) { d.ID = "" }},
		{"empty case id", func(d *Deadline) { d.CaseID = "" }},
		{"empty kind", func(d *Deadline) { d.Kind = "" }},
		{"zero due date", func(d *Deadline) { d.DueDate = time.Time{} }},
		{"bad status", func(d *Deadline) { d.Status = "pending" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := activeDeadline(date(2024, time.June, 18))
			tt.mutate(&d)
			assert.Error(t, d.Validate())
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusCompleted, StatusOverdue, StatusWaived} {
		assert.True(t, s.Valid(), "status %q", s)
	}
	assert.False(t, Status("archived").Valid())
}
