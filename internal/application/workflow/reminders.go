package workflow

import (
	"fmt"
	"time"

	"github.com/veritas-suite/caseflow/internal/domain/deadline"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// ReminderSpec describes one email reminder to be scheduled by the host's
// notification layer.  The engine only computes the schedule; it sends
// nothing.
type ReminderSpec struct {
	DeadlineID    common.ID `json:"deadline_id"`
	DeadlineKind  deadline.Kind `json:"deadline_kind"`
	Recipient     string    `json:"recipient"`
	Subject       string    `json:"subject"`
	LeadDays      int       `json:"lead_days"`
	ScheduledDate time.Time `json:"scheduled_date"`
	DueDate       time.Time `json:"due_date"`
}

// DefaultReminderLeadDays is the standard reminder schedule: one week, three
// days, and one day out.
var DefaultReminderLeadDays = []int{7, 3, 1}

// GenerateEmailReminders emits one reminder per (critical active deadline ×
// lead day) where the deadline is within the lead window but not yet due.
// Pure function: leadDays nil falls back to the default schedule.
func GenerateEmailReminders(
	deadlines []deadline.Deadline,
	caseTitle string,
	recipient string,
	leadDays []int,
	now time.Time,
) []ReminderSpec {
	if len(leadDays) == 0 {
		leadDays = DefaultReminderLeadDays
	}

	var reminders []ReminderSpec
	for i := range deadlines {
		d := &deadlines[i]
		if !d.Critical || d.Status != deadline.StatusActive {
			continue
		}
		daysUntilDue := d.DaysUntilDue(now)
		for _, lead := range leadDays {
			if daysUntilDue <= 0 || daysUntilDue > lead {
				continue
			}
			reminders = append(reminders, ReminderSpec{
				DeadlineID:    d.ID,
				DeadlineKind:  d.Kind,
				Recipient:     recipient,
				Subject:       fmt.Sprintf("Reminder: %s due %s — %s", d.Description, d.DueDate.Format("2006-01-02"), caseTitle),
				LeadDays:      lead,
				ScheduledDate: d.DueDate.AddDate(0, 0, -lead),
				DueDate:       d.DueDate,
			})
		}
	}
	return reminders
}
