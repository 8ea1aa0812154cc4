package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veritas-suite/caseflow/internal/application/workflow"
	"github.com/veritas-suite/caseflow/internal/domain/task"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// taskList wraps generated tasks for table output.
type taskList struct {
	Tasks []task.Task `json:"tasks"`
}

func (l taskList) TableHeaders() []string {
	return []string{"ID", "TITLE", "PRIORITY", "CATEGORY", "ASSIGNEE", "DUE"}
}

func (l taskList) TableRows() [][]string {
	rows := make([][]string, len(l.Tasks))
	for i := range l.Tasks {
		t := &l.Tasks[i]
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		rows[i] = []string{
			string(t.ID),
			t.Title,
			string(t.Priority),
			string(t.Category),
			string(t.AssignedToRole),
			due,
		}
	}
	return rows
}

func newTasksCmd() *cobra.Command {
	var (
		caseFilePath string
		asOf         string
		requestedBy  string
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Generate the initial workflow tasks for a case",
		Long:  "Compute the case's timeline and generate its opening task board: the intake\ntask plus one task per deadline inside its template's lead window, with\npriority escalated as due dates approach.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cf, err := loadCaseFile(caseFilePath)
			if err != nil {
				return err
			}
			now, err := resolveAsOf(asOf)
			if err != nil {
				return err
			}

			tasks, err := cliCtx.Generator.GenerateInitialCaseTasks(cf.caseData(), common.UserID(requestedBy), now)
			if err != nil {
				return fmt.Errorf("generating tasks: %w", err)
			}
			return PrintResult(cmd, taskList{Tasks: tasks})
		},
	}

	cmd.Flags().StringVar(&caseFilePath, "case-file", "", "path to the JSON case file (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation date (default: today)")
	cmd.Flags().StringVar(&requestedBy, "requested-by", "cli", "user recorded as the task requester")
	_ = cmd.MarkFlagRequired("case-file")

	return cmd
}

func newOverdueCmd() *cobra.Command {
	var (
		caseFilePath string
		asOf         string
		requestedBy  string
	)

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Generate escalation tasks for overdue critical deadlines",
		Long:  "Compute the case's timeline and emit a senior-lawyer escalation task for\nevery critical deadline whose due date has passed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cf, err := loadCaseFile(caseFilePath)
			if err != nil {
				return err
			}
			now, err := resolveAsOf(asOf)
			if err != nil {
				return err
			}

			cd := cf.caseData()
			deadlines, err := cliCtx.Calculator.ComputeTimeline(cd.CaseID, cd.Anchors)
			if err != nil {
				return fmt.Errorf("computing timeline: %w", err)
			}
			alerts, err := cliCtx.Generator.CheckOverdueDeadlines(deadlines, cd.CaseID, cd.Title, common.UserID(requestedBy), now)
			if err != nil {
				return fmt.Errorf("checking overdue deadlines: %w", err)
			}
			return PrintResult(cmd, taskList{Tasks: alerts})
		},
	}

	cmd.Flags().StringVar(&caseFilePath, "case-file", "", "path to the JSON case file (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation date (default: today)")
	cmd.Flags().StringVar(&requestedBy, "requested-by", "cli", "user recorded as the task requester")
	_ = cmd.MarkFlagRequired("case-file")

	return cmd
}

// reminderList wraps reminder specs for table output.
type reminderList struct {
	Reminders []workflow.ReminderSpec `json:"reminders"`
}

func (l reminderList) TableHeaders() []string {
	return []string{"DEADLINE", "SEND ON", "DUE", "LEAD DAYS", "SUBJECT"}
}

func (l reminderList) TableRows() [][]string {
	rows := make([][]string, len(l.Reminders))
	for i := range l.Reminders {
		r := &l.Reminders[i]
		rows[i] = []string{
			string(r.DeadlineKind),
			r.ScheduledDate.Format("2006-01-02"),
			r.DueDate.Format("2006-01-02"),
			fmt.Sprintf("%d", r.LeadDays),
			r.Subject,
		}
	}
	return rows
}

func newRemindersCmd() *cobra.Command {
	var (
		caseFilePath string
		asOf         string
		recipient    string
		leadDays     []int
	)

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Compute the email reminder schedule for critical deadlines",
		Long:  "Compute the case's timeline and emit the reminder schedule for critical\ndeadlines inside their lead windows. The engine only computes the schedule;\nsending belongs to a notification collaborator.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cf, err := loadCaseFile(caseFilePath)
			if err != nil {
				return err
			}
			now, err := resolveAsOf(asOf)
			if err != nil {
				return err
			}

			cd := cf.caseData()
			deadlines, err := cliCtx.Calculator.ComputeTimeline(cd.CaseID, cd.Anchors)
			if err != nil {
				return fmt.Errorf("computing timeline: %w", err)
			}

			leads := leadDays
			if len(leads) == 0 {
				leads = cliCtx.Config.Engine.ReminderLeadDays
			}
			reminders := workflow.GenerateEmailReminders(deadlines, cd.Title, recipient, leads, now)
			return PrintResult(cmd, reminderList{Reminders: reminders})
		},
	}

	cmd.Flags().StringVar(&caseFilePath, "case-file", "", "path to the JSON case file (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation date (default: today)")
	cmd.Flags().StringVar(&recipient, "recipient", "", "reminder recipient address")
	cmd.Flags().IntSliceVar(&leadDays, "lead-days", nil, "reminder lead days, strictly descending (default: from config)")
	_ = cmd.MarkFlagRequired("case-file")

	return cmd
}
