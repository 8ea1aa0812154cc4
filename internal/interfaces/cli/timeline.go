package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas-suite/caseflow/internal/domain/deadline"
)

// deadlineList wraps computed deadlines for table output.
type deadlineList struct {
	Deadlines []deadline.Deadline `json:"deadlines"`
	AsOf      time.Time           `json:"as_of"`
}

func (l deadlineList) TableHeaders() []string {
	return []string{"KIND", "DESCRIPTION", "DUE", "CRITICAL", "STATUS", "DAYS LEFT"}
}

func (l deadlineList) TableRows() [][]string {
	rows := make([][]string, len(l.Deadlines))
	for i := range l.Deadlines {
		d := &l.Deadlines[i]
		critical := ""
		if d.Critical {
			critical = "yes"
		}
		rows[i] = []string{
			string(d.Kind),
			d.Description,
			d.DueDate.Format("2006-01-02"),
			critical,
			string(d.Status),
			strconv.Itoa(d.DaysUntilDue(l.AsOf)),
		}
	}
	return rows
}

func newTimelineCmd() *cobra.Command {
	var (
		caseFilePath string
		asOf         string
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Compute a case's deadline timeline",
		Long:  "Evaluate the deadline rule catalog against the anchor dates in a case file\nand print the resulting timeline sorted by due date.",
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

			return PrintResult(cmd, deadlineList{Deadlines: deadlines, AsOf: now})
		},
	}

	cmd.Flags().StringVar(&caseFilePath, "case-file", "", "path to the JSON case file (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation date for the days-left column (default: today)")
	_ = cmd.MarkFlagRequired("case-file")

	return cmd
}
