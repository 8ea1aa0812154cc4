package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/veritas-suite/caseflow/internal/application/bulk"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// bulkView wraps a batch result for table output.
type bulkView struct {
	*bulk.BatchResult
}

func (v bulkView) TableHeaders() []string {
	return []string{"CASE", "STATUS", "DEADLINES", "TASKS", "ERROR"}
}

func (v bulkView) TableRows() [][]string {
	rows := make([][]string, len(v.Outcomes))
	for i := range v.Outcomes {
		o := &v.Outcomes[i]
		errMsg := ""
		if o.Err != nil {
			errMsg = o.Err.Error()
		}
		rows[i] = []string{
			string(o.CaseID),
			o.Status.String(),
			strconv.Itoa(len(o.Deadlines)),
			strconv.Itoa(len(o.Tasks)),
			errMsg,
		}
	}
	return rows
}

func newBulkCmd() *cobra.Command {
	var (
		casesFilePath string
		asOf          string
		requestedBy   string
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Evaluate a batch of cases in one pass",
		Long:  "Read a JSON array of cases and compute each one's timeline and task board\nwith bounded concurrency. A failure in one case never affects another.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cases, err := loadCaseListFile(casesFilePath)
			if err != nil {
				return err
			}
			now, err := resolveAsOf(asOf)
			if err != nil {
				return err
			}

			result, err := cliCtx.Evaluator.EvaluateAll(cmd.Context(), cases, common.UserID(requestedBy), now)
			if err != nil {
				return fmt.Errorf("bulk evaluation: %w", err)
			}
			if err := PrintResult(cmd, bulkView{result}); err != nil {
				return err
			}
			if result.FailureCount > 0 {
				return fmt.Errorf("%d of %d cases failed", result.FailureCount, result.TotalCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&casesFilePath, "cases-file", "", "path to the JSON array of cases (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation date (default: today)")
	cmd.Flags().StringVar(&requestedBy, "requested-by", "cli", "user recorded as the task requester")
	_ = cmd.MarkFlagRequired("cases-file")

	return cmd
}
