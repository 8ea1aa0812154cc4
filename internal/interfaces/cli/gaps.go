package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/veritas-suite/caseflow/internal/domain/treatment"
	"github.com/veritas-suite/caseflow/pkg/types/common"
)

// gapList wraps detected gaps for table output.
type gapList struct {
	Gaps []treatment.Gap `json:"gaps"`
}

func (l gapList) TableHeaders() []string {
	return []string{"START", "END", "DAYS", "PROVIDER", "OPEN ENDED"}
}

func (l gapList) TableRows() [][]string {
	rows := make([][]string, len(l.Gaps))
	for i := range l.Gaps {
		g := &l.Gaps[i]
		open := ""
		if g.OpenEnded {
			open = "yes"
		}
		rows[i] = []string{
			g.StartDate.Format("2006-01-02"),
			g.EndDate.Format("2006-01-02"),
			strconv.Itoa(g.DurationDays),
			g.ProviderName,
			open,
		}
	}
	return rows
}

func newGapsCmd() *cobra.Command {
	var (
		caseFilePath     string
		asOf             string
		requestedBy      string
		emitTasks        bool
		flaggedProviders []string
	)

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Detect treatment gaps in a case's care record",
		Long:  "Scan the treatment events in a case file for intervals longer than the\nconfigured threshold, including the open-ended interval since the last\nvisit. With --tasks, emit the follow-up tasks instead of the raw gaps.",
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

			caseID := common.ID(cf.CaseID)
			gaps, err := cliCtx.Detector.DetectGaps(caseID, cf.events(), now)
			if err != nil {
				return fmt.Errorf("detecting gaps: %w", err)
			}

			if !emitTasks {
				return PrintResult(cmd, gapList{Gaps: gaps})
			}

			flagged := make(map[string]bool, len(flaggedProviders))
			for _, p := range flaggedProviders {
				flagged[p] = true
			}
			tasks, err := cliCtx.Detector.GapsToTasks(gaps, caseID, common.UserID(requestedBy), flagged)
			if err != nil {
				return fmt.Errorf("building gap tasks: %w", err)
			}
			return PrintResult(cmd, taskList{Tasks: tasks})
		},
	}

	cmd.Flags().StringVar(&caseFilePath, "case-file", "", "path to the JSON case file (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation date (default: today)")
	cmd.Flags().StringVar(&requestedBy, "requested-by", "cli", "user recorded as the task requester")
	cmd.Flags().BoolVar(&emitTasks, "tasks", false, "emit follow-up tasks instead of raw gaps")
	cmd.Flags().StringSliceVar(&flaggedProviders, "flagged-provider", nil, "provider already flagged; suppresses its gap tasks (repeatable)")
	_ = cmd.MarkFlagRequired("case-file")

	return cmd
}
