package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	appsettlement "github.com/veritas-suite/caseflow/internal/application/settlement"
	"github.com/veritas-suite/caseflow/internal/domain/settlement"
)

// settlementView wraps the net result for table output.
type settlementView struct {
	settlement.NetSettlementResult
}

func (v settlementView) TableHeaders() []string {
	return []string{"LINE", "AMOUNT"}
}

func (v settlementView) TableRows() [][]string {
	return [][]string{
		{"Legal fee", v.FeeAmount.String()},
		{"Disbursements", v.DisbursementsDeducted.String()},
		{"Subrogation", v.SubrogationDeducted.String()},
		{"SABS offset", v.SABSOffsetDeducted.String()},
		{"Net to client", v.NetToClient.String()},
	}
}

func newSettlementCmd() *cobra.Command {
	var (
		gross         float64
		feePercent    float64
		disbursements float64
		subrogation   float64
		sabsPaid      float64
		currency      string
	)

	cmd := &cobra.Command{
		Use:   "settlement",
		Short: "Compute net client proceeds from a gross offer",
		Long:  "Run the fixed deduction chain over a gross settlement offer: contingency\nfee, disbursements, subrogation, then the SABS offset, each clamped at\nzero.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			result, err := cliCtx.Settlement.ComputeNetSettlement(appsettlement.NetInput{
				GrossAmount:     settlement.FromDollars(gross, currency),
				LegalFeePercent: feePercent,
				Disbursements:   settlement.FromDollars(disbursements, currency),
				Subrogation:     settlement.FromDollars(subrogation, currency),
				SABSPaid:        settlement.FromDollars(sabsPaid, currency),
			})
			if err != nil {
				return fmt.Errorf("computing settlement: %w", err)
			}
			return PrintResult(cmd, settlementView{result})
		},
	}

	cmd.Flags().Float64Var(&gross, "gross", 0, "gross offer amount (required)")
	cmd.Flags().Float64Var(&feePercent, "fee-percent", 0, "contingency fee fraction in [0,1]")
	cmd.Flags().Float64Var(&disbursements, "disbursements", 0, "file disbursements to recover")
	cmd.Flags().Float64Var(&subrogation, "subrogation", 0, "subrogated benefits to repay")
	cmd.Flags().Float64Var(&sabsPaid, "sabs-paid", 0, "accident benefits already paid")
	cmd.Flags().StringVar(&currency, "currency", "CAD", "ISO 4217 currency code")
	_ = cmd.MarkFlagRequired("gross")

	return cmd
}
