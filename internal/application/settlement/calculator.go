// Package settlement computes the client's net proceeds from a gross offer
// through the firm's fixed deduction chain.
package settlement

import (
	"fmt"

	domain "github.com/veritas-suite/caseflow/internal/domain/settlement"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/logging"
	"github.com/veritas-suite/caseflow/internal/infrastructure/monitoring/metrics"
	"github.com/veritas-suite/caseflow/pkg/errors"
)

// NetInput carries the gross offer and every deduction applied against it.
// All money values must share one currency.
type NetInput struct {
	// GrossAmount is the full offer before any deduction.
	GrossAmount domain.Money `json:"gross_amount"`

	// LegalFeePercent is the contingency fraction in [0, 1], applied to the
	// gross amount.
	LegalFeePercent float64 `json:"legal_fee_percent"`

	// Disbursements are file expenses recovered from the settlement.
	Disbursements domain.Money `json:"disbursements"`

	// Subrogation is the amount owed back to collateral benefit payors.
	Subrogation domain.Money `json:"subrogation"`

	// SABSPaid offsets accident benefits already paid to the client.
	SABSPaid domain.Money `json:"sabs_paid"`

	// PainAndSufferingApplies and OverThreshold are accepted for forward
	// compatibility with jurisdiction-specific deductible rules; the base
	// formula does not read them.
	PainAndSufferingApplies bool `json:"pain_and_suffering_applies"`
	OverThreshold           bool `json:"over_threshold"`
}

// Calculator computes net settlements.  Stateless; safe for concurrent use.
type Calculator struct {
	logger   logging.Logger
	recorder metrics.Recorder
}

// NewCalculator constructs a Calculator.  A nil logger or recorder gets the
// no-op implementation.
func NewCalculator(logger logging.Logger, recorder metrics.Recorder) *Calculator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if recorder == nil {
		recorder = metrics.NewNopRecorder()
	}
	return &Calculator{
		logger:   logger.Named("settlement"),
		recorder: recorder,
	}
}

// ComputeNetSettlement evaluates the deduction chain in fixed order:
// fee on gross, then disbursements, then subrogation, then the SABS offset.
// Every step clamps at zero, so the net figure is never negative.
func (c *Calculator) ComputeNetSettlement(input NetInput) (domain.NetSettlementResult, error) {
	if err := validateInput(input); err != nil {
		c.recorder.IncEngineError(string(errors.GetCode(err)))
		return domain.NetSettlementResult{}, err
	}

	fee := input.GrossAmount.MulPercent(input.LegalFeePercent)

	afterFee, err := input.GrossAmount.Sub(fee)
	if err != nil {
		c.recorder.IncEngineError(string(errors.ErrCodeSettlementCurrencyMixed))
		return domain.NetSettlementResult{}, wrapCurrency(err)
	}
	afterDisbursements, err := afterFee.Sub(input.Disbursements)
	if err != nil {
		c.recorder.IncEngineError(string(errors.ErrCodeSettlementCurrencyMixed))
		return domain.NetSettlementResult{}, wrapCurrency(err)
	}
	afterSubrogation, err := afterDisbursements.Sub(input.Subrogation)
	if err != nil {
		c.recorder.IncEngineError(string(errors.ErrCodeSettlementCurrencyMixed))
		return domain.NetSettlementResult{}, wrapCurrency(err)
	}
	net, err := afterSubrogation.Sub(input.SABSPaid)
	if err != nil {
		c.recorder.IncEngineError(string(errors.ErrCodeSettlementCurrencyMixed))
		return domain.NetSettlementResult{}, wrapCurrency(err)
	}

	result := domain.NetSettlementResult{
		NetToClient:           net,
		FeeAmount:             fee,
		DisbursementsDeducted: input.Disbursements,
		SubrogationDeducted:   input.Subrogation,
		SABSOffsetDeducted:    input.SABSPaid,
	}

	c.logger.Debug("net settlement computed",
		logging.String("gross", input.GrossAmount.String()),
		logging.Float64("feePercent", input.LegalFeePercent),
		logging.String("net", result.NetToClient.String()),
	)
	c.recorder.IncSettlementComputed()
	return result, nil
}

func validateInput(input NetInput) error {
	if input.GrossAmount.IsNegative() {
		return errors.New(errors.ErrCodeSettlementAmountInvalid, "gross amount must not be negative").
			WithDetail(input.GrossAmount.String())
	}
	if input.LegalFeePercent < 0 || input.LegalFeePercent > 1 {
		return errors.New(errors.ErrCodeSettlementFeeOutOfRange,
			fmt.Sprintf("legal fee percent must be within [0, 1], got %g", input.LegalFeePercent))
	}
	for _, d := range []struct {
		name  string
		value domain.Money
	}{
		{"disbursements", input.Disbursements},
		{"subrogation", input.Subrogation},
		{"sabs paid", input.SABSPaid},
	} {
		if d.value.IsNegative() {
			return errors.New(errors.ErrCodeSettlementAmountInvalid,
				fmt.Sprintf("%s must not be negative", d.name)).WithDetail(d.value.String())
		}
	}
	return nil
}

func wrapCurrency(err error) error {
	return errors.Wrap(err, errors.ErrCodeSettlementCurrencyMixed, "deduction chain aborted")
}
