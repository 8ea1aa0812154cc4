package settlement

import (
	"testing"

	domain "github.com/veritas-suite/caseflow/internal/domain/settlement"
	"github.com/veritas-suite/caseflow/pkg/errors"
)

func cad(dollars float64) domain.Money {
	return domain.FromDollars(dollars, "CAD")
}

func TestComputeNetSettlementStandardCase(t *testing.T) {
	calc := NewCalculator(nil, nil)

	result, err := calc.ComputeNetSettlement(NetInput{
		GrossAmount:     cad(100000),
		LegalFeePercent: 0.30,
		Disbursements:   cad(5000),
		Subrogation:     cad(0),
		SABSPaid:        cad(0),
	})
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}

	if got := result.FeeAmount; got != cad(30000) {
		t.Errorf("expected fee 30000.00 CAD, got %s", got)
	}
	if got := result.NetToClient; got != cad(65000) {
		t.Errorf("expected net 65000.00 CAD, got %s", got)
	}
	if result.DisbursementsDeducted != cad(5000) {
		t.Errorf("expected disbursements 5000.00 CAD, got %s", result.DisbursementsDeducted)
	}
}

func TestComputeNetSettlementFullDeductionChain(t *testing.T) {
	calc := NewCalculator(nil, nil)

	// 100000 - 25000 fee - 10000 disb - 8000 subrogation - 7000 SABS = 50000.
	result, err := calc.ComputeNetSettlement(NetInput{
		GrossAmount:     cad(100000),
		LegalFeePercent: 0.25,
		Disbursements:   cad(10000),
		Subrogation:     cad(8000),
		SABSPaid:        cad(7000),
	})
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}

	if result.NetToClient != cad(50000) {
		t.Errorf("expected net 50000.00 CAD, got %s", result.NetToClient)
	}
	if result.SubrogationDeducted != cad(8000) {
		t.Errorf("expected subrogation 8000.00 CAD, got %s", result.SubrogationDeducted)
	}
	if result.SABSOffsetDeducted != cad(7000) {
		t.Errorf("expected SABS offset 7000.00 CAD, got %s", result.SABSOffsetDeducted)
	}
}

func TestComputeNetSettlementClampsAtZero(t *testing.T) {
	calc := NewCalculator(nil, nil)

	// afterFee = 7000; disbursements exceed it, so net clamps to zero.
	result, err := calc.ComputeNetSettlement(NetInput{
		GrossAmount:     cad(10000),
		LegalFeePercent: 0.30,
		Disbursements:   cad(9000),
	})
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}

	if result.NetToClient.Amount != 0 {
		t.Errorf("expected net clamped to 0, got %s", result.NetToClient)
	}
	if result.NetToClient.IsNegative() {
		t.Error("net must never be negative")
	}
	// The reported deductions stay at their requested values even when the
	// chain bottoms out.
	if result.DisbursementsDeducted != cad(9000) {
		t.Errorf("expected disbursements 9000.00 CAD, got %s", result.DisbursementsDeducted)
	}
}

func TestComputeNetSettlementClampIsPerStep(t *testing.T) {
	calc := NewCalculator(nil, nil)

	// Disbursements wipe out the balance; the later SABS offset must not
	// resurrect a negative intermediate.
	result, err := calc.ComputeNetSettlement(NetInput{
		GrossAmount:     cad(10000),
		LegalFeePercent: 0.30,
		Disbursements:   cad(20000),
		SABSPaid:        cad(1000),
	})
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}
	if result.NetToClient.Amount != 0 {
		t.Errorf("expected net 0, got %s", result.NetToClient)
	}
}

func TestComputeNetSettlementZeroFee(t *testing.T) {
	calc := NewCalculator(nil, nil)

	result, err := calc.ComputeNetSettlement(NetInput{
		GrossAmount:     cad(50000),
		LegalFeePercent: 0,
		Disbursements:   cad(2500),
	})
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}
	if result.FeeAmount.Amount != 0 {
		t.Errorf("expected zero fee, got %s", result.FeeAmount)
	}
	if result.NetToClient != cad(47500) {
		t.Errorf("expected net 47500.00 CAD, got %s", result.NetToClient)
	}
}

func TestComputeNetSettlementFeeRounding(t *testing.T) {
	calc := NewCalculator(nil, nil)

	// 333.33 * 0.30 = 99.999 → rounds to 100.00.
	result, err := calc.ComputeNetSettlement(NetInput{
		GrossAmount:     cad(333.33),
		LegalFeePercent: 0.30,
	})
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}
	if result.FeeAmount != cad(100) {
		t.Errorf("expected fee rounded to 100.00 CAD, got %s", result.FeeAmount)
	}
	if result.NetToClient != cad(233.33) {
		t.Errorf("expected net 233.33 CAD, got %s", result.NetToClient)
	}
}

func TestComputeNetSettlementUnusedFlagsDoNotAlterFormula(t *testing.T) {
	calc := NewCalculator(nil, nil)

	base := NetInput{
		GrossAmount:     cad(100000),
		LegalFeePercent: 0.30,
		Disbursements:   cad(5000),
	}
	flagged := base
	flagged.PainAndSufferingApplies = true
	flagged.OverThreshold = true

	r1, err := calc.ComputeNetSettlement(base)
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}
	r2, err := calc.ComputeNetSettlement(flagged)
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}
	if r1 != r2 {
		t.Errorf("flags must not change the result: %+v vs %+v", r1, r2)
	}
}

func TestComputeNetSettlementValidation(t *testing.T) {
	calc := NewCalculator(nil, nil)

	tests := []struct {
		name     string
		input    NetInput
		wantCode errors.ErrorCode
	}{
		{
			name: "negative gross",
			input: NetInput{
				GrossAmount:     domain.NewMoney(-100, "CAD"),
				LegalFeePercent: 0.30,
			},
			wantCode: errors.ErrCodeSettlementAmountInvalid,
		},
		{
			name: "fee above one",
			input: NetInput{
				GrossAmount:     cad(1000),
				LegalFeePercent: 1.5,
			},
			wantCode: errors.ErrCodeSettlementFeeOutOfRange,
		},
		{
			name: "fee negative",
			input: NetInput{
				GrossAmount:     cad(1000),
				LegalFeePercent: -0.1,
			},
			wantCode: errors.ErrCodeSettlementFeeOutOfRange,
		},
		{
			name: "negative disbursements",
			input: NetInput{
				GrossAmount:     cad(1000),
				LegalFeePercent: 0.30,
				Disbursements:   domain.NewMoney(-1, "CAD"),
			},
			wantCode: errors.ErrCodeSettlementAmountInvalid,
		},
		{
			name: "negative subrogation",
			input: NetInput{
				GrossAmount:     cad(1000),
				LegalFeePercent: 0.30,
				Subrogation:     domain.NewMoney(-1, "CAD"),
			},
			wantCode: errors.ErrCodeSettlementAmountInvalid,
		},
		{
			name: "negative sabs paid",
			input: NetInput{
				GrossAmount:     cad(1000),
				LegalFeePercent: 0.30,
				SABSPaid:        domain.NewMoney(-1, "CAD"),
			},
			wantCode: errors.ErrCodeSettlementAmountInvalid,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.ComputeNetSettlement(tc.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.IsCode(err, tc.wantCode) {
				t.Errorf("expected code %s, got %s", tc.wantCode, errors.GetCode(err))
			}
		})
	}
}

func TestComputeNetSettlementMixedCurrency(t *testing.T) {
	calc := NewCalculator(nil, nil)

	_, err := calc.ComputeNetSettlement(NetInput{
		GrossAmount:     cad(1000),
		LegalFeePercent: 0.30,
		Disbursements:   domain.NewMoney(100, "USD"),
	})
	if err == nil {
		t.Fatal("expected a mixed-currency error")
	}
	if !errors.IsCode(err, errors.ErrCodeSettlementCurrencyMixed) {
		t.Errorf("expected code %s, got %s", errors.ErrCodeSettlementCurrencyMixed, errors.GetCode(err))
	}
}

func TestComputeNetSettlementIsDeterministic(t *testing.T) {
	calc := NewCalculator(nil, nil)
	input := NetInput{
		GrossAmount:     cad(87654.32),
		LegalFeePercent: 0.33,
		Disbursements:   cad(1234.56),
		Subrogation:     cad(500),
		SABSPaid:        cad(250),
	}

	first, err := calc.ComputeNetSettlement(input)
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}
	second, err := calc.ComputeNetSettlement(input)
	if err != nil {
		t.Fatalf("ComputeNetSettlement failed: %v", err)
	}
	if first != second {
		t.Errorf("same input produced different results: %+v vs %+v", first, second)
	}
}
