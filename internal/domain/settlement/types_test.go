package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyConversions(t *testing.T) {
	m := FromDollars(1234.56, "CAD")
	assert.Equal(t, int64(123456), m.Amount)
	assert.Equal(t, 1234.56, m.ToFloat64())
	assert.Equal(t, "1234.56 CAD", m.String())

	// Rounding to the nearest cent.
	assert.Equal(t, int64(100), FromDollars(0.999, "CAD").Amount)
}

func TestMoneySubClampsAtZero(t *testing.T) {
	a := NewMoney(5000, "CAD")
	b := NewMoney(8000, "CAD")

	out, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Amount)

	out, err = b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), out.Amount)
}

func TestMoneySubCurrencyMismatch(t *testing.T) {
	_, err := NewMoney(100, "CAD").Sub(NewMoney(100, "USD"))
	assert.Error(t, err)
}

func TestMoneyMulPercent(t *testing.T) {
	gross := NewMoney(10000000, "CAD") // $100,000
	fee := gross.MulPercent(0.30)
	assert.Equal(t, int64(3000000), fee.Amount)

	// Rounds to the nearest cent.
	odd := NewMoney(101, "CAD")
	assert.Equal(t, int64(33), odd.MulPercent(1.0/3.0).Amount)
}

func TestSettlementOfferValidate(t *testing.T) {
	valid := SettlementOffer{
		Amount: NewMoney(10000000, "CAD"),
		Kind:   OfferDefendant,
		Date:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Status: OfferOpen,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*SettlementOffer)
	}{
		{"negative amount", func(o *SettlementOffer) { o.Amount.Amount = -1 }},
		{"bad kind", func(o *SettlementOffer) { o.Kind = "mediator" }},
		{"bad status", func(o *SettlementOffer) { o.Status = "withdrawn" }},
		{"zero date", func(o *SettlementOffer) { o.Date = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			assert.Error(t, o.Validate())
		})
	}
}
