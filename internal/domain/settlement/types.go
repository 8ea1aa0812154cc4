// Package settlement defines the money value object and the settlement offer
// types consumed by the net calculator.
package settlement

import (
	"fmt"
	"math"
	"time"

	"github.com/veritas-suite/caseflow/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Money value object
// ─────────────────────────────────────────────────────────────────────────────

// Money represents a monetary amount in the smallest currency unit to avoid
// floating-point drift in deduction chains.
type Money struct {
	Amount   int64  `json:"amount"`   // Amount in cents
	Currency string `json:"currency"` // ISO 4217 currency code
}

// NewMoney creates a Money value object.
func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// FromDollars converts a major-unit amount to Money, rounding to the nearest
// cent.
func FromDollars(amount float64, currency string) Money {
	return Money{Amount: int64(math.Round(amount * 100)), Currency: currency}
}

// ToFloat64 converts the amount to the major currency unit.
func (m Money) ToFloat64() float64 {
	return float64(m.Amount) / 100.0
}

// Sub subtracts other from m, clamping the result at zero.  Deduction chains
// never drive a client's proceeds negative.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, errors.InvalidParamf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	out := m.Amount - other.Amount
	if out < 0 {
		out = 0
	}
	return Money{Amount: out, Currency: m.Currency}, nil
}

// MulPercent multiplies the amount by a fraction in [0,1], rounding to the
// nearest cent.
func (m Money) MulPercent(fraction float64) Money {
	return Money{
		Amount:   int64(math.Round(float64(m.Amount) * fraction)),
		Currency: m.Currency,
	}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// String renders the amount as a major-unit figure with its currency code.
func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.ToFloat64(), m.Currency)
}

// ─────────────────────────────────────────────────────────────────────────────
// SettlementOffer
// ─────────────────────────────────────────────────────────────────────────────

// OfferKind identifies which side made the offer.
type OfferKind string

const (
	OfferPlaintiff OfferKind = "plaintiff"
	OfferDefendant OfferKind = "defendant"
)

// OfferStatus tracks negotiation state; transitions belong to the caller.
type OfferStatus string

const (
	OfferOpen      OfferStatus = "open"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferCountered OfferStatus = "countered"
)

// SettlementOffer records one offer exchanged during negotiation.
type SettlementOffer struct {
	Amount Money       `json:"amount"`
	Kind   OfferKind   `json:"kind"`
	Date   time.Time   `json:"date"`
	Status OfferStatus `json:"status"`
}

// Validate checks the offer's internal consistency.
func (o *SettlementOffer) Validate() error {
	if o.Amount.IsNegative() {
		return errors.InvalidParam("offer amount must not be negative")
	}
	switch o.Kind {
	case OfferPlaintiff, OfferDefendant:
	default:
		return errors.InvalidParamf("offer kind %q is not recognized", o.Kind)
	}
	switch o.Status {
	case OfferOpen, OfferAccepted, OfferRejected, OfferCountered:
	default:
		return errors.InvalidParamf("offer status %q is not recognized", o.Status)
	}
	if o.Date.IsZero() {
		return errors.InvalidParam("offer date must not be zero")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// NetSettlementResult
// ─────────────────────────────────────────────────────────────────────────────

// NetSettlementResult is the derived breakdown of client proceeds from a
// gross offer after the fixed deduction chain.
type NetSettlementResult struct {
	NetToClient            Money `json:"net_to_client"`
	FeeAmount              Money `json:"fee_amount"`
	DisbursementsDeducted  Money `json:"disbursements_deducted"`
	SubrogationDeducted    Money `json:"subrogation_deducted"`
	SABSOffsetDeducted     Money `json:"sabs_offset_deducted"`
}
