package domain

import "github.com/shopspring/decimal"

// AmountRules defines the fixed-point constraints of every monetary value in
// the ledger: at most MaxDigits digits in total, DecimalPlaces of them after
// the decimal point. Mirrors a DECIMAL(max_digits, decimal_places) column.
type AmountRules struct {
	MaxDigits     int32
	DecimalPlaces int32
}

// DefaultAmountRules matches the default ledger configuration.
var DefaultAmountRules = AmountRules{MaxDigits: 12, DecimalPlaces: 2}

// MinUnit returns the smallest representable amount, 10^-DecimalPlaces.
func (r AmountRules) MinUnit() decimal.Decimal {
	return decimal.New(1, -r.DecimalPlaces)
}

// MaxValue returns the largest representable amount,
// 10^(MaxDigits-DecimalPlaces) - MinUnit.
func (r AmountRules) MaxValue() decimal.Decimal {
	return decimal.New(1, r.MaxDigits-r.DecimalPlaces).Sub(r.MinUnit())
}

// ValidTransferValue reports whether v is an acceptable payment value:
// strictly positive, at least one minimum unit, no finer than the configured
// precision, and within MaxValue.
func (r AmountRules) ValidTransferValue(v decimal.Decimal) bool {
	if v.LessThan(r.MinUnit()) {
		return false
	}
	if v.GreaterThan(r.MaxValue()) {
		return false
	}
	return v.Equal(v.Truncate(r.DecimalPlaces))
}

// ValidBalance reports whether v is a representable account balance.
func (r AmountRules) ValidBalance(v decimal.Decimal) bool {
	if v.IsNegative() || v.GreaterThan(r.MaxValue()) {
		return false
	}
	return v.Equal(v.Truncate(r.DecimalPlaces))
}
