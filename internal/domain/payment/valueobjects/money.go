package valueobjects

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// USDTUnit is the number of raw base units per whole USDT (6 decimals).
const USDTUnit = 1_000_000

// AmountTolerance is the maximum absolute deviation, in USDT, between a
// requested amount and an observed transfer that still counts as a match.
var AmountTolerance = decimal.New(1, -2) // 0.01

// Money is a fixed-point USDT amount. It is never represented as a float so
// that amount matching in the monitor stays exact under decimal arithmetic.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney builds a Money from a decimal amount. currency defaults to USDT;
// no other currency is supported by this gateway.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = "USDT"
	}
	if currency != "USDT" {
		return Money{}, fmt.Errorf("unsupported currency: %s", currency)
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("amount must not be negative")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString parses a decimal string, e.g. "10.000000".
func NewMoneyFromString(s, currency string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewMoney(amount, currency)
}

// MoneyFromRaw converts a raw base-unit integer (as returned by the chain
// indexer) into Money, applying USDT's 6-decimal scale.
func MoneyFromRaw(raw uint64, currency string) (Money, error) {
	amount := decimal.NewFromInt(int64(raw)).Div(decimal.NewFromInt(USDTUnit))
	return NewMoney(amount, currency)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// RawUnits returns the amount scaled to USDT's 6-decimal base unit, suitable
// for storage as an integer column.
func (m Money) RawUnits() int64 {
	return m.amount.Mul(decimal.NewFromInt(USDTUnit)).IntPart()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// WithinTolerance reports whether m and other differ by no more than
// AmountTolerance, matching the monitor's amount-matching rule.
func (m Money) WithinTolerance(other Money) bool {
	diff := m.amount.Sub(other.amount).Abs()
	return diff.LessThanOrEqual(AmountTolerance)
}

func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency == other.currency
}

// String renders the amount in canonical decimal form (no trailing zeros
// beyond significance), as required for the QR payment URI.
func (m Money) String() string {
	return m.amount.Truncate(6).String()
}
