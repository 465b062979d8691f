package valueobjects

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_RejectsNegativeAndOtherCurrencies(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(-1), "USDT")
	assert.Error(t, err)

	_, err = NewMoney(decimal.NewFromInt(1), "BTC")
	assert.Error(t, err)

	m, err := NewMoney(decimal.NewFromInt(1), "")
	require.NoError(t, err)
	assert.Equal(t, "USDT", m.Currency())
}

func TestMoneyFromRaw_AppliesSixDecimalScale(t *testing.T) {
	m, err := MoneyFromRaw(10_000_000, "USDT")
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(10_000_000), m.RawUnits())
}

func TestMoney_WithinTolerance(t *testing.T) {
	requested, err := NewMoneyFromString("10.000000", "USDT")
	require.NoError(t, err)

	tests := []struct {
		name     string
		observed string
		want     bool
	}{
		{"exact match", "10.000000", true},
		{"within tolerance above", "10.010000", true},
		{"within tolerance below", "9.990000", true},
		{"just outside tolerance above", "10.020000", false},
		{"just outside tolerance below", "9.980000", false},
		{"large overpayment", "100.000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed, err := NewMoneyFromString(tt.observed, "USDT")
			require.NoError(t, err)
			assert.Equal(t, tt.want, observed.WithinTolerance(requested))
		})
	}
}

func TestMoney_String_NoTrailingZerosBeyondSignificance(t *testing.T) {
	m, err := NewMoneyFromString("10.500000", "USDT")
	require.NoError(t, err)
	assert.Equal(t, "10.5", m.String())

	whole, err := NewMoneyFromString("10.000000", "USDT")
	require.NoError(t, err)
	assert.Equal(t, "10", whole.String())
}

func TestMoney_NoFloatingPointDrift(t *testing.T) {
	// 0.1 + 0.2 famously doesn't equal 0.3 in binary floating point;
	// decimal arithmetic must not exhibit the same drift.
	a, _ := NewMoneyFromString("0.1", "USDT")
	b, _ := NewMoneyFromString("0.2", "USDT")
	sum := a.Amount().Add(b.Amount())
	assert.True(t, sum.Equal(decimal.RequireFromString("0.3")))
}
