package chaintx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "paykript/internal/domain/payment/valueobjects"
)

func TestNewChainTransaction_Validation(t *testing.T) {
	amount, _ := vo.NewMoneyFromString("10", "USDT")

	_, err := NewChainTransaction(0, "hash1", "from", "to", amount, "TRON", "contract", nil, 1)
	assert.Error(t, err)

	_, err = NewChainTransaction(1, "", "from", "to", amount, "TRON", "contract", nil, 1)
	assert.Error(t, err)

	ct, err := NewChainTransaction(1, "hash1", "from", "to", amount, "TRON", "contract", nil, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, ct.Status())
}

func TestChainTransaction_MeetsConfirmationThreshold(t *testing.T) {
	amount, _ := vo.NewMoneyFromString("10", "USDT")
	ct, err := NewChainTransaction(1, "hash1", "from", "to", amount, "TRON", "contract", nil, 0)
	require.NoError(t, err)

	assert.False(t, ct.MeetsConfirmationThreshold(1))
	ct.RefreshConfirmations(1, nil)
	assert.True(t, ct.MeetsConfirmationThreshold(1))
}

func TestChainTransaction_Confirm_FreezesAmountAndHash(t *testing.T) {
	amount, _ := vo.NewMoneyFromString("10", "USDT")
	ct, err := NewChainTransaction(1, "hash1", "from", "to", amount, "TRON", "contract", nil, 1)
	require.NoError(t, err)

	now := time.Now().UTC()
	ct.Confirm(now)
	assert.Equal(t, StatusConfirmed, ct.Status())
	require.NotNil(t, ct.ConfirmedAt())
	assert.True(t, ct.ConfirmedAt().Equal(now))

	// RefreshConfirmations is a no-op once confirmed.
	ct.RefreshConfirmations(99, nil)
	assert.Equal(t, 1, ct.Confirmations())

	// A second Confirm call does not move confirmed_at.
	ct.Confirm(now.Add(time.Hour))
	assert.True(t, ct.ConfirmedAt().Equal(now))
}
