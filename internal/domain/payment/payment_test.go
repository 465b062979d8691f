package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "paykript/internal/domain/payment/valueobjects"
)

func newTestPayment(t *testing.T) *PaymentRequest {
	t.Helper()
	amount, err := vo.NewMoneyFromString("10.000000", "USDT")
	require.NoError(t, err)
	p, err := NewPaymentRequest(1, 1, "order-1", amount, "TAddr123", 1, 15*time.Minute, nil, nil, nil)
	require.NoError(t, err)
	return p
}

func TestNewPaymentRequest_Validation(t *testing.T) {
	amount, _ := vo.NewMoneyFromString("10", "USDT")

	_, err := NewPaymentRequest(0, 1, "o-1", amount, "addr", 1, time.Minute, nil, nil, nil)
	assert.Error(t, err, "merchant ID required")

	_, err = NewPaymentRequest(1, 1, "", amount, "addr", 1, time.Minute, nil, nil, nil)
	assert.Error(t, err, "order ID required")

	zero, _ := vo.NewMoney(amount.Amount().Sub(amount.Amount()), "USDT")
	_, err = NewPaymentRequest(1, 1, "o-1", zero, "addr", 1, time.Minute, nil, nil, nil)
	assert.Error(t, err, "amount must be positive")

	_, err = NewPaymentRequest(1, 1, "o-1", amount, "", 1, time.Minute, nil, nil, nil)
	assert.Error(t, err, "address required")
}

func TestPaymentRequest_Confirm_TransitionsFromPending(t *testing.T) {
	p := newTestPayment(t)
	now := time.Now().UTC()

	require.NoError(t, p.Confirm(now))
	assert.Equal(t, vo.PaymentStatusConfirmed, p.Status())
	require.NotNil(t, p.ConfirmedAt())
	assert.True(t, p.ConfirmedAt().Equal(now))
}

func TestPaymentRequest_Confirm_IdempotentWhenAlreadyConfirmed(t *testing.T) {
	p := newTestPayment(t)
	now := time.Now().UTC()
	require.NoError(t, p.Confirm(now))

	// A second confirm call, possibly with a different timestamp, is a no-op.
	err := p.Confirm(now.Add(time.Hour))
	assert.NoError(t, err)
	assert.True(t, p.ConfirmedAt().Equal(now), "confirmed_at must not move on a repeated confirm")
}

func TestPaymentRequest_Confirm_RejectsOtherFinalStates(t *testing.T) {
	p := newTestPayment(t)
	require.NoError(t, p.Expire())

	err := p.Confirm(time.Now())
	assert.Error(t, err, "a confirmation arriving after expiry must not revert the terminal state")
	assert.Equal(t, vo.PaymentStatusExpired, p.Status())
}

func TestPaymentRequest_Expire_NeverOverridesConfirmation(t *testing.T) {
	p := newTestPayment(t)
	require.NoError(t, p.Confirm(time.Now()))

	require.NoError(t, p.Expire())
	assert.Equal(t, vo.PaymentStatusConfirmed, p.Status(), "expiry must never override a confirmed payment")
}

func TestPaymentRequest_Cancel_OnlyFromPending(t *testing.T) {
	confirmed := newTestPayment(t)
	require.NoError(t, confirmed.Confirm(time.Now()))
	err := confirmed.Cancel()
	assert.Error(t, err)
	assert.Equal(t, vo.PaymentStatusConfirmed, confirmed.Status())

	pending := newTestPayment(t)
	require.NoError(t, pending.Cancel())
	assert.Equal(t, vo.PaymentStatusFailed, pending.Status())
}

func TestPaymentRequest_RecordWebhookAttempt(t *testing.T) {
	p := newTestPayment(t)

	p.RecordWebhookAttempt(false)
	assert.Equal(t, 1, p.WebhookAttempts())
	assert.False(t, p.WebhookSent())

	p.RecordWebhookAttempt(true)
	assert.Equal(t, 2, p.WebhookAttempts())
	assert.True(t, p.WebhookSent())

	// webhook_sent stays true even if a later resend attempt fails.
	p.RecordWebhookAttempt(false)
	assert.Equal(t, 3, p.WebhookAttempts())
	assert.True(t, p.WebhookSent())
}

func TestPaymentRequest_IsOpen(t *testing.T) {
	p := newTestPayment(t)
	assert.True(t, p.IsOpen())
	assert.False(t, p.IsExpiredButOpen())
}
