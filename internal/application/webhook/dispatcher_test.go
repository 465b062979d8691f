package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paykript/internal/domain/chaintx"
	"paykript/internal/domain/payment"
	vo "paykript/internal/domain/payment/valueobjects"
)

func newConfirmedPayment(t *testing.T, webhookURL string) *payment.PaymentRequest {
	t.Helper()
	amount, err := vo.NewMoneyFromString("10.000000", "USDT")
	require.NoError(t, err)
	var urlPtr *string
	if webhookURL != "" {
		urlPtr = &webhookURL
	}
	p, err := payment.NewPaymentRequest(1, 1, "order-1", amount, "TAddr123", 1, 15*time.Minute, urlPtr, nil, nil)
	require.NoError(t, err)
	p.SetID(7)
	require.NoError(t, p.Confirm(time.Now().UTC()))
	return p
}

func newConfirmedTx(t *testing.T, paymentID uint) *chaintx.ChainTransaction {
	t.Helper()
	amount, err := vo.NewMoneyFromString("10.000000", "USDT")
	require.NoError(t, err)
	tx, err := chaintx.NewChainTransaction(paymentID, "hash-abc", "Tfrom", "Tto", amount, "TRON", "contract", nil, 20)
	require.NoError(t, err)
	tx.Confirm(time.Now().UTC())
	return tx
}

func TestDispatcher_Deliver_SignatureCoversExactBodyBytes(t *testing.T) {
	p := newConfirmedPayment(t, "https://merchant.example/webhook")
	tx := newConfirmedTx(t, p.ID())

	payments := &mockPaymentRepo{
		GetByIDUnscopedFunc: func(ctx context.Context, id uint) (*payment.PaymentRequest, error) { return p, nil },
	}
	chaintxs := &mockChainTxRepo{
		ListByPaymentRequestFunc: func(ctx context.Context, id uint) ([]*chaintx.ChainTransaction, error) {
			return []*chaintx.ChainTransaction{tx}, nil
		},
	}
	poster := &mockPoster{PostFunc: func(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
		return 200, nil
	}}

	d := NewDispatcher(payments, chaintxs, poster, "shared-secret", time.Second, time.Second, &mockLogger{})
	d.deliver(context.Background(), p.ID())

	require.Len(t, poster.calls, 1)
	call := poster.calls[0]
	assert.Equal(t, "https://merchant.example/webhook", call.url)

	mac := hmac.New(sha256.New, []byte("shared-secret"))
	mac.Write(call.body)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	assert.Equal(t, want, call.headers["X-PayKript-Signature"], "signature must cover the exact bytes sent")

	assert.True(t, strings.Contains(string(call.body), `"payment_id":7`))
	assert.Len(t, payments.webhookAttempts, 1)
	assert.True(t, payments.webhookAttempts[0])
}

func TestDispatcher_Deliver_SkipsWhenNoWebhookURL(t *testing.T) {
	p := newConfirmedPayment(t, "")
	payments := &mockPaymentRepo{
		GetByIDUnscopedFunc: func(ctx context.Context, id uint) (*payment.PaymentRequest, error) { return p, nil },
	}
	poster := &mockPoster{}
	d := NewDispatcher(payments, &mockChainTxRepo{}, poster, "secret", time.Second, time.Second, &mockLogger{})

	d.deliver(context.Background(), p.ID())

	assert.Empty(t, poster.calls)
	assert.Empty(t, payments.webhookAttempts)
}

func TestDispatcher_Deliver_SkipsWhenPaymentNotConfirmed(t *testing.T) {
	amount, _ := vo.NewMoneyFromString("10", "USDT")
	url := "https://merchant.example/webhook"
	p, err := payment.NewPaymentRequest(1, 1, "order-2", amount, "TAddr", 1, time.Minute, &url, nil, nil)
	require.NoError(t, err)
	p.SetID(9)

	payments := &mockPaymentRepo{
		GetByIDUnscopedFunc: func(ctx context.Context, id uint) (*payment.PaymentRequest, error) { return p, nil },
	}
	poster := &mockPoster{}
	d := NewDispatcher(payments, &mockChainTxRepo{}, poster, "secret", time.Second, time.Second, &mockLogger{})

	d.deliver(context.Background(), p.ID())

	assert.Empty(t, poster.calls, "a pending payment must never be delivered as payment.confirmed")
}

func TestDispatcher_Deliver_RetriesUntilSuccess(t *testing.T) {
	p := newConfirmedPayment(t, "https://merchant.example/webhook")
	payments := &mockPaymentRepo{
		GetByIDUnscopedFunc: func(ctx context.Context, id uint) (*payment.PaymentRequest, error) { return p, nil },
	}
	attempt := 0
	poster := &mockPoster{PostFunc: func(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
		attempt++
		if attempt == 1 {
			return 500, nil
		}
		return 200, nil
	}}
	d := NewDispatcher(payments, &mockChainTxRepo{}, poster, "secret", time.Second, time.Second, &mockLogger{})

	d.deliver(context.Background(), p.ID())

	assert.Equal(t, 2, attempt)
	require.Len(t, payments.webhookAttempts, 2)
	assert.False(t, payments.webhookAttempts[0])
	assert.True(t, payments.webhookAttempts[1])
}

func TestDispatcher_Deliver_ExhaustsAllAttemptsOnPersistentFailure(t *testing.T) {
	p := newConfirmedPayment(t, "https://merchant.example/webhook")
	payments := &mockPaymentRepo{
		GetByIDUnscopedFunc: func(ctx context.Context, id uint) (*payment.PaymentRequest, error) { return p, nil },
	}
	poster := &mockPoster{PostFunc: func(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
		return 503, nil
	}}
	d := NewDispatcher(payments, &mockChainTxRepo{}, poster, "secret", time.Second, time.Second, &mockLogger{})

	d.deliver(context.Background(), p.ID())

	assert.Equal(t, maxAttempts, len(poster.calls))
	require.Len(t, payments.webhookAttempts, maxAttempts)
	for _, sent := range payments.webhookAttempts {
		assert.False(t, sent)
	}
}

func TestDispatcher_SendTest_SignsIndependentlyOfAnyPayment(t *testing.T) {
	poster := &mockPoster{PostFunc: func(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
		mac := hmac.New(sha256.New, []byte("secret"))
		mac.Write(body)
		want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
		assert.Equal(t, want, headers["X-PayKript-Signature"])
		return 204, nil
	}}
	d := NewDispatcher(&mockPaymentRepo{}, &mockChainTxRepo{}, poster, "secret", time.Second, time.Second, &mockLogger{})

	status, err := d.SendTest(context.Background(), "https://merchant.example/test")
	require.NoError(t, err)
	assert.Equal(t, 204, status)
	assert.Len(t, poster.calls, 1)
}
