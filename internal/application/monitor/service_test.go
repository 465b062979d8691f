package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paykript/internal/application/payment/chainclient"
	"paykript/internal/domain/payment"
	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/shared/db"
)

const testContract = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"

func newTestTxManager(t *testing.T) *db.TransactionManager {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db.NewTransactionManager(gdb)
}

func newOpenPayment(t *testing.T, id uint, amountStr string, expiresIn time.Duration) *payment.PaymentRequest {
	t.Helper()
	amount, err := vo.NewMoneyFromString(amountStr, "USDT")
	require.NoError(t, err)
	p, err := payment.NewPaymentRequest(1, 1, "order", amount, "TDepositAddr", uint32(id), expiresIn, nil, nil, nil)
	require.NoError(t, err)
	p.SetID(id)
	return p
}

func newService(t *testing.T, payments *mockPaymentRepo, chaintxs *mockChainTxRepo, chain *mockChainClient, pub *mockPublisher, webhooks *mockWebhookEnqueuer) *Service {
	t.Helper()
	return NewService(payments, chaintxs, chain, pub, webhooks, newTestTxManager(t), Config{
		USDTContract:          testContract,
		RequiredConfirmations: 19,
	}, &mockLogger{})
}

// Scenario 1: happy path — a matching, sufficiently-confirmed transfer
// confirms the payment, links the chain transaction, publishes the domain
// event, and enqueues the webhook.
func TestExecute_ConfirmsPaymentOnMatchingTransfer(t *testing.T) {
	p := newOpenPayment(t, 1, "10.000000", 15*time.Minute)
	payments := &mockPaymentRepo{open: []*payment.PaymentRequest{p}}
	chaintxs := &mockChainTxRepo{}
	chain := &mockChainClient{ListTRC20TransfersFunc: func(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error) {
		return []chainclient.TransferObservation{{
			TxHash: "hash1", From: "Tcustomer", To: address, RawAmount: 10_000_000,
			Contract: contract, Confirmations: 20,
		}}, nil
	}}
	pub := &mockPublisher{}
	webhooks := &mockWebhookEnqueuer{}

	s := newService(t, payments, chaintxs, chain, pub, webhooks)
	require.NoError(t, s.Execute(context.Background()))

	assert.Equal(t, vo.PaymentStatusConfirmed, p.Status())
	assert.Equal(t, 1, payments.updateCount())
	assert.Contains(t, pub.eventTypes(), "payment.confirmed")
	require.Len(t, webhooks.enqueued, 1)
	assert.Equal(t, uint(1), webhooks.enqueued[0])
}

// Scenario 2: a transfer within tolerance of the requested amount still
// confirms; one strictly outside tolerance is ignored.
func TestExecute_AppliesAmountTolerance(t *testing.T) {
	p := newOpenPayment(t, 2, "10.000000", 15*time.Minute)
	payments := &mockPaymentRepo{open: []*payment.PaymentRequest{p}}
	chaintxs := &mockChainTxRepo{}
	chain := &mockChainClient{ListTRC20TransfersFunc: func(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error) {
		return []chainclient.TransferObservation{{
			TxHash: "hash2", From: "Tcustomer", To: address, RawAmount: 10_010_000,
			Contract: contract, Confirmations: 20,
		}}, nil
	}}
	s := newService(t, payments, chaintxs, chain, &mockPublisher{}, &mockWebhookEnqueuer{})

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, vo.PaymentStatusConfirmed, p.Status())
}

func TestExecute_IgnoresTransferOutsideTolerance(t *testing.T) {
	p := newOpenPayment(t, 3, "10.000000", 15*time.Minute)
	payments := &mockPaymentRepo{open: []*payment.PaymentRequest{p}}
	chaintxs := &mockChainTxRepo{}
	chain := &mockChainClient{ListTRC20TransfersFunc: func(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error) {
		return []chainclient.TransferObservation{{
			TxHash: "hash3", From: "Tcustomer", To: address, RawAmount: 9_000_000,
			Contract: contract, Confirmations: 20,
		}}, nil
	}}
	s := newService(t, payments, chaintxs, chain, &mockPublisher{}, &mockWebhookEnqueuer{})

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, vo.PaymentStatusPending, p.Status())
	assert.Equal(t, 0, payments.updateCount())
}

// Scenario 3: a payment that is both expired and has a confirmable transfer
// must be confirmed, never expired — the confirmation scan runs before the
// expiry pass and covers expired candidates too.
func TestExecute_ConfirmationBeatsExpiryInSameTick(t *testing.T) {
	p := newOpenPayment(t, 4, "10.000000", -time.Minute)
	payments := &mockPaymentRepo{expired: []*payment.PaymentRequest{p}}
	chaintxs := &mockChainTxRepo{}
	chain := &mockChainClient{ListTRC20TransfersFunc: func(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error) {
		return []chainclient.TransferObservation{{
			TxHash: "hash4", From: "Tcustomer", To: address, RawAmount: 10_000_000,
			Contract: contract, Confirmations: 20,
		}}, nil
	}}
	pub := &mockPublisher{}
	s := newService(t, payments, chaintxs, chain, pub, &mockWebhookEnqueuer{})

	require.NoError(t, s.Execute(context.Background()))

	assert.Equal(t, vo.PaymentStatusConfirmed, p.Status())
	assert.Contains(t, pub.eventTypes(), "payment.confirmed")
	assert.NotContains(t, pub.eventTypes(), "payment.expired")
}

func TestExecute_ExpiresUnconfirmedPastDeadline(t *testing.T) {
	p := newOpenPayment(t, 5, "10.000000", -time.Minute)
	payments := &mockPaymentRepo{expired: []*payment.PaymentRequest{p}}
	chaintxs := &mockChainTxRepo{}
	chain := &mockChainClient{} // no transfers observed
	pub := &mockPublisher{}
	s := newService(t, payments, chaintxs, chain, pub, &mockWebhookEnqueuer{})

	require.NoError(t, s.Execute(context.Background()))

	assert.Equal(t, vo.PaymentStatusExpired, p.Status())
	assert.Contains(t, pub.eventTypes(), "payment.expired")
}

// Scenario 4: a matching transfer whose confirmation count is still below
// the required threshold is recorded on this tick, but the payment stays
// PENDING and is not updated.
func TestExecute_TransferBelowThresholdIsSeenButNotConfirmed(t *testing.T) {
	p := newOpenPayment(t, 6, "10.000000", 15*time.Minute)
	payments := &mockPaymentRepo{open: []*payment.PaymentRequest{p}}
	chaintxs := &mockChainTxRepo{}
	chain := &mockChainClient{ListTRC20TransfersFunc: func(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error) {
		return []chainclient.TransferObservation{{
			TxHash: "hash6", From: "Tcustomer", To: address, RawAmount: 10_000_000,
			Contract: contract, Confirmations: 3,
		}}, nil
	}}
	s := newService(t, payments, chaintxs, chain, &mockPublisher{}, &mockWebhookEnqueuer{})

	require.NoError(t, s.Execute(context.Background()))

	assert.Equal(t, vo.PaymentStatusPending, p.Status())
	assert.Equal(t, 0, payments.updateCount())
}

func TestExecute_FanOutChecksEveryOpenPaymentConcurrently(t *testing.T) {
	var candidates []*payment.PaymentRequest
	for i := uint(10); i < 20; i++ {
		candidates = append(candidates, newOpenPayment(t, i, "10.000000", 15*time.Minute))
	}
	payments := &mockPaymentRepo{open: candidates}
	chaintxs := &mockChainTxRepo{}
	chain := &mockChainClient{ListTRC20TransfersFunc: func(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error) {
		return nil, nil
	}}
	s := newService(t, payments, chaintxs, chain, &mockPublisher{}, &mockWebhookEnqueuer{})

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, len(candidates), chain.calls, "every candidate must be checked exactly once per tick")
}

func TestExecute_PropagatesListFailureAsTickError(t *testing.T) {
	failing := &failingListRepo{mockPaymentRepo: &mockPaymentRepo{}}
	s := NewService(failing, &mockChainTxRepo{}, &mockChainClient{}, &mockPublisher{}, &mockWebhookEnqueuer{},
		newTestTxManager(t), Config{USDTContract: testContract, RequiredConfirmations: 19}, &mockLogger{})

	err := s.Execute(context.Background())
	assert.Error(t, err)
}

// failingListRepo simulates a store outage for ListOpenPayments, embedding
// mockPaymentRepo so the rest of the payment.Repository surface is a no-op.
type failingListRepo struct {
	*mockPaymentRepo
}

func (f *failingListRepo) ListOpenPayments(ctx context.Context, now time.Time) ([]*payment.PaymentRequest, error) {
	return nil, errStoreUnreachable
}

type storeError string

func (e storeError) Error() string { return string(e) }

const errStoreUnreachable = storeError("store unreachable")
