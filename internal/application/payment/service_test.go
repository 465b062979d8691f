package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/domain/wallet"
	apperrors "paykript/internal/shared/errors"
	"paykript/internal/shared/db"
)

func newTestTxManager(t *testing.T) *db.TransactionManager {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db.NewTransactionManager(gdb)
}

func newActiveWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.NewWallet(1, "main", "xpub-test", "")
	require.NoError(t, err)
	w.SetID(1)
	w.Activate()
	return w
}

func newServiceUnderTest(t *testing.T, walletRepo *mockWalletRepo, deriver *mockDeriver, webhooks *mockWebhookEnqueuer) (*Service, *mockPaymentRepo) {
	t.Helper()
	payments := &mockPaymentRepo{}
	s := NewService(payments, walletRepo, deriver, webhooks, newTestTxManager(t), 15*time.Minute, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", &mockLogger{})
	return s, payments
}

func TestCreate_AllocatesAddressAndPersistsPendingPayment(t *testing.T) {
	w := newActiveWallet(t)
	walletRepo := &mockWalletRepo{active: w}
	deriver := &mockDeriver{}
	s, payments := newServiceUnderTest(t, walletRepo, deriver, &mockWebhookEnqueuer{})

	amount, err := vo.NewMoneyFromString("10.000000", "USDT")
	require.NoError(t, err)

	result, err := s.Create(context.Background(), 1, CreateInput{OrderID: "order-1", Amount: amount})
	require.NoError(t, err)

	assert.Equal(t, "TDerivedAddress", result.Payment.Address())
	assert.Equal(t, vo.PaymentStatusPending, result.Payment.Status())
	assert.Contains(t, result.QRURI, "TDerivedAddress")
	require.Len(t, payments.created, 1)
}

func TestCreate_NoActiveWalletIsRejected(t *testing.T) {
	walletRepo := &mockWalletRepo{active: nil}
	s, payments := newServiceUnderTest(t, walletRepo, &mockDeriver{}, &mockWebhookEnqueuer{})

	amount, _ := vo.NewMoneyFromString("10", "USDT")
	_, err := s.Create(context.Background(), 1, CreateInput{OrderID: "order-2", Amount: amount})

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNoActiveWallet, appErr.Type)
	assert.Empty(t, payments.created, "no payment row may be created without an allocated address")
}

// Scenario 6: a derivation failure aborts the whole transaction — the
// allocated wallet index is never orphaned and no payment row is created.
func TestCreate_DerivationFailureRollsBackAllocatedIndex(t *testing.T) {
	w := newActiveWallet(t)
	walletRepo := &mockWalletRepo{active: w}
	deriver := &mockDeriver{DeriveFunc: func(xpub string, index uint32, prefix string) (string, error) {
		return "", apperrors.NewAddressDerivationError("hdkeychain: derivation failed")
	}}
	s, payments := newServiceUnderTest(t, walletRepo, deriver, &mockWebhookEnqueuer{})

	amount, _ := vo.NewMoneyFromString("10", "USDT")
	_, err := s.Create(context.Background(), 1, CreateInput{OrderID: "order-3", Amount: amount})

	require.Error(t, err)
	assert.Empty(t, payments.created, "a payment must never be persisted with a placeholder address")
	assert.Equal(t, uint32(1), w.AddressIndex(), "the mock's AllocateNextAddress bumps the in-memory wallet; only the database transaction rolls the index back")
}

func TestGetStatus_NotFoundForWrongMerchant(t *testing.T) {
	w := newActiveWallet(t)
	walletRepo := &mockWalletRepo{active: w}
	s, payments := newServiceUnderTest(t, walletRepo, &mockDeriver{}, &mockWebhookEnqueuer{})

	amount, _ := vo.NewMoneyFromString("10", "USDT")
	created, err := s.Create(context.Background(), 1, CreateInput{OrderID: "order-4", Amount: amount})
	require.NoError(t, err)
	_ = payments

	_, err = s.GetStatus(context.Background(), 2, created.Payment.ID())
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestCancel_OnlyFromPending(t *testing.T) {
	w := newActiveWallet(t)
	walletRepo := &mockWalletRepo{active: w}
	s, _ := newServiceUnderTest(t, walletRepo, &mockDeriver{}, &mockWebhookEnqueuer{})

	amount, _ := vo.NewMoneyFromString("10", "USDT")
	created, err := s.Create(context.Background(), 1, CreateInput{OrderID: "order-5", Amount: amount})
	require.NoError(t, err)

	canceled, err := s.Cancel(context.Background(), 1, created.Payment.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.PaymentStatusFailed, canceled.Status())

	_, err = s.Cancel(context.Background(), 1, created.Payment.ID())
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestResendWebhook_OnlyForConfirmedPayments(t *testing.T) {
	w := newActiveWallet(t)
	walletRepo := &mockWalletRepo{active: w}
	webhooks := &mockWebhookEnqueuer{}
	s, payments := newServiceUnderTest(t, walletRepo, &mockDeriver{}, webhooks)

	amount, _ := vo.NewMoneyFromString("10", "USDT")
	created, err := s.Create(context.Background(), 1, CreateInput{OrderID: "order-6", Amount: amount})
	require.NoError(t, err)

	err = s.ResendWebhook(context.Background(), 1, created.Payment.ID())
	require.Error(t, err, "a pending payment has nothing to resend")

	require.NoError(t, created.Payment.Confirm(time.Now().UTC()))
	payments.byID[created.Payment.ID()] = created.Payment

	require.NoError(t, s.ResendWebhook(context.Background(), 1, created.Payment.ID()))
	require.Len(t, webhooks.enqueued, 1)
	assert.Equal(t, created.Payment.ID(), webhooks.enqueued[0])
}
