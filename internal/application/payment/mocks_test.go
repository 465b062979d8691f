package payment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"paykript/internal/domain/payment"
	"paykript/internal/domain/wallet"
	"paykript/internal/shared/logger"
)

type mockPaymentRepo struct {
	CreateFunc func(ctx context.Context, p *payment.PaymentRequest) error

	created []*payment.PaymentRequest
	updated []*payment.PaymentRequest

	byID map[uint]*payment.PaymentRequest
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *payment.PaymentRequest) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, p); err != nil {
			return err
		}
	}
	p.SetID(uint(len(m.created) + 1))
	m.created = append(m.created, p)
	if m.byID == nil {
		m.byID = make(map[uint]*payment.PaymentRequest)
	}
	m.byID[p.ID()] = p
	return nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, p *payment.PaymentRequest) error {
	m.updated = append(m.updated, p)
	return nil
}

func (m *mockPaymentRepo) UpdateWebhookState(ctx context.Context, id uint, attempts int, sent bool) error {
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, merchantID, id uint) (*payment.PaymentRequest, error) {
	p, ok := m.byID[id]
	if !ok || p.MerchantID() != merchantID {
		return nil, nil
	}
	return p, nil
}

func (m *mockPaymentRepo) GetByOrderID(ctx context.Context, merchantID uint, orderID string) (*payment.PaymentRequest, error) {
	for _, p := range m.byID {
		if p.MerchantID() == merchantID && p.OrderID() == orderID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPaymentRepo) GetByIDUnscoped(ctx context.Context, id uint) (*payment.PaymentRequest, error) {
	return m.byID[id], nil
}

func (m *mockPaymentRepo) List(ctx context.Context, filter payment.ListFilter) ([]*payment.PaymentRequest, int64, error) {
	return nil, 0, nil
}

func (m *mockPaymentRepo) GetStats(ctx context.Context, merchantID uint, now time.Time) (payment.Stats, error) {
	return payment.Stats{}, nil
}

func (m *mockPaymentRepo) ListOpenPayments(ctx context.Context, now time.Time) ([]*payment.PaymentRequest, error) {
	return nil, nil
}

func (m *mockPaymentRepo) ListExpiredOpenPayments(ctx context.Context, now time.Time) ([]*payment.PaymentRequest, error) {
	return nil, nil
}

func (m *mockPaymentRepo) HasOpenPaymentsForWallet(ctx context.Context, walletID uint) (bool, error) {
	return false, nil
}

type mockWalletRepo struct {
	active *wallet.Wallet

	AllocateNextAddressFunc func(ctx context.Context, walletID uint) (uint32, *wallet.Wallet, error)
}

func (m *mockWalletRepo) Create(ctx context.Context, w *wallet.Wallet) error { return nil }
func (m *mockWalletRepo) Update(ctx context.Context, w *wallet.Wallet) error { return nil }

func (m *mockWalletRepo) GetByID(ctx context.Context, merchantID, id uint) (*wallet.Wallet, error) {
	return m.active, nil
}

func (m *mockWalletRepo) GetActiveByMerchant(ctx context.Context, merchantID uint) (*wallet.Wallet, error) {
	return m.active, nil
}

func (m *mockWalletRepo) List(ctx context.Context, merchantID uint) ([]*wallet.Wallet, error) {
	return []*wallet.Wallet{m.active}, nil
}

func (m *mockWalletRepo) AllocateNextAddress(ctx context.Context, walletID uint) (uint32, *wallet.Wallet, error) {
	if m.AllocateNextAddressFunc != nil {
		return m.AllocateNextAddressFunc(ctx, walletID)
	}
	idx := m.active.NextIndex()
	return idx, m.active, nil
}

func (m *mockWalletRepo) DeactivateSiblings(ctx context.Context, merchantID, exceptWalletID uint) error {
	return nil
}

type mockDeriver struct {
	DeriveFunc func(xpub string, index uint32, prefix string) (string, error)
}

func (m *mockDeriver) Derive(xpub string, index uint32, prefix string) (string, error) {
	if m.DeriveFunc != nil {
		return m.DeriveFunc(xpub, index, prefix)
	}
	return "TDerivedAddress", nil
}

type mockWebhookEnqueuer struct {
	enqueued []uint
}

func (m *mockWebhookEnqueuer) Enqueue(ctx context.Context, paymentID uint) {
	m.enqueued = append(m.enqueued, paymentID)
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields ...zap.Field) {}
func (m *mockLogger) Info(msg string, fields ...zap.Field)  {}
func (m *mockLogger) Warn(msg string, fields ...zap.Field)  {}
func (m *mockLogger) Error(msg string, fields ...zap.Field) {}
func (m *mockLogger) Fatal(msg string, fields ...zap.Field) {}
func (m *mockLogger) With(fields ...zap.Field) logger.Interface { return m }
func (m *mockLogger) Named(name string) logger.Interface        { return m }

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}
