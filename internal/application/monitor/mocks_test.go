package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"paykript/internal/application/payment/chainclient"
	"paykript/internal/domain/chaintx"
	"paykript/internal/domain/payment"
	sharedevents "paykript/internal/domain/shared/events"
	"paykript/internal/shared/logger"
)

type mockPaymentRepo struct {
	mu sync.Mutex

	open    []*payment.PaymentRequest
	expired []*payment.PaymentRequest

	UpdateFunc func(ctx context.Context, p *payment.PaymentRequest) error
	updates    []*payment.PaymentRequest
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *payment.PaymentRequest) error { return nil }

func (m *mockPaymentRepo) Update(ctx context.Context, p *payment.PaymentRequest) error {
	m.mu.Lock()
	m.updates = append(m.updates, p)
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockPaymentRepo) UpdateWebhookState(ctx context.Context, id uint, attempts int, sent bool) error {
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, merchantID, id uint) (*payment.PaymentRequest, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetByOrderID(ctx context.Context, merchantID uint, orderID string) (*payment.PaymentRequest, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetByIDUnscoped(ctx context.Context, id uint) (*payment.PaymentRequest, error) {
	return nil, nil
}

func (m *mockPaymentRepo) List(ctx context.Context, filter payment.ListFilter) ([]*payment.PaymentRequest, int64, error) {
	return nil, 0, nil
}

func (m *mockPaymentRepo) GetStats(ctx context.Context, merchantID uint, now time.Time) (payment.Stats, error) {
	return payment.Stats{}, nil
}

func (m *mockPaymentRepo) ListOpenPayments(ctx context.Context, now time.Time) ([]*payment.PaymentRequest, error) {
	return m.open, nil
}

func (m *mockPaymentRepo) ListExpiredOpenPayments(ctx context.Context, now time.Time) ([]*payment.PaymentRequest, error) {
	return m.expired, nil
}

func (m *mockPaymentRepo) HasOpenPaymentsForWallet(ctx context.Context, walletID uint) (bool, error) {
	return false, nil
}

func (m *mockPaymentRepo) updateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

type mockChainTxRepo struct {
	mu sync.Mutex

	UpsertFunc func(ctx context.Context, tx *chaintx.ChainTransaction) (*chaintx.ChainTransaction, bool, error)

	confirmedIDs []uint
}

func (m *mockChainTxRepo) Upsert(ctx context.Context, tx *chaintx.ChainTransaction) (*chaintx.ChainTransaction, bool, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx)
	}
	return tx, true, nil
}

func (m *mockChainTxRepo) GetByTxHash(ctx context.Context, txHash string) (*chaintx.ChainTransaction, error) {
	return nil, nil
}

func (m *mockChainTxRepo) ListByPaymentRequest(ctx context.Context, paymentRequestID uint) ([]*chaintx.ChainTransaction, error) {
	return nil, nil
}

func (m *mockChainTxRepo) Confirm(ctx context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	m.confirmedIDs = append(m.confirmedIDs, id)
	m.mu.Unlock()
	return nil
}

type mockChainClient struct {
	mu sync.Mutex

	ListTRC20TransfersFunc func(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error)
	calls                  int
}

func (m *mockChainClient) ListTRC20Transfers(ctx context.Context, address, contract string, limit int) ([]chainclient.TransferObservation, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.ListTRC20TransfersFunc != nil {
		return m.ListTRC20TransfersFunc(ctx, address, contract, limit)
	}
	return nil, nil
}

func (m *mockChainClient) GetTransaction(ctx context.Context, txHash string) (*chainclient.TransactionDetail, error) {
	return nil, nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published []sharedevents.DomainEvent
}

func (m *mockPublisher) Publish(event sharedevents.DomainEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	m.mu.Unlock()
	return nil
}

func (m *mockPublisher) PublishAll(events []sharedevents.DomainEvent) error {
	for _, e := range events {
		_ = m.Publish(e)
	}
	return nil
}

func (m *mockPublisher) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.GetEventType())
	}
	return out
}

type mockWebhookEnqueuer struct {
	mu      sync.Mutex
	enqueued []uint
}

func (m *mockWebhookEnqueuer) Enqueue(ctx context.Context, paymentID uint) {
	m.mu.Lock()
	m.enqueued = append(m.enqueued, paymentID)
	m.mu.Unlock()
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
