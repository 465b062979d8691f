package webhook

import (
	"context"
	"time"

	"go.uber.org/zap"

	"paykript/internal/domain/chaintx"
	"paykript/internal/domain/payment"
	"paykript/internal/shared/logger"
)

type mockPaymentRepo struct {
	GetByIDUnscopedFunc   func(ctx context.Context, id uint) (*payment.PaymentRequest, error)
	UpdateWebhookStateFunc func(ctx context.Context, id uint, attempts int, sent bool) error

	webhookAttempts []bool
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *payment.PaymentRequest) error { return nil }
func (m *mockPaymentRepo) Update(ctx context.Context, p *payment.PaymentRequest) error  { return nil }

func (m *mockPaymentRepo) UpdateWebhookState(ctx context.Context, id uint, attempts int, sent bool) error {
	m.webhookAttempts = append(m.webhookAttempts, sent)
	if m.UpdateWebhookStateFunc != nil {
		return m.UpdateWebhookStateFunc(ctx, id, attempts, sent)
	}
	return nil
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, merchantID, id uint) (*payment.PaymentRequest, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetByOrderID(ctx context.Context, merchantID uint, orderID string) (*payment.PaymentRequest, error) {
	return nil, nil
}

func (m *mockPaymentRepo) GetByIDUnscoped(ctx context.Context, id uint) (*payment.PaymentRequest, error) {
	if m.GetByIDUnscopedFunc != nil {
		return m.GetByIDUnscopedFunc(ctx, id)
	}
	return nil, nil
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

type mockChainTxRepo struct {
	ListByPaymentRequestFunc func(ctx context.Context, paymentRequestID uint) ([]*chaintx.ChainTransaction, error)
}

func (m *mockChainTxRepo) Upsert(ctx context.Context, tx *chaintx.ChainTransaction) (*chaintx.ChainTransaction, bool, error) {
	return tx, false, nil
}

func (m *mockChainTxRepo) GetByTxHash(ctx context.Context, txHash string) (*chaintx.ChainTransaction, error) {
	return nil, nil
}

func (m *mockChainTxRepo) ListByPaymentRequest(ctx context.Context, paymentRequestID uint) ([]*chaintx.ChainTransaction, error) {
	if m.ListByPaymentRequestFunc != nil {
		return m.ListByPaymentRequestFunc(ctx, paymentRequestID)
	}
	return nil, nil
}

func (m *mockChainTxRepo) Confirm(ctx context.Context, id uint, at time.Time) error { return nil }

type postCall struct {
	url     string
	headers map[string]string
	body    []byte
}

type mockPoster struct {
	PostFunc func(ctx context.Context, url string, headers map[string]string, body []byte) (int, error)
	calls    []postCall
}

func (m *mockPoster) Post(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
	m.calls = append(m.calls, postCall{url: url, headers: headers, body: body})
	if m.PostFunc != nil {
		return m.PostFunc(ctx, url, headers, body)
	}
	return 200, nil
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
