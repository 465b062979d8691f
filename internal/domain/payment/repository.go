package payment

import (
	"context"
	"time"

	vo "paykript/internal/domain/payment/valueobjects"
)

// ListFilter bounds a merchant's payment list query.
type ListFilter struct {
	MerchantID uint
	Status     *vo.PaymentStatus
	Skip       int
	Limit      int
}

// Stats summarizes a merchant's payment history for the stats endpoint.
type Stats struct {
	Total         int64
	Pending       int64
	Confirmed     int64
	TotalAmount   vo.Money
	TodayCount    int64
}

// Repository is the Store Gateway's transactional surface over
// PaymentRequest rows (spec component 4.C).
type Repository interface {
	Create(ctx context.Context, p *PaymentRequest) error
	Update(ctx context.Context, p *PaymentRequest) error

	// UpdateWebhookState persists webhook_attempts/webhook_sent only. These
	// fields are mutated exclusively by the webhook dispatcher, which never
	// runs two deliveries for the same payment concurrently, so they are
	// written unconditionally rather than through PaymentRequest's
	// version-bumping optimistic lock used by Update.
	UpdateWebhookState(ctx context.Context, id uint, attempts int, sent bool) error

	// GetByID scopes lookups to the caller's merchant; a row owned by
	// another merchant is indistinguishable from NotFound.
	GetByID(ctx context.Context, merchantID, id uint) (*PaymentRequest, error)
	GetByOrderID(ctx context.Context, merchantID uint, orderID string) (*PaymentRequest, error)

	// GetByIDUnscoped looks up a payment request by id with no merchant
	// scoping, for the monitor and webhook dispatcher, which operate across
	// every merchant's payments.
	GetByIDUnscoped(ctx context.Context, id uint) (*PaymentRequest, error)
	List(ctx context.Context, filter ListFilter) ([]*PaymentRequest, int64, error)
	GetStats(ctx context.Context, merchantID uint, now time.Time) (Stats, error)

	// ListOpenPayments returns status=PENDING AND expires_at > now, across
	// all merchants — the monitor's per-tick scan.
	ListOpenPayments(ctx context.Context, now time.Time) ([]*PaymentRequest, error)
	// ListExpiredOpenPayments returns status=PENDING AND expires_at <= now.
	ListExpiredOpenPayments(ctx context.Context, now time.Time) ([]*PaymentRequest, error)

	// HasOpenPaymentsForWallet reports whether walletID has any PENDING
	// payment requests, used to guard wallet deactivation-by-replacement.
	HasOpenPaymentsForWallet(ctx context.Context, walletID uint) (bool, error)
}
