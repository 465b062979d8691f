// Package payment holds the PaymentRequest aggregate: a merchant's request
// for a customer to deposit USDT at a derived TRON address, and its
// lifecycle through PENDING -> {CONFIRMED, EXPIRED, FAILED}.
package payment

import (
	"fmt"
	"time"

	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/shared/biztime"
)

// PaymentRequest is created once by the payment service and thereafter
// mutated only by the monitor (status/confirmed_at) or the webhook
// dispatcher (webhook bookkeeping). It is never deleted while it carries
// linked chain transactions.
type PaymentRequest struct {
	id            uint
	merchantID    uint
	walletID      uint
	orderID       string
	amount        vo.Money
	address       string
	addressIndex  uint32
	status        vo.PaymentStatus
	expiresAt     time.Time
	confirmedAt   *time.Time

	webhookURL      *string
	webhookSent     bool
	webhookAttempts int

	customerEmail *string
	notes         *string
	metadata      map[string]interface{}

	version   int
	createdAt time.Time
	updatedAt time.Time
}

// NewPaymentRequest constructs a fresh PENDING payment request. The caller
// (the payment service) is responsible for having already allocated
// addressIndex and derived address within the same transaction.
func NewPaymentRequest(merchantID, walletID uint, orderID string, amount vo.Money, address string, addressIndex uint32, timeout time.Duration, webhookURL, customerEmail, notes *string) (*PaymentRequest, error) {
	if merchantID == 0 {
		return nil, fmt.Errorf("merchant ID is required")
	}
	if walletID == 0 {
		return nil, fmt.Errorf("wallet ID is required")
	}
	if orderID == "" {
		return nil, fmt.Errorf("order ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}

	now := biztime.NowUTC()
	return &PaymentRequest{
		merchantID:   merchantID,
		walletID:     walletID,
		orderID:      orderID,
		amount:       amount,
		address:      address,
		addressIndex: addressIndex,
		status:       vo.PaymentStatusPending,
		expiresAt:    now.Add(timeout),
		webhookURL:   webhookURL,
		customerEmail: customerEmail,
		notes:         notes,
		metadata:      make(map[string]interface{}),
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Confirm transitions PENDING -> CONFIRMED. Idempotent: a second call on an
// already-confirmed payment is a no-op. On an EXPIRED or FAILED payment the
// state is left unchanged and an error is returned.
func (p *PaymentRequest) Confirm(at time.Time) error {
	if p.status == vo.PaymentStatusConfirmed {
		return nil
	}
	if p.status.IsFinal() {
		return fmt.Errorf("cannot confirm payment with final status %s", p.status)
	}
	p.status = vo.PaymentStatusConfirmed
	p.confirmedAt = &at
	p.updatedAt = at
	p.version++
	return nil
}

// Expire transitions PENDING -> EXPIRED. No-op on any other state; expiry
// never overrides a confirmation.
func (p *PaymentRequest) Expire() error {
	if p.status.IsFinal() {
		return nil
	}
	p.status = vo.PaymentStatusExpired
	p.updatedAt = biztime.NowUTC()
	p.version++
	return nil
}

// Cancel transitions PENDING -> FAILED. Cancelling an already-FAILED payment
// is a no-op; any other state returns an error.
func (p *PaymentRequest) Cancel() error {
	if p.status == vo.PaymentStatusFailed {
		return nil
	}
	if p.status != vo.PaymentStatusPending {
		return fmt.Errorf("cannot cancel payment with status %s", p.status)
	}
	p.status = vo.PaymentStatusFailed
	p.updatedAt = biztime.NowUTC()
	p.version++
	return nil
}

// RecordWebhookAttempt increments the attempt counter and flips webhookSent
// on the first success, matching record_webhook_attempt's semantics.
func (p *PaymentRequest) RecordWebhookAttempt(success bool) {
	p.webhookAttempts++
	if success {
		p.webhookSent = true
	}
	p.updatedAt = biztime.NowUTC()
}

func (p *PaymentRequest) IsOpen() bool {
	return p.status == vo.PaymentStatusPending && biztime.NowUTC().Before(p.expiresAt)
}

func (p *PaymentRequest) IsExpiredButOpen() bool {
	return p.status == vo.PaymentStatusPending && !biztime.NowUTC().Before(p.expiresAt)
}

func (p *PaymentRequest) ID() uint             { return p.id }
func (p *PaymentRequest) MerchantID() uint     { return p.merchantID }
func (p *PaymentRequest) WalletID() uint       { return p.walletID }
func (p *PaymentRequest) OrderID() string      { return p.orderID }
func (p *PaymentRequest) Amount() vo.Money     { return p.amount }
func (p *PaymentRequest) Address() string      { return p.address }
func (p *PaymentRequest) AddressIndex() uint32 { return p.addressIndex }
func (p *PaymentRequest) Status() vo.PaymentStatus { return p.status }
func (p *PaymentRequest) ExpiresAt() time.Time { return p.expiresAt }
func (p *PaymentRequest) ConfirmedAt() *time.Time { return p.confirmedAt }
func (p *PaymentRequest) WebhookURL() *string  { return p.webhookURL }
func (p *PaymentRequest) WebhookSent() bool    { return p.webhookSent }
func (p *PaymentRequest) WebhookAttempts() int { return p.webhookAttempts }
func (p *PaymentRequest) CustomerEmail() *string { return p.customerEmail }
func (p *PaymentRequest) Notes() *string       { return p.notes }
func (p *PaymentRequest) Metadata() map[string]interface{} { return p.metadata }
func (p *PaymentRequest) Version() int         { return p.version }
func (p *PaymentRequest) CreatedAt() time.Time { return p.createdAt }
func (p *PaymentRequest) UpdatedAt() time.Time { return p.updatedAt }

// SetID sets the identifier after persistence (used by the repository after Create).
func (p *PaymentRequest) SetID(id uint) { p.id = id }

// ReconstructPaymentRequest rehydrates a PaymentRequest from stored state.
func ReconstructPaymentRequest(
	id, merchantID, walletID uint,
	orderID string,
	amount vo.Money,
	address string,
	addressIndex uint32,
	status vo.PaymentStatus,
	expiresAt time.Time,
	confirmedAt *time.Time,
	webhookURL *string,
	webhookSent bool,
	webhookAttempts int,
	customerEmail, notes *string,
	metadata map[string]interface{},
	version int,
	createdAt, updatedAt time.Time,
) *PaymentRequest {
	return &PaymentRequest{
		id:              id,
		merchantID:      merchantID,
		walletID:        walletID,
		orderID:         orderID,
		amount:          amount,
		address:         address,
		addressIndex:    addressIndex,
		status:          status,
		expiresAt:       expiresAt,
		confirmedAt:     confirmedAt,
		webhookURL:      webhookURL,
		webhookSent:     webhookSent,
		webhookAttempts: webhookAttempts,
		customerEmail:   customerEmail,
		notes:           notes,
		metadata:        metadata,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}
