package payment

import (
	"fmt"

	"context"

	"paykript/internal/domain/payment"
	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/domain/wallet"
	"paykript/internal/shared/db"
	apperrors "paykript/internal/shared/errors"
	"paykript/internal/shared/logger"
)

import "time"

// CreateInput is the merchant's payment-creation request.
type CreateInput struct {
	OrderID       string
	Amount        vo.Money
	WebhookURL    *string
	CustomerEmail *string
	Notes         *string
}

// CreateResult bundles the persisted request with the QR payment URI,
// matching the spec's "row plus a payment URI suitable for QR rendering".
type CreateResult struct {
	Payment *payment.PaymentRequest
	QRURI   string
}

// Service implements spec component 4.F.
type Service struct {
	payments       payment.Repository
	wallets        wallet.Repository
	deriver        AddressDeriver
	webhooks       WebhookEnqueuer
	txManager      *db.TransactionManager
	timeout        time.Duration
	usdtContract   string
	logger         logger.Interface
}

func NewService(
	payments payment.Repository,
	wallets wallet.Repository,
	deriver AddressDeriver,
	webhooks WebhookEnqueuer,
	txManager *db.TransactionManager,
	paymentTimeout time.Duration,
	usdtContract string,
	log logger.Interface,
) *Service {
	return &Service{
		payments:     payments,
		wallets:      wallets,
		deriver:      deriver,
		webhooks:     webhooks,
		txManager:    txManager,
		timeout:      paymentTimeout,
		usdtContract: usdtContract,
		logger:       log,
	}
}

// Create allocates the next address index on the merchant's active wallet,
// derives the deposit address, and persists a PENDING payment request — all
// within one transaction, so a derivation failure or any other error rolls
// back the allocated index as well. Never persists a payment with a
// placeholder address.
func (s *Service) Create(ctx context.Context, merchantID uint, in CreateInput) (*CreateResult, error) {
	var result *CreateResult

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		activeWallet, err := s.wallets.GetActiveByMerchant(ctx, merchantID)
		if err != nil {
			return err
		}
		if activeWallet == nil {
			return apperrors.NewNoActiveWalletError()
		}

		index, lockedWallet, err := s.wallets.AllocateNextAddress(ctx, activeWallet.ID())
		if err != nil {
			return err
		}
		if lockedWallet == nil {
			return apperrors.NewNoActiveWalletError()
		}

		address, err := s.deriver.Derive(lockedWallet.XPub(), index, lockedWallet.DerivationPrefix())
		if err != nil {
			// AddressDerivationError aborts the transaction; the allocated
			// index is rolled back with it, so it is never orphaned.
			return err
		}

		p, err := payment.NewPaymentRequest(
			merchantID, lockedWallet.ID(), in.OrderID, in.Amount,
			address, index, s.timeout,
			in.WebhookURL, in.CustomerEmail, in.Notes,
		)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}

		if err := s.payments.Create(ctx, p); err != nil {
			return err
		}

		result = &CreateResult{
			Payment: p,
			QRURI:   s.qrURI(address, in.Amount),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("payment request created",
		"merchant_id", merchantID, "payment_id", result.Payment.ID(), "order_id", result.Payment.OrderID())
	return result, nil
}

// qrURI builds the TronLink-style payment URI for QR rendering.
func (s *Service) qrURI(address string, amount vo.Money) string {
	return fmt.Sprintf("tronlink://pay?address=%s&amount=%s&token=%s", address, amount.String(), s.usdtContract)
}

// GetStatus fetches a payment by id, scoped to the caller's merchant.
func (s *Service) GetStatus(ctx context.Context, merchantID, id uint) (*payment.PaymentRequest, error) {
	p, err := s.payments.GetByID(ctx, merchantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("payment request not found")
	}
	return p, nil
}

// GetByOrderID fetches a payment by the merchant's own order id.
func (s *Service) GetByOrderID(ctx context.Context, merchantID uint, orderID string) (*payment.PaymentRequest, error) {
	p, err := s.payments.GetByOrderID(ctx, merchantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("payment request not found")
	}
	return p, nil
}

// List returns a paginated, optionally status-filtered view of a merchant's
// payment requests.
func (s *Service) List(ctx context.Context, filter payment.ListFilter) ([]*payment.PaymentRequest, int64, error) {
	payments, total, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}

// GetStats returns the merchant's aggregate payment stats for the dashboard.
func (s *Service) GetStats(ctx context.Context, merchantID uint, now time.Time) (payment.Stats, error) {
	stats, err := s.payments.GetStats(ctx, merchantID, now)
	if err != nil {
		return payment.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// QR returns the deposit address, amount, and the TronLink payment URI built
// by qrURI, for the /payments/qr/{id} endpoint. It renders no image; the
// returned URI is not an image data URI.
func (s *Service) QR(ctx context.Context, merchantID, id uint) (address string, amount vo.Money, qrURI string, err error) {
	p, err := s.GetStatus(ctx, merchantID, id)
	if err != nil {
		return "", vo.Money{}, "", err
	}
	return p.Address(), p.Amount(), s.qrURI(p.Address(), p.Amount()), nil
}

// Cancel transitions PENDING -> FAILED. Any other state is a client error
// per the payment service's cancel contract.
func (s *Service) Cancel(ctx context.Context, merchantID, id uint) (*payment.PaymentRequest, error) {
	p, err := s.GetStatus(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	if p.Status() != vo.PaymentStatusPending {
		return nil, apperrors.NewConflictError("cannot cancel a payment that is not pending")
	}
	if err := p.Cancel(); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to cancel payment: %w", err)
	}
	return p, nil
}

// ResendWebhook re-triggers delivery for an already-confirmed payment — the
// spec's "second, manually triggered resend ... permitted for
// already-confirmed payments".
func (s *Service) ResendWebhook(ctx context.Context, merchantID, id uint) error {
	p, err := s.GetStatus(ctx, merchantID, id)
	if err != nil {
		return err
	}
	if p.Status() != vo.PaymentStatusConfirmed {
		return apperrors.NewConflictError("can only resend webhooks for confirmed payments")
	}
	s.webhooks.Enqueue(ctx, p.ID())
	return nil
}
