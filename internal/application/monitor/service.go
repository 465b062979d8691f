package monitor

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"paykript/internal/application/payment/chainclient"
	"paykript/internal/domain/chaintx"
	"paykript/internal/domain/payment"
	"paykript/internal/domain/payment/events"
	vo "paykript/internal/domain/payment/valueobjects"
	sharedevents "paykript/internal/domain/shared/events"
	"paykript/internal/shared/biztime"
	"paykript/internal/shared/db"
	"paykript/internal/shared/logger"
)

// tickConcurrency bounds how many payments are checked against the chain
// client at once within a single tick, so a large open-payment backlog
// doesn't open hundreds of simultaneous upstream requests.
const tickConcurrency = 8

// transferScanLimit bounds how many recent transfers are pulled per address
// on each tick; a deposit address only ever receives the one expected
// transfer, so this is generous headroom rather than a tuning knob.
const transferScanLimit = 20

// Config carries the tick-independent settings the monitor needs from the
// upstream chain configuration.
type Config struct {
	USDTContract          string
	RequiredConfirmations int
}

// Service implements the blockchain reconciliation loop (spec component
// 4.D). Execute is safe to call repeatedly from a single scheduler
// goroutine; it is not safe to call concurrently with itself.
type Service struct {
	payments  payment.Repository
	chaintxs  chaintx.Repository
	chain     chainclient.Client
	publisher sharedevents.EventPublisher
	webhooks  WebhookEnqueuer
	txManager *db.TransactionManager
	cfg       Config
	logger    logger.Interface

	executeMu sync.Mutex
}

func NewService(
	payments payment.Repository,
	chaintxs chaintx.Repository,
	chain chainclient.Client,
	publisher sharedevents.EventPublisher,
	webhooks WebhookEnqueuer,
	txManager *db.TransactionManager,
	cfg Config,
	log logger.Interface,
) *Service {
	return &Service{
		payments:  payments,
		chaintxs:  chaintxs,
		chain:     chain,
		publisher: publisher,
		webhooks:  webhooks,
		txManager: txManager,
		cfg:       cfg,
		logger:    log,
	}
}

// Execute runs one reconciliation pass: a confirmation scan over every open
// and just-expired payment, followed by an expiry pass over whichever of the
// just-expired payments are still unconfirmed afterward. Ordering matters —
// a payment that has already run past its deadline must still be confirmed
// if a matching transfer shows up before the expiry pass runs, so the
// confirmation scan covers both sets before any payment is expired.
//
// A non-nil return means the whole tick failed outright (the store itself
// is unreachable) as opposed to a single payment's upstream or persistence
// error, which is isolated and swallowed per-payment. The scheduler backs
// off before the next tick when this returns an error.
func (s *Service) Execute(ctx context.Context) error {
	s.executeMu.Lock()
	defer s.executeMu.Unlock()

	now := biztime.NowUTC()

	open, err := s.payments.ListOpenPayments(ctx, now)
	if err != nil {
		s.logger.Errorw("monitor: failed to list open payments", "error", err)
		return err
	}
	expired, err := s.payments.ListExpiredOpenPayments(ctx, now)
	if err != nil {
		s.logger.Errorw("monitor: failed to list expired-open payments", "error", err)
		return err
	}

	candidates := make([]*payment.PaymentRequest, 0, len(open)+len(expired))
	candidates = append(candidates, open...)
	candidates = append(candidates, expired...)

	// Per-payment checks fan out concurrently and join here before the
	// expiry pass runs, per the "fans out ... within a tick and joins
	// before sleeping" scheduling model. errgroup carries no error back to
	// the caller — each goroutine logs and swallows its own failure — so
	// one payment's upstream or persistence failure never aborts the tick
	// for the rest.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tickConcurrency)
	for _, p := range candidates {
		p := p
		g.Go(func() error {
			if err := s.checkPayment(gctx, p); err != nil {
				s.logger.Warnw("monitor: failed to check payment",
					"payment_id", p.ID(), "order_id", p.OrderID(), "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, p := range expired {
		if p.Status() != vo.PaymentStatusPending {
			// Confirmed during the scan above; never overridden by expiry.
			continue
		}
		if err := s.expirePayment(ctx, p); err != nil {
			s.logger.Warnw("monitor: failed to expire payment",
				"payment_id", p.ID(), "order_id", p.OrderID(), "error", err)
			continue
		}
	}
	return nil
}

// checkPayment looks for a matching transfer to p's deposit address and
// confirms p if one meets the configured confirmation threshold.
func (s *Service) checkPayment(ctx context.Context, p *payment.PaymentRequest) error {
	transfers, err := s.chain.ListTRC20Transfers(ctx, p.Address(), s.cfg.USDTContract, transferScanLimit)
	if err != nil {
		return err
	}

	for _, t := range transfers {
		if t.To != p.Address() || t.Contract != s.cfg.USDTContract {
			continue
		}
		observed, err := vo.MoneyFromRaw(t.RawAmount, "USDT")
		if err != nil {
			s.logger.Warnw("monitor: skipping malformed transfer amount",
				"payment_id", p.ID(), "tx_hash", t.TxHash, "error", err)
			continue
		}
		if !observed.WithinTolerance(p.Amount()) {
			continue
		}

		ct, err := chaintx.NewChainTransaction(
			p.ID(), t.TxHash, t.From, t.To, observed, "TRON", t.Contract, t.BlockNumber, t.Confirmations,
		)
		if err != nil {
			return err
		}
		ct.RefreshConfirmations(t.Confirmations, t.BlockNumber)

		stored, _, err := s.chaintxs.Upsert(ctx, ct)
		if err != nil {
			return err
		}

		if !stored.MeetsConfirmationThreshold(s.cfg.RequiredConfirmations) {
			// Seen but not yet confirmed enough; retried on the next tick.
			return nil
		}
		if p.Status() != vo.PaymentStatusPending {
			return nil
		}

		return s.confirmPayment(ctx, p, stored)
	}
	return nil
}

// confirmPayment transitions p to CONFIRMED and the matching chain
// transaction to CONFIRMED within a single transaction, then publishes the
// domain event and hands the payment to the webhook dispatcher once the
// transaction has committed.
func (s *Service) confirmPayment(ctx context.Context, p *payment.PaymentRequest, ct *chaintx.ChainTransaction) error {
	now := biztime.NowUTC()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := p.Confirm(now); err != nil {
			return err
		}
		if err := s.payments.Update(ctx, p); err != nil {
			return err
		}
		return s.chaintxs.Confirm(ctx, ct.ID(), now)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("payment confirmed",
		"payment_id", p.ID(), "order_id", p.OrderID(), "tx_hash", ct.TxHash())

	if s.publisher != nil {
		event := events.NewPaymentConfirmedEvent(p.ID(), p.MerchantID(), p.OrderID(), p.Amount(), ct.TxHash())
		if err := s.publisher.Publish(event); err != nil {
			s.logger.Warnw("monitor: failed to publish payment.confirmed", "payment_id", p.ID(), "error", err)
		}
	}
	if s.webhooks != nil {
		s.webhooks.Enqueue(ctx, p.ID())
	}
	return nil
}

// expirePayment transitions p to EXPIRED and publishes the domain event.
func (s *Service) expirePayment(ctx context.Context, p *payment.PaymentRequest) error {
	if err := p.Expire(); err != nil {
		return err
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return err
	}

	s.logger.Infow("payment expired", "payment_id", p.ID(), "order_id", p.OrderID())

	if s.publisher != nil {
		event := events.NewPaymentExpiredEvent(p.ID(), p.MerchantID(), p.OrderID())
		if err := s.publisher.Publish(event); err != nil {
			s.logger.Warnw("monitor: failed to publish payment.expired", "payment_id", p.ID(), "error", err)
		}
	}
	return nil
}
