package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"paykript/internal/domain/chaintx"
	"paykript/internal/domain/payment"
	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/shared/biztime"
	"paykript/internal/shared/goroutine"
	"paykript/internal/shared/logger"
)

// outboundRateLimit bounds how many webhook POSTs (across every in-flight
// delivery goroutine) this instance sends per second, so a backlog of
// confirmations all landing in the same tick doesn't hammer a merchant's
// endpoint with a burst of concurrent deliveries.
const outboundRateLimit = 20

// retryDelays holds the pause before each retry attempt. Per the dispatch
// contract, up to 3 attempts are made against a back-off schedule of
// {1s, 5s, 15s} between attempts; with exactly 3 attempts there are only 2
// gaps to wait out (before attempt 2 and attempt 3), so the schedule's
// third value is never consumed by this loop — it documents the spacing a
// 4th attempt would use, not a bug.
var retryDelays = []time.Duration{0, 1 * time.Second, 5 * time.Second}

const maxAttempts = 3

// eventType is the only event this dispatcher currently emits.
const eventType = "payment.confirmed"

// Dispatcher implements the signed-delivery webhook dispatcher (spec
// component 4.E). Enqueue launches one delivery attempt loop per call in
// its own goroutine, matching the "per-event tasks" scheduling model.
type Dispatcher struct {
	payments    payment.Repository
	chaintxs    chaintx.Repository
	poster      Poster
	secret      string
	timeout     time.Duration
	testTimeout time.Duration
	limiter     *rate.Limiter
	logger      logger.Interface
}

func NewDispatcher(
	payments payment.Repository,
	chaintxs chaintx.Repository,
	poster Poster,
	secret string,
	timeout, testTimeout time.Duration,
	log logger.Interface,
) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if testTimeout <= 0 {
		testTimeout = 15 * time.Second
	}
	return &Dispatcher{
		payments:    payments,
		chaintxs:    chaintxs,
		limiter:     rate.NewLimiter(rate.Limit(outboundRateLimit), outboundRateLimit),
		poster:      poster,
		secret:      secret,
		timeout:     timeout,
		testTimeout: testTimeout,
		logger:      log,
	}
}

// Enqueue fetches the payment and its matching chain transaction and runs
// the retry loop in a panic-safe background goroutine, detached from the
// caller's request context so a delivered HTTP response never cancels
// in-flight retries.
func (d *Dispatcher) Enqueue(ctx context.Context, paymentID uint) {
	goroutine.SafeGo(d.logger, "webhook-dispatch", func() {
		d.deliver(context.Background(), paymentID)
	})
}

func (d *Dispatcher) deliver(ctx context.Context, paymentID uint) {
	p, err := d.payments.GetByIDUnscoped(ctx, paymentID)
	if err != nil {
		d.logger.Errorw("webhook: failed to load payment", "payment_id", paymentID, "error", err)
		return
	}
	if p == nil {
		d.logger.Warnw("webhook: payment not found", "payment_id", paymentID)
		return
	}
	if p.WebhookURL() == nil || *p.WebhookURL() == "" {
		return
	}
	if p.Status() != vo.PaymentStatusConfirmed {
		// The dispatcher only ever sends payment.confirmed events; a
		// payment that has since been re-queried in a different state
		// (should not happen, but cheap to guard) is skipped.
		d.logger.Warnw("webhook: skipping non-confirmed payment", "payment_id", paymentID, "status", p.Status())
		return
	}

	tx, err := d.latestConfirmedTx(ctx, paymentID)
	if err != nil {
		d.logger.Warnw("webhook: failed to load chain transaction", "payment_id", paymentID, "error", err)
	}

	body, headers, err := d.sign(p, tx)
	if err != nil {
		d.logger.Errorw("webhook: failed to build payload", "payment_id", paymentID, "error", err)
		return
	}

	d.attemptDelivery(ctx, p, *p.WebhookURL(), body, headers)
}

func (d *Dispatcher) latestConfirmedTx(ctx context.Context, paymentID uint) (*chaintx.ChainTransaction, error) {
	txs, err := d.chaintxs.ListByPaymentRequest(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	for i := len(txs) - 1; i >= 0; i-- {
		if txs[i].Status() == chaintx.StatusConfirmed {
			return txs[i], nil
		}
	}
	if len(txs) > 0 {
		return txs[len(txs)-1], nil
	}
	return nil, nil
}

// sign builds the canonical payload bytes and the headers whose signature
// covers those exact bytes.
func (d *Dispatcher) sign(p *payment.PaymentRequest, tx *chaintx.ChainTransaction) ([]byte, map[string]string, error) {
	now := biztime.NowUTC()
	payload := buildPayload(p, tx, now)
	body, err := marshalCanonical(payload)
	if err != nil {
		return nil, nil, err
	}

	mac := hmac.New(sha256.New, []byte(d.secret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	headers := map[string]string{
		"Content-Type":            "application/json",
		"X-PayKript-Signature":    "sha256=" + signature,
		"X-PayKript-Event":        eventType,
		"X-PayKript-Timestamp":    now.UTC().Format(time.RFC3339),
		"User-Agent":              "PayKript-Webhook/1.0",
	}
	return body, headers, nil
}

// attemptDelivery runs up to maxAttempts POSTs, recording every attempt via
// UpdateWebhookState, and stops as soon as one succeeds.
func (d *Dispatcher) attemptDelivery(ctx context.Context, p *payment.PaymentRequest, url string, body []byte, headers map[string]string) {
	attempts := p.WebhookAttempts()
	sent := p.WebhookSent()

	for i := 0; i < maxAttempts; i++ {
		if retryDelays[i] > 0 {
			time.Sleep(retryDelays[i])
		}

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		if err := d.limiter.Wait(callCtx); err != nil {
			cancel()
			d.logger.Warnw("webhook: rate limiter wait aborted", "payment_id", p.ID(), "error", err)
			continue
		}
		status, err := d.poster.Post(callCtx, url, headers, body)
		cancel()

		success := err == nil && status >= 200 && status < 300
		attempts++
		if success {
			sent = true
		}

		if updateErr := d.payments.UpdateWebhookState(ctx, p.ID(), attempts, sent); updateErr != nil {
			d.logger.Errorw("webhook: failed to record delivery attempt",
				"payment_id", p.ID(), "attempt", attempts, "error", updateErr)
		}

		if success {
			d.logger.Infow("webhook delivered", "payment_id", p.ID(), "order_id", p.OrderID(), "attempt", attempts)
			return
		}

		d.logger.Warnw("webhook delivery attempt failed",
			"payment_id", p.ID(), "order_id", p.OrderID(), "attempt", attempts, "status", status, "error", err)
	}

	d.logger.Errorw("webhook delivery exhausted all attempts",
		"payment_id", p.ID(), "order_id", p.OrderID(), "attempts", attempts)
}

// SendTest sends a synthetic payload directly to url, bypassing the
// payment lookup and retry loop, for the dashboard's "test this webhook
// URL" action. It uses the shorter test timeout and never records
// bookkeeping, since no real payment backs it.
func (d *Dispatcher) SendTest(ctx context.Context, url string) (statusCode int, err error) {
	now := biztime.NowUTC()
	payload := map[string]interface{}{
		"event": "payment.test",
		"data": map[string]interface{}{
			"message": "this is a test webhook from PayKript",
		},
		"timestamp": now.UTC().Format(time.RFC3339),
		"version":   payloadVersion,
	}
	body, err := marshalCanonical(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to build test payload: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(d.secret))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	headers := map[string]string{
		"Content-Type":         "application/json",
		"X-PayKript-Signature": "sha256=" + signature,
		"X-PayKript-Event":     "payment.test",
		"X-PayKript-Timestamp": now.UTC().Format(time.RFC3339),
		"User-Agent":           "PayKript-Webhook/1.0",
	}

	callCtx, cancel := context.WithTimeout(ctx, d.testTimeout)
	defer cancel()
	return d.poster.Post(callCtx, url, headers, body)
}
