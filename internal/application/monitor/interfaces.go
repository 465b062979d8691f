// Package monitor implements the blockchain reconciliation loop (spec
// component 4.D): on every tick, it scans open payment requests for a
// matching TRC-20 transfer, confirms those that meet the confirmation
// threshold, and expires any that have run past their timeout unconfirmed.
package monitor

import "context"

// WebhookEnqueuer hands a just-confirmed payment off to the dispatcher.
// Declared locally so the monitor does not import the dispatcher's
// signing/retry internals.
type WebhookEnqueuer interface {
	Enqueue(ctx context.Context, paymentID uint)
}
