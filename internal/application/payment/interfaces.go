// Package payment implements the Payment Service (spec component 4.F): the
// merchant-facing entry point that allocates a deposit address and creates
// a PaymentRequest, plus the read-side queries and manual cancel/resend
// operations bounded by the caller's merchant id.
package payment

import "context"

// AddressDeriver computes the TRON address for a wallet/index pair.
// Satisfied by address.Deriver (spec component 4.A).
type AddressDeriver interface {
	Derive(xpub string, index uint32, prefix string) (string, error)
}

// WebhookEnqueuer hands a confirmed payment off to the dispatcher. Declared
// here so Service can trigger a manual resend without importing the
// dispatcher's retry/signing internals.
type WebhookEnqueuer interface {
	Enqueue(ctx context.Context, paymentID uint)
}
