package chaintx

import (
	"context"
	"time"
)

// Repository is the Store Gateway's transactional surface over
// ChainTransaction rows.
type Repository interface {
	// Upsert inserts a new row keyed by TxHash, or updates the mutable
	// fields (confirmations, block number, status) of an existing one.
	// Returns the persisted row and whether it was newly inserted.
	Upsert(ctx context.Context, tx *ChainTransaction) (*ChainTransaction, bool, error)
	GetByTxHash(ctx context.Context, txHash string) (*ChainTransaction, error)
	ListByPaymentRequest(ctx context.Context, paymentRequestID uint) ([]*ChainTransaction, error)
	Confirm(ctx context.Context, id uint, at time.Time) error
}
