// Package chainclient defines the Chain Client contract (spec component
// 4.B): a typed wrapper over the upstream TRC-20 indexer.
package chainclient

import (
	"context"
	"time"
)

// TransferObservation is one TRC-20 transfer as reported by the indexer.
// RawAmount is in the token's base unit (USDT has 6 decimals).
type TransferObservation struct {
	TxHash        string
	From          string
	To            string
	RawAmount     uint64
	Contract      string
	BlockNumber   *uint64
	TimestampMS   *int64
	Confirmations int
}

// TransactionDetail is the result of a direct transaction hash lookup.
type TransactionDetail struct {
	TxHash        string
	From          string
	To            string
	RawAmount     uint64
	Contract      string
	BlockNumber   uint64
	Confirmations int
	Status        string
}

// Client wraps the upstream TRC-20 indexer. Implementations must time out
// each call at 30s and tolerate transient outages by returning an empty
// result rather than propagating an error the monitor would have to retry
// mid-tick.
type Client interface {
	// ListTRC20Transfers returns observed transfers to address for the given
	// contract. On upstream failure, returns an empty slice and a nil
	// error — the monitor retries on its next tick.
	ListTRC20Transfers(ctx context.Context, address, contract string, limit int) ([]TransferObservation, error)

	// GetTransaction fetches a single transaction by hash. Returns nil,
	// nil if not found or the upstream call fails.
	GetTransaction(ctx context.Context, txHash string) (*TransactionDetail, error)
}

// CallTimeout is the per-call timeout the client enforces, per spec §4.B/§5.
const CallTimeout = 30 * time.Second
