// Package chaintx holds the ChainTransaction aggregate: an observed TRC-20
// transfer linked to at most one PaymentRequest, keyed globally by tx_hash.
package chaintx

import (
	"fmt"
	"time"

	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/shared/biztime"
)

// Status mirrors the observed transfer's confirmation state. Once
// CONFIRMED, Amount and TxHash are immutable.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusFailed    Status = "FAILED"
)

// ChainTransaction is inserted on first detection of a transfer and updated
// as confirmations accumulate. Upsert is keyed on TxHash, which is globally
// unique: at most one row links to any given on-chain transaction.
type ChainTransaction struct {
	id               uint
	paymentRequestID uint
	txHash           string
	from             string
	to               string
	amount           vo.Money
	network          string
	contract         string
	blockNumber      *uint64
	blockTimestamp   *time.Time
	confirmations    int
	status           Status
	detectedAt       time.Time
	confirmedAt      *time.Time
}

func NewChainTransaction(paymentRequestID uint, txHash, from, to string, amount vo.Money, network, contract string, blockNumber *uint64, confirmations int) (*ChainTransaction, error) {
	if paymentRequestID == 0 {
		return nil, fmt.Errorf("payment request ID is required")
	}
	if txHash == "" {
		return nil, fmt.Errorf("tx hash is required")
	}
	return &ChainTransaction{
		paymentRequestID: paymentRequestID,
		txHash:           txHash,
		from:             from,
		to:               to,
		amount:           amount,
		network:          network,
		contract:         contract,
		blockNumber:      blockNumber,
		confirmations:    confirmations,
		status:           StatusPending,
		detectedAt:       biztime.NowUTC(),
	}, nil
}

// RefreshConfirmations updates the mutable observation fields. A no-op once
// the transaction is CONFIRMED — at that point amount and hash are fixed.
func (c *ChainTransaction) RefreshConfirmations(confirmations int, blockNumber *uint64) {
	if c.status == StatusConfirmed {
		return
	}
	c.confirmations = confirmations
	if blockNumber != nil {
		c.blockNumber = blockNumber
	}
}

// Confirm flips the transaction to CONFIRMED, required confirmations met.
func (c *ChainTransaction) Confirm(at time.Time) {
	if c.status == StatusConfirmed {
		return
	}
	c.status = StatusConfirmed
	c.confirmedAt = &at
}

func (c *ChainTransaction) MeetsConfirmationThreshold(required int) bool {
	return c.confirmations >= required
}

func (c *ChainTransaction) ID() uint                      { return c.id }
func (c *ChainTransaction) PaymentRequestID() uint        { return c.paymentRequestID }
func (c *ChainTransaction) TxHash() string                { return c.txHash }
func (c *ChainTransaction) From() string                  { return c.from }
func (c *ChainTransaction) To() string                    { return c.to }
func (c *ChainTransaction) Amount() vo.Money              { return c.amount }
func (c *ChainTransaction) Network() string               { return c.network }
func (c *ChainTransaction) Contract() string              { return c.contract }
func (c *ChainTransaction) BlockNumber() *uint64          { return c.blockNumber }
func (c *ChainTransaction) BlockTimestamp() *time.Time    { return c.blockTimestamp }
func (c *ChainTransaction) Confirmations() int            { return c.confirmations }
func (c *ChainTransaction) Status() Status                { return c.status }
func (c *ChainTransaction) DetectedAt() time.Time         { return c.detectedAt }
func (c *ChainTransaction) ConfirmedAt() *time.Time       { return c.confirmedAt }

func (c *ChainTransaction) SetID(id uint) { c.id = id }

func ReconstructChainTransaction(
	id, paymentRequestID uint,
	txHash, from, to string,
	amount vo.Money,
	network, contract string,
	blockNumber *uint64,
	blockTimestamp *time.Time,
	confirmations int,
	status Status,
	detectedAt time.Time,
	confirmedAt *time.Time,
) *ChainTransaction {
	return &ChainTransaction{
		id:               id,
		paymentRequestID: paymentRequestID,
		txHash:           txHash,
		from:             from,
		to:               to,
		amount:           amount,
		network:          network,
		contract:         contract,
		blockNumber:      blockNumber,
		blockTimestamp:   blockTimestamp,
		confirmations:    confirmations,
		status:           status,
		detectedAt:       detectedAt,
		confirmedAt:      confirmedAt,
	}
}
