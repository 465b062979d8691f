package models

import (
	"time"

	"github.com/shopspring/decimal"

	"paykript/internal/shared/constants"
)

// ChainTransactionModel is the persisted row for a chaintx.ChainTransaction
// aggregate. TxHash is globally unique: at most one row links to any given
// on-chain transaction.
type ChainTransactionModel struct {
	ID               uint            `gorm:"primarykey"`
	PaymentRequestID uint            `gorm:"not null;index"`
	TxHash           string          `gorm:"type:varchar(191);not null;uniqueIndex"`
	FromAddress      string          `gorm:"column:from_address;type:varchar(64)"`
	ToAddress        string          `gorm:"column:to_address;type:varchar(64);index"`
	Amount           decimal.Decimal `gorm:"type:decimal(24,6);not null"`
	Currency         string          `gorm:"type:varchar(8);not null;default:USDT"`
	Network          string          `gorm:"type:varchar(32);not null"`
	Contract         string          `gorm:"type:varchar(64)"`
	BlockNumber      *uint64
	BlockTimestamp   *time.Time
	Confirmations    int    `gorm:"not null;default:0"`
	Status           string `gorm:"type:varchar(16);not null;index"`
	DetectedAt       time.Time
	ConfirmedAt      *time.Time
}

func (ChainTransactionModel) TableName() string {
	return constants.TableChainTransactions
}
