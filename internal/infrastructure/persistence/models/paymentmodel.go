package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"paykript/internal/shared/constants"
)

// PaymentRequestModel is the persisted row for a payment.PaymentRequest
// aggregate. Version backs optimistic locking on concurrent monitor/service
// writers.
type PaymentRequestModel struct {
	ID              uint            `gorm:"primarykey"`
	MerchantID      uint            `gorm:"not null;index"`
	WalletID        uint            `gorm:"not null;index"`
	OrderID         string          `gorm:"type:varchar(191);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(24,6);not null"`
	Currency        string          `gorm:"type:varchar(8);not null;default:USDT"`
	Address         string          `gorm:"type:varchar(64);not null;index"`
	AddressIndex    uint32          `gorm:"not null"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	ExpiresAt       time.Time       `gorm:"not null;index"`
	ConfirmedAt     *time.Time
	WebhookURL      *string `gorm:"type:varchar(2048)"`
	WebhookSent     bool    `gorm:"not null;default:false"`
	WebhookAttempts int     `gorm:"not null;default:0"`
	CustomerEmail   *string `gorm:"type:varchar(255)"`
	Notes           *string `gorm:"type:text"`
	Metadata        datatypes.JSONMap
	Version         int `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PaymentRequestModel) TableName() string {
	return constants.TablePaymentRequests
}
