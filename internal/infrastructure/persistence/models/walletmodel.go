package models

import (
	"time"

	"paykript/internal/shared/constants"
)

// WalletModel is the persisted row for a wallet.Wallet aggregate.
type WalletModel struct {
	ID               uint   `gorm:"primarykey"`
	MerchantID       uint   `gorm:"not null;index"`
	Name             string `gorm:"type:varchar(255);not null"`
	XPub             string `gorm:"type:varchar(512);not null"`
	Network          string `gorm:"type:varchar(32);not null"`
	DerivationPrefix string `gorm:"type:varchar(64)"`
	AddressIndex     uint32 `gorm:"not null;default:0"`
	Active           bool   `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (WalletModel) TableName() string {
	return constants.TableWallets
}
