// Package models holds the GORM row types for the Store Gateway. Each model
// is mapped to and from its domain aggregate by the sibling mappers package;
// nothing outside infrastructure/repository should import this package.
package models

import (
	"time"

	"paykript/internal/shared/constants"
)

// MerchantModel is the persisted row for a merchant.Merchant aggregate.
type MerchantModel struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MerchantModel) TableName() string {
	return constants.TableMerchants
}

// APICredentialModel is the persisted row for a merchant.APICredential
// aggregate.
type APICredentialModel struct {
	ID         uint   `gorm:"primarykey"`
	MerchantID uint   `gorm:"not null;index"`
	PublicID   string `gorm:"type:varchar(64);not null;uniqueIndex"`
	SecretHash string `gorm:"type:varchar(255);not null"`
	Active     bool   `gorm:"not null;default:true"`
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (APICredentialModel) TableName() string {
	return constants.TableAPICredentials
}
