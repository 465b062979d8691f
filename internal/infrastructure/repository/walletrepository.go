package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paykript/internal/domain/wallet"
	"paykript/internal/infrastructure/persistence/mappers"
	"paykript/internal/infrastructure/persistence/models"
	"paykript/internal/shared/db"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(gdb *gorm.DB) wallet.Repository {
	return &walletRepository{db: gdb}
}

func (r *walletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	row := mappers.WalletToModel(w)
	if err := db.GetTxFromContext(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	w.SetID(row.ID)
	return nil
}

func (r *walletRepository) Update(ctx context.Context, w *wallet.Wallet) error {
	row := mappers.WalletToModel(w)
	return db.GetTxFromContext(ctx, r.db).Save(row).Error
}

func (r *walletRepository) GetByID(ctx context.Context, merchantID, id uint) (*wallet.Wallet, error) {
	var row models.WalletModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("merchant_id = ? AND id = ?", merchantID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.WalletToEntity(&row), nil
}

func (r *walletRepository) GetActiveByMerchant(ctx context.Context, merchantID uint) (*wallet.Wallet, error) {
	var row models.WalletModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("merchant_id = ? AND active = ?", merchantID, true).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.WalletToEntity(&row), nil
}

func (r *walletRepository) List(ctx context.Context, merchantID uint) ([]*wallet.Wallet, error) {
	var rows []models.WalletModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*wallet.Wallet, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.WalletToEntity(&rows[i]))
	}
	return out, nil
}

// AllocateNextAddress locks the wallet row (SELECT ... FOR UPDATE), advances
// its address_index, and persists it in one statement. Called inside the
// payment service's transaction, alongside the payment-request insert, so an
// allocated index is never orphaned by a later failure.
func (r *walletRepository) AllocateNextAddress(ctx context.Context, walletID uint) (uint32, *wallet.Wallet, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var row models.WalletModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, walletID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, nil
		}
		return 0, nil, err
	}

	w := mappers.WalletToEntity(&row)
	index := w.NextIndex()

	if err := tx.Model(&models.WalletModel{}).
		Where("id = ?", walletID).
		Updates(map[string]interface{}{
			"address_index": w.AddressIndex(),
			"updated_at":    w.UpdatedAt(),
		}).Error; err != nil {
		return 0, nil, err
	}

	return index, w, nil
}

// DeactivateSiblings deactivates every other wallet owned by merchantID.
// Called in the same transaction as the target wallet's activation so at
// most one wallet is ever active per merchant.
func (r *walletRepository) DeactivateSiblings(ctx context.Context, merchantID, exceptWalletID uint) error {
	return db.GetTxFromContext(ctx, r.db).Model(&models.WalletModel{}).
		Where("merchant_id = ? AND id != ?", merchantID, exceptWalletID).
		Update("active", false).Error
}
