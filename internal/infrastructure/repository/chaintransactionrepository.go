package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"paykript/internal/domain/chaintx"
	"paykript/internal/infrastructure/persistence/mappers"
	"paykript/internal/infrastructure/persistence/models"
	"paykript/internal/shared/db"
)

type chainTransactionRepository struct {
	db *gorm.DB
}

func NewChainTransactionRepository(gdb *gorm.DB) chaintx.Repository {
	return &chainTransactionRepository{db: gdb}
}

// Upsert inserts a new row keyed by TxHash, or refreshes the mutable
// fields (confirmations, block number, status, confirmed_at) of an existing one.
// TxHash carries a unique index, so a duplicate insert attempt instead
// falls through to an update — the monitor may observe the same transfer
// on consecutive ticks.
func (r *chainTransactionRepository) Upsert(ctx context.Context, tx *chaintx.ChainTransaction) (*chaintx.ChainTransaction, bool, error) {
	gdb := db.GetTxFromContext(ctx, r.db)

	var existing models.ChainTransactionModel
	err := gdb.Where("tx_hash = ?", tx.TxHash()).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := mappers.ChainTransactionToModel(tx)
		if err := gdb.Create(row).Error; err != nil {
			return nil, false, err
		}
		tx.SetID(row.ID)
		return tx, true, nil
	case err != nil:
		return nil, false, err
	}

	tx.SetID(existing.ID)
	row := mappers.ChainTransactionToModel(tx)
	if err := gdb.Model(&models.ChainTransactionModel{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"confirmations": row.Confirmations,
			"block_number":  row.BlockNumber,
			"status":        row.Status,
			"confirmed_at":  row.ConfirmedAt,
		}).Error; err != nil {
		return nil, false, err
	}

	refreshed, err := mappers.ChainTransactionToEntity(&existing)
	if err != nil {
		return nil, false, err
	}
	refreshed.RefreshConfirmations(tx.Confirmations(), tx.BlockNumber())
	return refreshed, false, nil
}

func (r *chainTransactionRepository) GetByTxHash(ctx context.Context, txHash string) (*chaintx.ChainTransaction, error) {
	var row models.ChainTransactionModel
	if err := db.GetTxFromContext(ctx, r.db).Where("tx_hash = ?", txHash).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ChainTransactionToEntity(&row)
}

func (r *chainTransactionRepository) ListByPaymentRequest(ctx context.Context, paymentRequestID uint) ([]*chaintx.ChainTransaction, error) {
	var rows []models.ChainTransactionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("payment_request_id = ?", paymentRequestID).
		Order("detected_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*chaintx.ChainTransaction, 0, len(rows))
	for i := range rows {
		tx, err := mappers.ChainTransactionToEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *chainTransactionRepository) Confirm(ctx context.Context, id uint, at time.Time) error {
	return db.GetTxFromContext(ctx, r.db).Model(&models.ChainTransactionModel{}).
		Where("id = ? AND status != ?", id, string(chaintx.StatusConfirmed)).
		Updates(map[string]interface{}{
			"status":       string(chaintx.StatusConfirmed),
			"confirmed_at": at,
		}).Error
}
