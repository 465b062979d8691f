package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"paykript/internal/domain/payment"
	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/infrastructure/persistence/mappers"
	"paykript/internal/infrastructure/persistence/models"
	"paykript/internal/shared/biztime"
	"paykript/internal/shared/db"
	apperrors "paykript/internal/shared/errors"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(gdb *gorm.DB) payment.Repository {
	return &paymentRepository{db: gdb}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.PaymentRequest) error {
	row := mappers.PaymentToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	p.SetID(row.ID)
	return nil
}

// Update writes back a mutated payment under an optimistic lock: the
// aggregate bumps its own Version on every state transition, so the
// expected pre-mutation version is always Version()-1. A zero row count
// means another writer won the race and Update returns a conflict.
func (r *paymentRepository) Update(ctx context.Context, p *payment.PaymentRequest) error {
	row := mappers.PaymentToModel(p)
	expectedVersion := row.Version - 1

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.PaymentRequestModel{}).
		Where("id = ? AND version = ?", row.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":           row.Status,
			"confirmed_at":     row.ConfirmedAt,
			"webhook_sent":     row.WebhookSent,
			"webhook_attempts": row.WebhookAttempts,
			"metadata":         row.Metadata,
			"version":          row.Version,
			"updated_at":       row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("payment request was modified concurrently")
	}
	return nil
}

// UpdateWebhookState writes webhook_attempts/webhook_sent directly by id,
// with no version check: the dispatcher serializes delivery per payment, so
// there is no concurrent writer to race against here.
func (r *paymentRepository) UpdateWebhookState(ctx context.Context, id uint, attempts int, sent bool) error {
	return db.GetTxFromContext(ctx, r.db).Model(&models.PaymentRequestModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"webhook_attempts": attempts,
			"webhook_sent":     sent,
		}).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, merchantID, id uint) (*payment.PaymentRequest, error) {
	var row models.PaymentRequestModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("merchant_id = ? AND id = ?", merchantID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.PaymentToEntity(&row)
}

// GetByIDUnscoped looks up a payment request by id across all merchants, for
// the monitor and webhook dispatcher.
func (r *paymentRepository) GetByIDUnscoped(ctx context.Context, id uint) (*payment.PaymentRequest, error) {
	var row models.PaymentRequestModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.PaymentToEntity(&row)
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, merchantID uint, orderID string) (*payment.PaymentRequest, error) {
	var row models.PaymentRequestModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("merchant_id = ? AND order_id = ?", merchantID, orderID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.PaymentToEntity(&row)
}

func (r *paymentRepository) List(ctx context.Context, filter payment.ListFilter) ([]*payment.PaymentRequest, int64, error) {
	q := db.GetTxFromContext(ctx, r.db).Model(&models.PaymentRequestModel{}).
		Where("merchant_id = ?", filter.MerchantID)
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PaymentRequestModel
	if err := q.Order("created_at DESC").
		Offset(filter.Skip).Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*payment.PaymentRequest, 0, len(rows))
	for i := range rows {
		p, err := mappers.PaymentToEntity(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}

func (r *paymentRepository) GetStats(ctx context.Context, merchantID uint, now time.Time) (payment.Stats, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var stats payment.Stats
	if err := tx.Model(&models.PaymentRequestModel{}).
		Where("merchant_id = ?", merchantID).
		Count(&stats.Total).Error; err != nil {
		return payment.Stats{}, err
	}
	if err := tx.Model(&models.PaymentRequestModel{}).
		Where("merchant_id = ? AND status = ?", merchantID, vo.PaymentStatusPending.String()).
		Count(&stats.Pending).Error; err != nil {
		return payment.Stats{}, err
	}

	var confirmedSum struct {
		Count int64
		Sum   decimal.Decimal
	}
	if err := tx.Model(&models.PaymentRequestModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS sum").
		Where("merchant_id = ? AND status = ?", merchantID, vo.PaymentStatusConfirmed.String()).
		Scan(&confirmedSum).Error; err != nil {
		return payment.Stats{}, err
	}
	stats.Confirmed = confirmedSum.Count

	totalAmount, err := vo.NewMoney(confirmedSum.Sum, "USDT")
	if err != nil {
		return payment.Stats{}, err
	}
	stats.TotalAmount = totalAmount

	dayStart := biztime.StartOfDayUTC(now)
	dayEnd := dayStart.Add(24 * time.Hour)
	if err := tx.Model(&models.PaymentRequestModel{}).
		Where("merchant_id = ? AND created_at >= ? AND created_at < ?", merchantID, dayStart, dayEnd).
		Count(&stats.TodayCount).Error; err != nil {
		return payment.Stats{}, err
	}

	return stats, nil
}

// ListOpenPayments returns every PENDING payment that has not yet expired,
// across all merchants: the monitor's per-tick scan.
func (r *paymentRepository) ListOpenPayments(ctx context.Context, now time.Time) ([]*payment.PaymentRequest, error) {
	var rows []models.PaymentRequestModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND expires_at > ?", vo.PaymentStatusPending.String(), now).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPaymentEntities(rows)
}

// ListExpiredOpenPayments returns every PENDING payment whose timeout has
// elapsed: the monitor's expiry pass.
func (r *paymentRepository) ListExpiredOpenPayments(ctx context.Context, now time.Time) ([]*payment.PaymentRequest, error) {
	var rows []models.PaymentRequestModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND expires_at <= ?", vo.PaymentStatusPending.String(), now).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toPaymentEntities(rows)
}

// HasOpenPaymentsForWallet reports whether walletID carries any PENDING
// payment requests, used by the wallet service to guard deactivation.
func (r *paymentRepository) HasOpenPaymentsForWallet(ctx context.Context, walletID uint) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.PaymentRequestModel{}).
		Where("wallet_id = ? AND status = ?", walletID, vo.PaymentStatusPending.String()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func toPaymentEntities(rows []models.PaymentRequestModel) ([]*payment.PaymentRequest, error) {
	out := make([]*payment.PaymentRequest, 0, len(rows))
	for i := range rows {
		p, err := mappers.PaymentToEntity(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
