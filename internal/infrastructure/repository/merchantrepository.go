// Package repository implements the Store Gateway's persistence
// interfaces (spec component 4.C) against GORM.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"paykript/internal/domain/merchant"
	"paykript/internal/infrastructure/persistence/mappers"
	"paykript/internal/infrastructure/persistence/models"
	"paykript/internal/shared/db"
)

type merchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(gdb *gorm.DB) merchant.Repository {
	return &merchantRepository{db: gdb}
}

func (r *merchantRepository) Create(ctx context.Context, m *merchant.Merchant) error {
	row := mappers.MerchantToModel(m)
	if err := db.GetTxFromContext(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	m.SetID(row.ID)
	return nil
}

func (r *merchantRepository) Update(ctx context.Context, m *merchant.Merchant) error {
	row := mappers.MerchantToModel(m)
	return db.GetTxFromContext(ctx, r.db).Save(row).Error
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*merchant.Merchant, error) {
	var row models.MerchantModel
	if err := db.GetTxFromContext(ctx, r.db).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.MerchantToEntity(&row), nil
}

func (r *merchantRepository) GetByEmail(ctx context.Context, email string) (*merchant.Merchant, error) {
	var row models.MerchantModel
	if err := db.GetTxFromContext(ctx, r.db).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.MerchantToEntity(&row), nil
}

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(gdb *gorm.DB) merchant.CredentialRepository {
	return &credentialRepository{db: gdb}
}

func (r *credentialRepository) Create(ctx context.Context, c *merchant.APICredential) error {
	row := mappers.APICredentialToModel(c)
	if err := db.GetTxFromContext(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	c.SetID(row.ID)
	return nil
}

func (r *credentialRepository) Update(ctx context.Context, c *merchant.APICredential) error {
	row := mappers.APICredentialToModel(c)
	return db.GetTxFromContext(ctx, r.db).Save(row).Error
}

func (r *credentialRepository) GetByPublicID(ctx context.Context, publicID string) (*merchant.APICredential, error) {
	var row models.APICredentialModel
	if err := db.GetTxFromContext(ctx, r.db).Where("public_id = ?", publicID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.APICredentialToEntity(&row), nil
}

func (r *credentialRepository) GetByID(ctx context.Context, merchantID, id uint) (*merchant.APICredential, error) {
	var row models.APICredentialModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("merchant_id = ? AND id = ?", merchantID, id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.APICredentialToEntity(&row), nil
}

func (r *credentialRepository) List(ctx context.Context, merchantID uint) ([]*merchant.APICredential, error) {
	var rows []models.APICredentialModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*merchant.APICredential, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.APICredentialToEntity(&rows[i]))
	}
	return out, nil
}
