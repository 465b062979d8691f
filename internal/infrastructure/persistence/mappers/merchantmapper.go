// Package mappers is the anti-corruption layer between GORM row models and
// domain aggregates: every repository converts through ToModel/ToEntity
// here rather than leaking gorm types into the domain.
package mappers

import (
	"paykript/internal/domain/merchant"
	"paykript/internal/infrastructure/persistence/models"
)

func MerchantToModel(m *merchant.Merchant) *models.MerchantModel {
	return &models.MerchantModel{
		ID:           m.ID(),
		Name:         m.Name(),
		Email:        m.Email(),
		PasswordHash: m.PasswordHash(),
		Active:       m.Active(),
		CreatedAt:    m.CreatedAt(),
		UpdatedAt:    m.UpdatedAt(),
	}
}

func MerchantToEntity(row *models.MerchantModel) *merchant.Merchant {
	return merchant.ReconstructMerchant(
		row.ID,
		row.Name,
		row.Email,
		row.PasswordHash,
		row.Active,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func APICredentialToModel(c *merchant.APICredential) *models.APICredentialModel {
	return &models.APICredentialModel{
		ID:         c.ID(),
		MerchantID: c.MerchantID(),
		PublicID:   c.PublicID(),
		SecretHash: c.SecretHash(),
		Active:     c.Active(),
		LastUsedAt: c.LastUsedAt(),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
}

func APICredentialToEntity(row *models.APICredentialModel) *merchant.APICredential {
	return merchant.ReconstructAPICredential(
		row.ID,
		row.MerchantID,
		row.PublicID,
		row.SecretHash,
		row.Active,
		row.LastUsedAt,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
