package mappers

import (
	"paykript/internal/domain/wallet"
	"paykript/internal/infrastructure/persistence/models"
)

func WalletToModel(w *wallet.Wallet) *models.WalletModel {
	return &models.WalletModel{
		ID:               w.ID(),
		MerchantID:       w.MerchantID(),
		Name:             w.Name(),
		XPub:             w.XPub(),
		Network:          w.Network(),
		DerivationPrefix: w.DerivationPrefix(),
		AddressIndex:     w.AddressIndex(),
		Active:           w.Active(),
		CreatedAt:        w.CreatedAt(),
		UpdatedAt:        w.UpdatedAt(),
	}
}

func WalletToEntity(row *models.WalletModel) *wallet.Wallet {
	return wallet.ReconstructWallet(
		row.ID,
		row.MerchantID,
		row.Name,
		row.XPub,
		row.Network,
		row.DerivationPrefix,
		row.AddressIndex,
		row.Active,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
