package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"paykript/internal/domain/payment"
	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.PaymentRequest) *models.PaymentRequestModel {
	metadata := datatypes.JSONMap(p.Metadata())
	return &models.PaymentRequestModel{
		ID:              p.ID(),
		MerchantID:      p.MerchantID(),
		WalletID:        p.WalletID(),
		OrderID:         p.OrderID(),
		Amount:          p.Amount().Amount(),
		Currency:        p.Amount().Currency(),
		Address:         p.Address(),
		AddressIndex:    p.AddressIndex(),
		Status:          p.Status().String(),
		ExpiresAt:       p.ExpiresAt(),
		ConfirmedAt:     p.ConfirmedAt(),
		WebhookURL:      p.WebhookURL(),
		WebhookSent:     p.WebhookSent(),
		WebhookAttempts: p.WebhookAttempts(),
		CustomerEmail:   p.CustomerEmail(),
		Notes:           p.Notes(),
		Metadata:        metadata,
		Version:         p.Version(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
}

func PaymentToEntity(row *models.PaymentRequestModel) (*payment.PaymentRequest, error) {
	amount, err := vo.NewMoney(row.Amount, row.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount for payment %d: %w", row.ID, err)
	}
	status := vo.PaymentStatus(row.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid stored status %q for payment %d", row.Status, row.ID)
	}

	metadata := map[string]interface{}(row.Metadata)
	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return payment.ReconstructPaymentRequest(
		row.ID,
		row.MerchantID,
		row.WalletID,
		row.OrderID,
		amount,
		row.Address,
		row.AddressIndex,
		status,
		row.ExpiresAt,
		row.ConfirmedAt,
		row.WebhookURL,
		row.WebhookSent,
		row.WebhookAttempts,
		row.CustomerEmail,
		row.Notes,
		metadata,
		row.Version,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}
