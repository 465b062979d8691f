package mappers

import (
	"fmt"

	"paykript/internal/domain/chaintx"
	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/infrastructure/persistence/models"
)

func ChainTransactionToModel(tx *chaintx.ChainTransaction) *models.ChainTransactionModel {
	return &models.ChainTransactionModel{
		ID:               tx.ID(),
		PaymentRequestID: tx.PaymentRequestID(),
		TxHash:           tx.TxHash(),
		FromAddress:      tx.From(),
		ToAddress:        tx.To(),
		Amount:           tx.Amount().Amount(),
		Currency:         tx.Amount().Currency(),
		Network:          tx.Network(),
		Contract:         tx.Contract(),
		BlockNumber:      tx.BlockNumber(),
		BlockTimestamp:   tx.BlockTimestamp(),
		Confirmations:    tx.Confirmations(),
		Status:           string(tx.Status()),
		DetectedAt:       tx.DetectedAt(),
		ConfirmedAt:      tx.ConfirmedAt(),
	}
}

func ChainTransactionToEntity(row *models.ChainTransactionModel) (*chaintx.ChainTransaction, error) {
	amount, err := vo.NewMoney(row.Amount, row.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount for chain tx %d: %w", row.ID, err)
	}
	return chaintx.ReconstructChainTransaction(
		row.ID,
		row.PaymentRequestID,
		row.TxHash,
		row.FromAddress,
		row.ToAddress,
		amount,
		row.Network,
		row.Contract,
		row.BlockNumber,
		row.BlockTimestamp,
		row.Confirmations,
		chaintx.Status(row.Status),
		row.DetectedAt,
		row.ConfirmedAt,
	), nil
}
