package payment

import (
	"strconv"

	vo "paykript/internal/domain/payment/valueobjects"
	"paykript/internal/domain/shared/events"
	"paykript/internal/shared/biztime"
)

// PaymentConfirmedEvent is raised by the monitor the instant a payment
// transitions PENDING -> CONFIRMED, ahead of the webhook enqueue.
type PaymentConfirmedEvent struct {
	events.BaseEvent
	PaymentID  uint
	MerchantID uint
	OrderID    string
	Amount     vo.Money
	TxHash     string
}

func NewPaymentConfirmedEvent(paymentID, merchantID uint, orderID string, amount vo.Money, txHash string) *PaymentConfirmedEvent {
	now := biztime.NowUTC()
	return &PaymentConfirmedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(paymentID), 10),
			EventType:   "payment.confirmed",
			OccurredAt:  now,
			Version:     1,
		},
		PaymentID:  paymentID,
		MerchantID: merchantID,
		OrderID:    orderID,
		Amount:     amount,
		TxHash:     txHash,
	}
}

// PaymentExpiredEvent is raised when the monitor's expiry pass transitions a
// payment PENDING -> EXPIRED.
type PaymentExpiredEvent struct {
	events.BaseEvent
	PaymentID  uint
	MerchantID uint
	OrderID    string
}

func NewPaymentExpiredEvent(paymentID, merchantID uint, orderID string) *PaymentExpiredEvent {
	now := biztime.NowUTC()
	return &PaymentExpiredEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(paymentID), 10),
			EventType:   "payment.expired",
			OccurredAt:  now,
			Version:     1,
		},
		PaymentID:  paymentID,
		MerchantID: merchantID,
		OrderID:    orderID,
	}
}

// PaymentCanceledEvent is raised when a merchant cancels a pending payment
// (PENDING -> FAILED).
type PaymentCanceledEvent struct {
	events.BaseEvent
	PaymentID  uint
	MerchantID uint
	OrderID    string
}

func NewPaymentCanceledEvent(paymentID, merchantID uint, orderID string) *PaymentCanceledEvent {
	now := biztime.NowUTC()
	return &PaymentCanceledEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: strconv.FormatUint(uint64(paymentID), 10),
			EventType:   "payment.canceled",
			OccurredAt:  now,
			Version:     1,
		},
		PaymentID:  paymentID,
		MerchantID: merchantID,
		OrderID:    orderID,
	}
}
