package webhook

import (
	"encoding/json"
	"time"

	"paykript/internal/domain/chaintx"
	"paykript/internal/domain/payment"
)

// payloadVersion is the webhook envelope's schema version.
const payloadVersion = "1.0"

// buildPayload renders the payment.confirmed event as nested maps and lets
// encoding/json.Marshal do the canonicalization: Go's stdlib sorts map keys
// alphabetically at every nesting level, which is exactly the
// "keys sorted lexicographically across all nested objects" rule the
// signature must cover. No hand-rolled canonicalizer is needed.
func buildPayload(p *payment.PaymentRequest, tx *chaintx.ChainTransaction, now time.Time) map[string]interface{} {
	data := map[string]interface{}{
		"payment_id":      p.ID(),
		"order_id":        p.OrderID(),
		"amount":          p.Amount().String(),
		"currency":        p.Amount().Currency(),
		"status":          p.Status().String(),
		"payment_address": p.Address(),
		"confirmed_at":    isoOrNil(p.ConfirmedAt()),
		"customer_email":  p.CustomerEmail(),
		"notes":           p.Notes(),
	}
	if tx != nil {
		data["transaction"] = map[string]interface{}{
			"tx_hash":       tx.TxHash(),
			"from_address":  tx.From(),
			"amount":        tx.Amount().String(),
			"confirmations": tx.Confirmations(),
			"block_number":  tx.BlockNumber(),
			"network":       tx.Network(),
		}
	}

	return map[string]interface{}{
		"event":     "payment.confirmed",
		"data":      data,
		"timestamp": now.UTC().Format(time.RFC3339),
		"version":   payloadVersion,
	}
}

// marshalCanonical renders payload to its canonical wire form. Go's
// encoding/json guarantees alphabetically-sorted map keys at every nesting
// level, so the returned bytes are both what gets POSTed and what gets
// HMACed — there is never a second, re-serialized copy that could drift.
func marshalCanonical(payload map[string]interface{}) ([]byte, error) {
	return json.Marshal(payload)
}

func isoOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
