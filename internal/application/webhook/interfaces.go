// Package webhook implements the signed-delivery dispatcher (spec component
// 4.E): it turns a confirmed payment into a signed HTTP POST to the
// merchant's configured callback URL, retrying on failure and recording
// every attempt back onto the payment row.
package webhook

import "context"

// Poster performs the outbound HTTP delivery. Satisfied by
// infrastructure/webhook.HTTPPoster; kept as its own interface so the
// dispatcher's retry/bookkeeping logic is testable without a real network
// call.
type Poster interface {
	// Post sends body to url with the given headers and returns the
	// response status code, or an error if the request could not be sent
	// or timed out.
	Post(ctx context.Context, url string, headers map[string]string, body []byte) (statusCode int, err error)
}
