// Package webhook provides the HTTP transport the dispatcher posts
// signed payloads through.
package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// HTTPPoster implements application/webhook.Poster over a plain net/http
// client. A dedicated client (rather than http.DefaultClient) lets the
// dispatcher bound connection reuse independently of the rest of the
// process's outbound calls.
type HTTPPoster struct {
	client *http.Client
}

func NewHTTPPoster() *HTTPPoster {
	return &HTTPPoster{
		client: &http.Client{
			// Per-call timeouts are applied via the request context, so
			// the client itself stays untimed.
			Timeout: 0,
		},
	}
}

func (p *HTTPPoster) Post(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
