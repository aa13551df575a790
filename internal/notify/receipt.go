package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
)

// receiptTimeout bounds each receipt call; the endpoint is fire-and-forget
// and must never stall the ordering flow for long.
const receiptTimeout = 10 * time.Second

// HTTPReceiptSender posts receipt payloads to an external receipt-generation
// endpoint.
type HTTPReceiptSender struct {
	url    string
	client *http.Client
}

// NewHTTPReceiptSender creates a sender for the given endpoint URL.
func NewHTTPReceiptSender(url string) *HTTPReceiptSender {
	return &HTTPReceiptSender{
		url:    url,
		client: &http.Client{Timeout: receiptTimeout},
	}
}

// Send posts the receipt as JSON. A non-2xx response is an error; the caller
// decides whether to care.
func (s *HTTPReceiptSender) Send(ctx context.Context, r Receipt) error {
	return postJSON(ctx, s.client, s.url, r)
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
