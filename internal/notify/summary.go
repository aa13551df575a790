package notify

import (
	"context"
	"net/http"
	"time"
)

// DailySummary is the payload sent to the summary endpoint when an admin
// triggers a sales summary run.
type DailySummary struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"total_sales"`
	OrderCount int64   `json:"order_count"`
}

// SummarySender delivers daily sales summaries.
type SummarySender interface {
	Send(ctx context.Context, s DailySummary) error
}

// HTTPSummarySender posts summaries to an external reporting endpoint with
// the same bounded timeout as the receipt call.
type HTTPSummarySender struct {
	url    string
	client *http.Client
}

// NewHTTPSummarySender creates a sender for the given endpoint URL.
func NewHTTPSummarySender(url string) *HTTPSummarySender {
	return &HTTPSummarySender{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the summary as JSON.
func (s *HTTPSummarySender) Send(ctx context.Context, payload DailySummary) error {
	return postJSON(ctx, s.client, s.url, payload)
}
