package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPReceiptSender_PostsJSON(t *testing.T) {
	var got Receipt
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewHTTPReceiptSender(srv.URL)
	err := sender.Send(context.Background(), Receipt{
		OrderID: 42,
		Email:   "ada@example.com",
		Total:   19.00,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), got.OrderID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.InDelta(t, 19.00, got.Total, 0.001)
}

func TestHTTPReceiptSender_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sender := NewHTTPReceiptSender(srv.URL)
	err := sender.Send(context.Background(), Receipt{OrderID: 42})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPReceiptSender_EndpointUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	sender := NewHTTPReceiptSender(srv.URL)
	err := sender.Send(context.Background(), Receipt{OrderID: 42})
	require.Error(t, err)
}

func TestHTTPSummarySender_PostsJSON(t *testing.T) {
	var got DailySummary
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	sender := NewHTTPSummarySender(srv.URL)
	err := sender.Send(context.Background(), DailySummary{
		Date:       "2026-08-29",
		TotalSales: 123.45,
		OrderCount: 7,
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", got.Date)
	assert.Equal(t, int64(7), got.OrderCount)
}
