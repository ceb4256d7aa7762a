package bazaar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `{
  "success": true,
  "lastUpdated": 1700000000000,
  "products": {
    "ENCHANTED_DIAMOND": {
      "product_id": "ENCHANTED_DIAMOND",
      "quick_status": {"productId": "ENCHANTED_DIAMOND", "buyPrice": 1300.5, "sellPrice": 1250.1, "buyVolume": 90000, "sellVolume": 120000, "buyMovingWeek": 4000000, "sellMovingWeek": 3900000, "buyOrders": 120, "sellOrders": 300},
      "buy_summary": [{"amount": 640, "pricePerUnit": 1301.2, "orders": 2}],
      "sell_summary": [{"amount": 1000, "pricePerUnit": 1249.9, "orders": 5}]
    },
    "DIAMOND": {
      "product_id": "DIAMOND",
      "quick_status": {"productId": "DIAMOND", "buyPrice": 8.1, "sellPrice": 7.9, "buyVolume": 5000000},
      "buy_summary": [],
      "sell_summary": []
    }
  }
}`

func TestFetchSnapshot_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "k-123", r.Header.Get("API-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleSnapshot))
	}))
	defer srv.Close()

	c := NewClient(Options{URL: srv.URL, APIKey: "k-123"})
	resp, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Products, 2)
	ed := resp.Products["ENCHANTED_DIAMOND"]
	assert.Equal(t, 1300.5, ed.QuickStatus.BuyPrice)
	assert.Equal(t, int64(90000), ed.QuickStatus.BuyVolume)
	require.Len(t, ed.BuySummary, 1)
	assert.Equal(t, 1301.2, ed.BuySummary[0].PricePerUnit)
	assert.Empty(t, resp.Products["DIAMOND"].BuySummary)
	assert.Equal(t, time.UnixMilli(1700000000000), resp.UpdatedAt())
}

func TestFetchSnapshot_NoAPIKeyHeaderWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Api-Key"]
		assert.False(t, present)
		w.Write([]byte(`{"success":true,"products":{}}`))
	}))
	defer srv.Close()

	resp, err := NewClient(Options{URL: srv.URL}).FetchSnapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	assert.True(t, resp.UpdatedAt().IsZero())
}

func TestFetchSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantSub string
		wantIs  error
	}{
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", wantSub: "bazaar 502: upstream down"},
		{name: "unsuccessful", status: http.StatusOK, body: `{"success":false,"cause":"Invalid API key"}`, wantSub: "Invalid API key", wantIs: ErrUnsuccessful},
		{name: "unsuccessful no cause", status: http.StatusOK, body: `{"success":false}`, wantSub: "no cause given", wantIs: ErrUnsuccessful},
		{name: "bad json", status: http.StatusOK, body: `{"success":tru`, wantSub: "decode bazaar snapshot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(Options{URL: srv.URL}).FetchSnapshot(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantSub)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs))
			}
		})
	}
}

func TestFetchSnapshot_TruncatesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 4*maxErrorBody)))
	}))
	defer srv.Close()

	_, err := NewClient(Options{URL: srv.URL}).FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.LessOrEqual(t, len(err.Error()), maxErrorBody+len("bazaar 500: "))
}

func TestFetchSnapshot_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(Options{URL: srv.URL}).FetchSnapshot(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestHealthCheck(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer ok.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	assert.True(t, NewClient(Options{URL: ok.URL}).HealthCheck(context.Background()))
	assert.False(t, NewClient(Options{URL: bad.URL}).HealthCheck(context.Background()))
	assert.False(t, NewClient(Options{URL: "http://127.0.0.1:1"}).HealthCheck(context.Background()))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{URL: "http://example.invalid"})
	require.NotNil(t, c)
	assert.Equal(t, 4, cap(c.sem))
	assert.Nil(t, c.limiter, "limiter should be nil when RatePerMinute is 0")
	assert.Equal(t, 15*time.Second, c.http.Timeout)

	paced := NewClient(Options{URL: "http://example.invalid", RatePerMinute: 60})
	assert.NotNil(t, paced.limiter, "limiter should be set when RatePerMinute > 0")
}
