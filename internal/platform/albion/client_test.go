package albion

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albionflip/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		HistoryRetries:    1,
		Logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestGetPricesNormalizesAskBid(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/stats/prices/T4_BAG,T5_BAG.json", r.URL.Path)
		assert.Equal(t, "Martlock,Bridgewatch", r.URL.Query().Get("locations"))
		assert.Equal(t, "2", r.URL.Query().Get("qualities"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"item_id":"T4_BAG","city":"Martlock","quality":2,"sell_price_min":1000,"buy_price_max":950},
			{"item_id":"T4_BAG","city":"Bridgewatch","quality":2,"sell_price_min":1500,"buy_price_max":1400},
			{"item_id":"T5_BAG","city":"Martlock","quality":2,"sell_price_min":0,"buy_price_max":0}
		]`))
	})

	quotes, err := c.GetPrices(context.Background(), []string{"T4_BAG", "T5_BAG"}, []string{"Martlock", "Bridgewatch"})
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	// sell_price_min is the ask (our buy price), buy_price_max the bid.
	assert.Equal(t, domain.PriceQuote{ItemID: "T4_BAG", City: "Martlock", BuyPrice: 1000, SellPrice: 950}, quotes[0])
	assert.Equal(t, domain.PriceQuote{ItemID: "T4_BAG", City: "Bridgewatch", BuyPrice: 1500, SellPrice: 1400}, quotes[1])
	assert.False(t, quotes[2].HasBuy())
	assert.False(t, quotes[2].HasSell())
}

func TestGetPricesNon200IsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := c.GetPrices(context.Background(), []string{"T4_BAG"}, []string{"Martlock"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestGetPricesEmptyInputs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.GetPrices(context.Background(), nil, []string{"Martlock"})
	assert.ErrorIs(t, err, domain.ErrNoQuotes)
}

func TestGetHistoryBareArray(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/stats/history/T4_BAG.json", r.URL.Path)
		assert.Equal(t, "24", r.URL.Query().Get("time-scale"))
		_, _ = w.Write([]byte(`[
			{"sell_price_min":900},
			{"sell_price_min":0},
			{"sell_price_min":1100}
		]`))
	})

	res := c.GetHistory(context.Background(), "T4_BAG", "Martlock", 24)
	require.True(t, res.OK())
	// mean of 900 and 1100; the zero bucket is ignored.
	assert.Equal(t, 1000, res.Price)
}

func TestGetHistoryWrappedObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"history":[{"sell_price_min":500},{"sell_price_min":502}]}`))
	})

	res := c.GetHistory(context.Background(), "T4_BAG", "Martlock", 24)
	require.True(t, res.OK())
	assert.Equal(t, 501, res.Price)
}

func TestGetHistoryNoPositivePricesIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"sell_price_min":0}]`))
	})

	res := c.GetHistory(context.Background(), "T4_BAG", "Martlock", 24)
	assert.Equal(t, domain.HistoryUnavailable, res.Status)
}

func TestGetHistoryTransientRetriesThenGivesUp(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "flaky", http.StatusInternalServerError)
	})

	res := c.GetHistory(context.Background(), "T4_BAG", "Martlock", 24)
	assert.Equal(t, domain.HistoryTransientErr, res.Status)
	require.Error(t, res.Err)
	// initial attempt + 1 configured retry
	assert.Equal(t, 2, calls)
}

func TestGetHistoryRecoversOnRetry(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "flaky", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"sell_price_min":800}]`))
	})

	res := c.GetHistory(context.Background(), "T4_BAG", "Martlock", 24)
	require.True(t, res.OK())
	assert.Equal(t, 800, res.Price)
	assert.Equal(t, 2, calls)
}

func TestDecodeHistoryRejectsMalformedBody(t *testing.T) {
	_, err := decodeHistory([]byte(`"not a history payload"`))
	assert.Error(t, err)
}
