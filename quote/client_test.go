package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlphaVantage(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", srv.Client())
}

func TestClientLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("PriceAndName", func(t *testing.T) {
		client := newAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
			switch r.URL.Query().Get("function") {
			case "GLOBAL_QUOTE":
				assert.Equal(t, "IBM", r.URL.Query().Get("symbol"))
				_, _ = w.Write([]byte(`{"Global Quote": {"01. symbol": "IBM", "05. price": "182.5200"}}`))
			case "SYMBOL_SEARCH":
				_, _ = w.Write([]byte(`{"bestMatches": [
					{"1. symbol": "IBMX", "2. name": "Something Else"},
					{"1. symbol": "IBM", "2. name": "International Business Machines Corp"}
				]}`))
			default:
				t.Errorf("unexpected function %q", r.URL.Query().Get("function"))
			}
		})

		q, err := client.Lookup(ctx, "  ibm ")
		require.NoError(t, err)
		assert.Equal(t, "IBM", q.Symbol)
		assert.Equal(t, "International Business Machines Corp", q.Name)
		assert.True(t, decimal.RequireFromString("182.52").Equal(q.Price))
	})

	t.Run("NameFallsBackToSymbol", func(t *testing.T) {
		client := newAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("function") == "SYMBOL_SEARCH" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`{"Global Quote": {"01. symbol": "ACME", "05. price": "50.00"}}`))
		})

		q, err := client.Lookup(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "ACME", q.Name)
	})

	t.Run("EmptyGlobalQuoteIsNotFound", func(t *testing.T) {
		client := newAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Global Quote": {}}`))
		})

		_, err := client.Lookup(ctx, "ZZZZ")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ErrorMessageIsNotFound", func(t *testing.T) {
		client := newAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Error Message": "Invalid API call."}`))
		})

		_, err := client.Lookup(ctx, "ZZZZ")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("BlankSymbolSkipsRequest", func(t *testing.T) {
		client := newAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})

		_, err := client.Lookup(ctx, "   ")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("RateLimitNoteIsUnavailable", func(t *testing.T) {
		client := newAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`))
		})

		_, err := client.Lookup(ctx, "IBM")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("HTTPErrorIsUnavailable", func(t *testing.T) {
		client := newAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.Lookup(ctx, "IBM")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("MalformedPriceIsUnavailable", func(t *testing.T) {
		client := newAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Global Quote": {"01. symbol": "IBM", "05. price": "n/a"}}`))
		})

		_, err := client.Lookup(ctx, "IBM")
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
