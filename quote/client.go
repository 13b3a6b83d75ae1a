// Package quote looks up current stock prices from Alpha Vantage.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"stocks-trader/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when the service knows no such symbol.
	ErrNotFound = errors.New("symbol not found")
	// ErrUnavailable wraps any failure to reach or understand the service.
	ErrUnavailable = errors.New("quote service unavailable")
)

// Lookup resolves a ticker symbol to its current quote.
type Lookup interface {
	Lookup(ctx context.Context, symbol string) (*models.Quote, error)
}

// Normalize trims and upper-cases a user supplied symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

type symbolSearchResponse struct {
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
	} `json:"bestMatches"`
}

// Client talks to the Alpha Vantage query endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

// Lookup fetches the price with GLOBAL_QUOTE and the company name with
// SYMBOL_SEARCH. The name falls back to the symbol when the search fails.
func (c *Client) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return nil, ErrNotFound
	}

	var result globalQuoteResponse
	if err := c.get(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}}, &result); err != nil {
		return nil, err
	}
	if result.ErrorMessage != "" {
		return nil, ErrNotFound
	}
	if result.GlobalQuote.Price == "" {
		if msg := result.Note + result.Information; msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, msg)
		}
		return nil, ErrNotFound
	}

	price, err := decimal.NewFromString(result.GlobalQuote.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: parse price %q: %v", ErrUnavailable, result.GlobalQuote.Price, err)
	}
	if result.GlobalQuote.Symbol != "" {
		symbol = Normalize(result.GlobalQuote.Symbol)
	}

	return &models.Quote{
		Symbol: symbol,
		Name:   c.companyName(ctx, symbol),
		Price:  price,
	}, nil
}

func (c *Client) companyName(ctx context.Context, symbol string) string {
	var result symbolSearchResponse
	if err := c.get(ctx, url.Values{"function": {"SYMBOL_SEARCH"}, "keywords": {symbol}}, &result); err != nil {
		return symbol
	}
	for _, match := range result.BestMatches {
		if Normalize(match.Symbol) == symbol && match.Name != "" {
			return match.Name
		}
	}
	return symbol
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %s", ErrUnavailable, params.Get("function"), resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, params.Get("function"), err)
	}
	return nil
}
