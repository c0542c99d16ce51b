// Package yahoo fetches latest prices from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public chart endpoint host
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// DefaultTimeout bounds every quote request
const DefaultTimeout = 10 * time.Second

// Client is a Yahoo Finance chart API client implementing domain.QuoteProvider
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	log     zerolog.Logger
}

// NewClient creates a new Yahoo Finance client.
// An empty baseURL or a non-positive timeout falls back to the defaults.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

// GetQuote returns the last non-null close for symbol.
// Any failure (network, HTTP status, unknown symbol, malformed or empty series) yields ok == false.
func (c *Client) GetQuote(ctx context.Context, symbol string, hint domain.IntervalHint) (domain.Quote, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.fetchChart(ctx, symbol, hint)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote unavailable")
		return domain.Quote{}, false
	}

	quote, err := parseChart(symbol, body)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote unavailable")
		return domain.Quote{}, false
	}

	c.log.Debug().
		Str("symbol", symbol).
		Str("interval", string(hint)).
		Str("price", quote.Price.String()).
		Msg("Fetched quote")
	return quote, true
}

// chartParams maps the interval hint to the chart query.
// Intraday reads 5-minute bars of the current session; daily reads the last week of closes.
func chartParams(hint domain.IntervalHint) url.Values {
	params := url.Values{}
	if hint == domain.IntervalIntraday {
		params.Add("interval", "5m")
		params.Add("range", "1d")
	} else {
		params.Add("interval", "1d")
		params.Add("range", "5d")
	}
	return params
}

func (c *Client) fetchChart(ctx context.Context, symbol string, hint domain.IntervalHint) ([]byte, error) {
	reqURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol) + "?" + chartParams(hint).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("Yahoo Finance API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// parseChart extracts the most recent non-null close from a chart response
func parseChart(symbol string, body []byte) (domain.Quote, error) {
	if !gjson.ValidBytes(body) {
		return domain.Quote{}, fmt.Errorf("malformed chart response")
	}
	parsed := gjson.ParseBytes(body)

	if errNode := parsed.Get("chart.error"); errNode.Exists() && errNode.Type != gjson.Null {
		return domain.Quote{}, fmt.Errorf("Yahoo Finance API error: %s", errNode.Get("description").String())
	}

	result := parsed.Get("chart.result.0")
	if !result.Exists() {
		return domain.Quote{}, fmt.Errorf("no chart data returned for symbol %s", symbol)
	}

	closes := result.Get("indicators.quote.0.close").Array()
	timestamps := result.Get("timestamp").Array()
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i].Type != gjson.Number {
			continue
		}
		price, err := decimal.NewFromString(closes[i].Raw)
		if err != nil || !price.IsPositive() {
			continue
		}

		quote := domain.Quote{
			Symbol:   symbol,
			Price:    price,
			Currency: result.Get("meta.currency").String(),
		}
		if i < len(timestamps) {
			quote.AsOf = time.Unix(timestamps[i].Int(), 0).UTC()
		}
		return quote, nil
	}

	return domain.Quote{}, fmt.Errorf("no closing price in series for symbol %s", symbol)
}
