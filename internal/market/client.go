// Package market fetches coin metadata and price history from the CoinGecko API
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public CoinGecko API
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	// DefaultChartDays is the history length requested when none is given
	DefaultChartDays = 7
)

// Client is a read-only CoinGecko client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL.
// The timeout bounds every request made by the client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CoinData returns the market snapshot of a supported pair
func (c *Client) CoinData(ctx context.Context, symbol string) (*CoinData, error) {
	id, ok := CoinGeckoID(symbol)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedSymbol, symbol)
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("ids", id)
	query.Set("order", "market_cap_desc")
	query.Set("sparkline", "true")
	query.Set("price_change_percentage", "7d")

	var coins []CoinData
	if err := c.getJSON(ctx, symbol, "/coins/markets", query, &coins); err != nil {
		return nil, err
	}

	if len(coins) == 0 {
		return nil, &FetchError{Kind: KindMalformed, Symbol: symbol, Err: errors.New("empty coin list")}
	}
	coin := coins[0]
	if coin.ID == "" {
		return nil, &FetchError{Kind: KindMalformed, Symbol: symbol, Err: errors.New("coin without id")}
	}

	return &coin, nil
}

// ChartData returns price, market cap and volume history over the last days
func (c *Client) ChartData(ctx context.Context, symbol string, days int) (*ChartData, error) {
	id, ok := CoinGeckoID(symbol)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedSymbol, symbol)
	}
	if days <= 0 {
		days = DefaultChartDays
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))

	var chart ChartData
	if err := c.getJSON(ctx, symbol, "/coins/"+id+"/market_chart", query, &chart); err != nil {
		return nil, err
	}
	if chart.Prices == nil {
		return nil, &FetchError{Kind: KindMalformed, Symbol: symbol, Err: errors.New("missing prices")}
	}

	return &chart, nil
}

func (c *Client) getJSON(ctx context.Context, symbol, path string, query url.Values, dest any) error {
	requ, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requ.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(requ)
	if err != nil {
		return &FetchError{Kind: KindUnavailable, Symbol: symbol, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		fetchErr := &FetchError{
			Kind:       KindRejected,
			Symbol:     symbol,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s %s", resp.Status, strings.TrimSpace(string(body))),
		}
		if fetchErr.RateLimited() {
			logrus.Warnf("CoinGecko rate limit reached for %s", symbol)
		} else {
			logrus.Errorf("CoinGecko API error for %s: %d", symbol, resp.StatusCode)
		}
		return fetchErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &FetchError{Kind: KindMalformed, Symbol: symbol, Err: err}
	}
	return nil
}
