// Package market loads historical price series from a CoinGecko-compatible
// market-data API. The provider returns one point per trading interval and
// may skip calendar days; the loader orders and deduplicates whatever comes
// back rather than demanding a fixed calendar.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quantfold/marketcast/pkg/models/domain"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// Client is the market-data API client.
type Client struct {
	baseURL   string
	transport *transport
	logger    zerolog.Logger
}

// ClientOptions holds options for creating a Client.
type ClientOptions struct {
	BaseURL   string
	Transport TransportOptions
}

// NewClient creates a market-data client.
func NewClient(opts ClientOptions) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		transport: newTransport(opts.Transport),
		logger:    log.With().Str("component", "market_client").Logger(),
	}
}

// marketChartResponse mirrors the provider's market_chart payload: rows of
// [unix milliseconds, price].
type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// DailyPrices fetches the daily closing price series for a coin over the
// trailing number of days.
func (c *Client) DailyPrices(ctx context.Context, coin string, days int) (domain.TimeSeries, error) {
	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily",
		c.baseURL, coin, days)

	c.logger.Debug().Str("coin", coin).Int("days", days).Msg("fetching price history")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.TimeSeries{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.transport.do(ctx, req)
	if err != nil {
		return domain.TimeSeries{}, fmt.Errorf("market data request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload marketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.TimeSeries{}, fmt.Errorf("parsing market data response: %w", err)
	}
	if len(payload.Prices) == 0 {
		return domain.TimeSeries{}, fmt.Errorf("empty price history for %q: %w",
			coin, domain.ErrInvalidInput)
	}

	series, err := buildSeries(payload.Prices)
	if err != nil {
		return domain.TimeSeries{}, fmt.Errorf("price history for %q: %w", coin, err)
	}

	c.logger.Info().
		Str("coin", coin).
		Int("points", series.Len()).
		Time("from", series.Start()).
		Time("to", series.End()).
		Msg("price history loaded")

	return series, nil
}

// buildSeries orders the raw rows chronologically, drops duplicate
// timestamps (providers repeat the most recent point) and rejects
// non-finite values.
func buildSeries(rows [][2]float64) (domain.TimeSeries, error) {
	sorted := make([][2]float64, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	times := make([]time.Time, 0, len(sorted))
	values := make([]float64, 0, len(sorted))
	for i, row := range sorted {
		if math.IsNaN(row[1]) || math.IsInf(row[1], 0) {
			return domain.TimeSeries{}, fmt.Errorf(
				"non-finite price at row %d: %w", i, domain.ErrInvalidInput)
		}
		if i > 0 && row[0] == sorted[i-1][0] {
			continue
		}
		times = append(times, time.UnixMilli(int64(row[0])).UTC())
		values = append(values, row[1])
	}

	return domain.NewTimeSeries(times, values)
}
