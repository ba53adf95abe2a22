package market

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantfold/marketcast/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(baseURL string) ClientOptions {
	return ClientOptions{
		BaseURL: baseURL,
		Transport: TransportOptions{
			Timeout:         time.Second,
			RequestsPerSec:  100,
			MaxRetryElapsed: 10 * time.Millisecond,
		},
	}
}

func TestClient_DailyPrices(t *testing.T) {
	t.Run("loads and orders the price history", func(t *testing.T) {
		var gotPath, gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			// Rows out of order with the latest point repeated.
			fmt.Fprint(w, `{"prices":[
				[1704153600000, 105.0],
				[1704067200000, 100.0],
				[1704240000000, 103.0],
				[1704240000000, 103.5]
			]}`)
		}))
		defer server.Close()

		client := NewClient(fastOptions(server.URL))
		series, err := client.DailyPrices(context.Background(), "bitcoin", 3)
		require.NoError(t, err)

		assert.Equal(t, "/coins/bitcoin/market_chart", gotPath)
		assert.Contains(t, gotQuery, "days=3")
		assert.Contains(t, gotQuery, "interval=daily")

		require.Equal(t, 3, series.Len())
		assert.Equal(t, []float64{100, 105, 103}, series.Values())
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), series.Start())
		assert.Equal(t, 24*time.Hour, series.Step())
	})

	t.Run("empty history", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"prices":[]}`)
		}))
		defer server.Close()

		client := NewClient(fastOptions(server.URL))
		_, err := client.DailyPrices(context.Background(), "bitcoin", 3)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("upstream failure surfaces the status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewClient(fastOptions(server.URL))
		_, err := client.DailyPrices(context.Background(), "bitcoin", 3)
		require.Error(t, err)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	})

	t.Run("malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"prices":`)
		}))
		defer server.Close()

		client := NewClient(fastOptions(server.URL))
		_, err := client.DailyPrices(context.Background(), "bitcoin", 3)
		assert.Error(t, err)
	})
}

func TestBuildSeries(t *testing.T) {
	t.Run("rejects non-finite prices", func(t *testing.T) {
		_, err := buildSeries([][2]float64{
			{1704067200000, 100},
			{1704153600000, math.NaN()},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("deduplicates repeated timestamps", func(t *testing.T) {
		series, err := buildSeries([][2]float64{
			{1704067200000, 100},
			{1704067200000, 101},
			{1704153600000, 105},
		})
		require.NoError(t, err)
		assert.Equal(t, []float64{100, 105}, series.Values())
	})
}
