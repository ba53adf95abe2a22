package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestNewTransport(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		tr := newTransport(TransportOptions{})

		assert.Equal(t, rate.Limit(5), tr.limiter.Limit())
		assert.Equal(t, 5, tr.limiter.Burst())
		assert.Equal(t, 30*time.Second, tr.maxElapsed)
		assert.Equal(t, 30*time.Second, tr.httpClient.Timeout)
	})

	t.Run("sustained rate follows the requests-per-second option", func(t *testing.T) {
		tr := newTransport(TransportOptions{RequestsPerSec: 2})

		assert.Equal(t, rate.Limit(2), tr.limiter.Limit())
		assert.Equal(t, 2, tr.limiter.Burst())
	})
}
