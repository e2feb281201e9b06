package geocoding_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/geocoding"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestThrottled(t *testing.T) {
	found := models.GeocodeSuccess(models.Coordinates{Latitude: 19.43, Longitude: -99.13})

	t.Run("spaces out consecutive calls", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		provider.On("Geocode", mock.Anything, "a").Return(found).Times(3)

		throttled := geocoding.NewThrottled(provider, 50*time.Millisecond)

		start := time.Now()
		for range 3 {
			result := throttled.Geocode(t.Context(), "a")
			require.Equal(t, models.GeocodeOK, result.Status)
		}

		assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	})

	t.Run("cancelled context is a transient failure", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		throttled := geocoding.NewThrottled(provider, time.Hour)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		result := throttled.Geocode(ctx, "a")

		assert.Equal(t, models.GeocodeError, result.Status)
		require.Error(t, result.Err)
		provider.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("zero interval does not wait", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		provider.On("Geocode", mock.Anything, "b").Return(found).Twice()

		throttled := geocoding.NewThrottled(provider, 0)

		start := time.Now()
		throttled.Geocode(t.Context(), "b")
		throttled.Geocode(t.Context(), "b")

		assert.Less(t, time.Since(start), 50*time.Millisecond)
		assert.Same(t, provider, throttled.Unwrap())
	})
}

func TestThrottledClient(t *testing.T) {
	t.Run("spaces out the fallback request of one query", func(t *testing.T) {
		var sent []time.Time
		client := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				sent = append(sent, time.Now())
				return jsonResponse(http.StatusOK, `[]`), nil
			},
		}

		interval := 150 * time.Millisecond
		provider := geocoding.NewNominatimProviderWithClient(
			geocoding.NewThrottledClient(client, interval), slog.Default(),
		)

		result := provider.Geocode(t.Context(), "Clinic X, JALISCO, GUADALAJARA")

		assert.Equal(t, models.GeocodeNotFound, result.Status)
		require.Len(t, sent, 2)
		assert.GreaterOrEqual(t, sent[1].Sub(sent[0]), interval-10*time.Millisecond)
	})

	t.Run("cancelled context does not send", func(t *testing.T) {
		calls := 0
		client := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				calls++
				return jsonResponse(http.StatusOK, `[]`), nil
			},
		}
		throttled := geocoding.NewThrottledClient(client, time.Hour)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://example.org", nil)
		require.NoError(t, err)

		resp, err := throttled.Do(req)
		if resp != nil {
			resp.Body.Close()
		}

		require.Error(t, err)
		assert.Zero(t, calls)
	})
}
