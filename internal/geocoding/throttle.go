package geocoding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"golang.org/x/time/rate"
)

// Throttled spaces out calls to the wrapped provider so that at most one request
// starts per interval, keeping batch runs inside provider quotas.
type Throttled struct {
	next    Provider
	limiter *rate.Limiter
}

// NewThrottled wraps next with a limiter allowing one call per interval.
// A non-positive interval disables throttling.
func NewThrottled(next Provider, interval time.Duration) *Throttled {
	return &Throttled{next: next, limiter: newLimiter(interval)}
}

// Geocode waits for the limiter and delegates to the wrapped provider.
func (t *Throttled) Geocode(ctx context.Context, query string) models.GeocodeResult {
	if err := t.limiter.Wait(ctx); err != nil {
		return models.GeocodeFailure(fmt.Errorf("rate limiter wait: %w", err))
	}

	return t.next.Geocode(ctx, query)
}

// Unwrap returns the throttled provider.
func (t *Throttled) Unwrap() Provider {
	return t.next
}

// ThrottledClient spaces out HTTP requests sent through the wrapped client.
type ThrottledClient struct {
	next    HTTPClient
	limiter *rate.Limiter
}

// NewThrottledClient wraps next with a limiter allowing one request per interval.
// A non-positive interval disables throttling.
func NewThrottledClient(next HTTPClient, interval time.Duration) *ThrottledClient {
	return &ThrottledClient{next: next, limiter: newLimiter(interval)}
}

// Do waits for the limiter, honoring the request context, and sends the request.
func (c *ThrottledClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	return c.next.Do(req)
}

func newLimiter(interval time.Duration) *rate.Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return rate.NewLimiter(limit, 1)
}
