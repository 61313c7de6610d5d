package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimiter(maxRequests int, window time.Duration) (*RateLimitService, *time.Time) {
	service := NewRateLimitService("booking", RateLimitConfig{
		MaxRequests: maxRequests,
		Window:      window,
		IdleTTL:     5 * time.Minute,
	})
	clock := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return clock }
	return service, &clock
}

func TestRateLimit_AllowsBurst(t *testing.T) {
	service, _ := newTestRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.NoError(t, service.Check("203.0.113.7"))
	}
}

func TestRateLimit_ExceededReturnsRateLimitError(t *testing.T) {
	service, _ := newTestRateLimiter(2, time.Minute)

	require.NoError(t, service.Check("203.0.113.7"))
	require.NoError(t, service.Check("203.0.113.7"))

	err := service.Check("203.0.113.7")
	require.Error(t, err)

	rateLimitErr, ok := err.(*RateLimitError)
	require.True(t, ok)
	assert.Equal(t, "booking", rateLimitErr.Type)
	assert.InDelta(t, float64(30*time.Second), float64(rateLimitErr.RetryAfter), float64(time.Second))
	assert.Contains(t, rateLimitErr.Message, "Too many requests")
}

func TestRateLimit_RejectionDoesNotConsumeTokens(t *testing.T) {
	service, clock := newTestRateLimiter(2, time.Minute)

	require.NoError(t, service.Check("ip"))
	require.NoError(t, service.Check("ip"))
	for i := 0; i < 5; i++ {
		assert.Error(t, service.Check("ip"))
	}

	*clock = clock.Add(30 * time.Second)
	assert.NoError(t, service.Check("ip"))
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	service, _ := newTestRateLimiter(1, time.Minute)

	require.NoError(t, service.Check("198.51.100.1"))
	assert.Error(t, service.Check("198.51.100.1"))
	assert.NoError(t, service.Check("198.51.100.2"))
}

func TestRateLimit_CleanupDropsIdleClients(t *testing.T) {
	service, clock := newTestRateLimiter(1, time.Minute)

	require.NoError(t, service.Check("old"))
	*clock = clock.Add(6 * time.Minute)
	require.NoError(t, service.Check("new"))
	require.Equal(t, 2, service.Len())

	assert.Equal(t, 1, service.Cleanup())
	assert.Equal(t, 1, service.Len())
}
