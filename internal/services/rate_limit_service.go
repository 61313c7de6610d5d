package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitService throttles requests per client IP with token buckets held in memory
type RateLimitService struct {
	name   string
	config RateLimitConfig

	mu       sync.Mutex
	limiters map[string]*limiterEntry
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxRequests int           // Requests allowed per window (also the burst)
	Window      time.Duration // Time for the bucket to refill completely
	IdleTTL     time.Duration // Limiters unused for this long are dropped
}

// DefaultRateLimitConfig returns the default booking submission limits
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 5,                // 5 submissions
		Window:      1 * time.Minute,  // per minute
		IdleTTL:     10 * time.Minute, // forget quiet clients
	}
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
	Type       string // which limiter rejected the request
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(name string, config RateLimitConfig) *RateLimitService {
	if config.MaxRequests < 1 {
		config.MaxRequests = 1
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * config.Window
	}

	return &RateLimitService{
		name:     name,
		config:   config,
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
}

// Check consumes one token for the key, returning a RateLimitError when none is left
func (s *RateLimitService) Check(key string) error {
	now := s.now()
	limiter := s.getLimiter(key, now)

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return &RateLimitError{Message: "Too many requests", RetryAfter: s.config.Window, Type: s.name}
	}

	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return nil
	}

	// Give the token back; the caller is rejected rather than queued
	reservation.CancelAt(now)

	return &RateLimitError{
		Message:    fmt.Sprintf("Too many requests. Please try again in %d seconds", int(math.Ceil(delay.Seconds()))),
		RetryAfter: delay,
		Type:       s.name,
	}
}

// Len returns the number of tracked clients
func (s *RateLimitService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// Cleanup drops limiters that have been idle longer than IdleTTL
func (s *RateLimitService) Cleanup() int {
	cutoff := s.now().Add(-s.config.IdleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Cleanup periodically until the context is cancelled
func (s *RateLimitService) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

func (s *RateLimitService) getLimiter(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.limiters[key]
	if !exists {
		every := s.config.Window / time.Duration(s.config.MaxRequests)
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(every), s.config.MaxRequests)}
		s.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}
