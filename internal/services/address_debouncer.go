package services

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/viccabs/booking-service/internal/models"
)

// DefaultDebounceDelay is the quiet period after the last keystroke
const DefaultDebounceDelay = 300 * time.Millisecond

// Suggester produces address candidates for a query
type Suggester interface {
	Suggest(ctx context.Context, query string) []models.AddressCandidate
}

// DeliverFunc receives the candidates for the latest query.
// It is called with the debouncer lock held and must not call back into the debouncer.
type DeliverFunc func(query string, candidates []models.AddressCandidate)

// SuggestDebouncer issues one lookup per pause in typing and drops stale results.
// Each query takes the next token; only the holder of the latest token may deliver.
type SuggestDebouncer struct {
	suggester Suggester
	delay     time.Duration
	deliver   DeliverFunc

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	timer  *time.Timer
	latest uint64
	closed bool
}

// NewSuggestDebouncer creates a debouncer for one client session
func NewSuggestDebouncer(parent context.Context, suggester Suggester, delay time.Duration, deliver DeliverFunc) *SuggestDebouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	ctx, cancel := context.WithCancel(parent)

	return &SuggestDebouncer{
		suggester: suggester,
		delay:     delay,
		deliver:   deliver,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Query supersedes any pending or in-flight lookup with a new one
func (d *SuggestDebouncer) Query(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.latest++
	token := d.latest

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength {
		d.deliver(query, []models.AddressCandidate{})
		return
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(token, query)
	})
}

// Cancel drops any pending or in-flight lookup without starting a new one
func (d *SuggestDebouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.latest++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Close stops the timer and suppresses any further deliveries
func (d *SuggestDebouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.cancel()
}

func (d *SuggestDebouncer) isLatest(token uint64) bool {
	return !d.closed && token == d.latest
}

func (d *SuggestDebouncer) fire(token uint64, query string) {
	d.mu.Lock()
	current := d.isLatest(token)
	d.mu.Unlock()
	if !current {
		return
	}

	// Network call runs without the lock so new keystrokes are never blocked
	candidates := d.suggester.Suggest(d.ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isLatest(token) {
		return
	}
	d.deliver(query, candidates)
}
