package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests.
// Tickers fire only from Advance; like time.Ticker, ticks a slow reader misses are dropped.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

// NewFake returns a Fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (fake *Fake) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.now
}

// NewTicker registers a ticker that fires every interval of fake time.
func (fake *Fake) NewTicker(interval time.Duration) Ticker {
	if interval <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	fake.mu.Lock()
	defer fake.mu.Unlock()
	ticker := &fakeTicker{
		owner:    fake,
		interval: interval,
		next:     fake.now.Add(interval),
		ch:       make(chan time.Time, 1),
	}
	fake.tickers = append(fake.tickers, ticker)
	return ticker
}

// Advance moves the clock forward and fires every ticker that came due.
func (fake *Fake) Advance(delta time.Duration) {
	fake.mu.Lock()
	fake.now = fake.now.Add(delta)
	now := fake.now
	tickers := append([]*fakeTicker(nil), fake.tickers...)
	fake.mu.Unlock()

	for _, ticker := range tickers {
		ticker.fire(now)
	}
}

// Tickers returns the number of tickers that have not been stopped.
func (fake *Fake) Tickers() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.tickers)
}

func (fake *Fake) remove(target *fakeTicker) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for index, ticker := range fake.tickers {
		if ticker == target {
			fake.tickers = append(fake.tickers[:index], fake.tickers[index+1:]...)
			return
		}
	}
}

type fakeTicker struct {
	owner    *Fake
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	ch       chan time.Time
	stopped  bool
}

func (ticker *fakeTicker) C() <-chan time.Time {
	return ticker.ch
}

func (ticker *fakeTicker) Stop() {
	ticker.mu.Lock()
	if ticker.stopped {
		ticker.mu.Unlock()
		return
	}
	ticker.stopped = true
	ticker.mu.Unlock()
	ticker.owner.remove(ticker)
}

func (ticker *fakeTicker) fire(now time.Time) {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	if ticker.stopped || now.Before(ticker.next) {
		return
	}
	for !now.Before(ticker.next) {
		ticker.next = ticker.next.Add(ticker.interval)
	}
	select {
	case ticker.ch <- now:
	default:
	}
}
