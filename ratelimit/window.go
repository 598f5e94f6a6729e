package ratelimit

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/ulule/limiter/v3"
)

const (
	DefaultLimit      = 5
	DefaultPeriod     = time.Minute
	DefaultMaxEntries = 10000
)

type bucket struct {
	key       string
	count     int64
	expiresAt time.Time
	index     int // position in expiryQueue
}

// expiryQueue is a min-heap of buckets ordered by expiresAt.
type expiryQueue []*bucket

func (q expiryQueue) Len() int           { return len(q) }
func (q expiryQueue) Less(i, j int) bool { return q[i].expiresAt.Before(q[j].expiresAt) }

func (q expiryQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *expiryQueue) Push(x any) {
	b := x.(*bucket)
	b.index = len(*q)
	*q = append(*q, b)
}

func (q *expiryQueue) Pop() any {
	old := *q
	n := len(old)
	b := old[n-1]
	old[n-1] = nil
	b.index = -1
	*q = old[:n-1]
	return b
}

// Window is an in-memory fixed window limiter. A key's first request opens a
// window of Period; each request increments the count and is admitted while
// the count is at most Limit. Once the window has passed the count restarts.
type Window struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	expiry  expiryQueue

	limit      int64
	period     time.Duration
	maxEntries int
	now        Clock
}

type WindowOption func(*Window)

// WithClock replaces time.Now.
func WithClock(c Clock) WindowOption {
	return func(w *Window) { w.now = c }
}

// WithMaxEntries caps the number of tracked keys. Zero or less disables the cap.
func WithMaxEntries(n int) WindowOption {
	return func(w *Window) { w.maxEntries = n }
}

// NewWindow builds a Window from a rate such as the one ParseCustomRate returns.
func NewWindow(rate limiter.Rate, opts ...WindowOption) *Window {
	w := &Window{
		buckets:    make(map[string]*bucket),
		limit:      rate.Limit,
		period:     rate.Period,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	if w.limit <= 0 {
		w.limit = DefaultLimit
	}
	if w.period <= 0 {
		w.period = DefaultPeriod
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Admit implements Limiter. It never returns an error.
func (w *Window) Admit(_ context.Context, key string) (bool, error) {
	return w.Allow(key), nil
}

// Allow counts one request for key and reports whether it is within the limit.
func (w *Window) Allow(key string) bool {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.buckets[key]
	switch {
	case !ok:
		w.makeRoom(now)
		b = &bucket{key: key, expiresAt: now.Add(w.period)}
		w.buckets[key] = b
		heap.Push(&w.expiry, b)
	case now.After(b.expiresAt):
		b.count = 0
		b.expiresAt = now.Add(w.period)
		heap.Fix(&w.expiry, b.index)
	}

	b.count++
	return b.count <= w.limit
}

// makeRoom keeps the map under maxEntries before a new key is inserted:
// expired windows go first, then the window closest to expiring.
// Caller holds mu.
func (w *Window) makeRoom(now time.Time) {
	if w.maxEntries <= 0 || len(w.buckets) < w.maxEntries {
		return
	}
	w.sweepLocked(now)

	for len(w.buckets) >= w.maxEntries {
		w.evictLocked()
	}
}

func (w *Window) evictLocked() *bucket {
	b := heap.Pop(&w.expiry).(*bucket)
	delete(w.buckets, b.key)
	return b
}

// Sweep drops every bucket whose window has ended. A dropped key starts a
// fresh window on its next request, exactly as an expired one would.
func (w *Window) Sweep() int {
	now := w.now()

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sweepLocked(now)
}

func (w *Window) sweepLocked(now time.Time) int {
	removed := 0
	for len(w.expiry) > 0 && now.After(w.expiry[0].expiresAt) {
		w.evictLocked()
		removed++
	}
	return removed
}

// Len reports how many keys are tracked.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buckets)
}

// StartJanitor sweeps expired buckets every interval until ctx is done.
func (w *Window) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				w.Sweep()
			}
		}
	}()
}
