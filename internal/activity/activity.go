// Package activity keeps the dashboard's recent-activity log and per-kind
// counters.
package activity

import (
	"context"
	"sync"
	"time"
)

type Kind string

const (
	KindProject    Kind = "project"
	KindMoodBoard  Kind = "moodboard"
	KindProof      Kind = "proof"
	KindStyleGuide Kind = "styleguide"
	KindReminder   Kind = "reminder"
)

// DefaultCapacity is the number of entries a feed retains.
const DefaultCapacity = 50

type Entry struct {
	Kind        Kind      `json:"kind"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

type Feed interface {
	Record(ctx context.Context, e Entry) error
	// Recent returns up to n entries, newest first.
	Recent(ctx context.Context, n int) ([]Entry, error)
	// Count returns how many entries of kind were ever recorded.
	Count(ctx context.Context, kind Kind) (int64, error)
}

// Subscriber is implemented by feeds that can push entries as they are
// recorded.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan Entry
}

// MemoryFeed is a bounded ring of entries plus unbounded counters.
type MemoryFeed struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
	counts  map[Kind]int64
	subs    map[chan Entry]struct{}
}

func NewMemoryFeed(capacity int) *MemoryFeed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryFeed{
		entries: make([]Entry, capacity),
		counts:  make(map[Kind]int64),
		subs:    make(map[chan Entry]struct{}),
	}
}

func (f *MemoryFeed) Record(_ context.Context, e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.next] = e
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
	f.counts[e.Kind]++

	for ch := range f.subs {
		select {
		case ch <- e:
		default:
			// Slow subscribers miss entries rather than block recording.
		}
	}
	return nil
}

// Subscribe returns a channel receiving every entry recorded after the call.
// It is closed when ctx is done.
func (f *MemoryFeed) Subscribe(ctx context.Context) <-chan Entry {
	ch := make(chan Entry, 16)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch
}

func (f *MemoryFeed) Recent(_ context.Context, n int) ([]Entry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	size := f.next
	if f.full {
		size = len(f.entries)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (f.next - i + len(f.entries)) % len(f.entries)
		out = append(out, f.entries[idx])
	}
	return out, nil
}

func (f *MemoryFeed) Count(_ context.Context, kind Kind) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.counts[kind], nil
}
