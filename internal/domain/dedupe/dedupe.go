// Package dedupe filters repeated listing IDs across paged fetches.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen IDs.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	Size() int
}

// inMemoryDeduper keeps IDs in a map. In bounded mode the oldest ID is
// evicted once maxSize is reached, tracked with a ring of insertion order.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // insertion order, bounded mode only
	next    int      // next ring slot to overwrite
	maxSize int      // 0 or negative = unbounded
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}
	return d
}

// SeenAndRecord implements Deduper.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		if len(d.ring) < d.maxSize {
			d.ring = append(d.ring, id)
		} else {
			delete(d.seen, d.ring[d.next])
			d.ring[d.next] = id
			d.next = (d.next + 1) % d.maxSize
		}
	}
	d.seen[id] = struct{}{}
	return false
}

// Size returns the current number of recorded IDs.
func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// Filter returns items whose key has not been seen before, recording each
// new key. Items with an empty key are always kept.
func Filter[T any](ctx context.Context, d Deduper, items []T, key func(T) string) []T {
	out := items[:0:0]
	for _, it := range items {
		k := key(it)
		if k != "" && d.SeenAndRecord(ctx, k) {
			continue
		}
		out = append(out, it)
	}
	return out
}
