// Package dedupe remembers plan requests so a resubmitted roster maps back to
// the plan it already produced.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// Deduper records request keys and the plan ID first assigned to each.
type Deduper interface {
	// SeenAndRecord atomically looks key up and records it with planID if
	// absent. It returns the plan ID already on record and true for a
	// repeat, or planID and false for a new key.
	SeenAndRecord(ctx context.Context, key, planID string) (string, bool)

	// Unrecord forgets key so the request can be retried. It is used when a
	// recorded request could not be queued.
	Unrecord(ctx context.Context, key string)

	// Replace records planID for key if key is absent or still maps to
	// oldPlanID, and returns planID and true. Otherwise it returns the plan
	// ID on record and false.
	Replace(ctx context.Context, key, oldPlanID, planID string) (string, bool)

	// Size returns the number of remembered keys.
	Size() int64
}

type entry struct {
	key    string
	planID string
}

// inMemoryDeduper keeps keys in insertion order and evicts from the front.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key, planID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		return el.Value.(entry).planID, true
	}

	d.record(key, planID)
	return planID, false
}

func (d *inMemoryDeduper) Replace(_ context.Context, key, oldPlanID, planID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		if current := el.Value.(entry).planID; current != oldPlanID {
			return current, false
		}
		d.order.Remove(el)
		delete(d.seen, key)
	}
	d.record(key, planID)
	return planID, true
}

// record appends key, evicting the oldest entry when full. d.mu must be held.
func (d *inMemoryDeduper) record(key, planID string) {
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.seen, oldest.Value.(entry).key)
	}
	d.seen[key] = d.order.PushBack(entry{key: key, planID: planID})
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		d.order.Remove(el)
		delete(d.seen, key)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
