package sample

// #region imports
import (
	"sync"
	"sync/atomic"
)

// #endregion

// #region ring-struct

// Ring is a bounded single-producer/single-consumer FIFO of Samples.
//
// Capacity is fixed at construction and never changes at runtime: a full
// ring is a backpressure signal for the power policy, not something to
// absorb silently. On overflow the oldest unread sample is dropped and the
// drop counter incremented.
//
// Neither side blocks: Push is O(1) and safe to call from the acquisition
// fast path, and the consumer drains with Pop from its own scheduled
// activations.
type Ring struct {
	mu     sync.Mutex
	buf    []Sample
	head   int // index of oldest unread sample
	count  int // number of unread samples
	drops  uint64 // atomic: overflow drops
	closed bool
}

// NewRing creates a ring with the given fixed capacity. Panics on capacity < 1:
// a zero-capacity channel can never hand off a sample and is a config bug.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		panic("sample: ring capacity must be >= 1")
	}
	return &Ring{buf: make([]Sample, capacity)}
}

// #endregion ring-struct

// #region push

// Push appends s to the ring. Returns false when the ring was full and the
// oldest unread sample was dropped to make room; the new sample is always
// stored. Never blocks.
func (r *Ring) Push(s Sample) bool {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return false
	}

	overflowed := false
	if r.count == len(r.buf) {
		// Drop oldest: advance head, keep count.
		r.head = (r.head + 1) % len(r.buf)
		r.count--
		atomic.AddUint64(&r.drops, 1)
		overflowed = true
	}

	r.buf[(r.head+r.count)%len(r.buf)] = s
	r.count++
	r.mu.Unlock()
	return !overflowed
}

// #endregion push

// #region pop

// Pop removes and returns the oldest unread sample without blocking.
func (r *Ring) Pop() (Sample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return Sample{}, false
	}
	s := r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return s, true
}

// #endregion pop

// #region stats

// Len returns the number of unread samples.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Drops returns the lifetime count of samples dropped on overflow.
func (r *Ring) Drops() uint64 { return atomic.LoadUint64(&r.drops) }

// #endregion stats

// #region close

// Close stops the producer side: subsequent Push calls are discarded.
// Remaining samples can still be drained with Pop. Idempotent.
func (r *Ring) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// #endregion close
