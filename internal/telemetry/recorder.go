// Package telemetry is the read-only, batched event log offered to the
// wireless link and the operator tooling. Recording never blocks: events
// land in a bounded ring that drops its oldest entries under pressure, and a
// low-priority flush task drains batches to SQLite and, when configured, an
// MQTT uplink. The core never waits for the link to drain.
package telemetry

// #region imports
import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// #endregion

// #region recorder

// Recorder is the bounded in-memory event buffer plus its sinks.
type Recorder struct {
	session string
	clock   clockwork.Clock

	mu     sync.Mutex
	buf    []Event
	head   int
	count  int
	drops  uint64
	counts map[Kind]uint64

	store  *Store  // optional
	uplink *Uplink // optional
}

// NewRecorder creates a recorder with a fixed buffer capacity. store and
// uplink may be nil; events then live only in memory until drained. A nil
// clock falls back to wall time.
func NewRecorder(capacity int, store *Store, uplink *Uplink, clock clockwork.Clock) *Recorder {
	if capacity < 1 {
		capacity = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Recorder{
		session: uuid.NewString(),
		clock:   clock,
		buf:     make([]Event, capacity),
		counts:  make(map[Kind]uint64),
		store:   store,
		uplink:  uplink,
	}
}

// Session returns the run identity stamped on persisted events.
func (r *Recorder) Session() string { return r.session }

// #endregion recorder

// #region record

// Record buffers one event. O(1), never blocks; the oldest buffered event
// is dropped when the buffer is full.
func (r *Recorder) Record(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = r.clock.Now().UTC()
	}

	r.mu.Lock()
	if r.count == len(r.buf) {
		r.head = (r.head + 1) % len(r.buf)
		r.count--
		r.drops++
	}
	r.buf[(r.head+r.count)%len(r.buf)] = ev
	r.count++
	r.counts[ev.Kind]++
	r.mu.Unlock()
}

// #endregion record

// #region flush

// Flush drains the buffer and hands the batch to the configured sinks.
// Sink failures are logged and the batch is not replayed; telemetry loss is
// preferable to hot-path backpressure.
func (r *Recorder) Flush() {
	r.mu.Lock()
	if r.count == 0 {
		r.mu.Unlock()
		return
	}
	batch := make([]Event, 0, r.count)
	for i := 0; i < r.count; i++ {
		batch = append(batch, r.buf[(r.head+i)%len(r.buf)])
	}
	r.head = 0
	r.count = 0
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.InsertBatch(r.session, batch); err != nil {
			log.Printf("[TELEM] store write failed, %d events lost: %v", len(batch), err)
		}
	}
	if r.uplink != nil {
		r.uplink.PublishBatch(batch)
	}
}

// #endregion flush

// #region snapshots

// Counters is a snapshot of recorder accounting.
type Counters struct {
	Buffered uint64
	Dropped  uint64
	ByKind   map[Kind]uint64
}

// Snapshot returns current counters.
func (r *Recorder) Snapshot() Counters {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKind := make(map[Kind]uint64, len(r.counts))
	for k, v := range r.counts {
		byKind[k] = v
	}
	return Counters{Buffered: uint64(r.count), Dropped: r.drops, ByKind: byKind}
}

// #endregion snapshots
