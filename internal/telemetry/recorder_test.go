package telemetry

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// 1. Record is drop-oldest under pressure and counts what it sheds.
func TestRecorder_DropOldestUnderPressure(t *testing.T) {
	r := NewRecorder(4, nil, nil, nil)
	for i := 0; i < 10; i++ {
		r.Record(Event{ID: fmt.Sprintf("e%d", i), Kind: KindDetection})
	}

	c := r.Snapshot()
	if c.Buffered != 4 {
		t.Errorf("expected 4 buffered, got %d", c.Buffered)
	}
	if c.Dropped != 6 {
		t.Errorf("expected 6 dropped, got %d", c.Dropped)
	}
	if c.ByKind[KindDetection] != 10 {
		t.Errorf("kind counter must include dropped events, got %d", c.ByKind[KindDetection])
	}
}

// 2. Flush drains the buffer into the store in one batch; a second flush is
// a no-op.
func TestRecorder_FlushToStore(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	r := NewRecorder(16, s, nil, nil)
	r.Record(Event{Kind: KindDetection, Seq: 1})
	r.Record(Event{Kind: KindStimIssued, Seq: 1})
	r.Flush()

	if c := r.Snapshot(); c.Buffered != 0 {
		t.Errorf("expected empty buffer after flush, got %d", c.Buffered)
	}

	events, err := s.Recent(10, "")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 persisted events, got %d", len(events))
	}

	r.Flush()
	events, _ = s.Recent(10, "")
	if len(events) != 2 {
		t.Errorf("empty flush must not write, found %d events", len(events))
	}
}

// 3. Record fills in identity and timestamp when the caller leaves them out.
func TestRecorder_FillsDefaults(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "telemetry.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	r := NewRecorder(16, s, nil, nil)
	r.Record(Event{Kind: KindPowerAdjust})
	r.Flush()

	events, err := s.Recent(1, "")
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID == "" || events[0].At.IsZero() {
		t.Errorf("defaults not filled: %+v", events[0])
	}
}

// 4. Default timestamps come from the injected clock, so records made under
// a test clock stay deterministic.
func TestRecorder_StampsInjectedClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	r := NewRecorder(4, nil, nil, clock)

	r.Record(Event{Kind: KindDetection})
	want := clock.Now().UTC()

	clock.Advance(time.Second)
	r.Record(Event{Kind: KindDetection})

	r.mu.Lock()
	first, second := r.buf[0], r.buf[1]
	r.mu.Unlock()
	if !first.At.Equal(want) {
		t.Errorf("first event stamped %v, want clock time %v", first.At, want)
	}
	if !second.At.Equal(want.Add(time.Second)) {
		t.Errorf("second event stamped %v, want %v", second.At, want.Add(time.Second))
	}
}
