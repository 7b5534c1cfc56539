package detect

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/J9ck/human-embedded-technology/internal/sample"
)

// helper: detector with an 8-sample energy window and a 0.6/0.4 band.
func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := New(Config{Window: 4, Hop: 2, Rising: 0.6, Falling: 0.4}, NewEnergyStrategy(), clockwork.NewFakeClock())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

// helper: feed a run of values with consecutive sequence numbers, collecting
// any emitted events.
func feed(d *Detector, startSeq uint64, values []float64) []*DetectionEvent {
	var events []*DetectionEvent
	for i, v := range values {
		seq := startSeq + uint64(i)
		ev := d.Feed(sample.Sample{Seq: seq, Timestamp: time.Unix(0, int64(seq)*1e6), Value: v})
		if ev != nil {
			events = append(events, ev)
		}
	}
	return events
}

func run(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// 1. Config validation.
func TestDetector_ConfigValidation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cases := []Config{
		{Window: 0, Hop: 1, Rising: 0.6, Falling: 0.4},
		{Window: 4, Hop: 0, Rising: 0.6, Falling: 0.4},
		{Window: 4, Hop: 8, Rising: 0.6, Falling: 0.4},
		{Window: 4, Hop: 2, Rising: 0.4, Falling: 0.4}, // band collapsed
		{Window: 4, Hop: 2, Rising: 0.3, Falling: 0.4}, // band inverted
	}
	for i, cfg := range cases {
		if _, err := New(cfg, NewEnergyStrategy(), clock); err == nil {
			t.Errorf("case %d: expected config error", i)
		}
	}
	if _, err := New(Config{Window: 4, Hop: 2, Rising: 0.6, Falling: 0.4}, nil, clock); err == nil {
		t.Error("expected error for nil strategy")
	}
}

// 2. Cold start: no event can fire before the first full window, however
// large the early samples are.
func TestDetector_ColdStartNoEvent(t *testing.T) {
	d := newTestDetector(t)
	if events := feed(d, 1, run(10.0, 3)); len(events) != 0 {
		t.Fatalf("expected no events before the first full window, got %d", len(events))
	}
}

// 3. One sustained burst fires exactly one event; the detector re-arms only
// after the signal falls below the lower threshold, then fires again.
func TestDetector_HysteresisSingleFirePerCrossing(t *testing.T) {
	d := newTestDetector(t)

	var values []float64
	values = append(values, run(0.1, 8)...)
	values = append(values, run(1.0, 8)...)
	values = append(values, run(0.1, 8)...)
	values = append(values, run(1.0, 8)...)
	values = append(values, run(0.1, 8)...)

	events := feed(d, 1, values)
	if len(events) != 2 {
		t.Fatalf("expected 2 events (one per crossing), got %d", len(events))
	}
	if events[0].Seq != 9 {
		t.Errorf("first event peak seq: got %d, want 9", events[0].Seq)
	}
	if events[1].Seq != 25 {
		t.Errorf("second event peak seq: got %d, want 25", events[1].Seq)
	}
	if events[0].ID == events[1].ID {
		t.Error("event IDs must be distinct")
	}
	if st := d.Stats(); st.Events != 2 {
		t.Errorf("stats report %d events, want 2", st.Events)
	}
}

// 4. Oscillation inside the band does not re-trigger: after a trigger the
// signal must cross the falling threshold before another event can fire.
func TestDetector_NoDoubleTriggersInsideBand(t *testing.T) {
	d := newTestDetector(t)

	var values []float64
	values = append(values, run(0.1, 8)...)
	values = append(values, run(0.7, 8)...) // trigger
	values = append(values, run(0.5, 8)...) // inside band: above falling
	values = append(values, run(0.7, 8)...) // above rising again, still disarmed
	values = append(values, run(0.5, 8)...)

	events := feed(d, 1, values)
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event across an in-band oscillation, got %d", len(events))
	}
}

// 5. Out-of-order samples are dropped and counted, never processed.
func TestDetector_OutOfOrderDropped(t *testing.T) {
	d := newTestDetector(t)

	feed(d, 10, run(0.1, 3))
	if ev := d.Feed(sample.Sample{Seq: 5, Value: 100}); ev != nil {
		t.Fatal("stale sample must not produce an event")
	}
	if ev := d.Feed(sample.Sample{Seq: 12, Value: 100}); ev != nil {
		t.Fatal("duplicate seq must not produce an event")
	}
	if st := d.Stats(); st.OutOfOrder != 2 {
		t.Errorf("expected 2 out-of-order drops, got %d", st.OutOfOrder)
	}
}

// failingStrategy errors on every window.
type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }
func (failingStrategy) Evaluate([]sample.Sample) (Score, error) {
	return Score{}, errors.New("degenerate window")
}

// wildPeakStrategy reports a peak index outside the window.
type wildPeakStrategy struct{}

func (wildPeakStrategy) Name() string { return "wild" }
func (wildPeakStrategy) Evaluate(w []sample.Sample) (Score, error) {
	return Score{Magnitude: 1, PeakIndex: len(w) + 3}, nil
}

// 6. A strategy error discards the window and keeps the pipeline alive.
func TestDetector_BadWindowDiscarded(t *testing.T) {
	d, err := New(Config{Window: 4, Hop: 2, Rising: 0.6, Falling: 0.4}, failingStrategy{}, clockwork.NewFakeClock())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if events := feed(d, 1, run(1.0, 12)); len(events) != 0 {
		t.Fatal("failing strategy must not emit events")
	}
	// Windows refill from empty after each discard: 12 samples = 3 windows.
	if st := d.Stats(); st.BadWindows != 3 {
		t.Errorf("expected 3 bad windows, got %d", st.BadWindows)
	}
}

// 7. An out-of-range peak index is treated as a bad window, not a panic.
func TestDetector_WildPeakIndexRejected(t *testing.T) {
	d, err := New(Config{Window: 4, Hop: 2, Rising: 0.6, Falling: 0.4}, wildPeakStrategy{}, clockwork.NewFakeClock())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if events := feed(d, 1, run(1.0, 8)); len(events) != 0 {
		t.Fatal("wild peak index must not emit events")
	}
	if st := d.Stats(); st.BadWindows == 0 {
		t.Error("expected bad windows to be counted")
	}
}

// 8. The variance estimate separates a flat stream from an active one.
func TestDetector_VarianceTracksActivity(t *testing.T) {
	flat := newTestDetector(t)
	feed(flat, 1, run(0.1, 200))

	active := newTestDetector(t)
	values := make([]float64, 200)
	for i := range values {
		if i%2 == 0 {
			values[i] = 1
		} else {
			values[i] = -1
		}
	}
	feed(active, 1, values)

	if fv, av := flat.Variance(), active.Variance(); av <= fv {
		t.Errorf("active variance %.6f not above flat variance %.6f", av, fv)
	}
}

// 9. Identical input produces identical event placement.
func TestDetector_Deterministic(t *testing.T) {
	var values []float64
	values = append(values, run(0.1, 8)...)
	values = append(values, run(1.0, 8)...)
	values = append(values, run(0.1, 8)...)

	a := feed(newTestDetector(t), 1, values)
	b := feed(newTestDetector(t), 1, values)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected 1 event each, got %d and %d", len(a), len(b))
	}
	if a[0].Seq != b[0].Seq || a[0].Magnitude != b[0].Magnitude {
		t.Errorf("event placement differs: %+v vs %+v", a[0], b[0])
	}
}
