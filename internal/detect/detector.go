// Package detect turns the ordered sample stream into detection events.
//
// The detector accumulates samples into a fixed analysis window, hands full
// windows to a pluggable scoring strategy, and applies a hysteresis band
// (distinct rising and falling thresholds) before emitting an event. The
// hysteresis is a hard design requirement: an oscillatory boundary crossing
// must not double-trigger stimulation.
package detect

// #region imports
import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/J9ck/human-embedded-technology/internal/sample"
)

// #endregion

// #region config

// Config fixes the detector's windowing and thresholds at startup.
type Config struct {
	Window  int     // analysis window length in samples
	Hop     int     // slide step after each evaluation
	Rising  float64 // trigger threshold while armed
	Falling float64 // re-arm threshold after a trigger

	// VarianceAlpha is the smoothing factor of the exponentially weighted
	// variance estimate exposed to the power policy. Zero selects the
	// default.
	VarianceAlpha float64
}

const defaultVarianceAlpha = 0.05

func (c Config) validate() error {
	if c.Window < 1 {
		return fmt.Errorf("detect: window must be >= 1, got %d", c.Window)
	}
	if c.Hop < 1 || c.Hop > c.Window {
		return fmt.Errorf("detect: hop must be in [1, window], got %d", c.Hop)
	}
	if c.Rising <= c.Falling {
		return fmt.Errorf("detect: rising threshold %.4f must exceed falling %.4f", c.Rising, c.Falling)
	}
	return nil
}

// #endregion config

// #region detector

// Detector is the window/evaluate/slide state machine. It is driven from a
// single task goroutine; Variance and Stats snapshots are safe from others.
type Detector struct {
	cfg   Config
	strat Strategy
	clock clockwork.Clock

	win     []sample.Sample
	armed   bool
	lastSeq uint64
	started bool

	mu         sync.Mutex
	ewMean     float64
	ewVar      float64
	events     uint64
	badWindows uint64
	outOfOrder uint64
}

// New creates a detector with the given strategy. The detector starts armed
// and cold: no event can fire before the first full window.
func New(cfg Config, strat Strategy, clock clockwork.Clock) (*Detector, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if strat == nil {
		return nil, fmt.Errorf("detect: nil strategy")
	}
	if clock == nil {
		return nil, fmt.Errorf("detect: nil clock")
	}
	if cfg.VarianceAlpha == 0 {
		cfg.VarianceAlpha = defaultVarianceAlpha
	}
	return &Detector{
		cfg:   cfg,
		strat: strat,
		clock: clock,
		win:   make([]sample.Sample, 0, cfg.Window),
		armed: true,
	}, nil
}

// #endregion detector

// #region feed

// Feed consumes one sample and returns a DetectionEvent when the current
// window evaluates above the rising threshold while armed, nil otherwise.
// Samples must arrive in strictly increasing sequence order; stragglers are
// dropped and counted, never processed out of order.
func (d *Detector) Feed(s sample.Sample) *DetectionEvent {
	if d.started && s.Seq <= d.lastSeq {
		d.mu.Lock()
		d.outOfOrder++
		d.mu.Unlock()
		log.Printf("[DETECT] dropping out-of-order sample seq=%d (last=%d)", s.Seq, d.lastSeq)
		return nil
	}
	d.started = true
	d.lastSeq = s.Seq
	d.observe(s.Value)

	d.win = append(d.win, s)
	if len(d.win) < d.cfg.Window {
		return nil // cold start or mid-hop: keep accumulating
	}

	score, err := d.strat.Evaluate(d.win)
	if err == nil && (score.PeakIndex < 0 || score.PeakIndex >= len(d.win)) {
		err = fmt.Errorf("peak index %d outside window of %d", score.PeakIndex, len(d.win))
	}
	if err != nil {
		// Local recovery: discard the window, keep the pipeline alive.
		d.mu.Lock()
		d.badWindows++
		d.mu.Unlock()
		log.Printf("[DETECT] %s strategy error, window discarded: %v", d.strat.Name(), err)
		d.win = d.win[:0]
		return nil
	}

	var ev *DetectionEvent
	switch {
	case d.armed && score.Magnitude >= d.cfg.Rising:
		peak := d.win[score.PeakIndex]
		ev = &DetectionEvent{
			ID:        uuid.NewString(),
			Seq:       peak.Seq,
			Timestamp: d.clock.Now(),
			Magnitude: score.Magnitude,
		}
		d.armed = false
		d.mu.Lock()
		d.events++
		d.mu.Unlock()
	case !d.armed && score.Magnitude <= d.cfg.Falling:
		d.armed = true
	}

	d.slide()
	return ev
}

func (d *Detector) slide() {
	n := copy(d.win, d.win[d.cfg.Hop:])
	d.win = d.win[:n]
}

func (d *Detector) observe(v float64) {
	d.mu.Lock()
	a := d.cfg.VarianceAlpha
	delta := v - d.ewMean
	d.ewMean += a * delta
	d.ewVar = (1 - a) * (d.ewVar + a*delta*delta)
	d.mu.Unlock()
}

// #endregion feed

// #region snapshots

// Variance returns the exponentially weighted variance of the recent
// signal. The power policy reads this to judge signal stability.
func (d *Detector) Variance() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if math.IsNaN(d.ewVar) {
		return 0
	}
	return d.ewVar
}

// DetectorStats is a counters snapshot.
type DetectorStats struct {
	Events     uint64
	BadWindows uint64
	OutOfOrder uint64
}

// Stats returns the detector's counters.
func (d *Detector) Stats() DetectorStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DetectorStats{Events: d.events, BadWindows: d.badWindows, OutOfOrder: d.outOfOrder}
}

// #endregion snapshots
