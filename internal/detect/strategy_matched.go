package detect

// #region imports
import (
	"fmt"
	"math"

	"github.com/J9ck/human-embedded-technology/internal/sample"
)

// #endregion

// #region matched

// MatchedStrategy scores a window with the slope-energy chain used by
// QRS-style detectors: first difference to emphasize fast edges, squaring to
// amplify them and suppress noise, then a moving-window integration. The
// score is the integrated peak, which rewards sustained sharp transients
// over isolated noise spikes.
type MatchedStrategy struct {
	integrate int // moving integration width in samples

	scratch []float64 // reused between calls; evaluation stays single-threaded
}

// NewMatchedStrategy creates the matched-energy strategy. integrate is the
// moving integration width; values around 15% of the window mirror the
// classic 150 ms QRS integration window.
func NewMatchedStrategy(integrate int) (*MatchedStrategy, error) {
	if integrate < 1 {
		return nil, fmt.Errorf("matched: integration width must be >= 1, got %d", integrate)
	}
	return &MatchedStrategy{integrate: integrate}, nil
}

// Name implements Strategy.
func (*MatchedStrategy) Name() string { return "matched" }

// Evaluate implements Strategy.
func (m *MatchedStrategy) Evaluate(window []sample.Sample) (Score, error) {
	if len(window) < 2 {
		return Score{}, fmt.Errorf("matched: window of %d samples is too short to differentiate", len(window))
	}
	if m.integrate > len(window)-1 {
		return Score{}, fmt.Errorf("matched: integration width %d exceeds window", m.integrate)
	}

	// Derivative then squaring.
	if cap(m.scratch) < len(window)-1 {
		m.scratch = make([]float64, len(window)-1)
	}
	sq := m.scratch[:len(window)-1]
	for i := 1; i < len(window); i++ {
		d := window[i].Value - window[i-1].Value
		sq[i-1] = d * d
	}

	// Moving-window integration; track the peak of the integrated trace.
	var acc, peakVal float64
	peak := 0
	for i, v := range sq {
		acc += v
		if i >= m.integrate {
			acc -= sq[i-m.integrate]
		}
		if acc > peakVal {
			peakVal = acc
			peak = i
		}
	}
	score := peakVal / float64(m.integrate)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Score{}, fmt.Errorf("matched: non-finite input in window")
	}

	// sq index i corresponds to window index i+1.
	return Score{Magnitude: score, PeakIndex: peak + 1}, nil
}

// #endregion matched
