package detect

// #region imports
import (
	"fmt"
	"math"

	"github.com/J9ck/human-embedded-technology/internal/sample"
)

// #endregion

// #region energy

// EnergyStrategy scores a window by its mean absolute value, the standard
// time-domain activation feature for surface EMG work. Cheap enough for the
// hot path: one pass, no allocation.
type EnergyStrategy struct{}

// NewEnergyStrategy returns the band-limited energy strategy.
func NewEnergyStrategy() *EnergyStrategy { return &EnergyStrategy{} }

// Name implements Strategy.
func (*EnergyStrategy) Name() string { return "energy" }

// Evaluate computes the rectified mean of the window and reports the sample
// with the largest absolute value as the peak.
func (*EnergyStrategy) Evaluate(window []sample.Sample) (Score, error) {
	if len(window) == 0 {
		return Score{}, fmt.Errorf("energy: empty window")
	}

	var sum, peakAbs float64
	peak := 0
	for i, s := range window {
		abs := math.Abs(s.Value)
		sum += abs
		if abs > peakAbs {
			peakAbs = abs
			peak = i
		}
	}
	mav := sum / float64(len(window))
	if math.IsNaN(mav) || math.IsInf(mav, 0) {
		return Score{}, fmt.Errorf("energy: non-finite input in window")
	}

	return Score{Magnitude: mav, PeakIndex: peak}, nil
}

// #endregion energy
