package sample

// #region imports
import (
	"math"
	"math/rand"
	"time"
)

// #endregion

// #region config

// SyntheticConfig shapes the synthetic biosignal generator.
// The generator is seeded so a given config always produces the same stream,
// which keeps replay fixtures and detector tests reproducible.
type SyntheticConfig struct {
	Seed          int64   // PRNG seed for the noise floor
	BaselineHz    float64 // carrier frequency of the resting signal
	BaselineAmp   float64 // carrier amplitude
	NoiseAmp      float64 // uniform noise amplitude added to every sample
	PulseAmp      float64 // amplitude multiplier applied during a pulse
	PulseWidth    int     // pulse duration in ticks
	PulseAtTicks  []uint64 // tick indices at which a pulse burst starts
}

// #endregion config

// #region synthetic

// Synthetic produces a deterministic resting waveform with optional
// injected bursts, modeled on bench amplifier test vectors: a band-limited
// carrier plus noise, with burst regions amplified.
type Synthetic struct {
	cfg   SyntheticConfig
	rng   *rand.Rand
	tick  uint64
	start time.Time
}

// NewSynthetic creates a seeded synthetic source.
func NewSynthetic(cfg SyntheticConfig) *Synthetic {
	return &Synthetic{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Next returns the next waveform value. O(1), no allocation.
func (s *Synthetic) Next(now time.Time) float64 {
	if s.start.IsZero() {
		s.start = now
	}
	t := now.Sub(s.start).Seconds()

	v := s.cfg.BaselineAmp * math.Sin(2*math.Pi*s.cfg.BaselineHz*t)
	v += s.cfg.NoiseAmp * (2*s.rng.Float64() - 1)

	if s.inPulse() {
		v *= s.cfg.PulseAmp
	}

	s.tick++
	return v
}

func (s *Synthetic) inPulse() bool {
	for _, at := range s.cfg.PulseAtTicks {
		if s.tick >= at && s.tick < at+uint64(s.cfg.PulseWidth) {
			return true
		}
	}
	return false
}

// #endregion synthetic

// #region constant

// Constant emits a fixed value on every tick. Used by pipeline tests that
// need a quiet, sub-threshold stream.
type Constant float64

// Next implements Source.
func (c Constant) Next(time.Time) float64 { return float64(c) }

// #endregion constant
