package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a recorded-trace fixture.
type Fixture struct {
	Description string           `json:"description"`
	Config      FixtureConfig    `json:"config"`
	Samples     []FixtureSample  `json:"samples"`
	Expected    *FixtureExpected `json:"expected,omitempty"`

	// FailDeliveries makes the first N stimulation deliveries fail,
	// exercising the fail-safe path.
	FailDeliveries int `json:"fail_deliveries,omitempty"`
}

// FixtureSample is one recorded sample. OffsetUS is measured from the run
// start so a fixture is independent of wall time.
type FixtureSample struct {
	Seq      uint64  `json:"seq"`
	OffsetUS int64   `json:"offset_us"`
	Value    float64 `json:"value"`
}

// FixtureDetector mirrors detect.Config with JSON tags.
type FixtureDetector struct {
	Strategy      string  `json:"strategy"` // "energy" or "matched"
	Window        int     `json:"window"`
	Hop           int     `json:"hop"`
	Rising        float64 `json:"rising"`
	Falling       float64 `json:"falling"`
	Integrate     int     `json:"integrate"`
	VarianceAlpha float64 `json:"variance_alpha"`
}

// FixtureStimulation mirrors stim.Config with JSON tags.
type FixtureStimulation struct {
	AmplitudeMA      float64 `json:"amplitude_ma"`
	PulseWidthUS     int     `json:"pulse_width_us"`
	BurstCount       int     `json:"burst_count"`
	RefractoryMS     int     `json:"refractory_ms"`
	LatencyBudgetMS  int     `json:"latency_budget_ms"`
	FailureThreshold int     `json:"failure_threshold"`
}

// FixtureConfig bundles the detection and stimulation configs for a run.
type FixtureConfig struct {
	Detector    FixtureDetector    `json:"detector"`
	Stimulation FixtureStimulation `json:"stimulation"`
}

// FixtureExpected captures the aggregate outcome a fixture asserts.
type FixtureExpected struct {
	Detections   int  `json:"detections"`
	Stimulations int  `json:"stimulations"`
	Rejections   int  `json:"rejections"`
	Failures     int  `json:"failures"`
	FailSafe     bool `json:"fail_safe"`
}

// #endregion fixture-types

// #region load-save

// LoadFixture reads and validates a fixture from a JSON file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &f, nil
}

// SaveFixture writes a fixture as indented JSON.
func SaveFixture(path string, f *Fixture) error {
	if err := f.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// Validate checks structural invariants: monotonic sequence numbers and
// non-decreasing offsets.
func (f *Fixture) Validate() error {
	if len(f.Samples) == 0 {
		return fmt.Errorf("fixture has no samples")
	}
	for i := 1; i < len(f.Samples); i++ {
		if f.Samples[i].Seq <= f.Samples[i-1].Seq {
			return fmt.Errorf("sample %d: seq %d not after %d", i, f.Samples[i].Seq, f.Samples[i-1].Seq)
		}
		if f.Samples[i].OffsetUS < f.Samples[i-1].OffsetUS {
			return fmt.Errorf("sample %d: offset %dus before %dus", i, f.Samples[i].OffsetUS, f.Samples[i-1].OffsetUS)
		}
	}
	if f.FailDeliveries < 0 {
		return fmt.Errorf("fail_deliveries must be >= 0")
	}
	return nil
}

// #endregion load-save
