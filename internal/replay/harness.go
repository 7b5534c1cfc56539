// Package replay re-runs recorded sample traces through the detection and
// stimulation stages on a fake clock. The same trace always produces the
// same events and the same commands, which makes field captures usable as
// regression fixtures.
package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/J9ck/human-embedded-technology/internal/actuator"
	"github.com/J9ck/human-embedded-technology/internal/detect"
	"github.com/J9ck/human-embedded-technology/internal/sample"
	"github.com/J9ck/human-embedded-technology/internal/stim"
)

// #region types

// ReplayResult captures the outcome of one detection event during replay.
type ReplayResult struct {
	EventID  string
	Seq      uint64 // peak source sample
	OffsetUS int64  // event emission offset from run start
	Action   string // "stimulate" | "reject" | "fail"
	Reason   string

	Magnitude float64
	Command   *stim.Command // nil unless a command was issued
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalSamples int
	Detections   int
	Stimulations int
	Rejections   int
	Failures     int
	FailSafe     bool

	DetectorStats   detect.DetectorStats
	ControllerStats stim.ControllerStats
}

// #endregion types

// #region replay

// Replay runs a fixture's sample trace through detector and controller,
// entirely in-memory on a fake clock.
func Replay(f *Fixture) ([]ReplayResult, ReplaySummary, error) {
	if err := f.Validate(); err != nil {
		return nil, ReplaySummary{}, err
	}

	clock := clockwork.NewFakeClock()
	start := clock.Now()

	strat, err := buildStrategy(f.Config.Detector)
	if err != nil {
		return nil, ReplaySummary{}, err
	}
	det, err := detect.New(detect.Config{
		Window:        f.Config.Detector.Window,
		Hop:           f.Config.Detector.Hop,
		Rising:        f.Config.Detector.Rising,
		Falling:       f.Config.Detector.Falling,
		VarianceAlpha: f.Config.Detector.VarianceAlpha,
	}, strat, clock)
	if err != nil {
		return nil, ReplaySummary{}, err
	}

	act := actuator.NewSim()
	act.FailNext(f.FailDeliveries)
	sc := f.Config.Stimulation
	ctrl, err := stim.NewController(stim.Config{
		AmplitudeMA:      sc.AmplitudeMA,
		PulseWidthUS:     sc.PulseWidthUS,
		BurstCount:       sc.BurstCount,
		Refractory:       time.Duration(sc.RefractoryMS) * time.Millisecond,
		LatencyBudget:    time.Duration(sc.LatencyBudgetMS) * time.Millisecond,
		FailureThreshold: sc.FailureThreshold,
	}, act, clock)
	if err != nil {
		return nil, ReplaySummary{}, err
	}

	ctx := context.Background()
	results := make([]ReplayResult, 0, 8)

	for _, fs := range f.Samples {
		at := start.Add(time.Duration(fs.OffsetUS) * time.Microsecond)
		if d := at.Sub(clock.Now()); d > 0 {
			clock.Advance(d)
		}

		ev := det.Feed(sample.Sample{Seq: fs.Seq, Timestamp: at, Value: fs.Value})
		if ev == nil {
			continue
		}

		r := ReplayResult{
			EventID:   ev.ID,
			Seq:       ev.Seq,
			OffsetUS:  ev.Timestamp.Sub(start).Microseconds(),
			Magnitude: ev.Magnitude,
		}
		cmd, err := ctrl.OnEvent(ctx, *ev)
		switch {
		case err == nil:
			r.Action = "stimulate"
			r.Reason = "delivered"
			r.Command = &cmd
		case errors.Is(err, stim.ErrDeliveryFailed):
			r.Action = "fail"
			r.Reason = err.Error()
			r.Command = &cmd
		default:
			r.Action = "reject"
			r.Reason = err.Error()
		}
		results = append(results, r)
	}

	s := Summarize(results, len(f.Samples))
	s.FailSafe = ctrl.FailSafe()
	s.DetectorStats = det.Stats()
	s.ControllerStats = ctrl.Stats()
	return results, s, nil
}

func buildStrategy(cfg FixtureDetector) (detect.Strategy, error) {
	switch cfg.Strategy {
	case "energy":
		return detect.NewEnergyStrategy(), nil
	case "matched":
		return detect.NewMatchedStrategy(cfg.Integrate)
	default:
		return nil, fmt.Errorf("replay: unknown detector strategy %q", cfg.Strategy)
	}
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult, totalSamples int) ReplaySummary {
	s := ReplaySummary{
		TotalSamples: totalSamples,
		Detections:   len(results),
	}
	for _, r := range results {
		switch r.Action {
		case "stimulate":
			s.Stimulations++
		case "reject":
			s.Rejections++
		case "fail":
			s.Failures++
		}
	}
	return s
}

// Check compares a summary against a fixture's expectation block.
func Check(f *Fixture, s ReplaySummary) error {
	if f.Expected == nil {
		return nil
	}
	e := f.Expected
	if s.Detections != e.Detections {
		return fmt.Errorf("detections: got %d, expected %d", s.Detections, e.Detections)
	}
	if s.Stimulations != e.Stimulations {
		return fmt.Errorf("stimulations: got %d, expected %d", s.Stimulations, e.Stimulations)
	}
	if s.Rejections != e.Rejections {
		return fmt.Errorf("rejections: got %d, expected %d", s.Rejections, e.Rejections)
	}
	if s.Failures != e.Failures {
		return fmt.Errorf("failures: got %d, expected %d", s.Failures, e.Failures)
	}
	if s.FailSafe != e.FailSafe {
		return fmt.Errorf("fail-safe: got %v, expected %v", s.FailSafe, e.FailSafe)
	}
	return nil
}

// #endregion replay
