// Package power trades sampling fidelity for energy budget. The policy runs
// at the lowest priority, watches signal stability, stored energy, and
// deadline pressure, and nudges the acquisition period inside its configured
// bounds. It only ever requests; the scheduler applies the change at the
// next period boundary.
package power

// #region imports
import (
	"fmt"
	"log"
	"sync"
	"time"
)

// #endregion

// #region interfaces

// EnergyMeter estimates remaining stored energy as a percentage.
type EnergyMeter interface {
	EnergyPct() float64
}

// SignalStats exposes the detector's recent-signal variance.
type SignalStats interface {
	Variance() float64
}

// PeriodSetter requests an acquisition period change; the implementation
// clamps to the task's bounds and applies at the next boundary.
type PeriodSetter interface {
	RequestPeriod(task string, period time.Duration) (time.Duration, error)
}

// #endregion interfaces

// #region config

// Config fixes the policy thresholds at startup.
type Config struct {
	MinPeriod time.Duration // fastest allowed acquisition period
	MaxPeriod time.Duration // slowest allowed acquisition period
	Step      float64       // multiplicative period step per adjustment

	VarianceFloor float64 // below: signal is quiet, sampling can slow
	VarianceCeil  float64 // above: signal is active, sampling must restore

	LowEnergyPct     float64 // below: shed load regardless of signal
	RecoverEnergyPct float64 // above: energy plentiful, rate can restore

	// MissBackoff is the consecutive-deadline-miss count that forces a
	// load-shedding period increase.
	MissBackoff uint64
}

func (c Config) validate() error {
	if c.MinPeriod <= 0 || c.MaxPeriod < c.MinPeriod {
		return fmt.Errorf("power: period bounds [%v, %v] invalid", c.MinPeriod, c.MaxPeriod)
	}
	if c.Step <= 1 {
		return fmt.Errorf("power: step must exceed 1, got %v", c.Step)
	}
	if c.VarianceCeil < c.VarianceFloor {
		return fmt.Errorf("power: variance ceiling below floor")
	}
	if c.LowEnergyPct < 0 || c.RecoverEnergyPct > 100 || c.RecoverEnergyPct < c.LowEnergyPct {
		return fmt.Errorf("power: energy thresholds invalid")
	}
	if c.MissBackoff < 1 {
		return fmt.Errorf("power: miss backoff must be >= 1")
	}
	return nil
}

// #endregion config

// #region decision

// Inputs is everything one policy tick looks at.
type Inputs struct {
	Period            time.Duration // current acquisition period
	Variance          float64
	EnergyPct         float64
	ConsecutiveMisses uint64
}

// Decision is the outcome of one policy tick.
type Decision struct {
	Action string // "raise" | "lower" | "hold"
	Reason string
	Period time.Duration // clamped target period
}

// Decide is a pure function from inputs to the next acquisition period.
// Requests outside [MinPeriod, MaxPeriod] are clamped, never rejected: the
// system must always keep sampling.
func Decide(in Inputs, cfg Config) Decision {
	target := in.Period
	action := "hold"
	reason := "signal and energy within bands"

	switch {
	case in.ConsecutiveMisses >= cfg.MissBackoff:
		target = time.Duration(float64(in.Period) * cfg.Step)
		action = "raise"
		reason = fmt.Sprintf("%d consecutive deadline misses, shedding load", in.ConsecutiveMisses)
	case in.EnergyPct < cfg.LowEnergyPct:
		target = time.Duration(float64(in.Period) * cfg.Step)
		action = "raise"
		reason = fmt.Sprintf("energy %.1f%% below low threshold %.1f%%", in.EnergyPct, cfg.LowEnergyPct)
	case in.Variance < cfg.VarianceFloor:
		target = time.Duration(float64(in.Period) * cfg.Step)
		action = "raise"
		reason = fmt.Sprintf("variance %.4g below stability floor %.4g", in.Variance, cfg.VarianceFloor)
	case in.Variance > cfg.VarianceCeil || in.EnergyPct >= cfg.RecoverEnergyPct:
		target = time.Duration(float64(in.Period) / cfg.Step)
		action = "lower"
		reason = fmt.Sprintf("variance %.4g / energy %.1f%% support full rate", in.Variance, in.EnergyPct)
	}

	if target < cfg.MinPeriod {
		target = cfg.MinPeriod
	}
	if target > cfg.MaxPeriod {
		target = cfg.MaxPeriod
	}
	if target == in.Period {
		action = "hold"
	}
	return Decision{Action: action, Reason: reason, Period: target}
}

// #endregion decision

// #region state

// State is the process-wide power snapshot. Owned exclusively by the
// policy; everyone else sees copies.
type State struct {
	DutyCycle         float64 // MinPeriod / current period
	AcquisitionPeriod time.Duration
	MissedDeadlines   uint64
	EnergyPct         float64
	Variance          float64
}

// #endregion state

// #region policy

// Policy owns the power state and drives period adjustments.
type Policy struct {
	cfg      Config
	task     string // acquisition task name
	setter   PeriodSetter
	meter    EnergyMeter
	signal   SignalStats

	mu    sync.Mutex
	state State

	// AdjustFunc, when set, observes every non-hold decision. Used for
	// telemetry; must not block.
	AdjustFunc func(Decision)
}

// NewPolicy wires the policy to its collaborators. task names the
// acquisition task whose period it modulates; initial is that task's
// configured starting period, so the first decision steps from where the
// scheduler actually is. Out-of-bounds initials are clamped, not rejected.
func NewPolicy(cfg Config, task string, initial time.Duration, setter PeriodSetter, meter EnergyMeter, signal SignalStats) (*Policy, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if setter == nil || meter == nil || signal == nil {
		return nil, fmt.Errorf("power: nil collaborator")
	}
	if initial < cfg.MinPeriod {
		initial = cfg.MinPeriod
	}
	if initial > cfg.MaxPeriod {
		initial = cfg.MaxPeriod
	}
	p := &Policy{cfg: cfg, task: task, setter: setter, meter: meter, signal: signal}
	p.state.AcquisitionPeriod = initial
	p.state.DutyCycle = float64(cfg.MinPeriod) / float64(initial)
	return p, nil
}

// Tick runs one policy pass: read signals, decide, request. misses is the
// acquisition-side consecutive deadline miss count; totalMisses feeds the
// exported snapshot.
func (p *Policy) Tick(misses, totalMisses uint64) Decision {
	p.mu.Lock()
	in := Inputs{
		Period:            p.state.AcquisitionPeriod,
		Variance:          p.signal.Variance(),
		EnergyPct:         p.meter.EnergyPct(),
		ConsecutiveMisses: misses,
	}
	p.mu.Unlock()

	dec := Decide(in, p.cfg)
	if dec.Action != "hold" {
		applied, err := p.setter.RequestPeriod(p.task, dec.Period)
		if err != nil {
			log.Printf("[POWER] period request failed: %v", err)
			dec = Decision{Action: "hold", Reason: "period request failed", Period: in.Period}
		} else {
			dec.Period = applied
			log.Printf("[POWER] %s acquisition period %v -> %v: %s", dec.Action, in.Period, applied, dec.Reason)
			if p.AdjustFunc != nil {
				p.AdjustFunc(dec)
			}
		}
	}

	p.mu.Lock()
	p.state.AcquisitionPeriod = dec.Period
	p.state.DutyCycle = float64(p.cfg.MinPeriod) / float64(dec.Period)
	p.state.MissedDeadlines = totalMisses
	p.state.EnergyPct = in.EnergyPct
	p.state.Variance = in.Variance
	p.mu.Unlock()
	return dec
}

// Snapshot returns a copy of the current power state.
func (p *Policy) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// #endregion policy
