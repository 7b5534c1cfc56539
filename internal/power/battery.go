package power

// #region imports
import (
	"sync"
	"time"
)

// #endregion

// #region sim-battery

// SimBattery is a bench-harness energy model: a fixed capacity drained in
// proportion to duty cycle. Real deployments replace it with the fuel-gauge
// reading from the power-management IC.
type SimBattery struct {
	mu        sync.Mutex
	pct       float64
	drainPerS float64 // percent per second at 100% duty cycle
}

// NewSimBattery starts a simulated cell at startPct with the given full-duty
// drain rate in percent per second.
func NewSimBattery(startPct, drainPerS float64) *SimBattery {
	if startPct > 100 {
		startPct = 100
	}
	if startPct < 0 {
		startPct = 0
	}
	return &SimBattery{pct: startPct, drainPerS: drainPerS}
}

// EnergyPct implements EnergyMeter.
func (b *SimBattery) EnergyPct() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pct
}

// Drain consumes energy for an elapsed interval at the given duty cycle.
func (b *SimBattery) Drain(elapsed time.Duration, dutyCycle float64) {
	b.mu.Lock()
	b.pct -= b.drainPerS * elapsed.Seconds() * dutyCycle
	if b.pct < 0 {
		b.pct = 0
	}
	b.mu.Unlock()
}

// Charge restores energy, clamped to 100%.
func (b *SimBattery) Charge(pct float64) {
	b.mu.Lock()
	b.pct += pct
	if b.pct > 100 {
		b.pct = 100
	}
	b.mu.Unlock()
}

// #endregion sim-battery
