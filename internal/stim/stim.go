// Package stim converts detection events into stimulation commands under a
// hard safety floor: never re-stimulate inside the refractory window, never
// stimulate twice for one event, and stop stimulating entirely once the
// actuator looks persistently broken. Visible suppression beats silent,
// unsupervised failure.
package stim

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/J9ck/human-embedded-technology/internal/detect"
)

// #endregion

// #region errors

var (
	// ErrRefractory rejects an event arriving inside the active
	// refractory window. Logged, never retried.
	ErrRefractory = errors.New("stim: refractory window active")

	// ErrDuplicateEvent rejects a duplicate notification of an event
	// already acted on, detected by sample sequence number.
	ErrDuplicateEvent = errors.New("stim: duplicate event")

	// ErrFailSafe rejects all stimulation after the fail-safe latch
	// tripped. Sampling and logging continue; stimulation does not.
	ErrFailSafe = errors.New("stim: fail-safe latched, stimulation disabled")

	// ErrDeliveryFailed wraps an actuator error for a command that was
	// issued. The refractory window is still honored so a broken actuator
	// cannot cause a retry storm.
	ErrDeliveryFailed = errors.New("stim: actuator delivery failed")
)

// #endregion errors

// #region command

// Command is one stimulation delivery request. At most one physical
// stimulation corresponds to a command.
type Command struct {
	ID           string
	AmplitudeMA  float64
	PulseWidthUS int
	BurstCount   int
	IssuedAt     time.Time
	EventSeq     uint64 // sequence number of the triggering sample
}

// #endregion command

// #region actuator

// Actuator is the pulse generator interface. Deliver is synchronous and
// returns the hardware acknowledgment.
type Actuator interface {
	Deliver(ctx context.Context, cmd Command) error
}

// #endregion actuator

// #region config

// Config fixes the stimulation parameters at startup.
type Config struct {
	AmplitudeMA  float64
	PulseWidthUS int
	BurstCount   int

	Refractory    time.Duration // mandatory cooldown between commands
	LatencyBudget time.Duration // event timestamp to IssuedAt, worst case

	// FailureThreshold is the number of consecutive delivery failures
	// that latches the fail-safe.
	FailureThreshold int
}

func (c Config) validate() error {
	if c.AmplitudeMA <= 0 || c.PulseWidthUS <= 0 || c.BurstCount <= 0 {
		return fmt.Errorf("stim: pulse parameters must be positive")
	}
	if c.Refractory <= 0 {
		return fmt.Errorf("stim: refractory duration must be positive")
	}
	if c.LatencyBudget <= 0 {
		return fmt.Errorf("stim: latency budget must be positive")
	}
	if c.FailureThreshold < 1 {
		return fmt.Errorf("stim: failure threshold must be >= 1")
	}
	return nil
}

// #endregion config

// #region controller

// Controller enforces refractory and fail-safe policy between the detector
// and the actuator. OnEvent is called from the single highest-priority
// stimulation goroutine; stats snapshots are safe from anywhere.
type Controller struct {
	cfg   Config
	act   Actuator
	clock clockwork.Clock

	mu              sync.Mutex
	refractoryUntil time.Time // zero = no active window
	lastSeq         uint64
	haveLast        bool
	failStreak      int
	failSafe        bool
	stats           ControllerStats
}

// ControllerStats is a counters snapshot.
type ControllerStats struct {
	Issued            uint64
	RefractoryRejects uint64
	DuplicateRejects  uint64
	FailSafeRejects   uint64
	DeliveryFailures  uint64
	LatencyOverruns   uint64
	FailSafe          bool
}

// NewController wires a controller to its actuator.
func NewController(cfg Config, act Actuator, clock clockwork.Clock) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if act == nil {
		return nil, fmt.Errorf("stim: nil actuator")
	}
	return &Controller{cfg: cfg, act: act, clock: clock}, nil
}

// #endregion controller

// #region on-event

// OnEvent turns one detection event into at most one stimulation command.
//
// Rejections return one of ErrFailSafe, ErrDuplicateEvent, ErrRefractory
// with a zero Command. When a command is issued but the actuator reports
// failure, the command and an ErrDeliveryFailed-wrapped error are both
// returned: the attempt counts as used and the refractory window stays open.
func (c *Controller) OnEvent(ctx context.Context, ev detect.DetectionEvent) (Command, error) {
	c.mu.Lock()

	if c.failSafe {
		c.stats.FailSafeRejects++
		c.mu.Unlock()
		return Command{}, ErrFailSafe
	}
	if c.haveLast && ev.Seq <= c.lastSeq {
		c.stats.DuplicateRejects++
		c.mu.Unlock()
		return Command{}, fmt.Errorf("%w: seq %d already handled", ErrDuplicateEvent, ev.Seq)
	}

	now := c.clock.Now()
	if !c.refractoryUntil.IsZero() && now.Before(c.refractoryUntil) {
		c.stats.RefractoryRejects++
		remaining := c.refractoryUntil.Sub(now)
		c.mu.Unlock()
		log.Printf("[STIM] rejected event seq=%d: refractory for another %v", ev.Seq, remaining)
		return Command{}, fmt.Errorf("%w: %v remaining", ErrRefractory, remaining)
	}

	cmd := Command{
		ID:           uuid.NewString(),
		AmplitudeMA:  c.cfg.AmplitudeMA,
		PulseWidthUS: c.cfg.PulseWidthUS,
		BurstCount:   c.cfg.BurstCount,
		IssuedAt:     now,
		EventSeq:     ev.Seq,
	}

	// The window opens at dispatch and is honored even if delivery fails.
	c.refractoryUntil = now.Add(c.cfg.Refractory)
	c.lastSeq = ev.Seq
	c.haveLast = true
	c.stats.Issued++

	if lat := now.Sub(ev.Timestamp); lat > c.cfg.LatencyBudget {
		c.stats.LatencyOverruns++
		log.Printf("[STIM] latency budget exceeded: event seq=%d took %v (budget %v)", ev.Seq, lat, c.cfg.LatencyBudget)
	}
	c.mu.Unlock()

	if err := c.act.Deliver(ctx, cmd); err != nil {
		c.mu.Lock()
		c.stats.DeliveryFailures++
		c.failStreak++
		latched := false
		if c.failStreak >= c.cfg.FailureThreshold && !c.failSafe {
			c.failSafe = true
			c.stats.FailSafe = true
			latched = true
		}
		c.mu.Unlock()

		log.Printf("[STIM] delivery failed for cmd=%s seq=%d: %v", cmd.ID, cmd.EventSeq, err)
		if latched {
			log.Printf("[STIM] fail-safe latched after %d consecutive delivery failures", c.cfg.FailureThreshold)
		}
		return cmd, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	c.mu.Lock()
	c.failStreak = 0
	c.mu.Unlock()
	return cmd, nil
}

// #endregion on-event

// #region snapshots

// FailSafe reports whether the fail-safe latch has tripped.
func (c *Controller) FailSafe() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failSafe
}

// RefractoryActive reports whether a refractory window is open at the
// controller clock's current instant.
func (c *Controller) RefractoryActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.refractoryUntil.IsZero() && c.clock.Now().Before(c.refractoryUntil)
}

// Stats returns the controller's counters.
func (c *Controller) Stats() ControllerStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// #endregion snapshots
