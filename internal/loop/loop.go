// Package loop assembles the closed-loop pipeline: acquisition task →
// sample ring → detector → stimulation controller → actuator, with the
// power policy and telemetry flusher in the background. All timing runs on
// one scheduler; the only paths outside it are the detector-to-stimulation
// wake-up channel and the fire-and-forget telemetry sinks.
package loop

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/J9ck/human-embedded-technology/internal/config"
	"github.com/J9ck/human-embedded-technology/internal/detect"
	"github.com/J9ck/human-embedded-technology/internal/power"
	"github.com/J9ck/human-embedded-technology/internal/sample"
	"github.com/J9ck/human-embedded-technology/internal/sched"
	"github.com/J9ck/human-embedded-technology/internal/stim"
	"github.com/J9ck/human-embedded-technology/internal/telemetry"
)

// #endregion

// #region task-names

// Task names on the scheduler.
const (
	TaskAcquire   = "acquire"
	TaskDetect    = "detect"
	TaskStimulate = "stimulate"
	TaskTelemetry = "telemetry"
	TaskPower     = "power"
)

// eventQueueDepth bounds the detector-to-stimulation wake channel. The
// controller drains far faster than the detector can emit (one evaluation
// per hop), so this never fills in a healthy system.
const eventQueueDepth = 16

// #endregion task-names

// #region drainer

// Drainer is the optional battery-model hook: bench batteries drain in
// proportion to duty cycle, hardware fuel gauges ignore it.
type Drainer interface {
	Drain(elapsed time.Duration, dutyCycle float64)
}

// #endregion drainer

// #region pipeline

// Pipeline owns every component of one closed-loop run.
type Pipeline struct {
	cfg   config.Config
	clock clockwork.Clock

	scheduler *sched.Scheduler
	ring      *sample.Ring
	detector  *detect.Detector
	ctrl      *stim.Controller
	policy    *power.Policy
	recorder  *telemetry.Recorder
	source    sample.Source
	drainer   Drainer // nil unless the meter is a simulated battery

	events   chan detect.DetectionEvent
	stimTask *sched.SporadicTask

	seq           uint64
	lastPowerTick time.Time
}

// New wires a pipeline. The source, actuator, and energy meter are the
// external collaborators; everything else is built from config.
func New(cfg config.Config, src sample.Source, act stim.Actuator, meter power.EnergyMeter, rec *telemetry.Recorder, clock clockwork.Clock) (*Pipeline, error) {
	strat, err := buildStrategy(cfg.Detector)
	if err != nil {
		return nil, err
	}
	return NewWithStrategy(cfg, src, act, meter, rec, clock, strat)
}

// NewWithStrategy wires a pipeline around a caller-supplied detection
// strategy instead of one named in config. Bench tooling uses it to
// substitute instrumented strategies.
func NewWithStrategy(cfg config.Config, src sample.Source, act stim.Actuator, meter power.EnergyMeter, rec *telemetry.Recorder, clock clockwork.Clock, strat detect.Strategy) (*Pipeline, error) {
	if src == nil || act == nil || meter == nil || rec == nil {
		return nil, fmt.Errorf("loop: nil collaborator")
	}

	detector, err := detect.New(detect.Config{
		Window:        cfg.Detector.Window,
		Hop:           cfg.Detector.Hop,
		Rising:        cfg.Detector.Rising,
		Falling:       cfg.Detector.Falling,
		VarianceAlpha: cfg.Detector.VarianceAlpha,
	}, strat, clock)
	if err != nil {
		return nil, err
	}

	ctrl, err := stim.NewController(stim.Config{
		AmplitudeMA:      cfg.Stimulation.AmplitudeMA,
		PulseWidthUS:     cfg.Stimulation.PulseWidthUS,
		BurstCount:       cfg.Stimulation.BurstCount,
		Refractory:       time.Duration(cfg.Stimulation.RefractoryMS) * time.Millisecond,
		LatencyBudget:    time.Duration(cfg.Stimulation.LatencyBudgetMS) * time.Millisecond,
		FailureThreshold: cfg.Stimulation.FailureThreshold,
	}, act, clock)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		clock:     clock,
		scheduler: sched.New(clock),
		ring:      sample.NewRing(cfg.Channel.Capacity),
		detector:  detector,
		ctrl:      ctrl,
		recorder:  rec,
		source:    src,
		events:    make(chan detect.DetectionEvent, eventQueueDepth),
	}
	if d, ok := meter.(Drainer); ok {
		p.drainer = d
	}

	p.policy, err = power.NewPolicy(power.Config{
		MinPeriod:        time.Duration(cfg.Acquisition.MinPeriodUS) * time.Microsecond,
		MaxPeriod:        time.Duration(cfg.Acquisition.MaxPeriodUS) * time.Microsecond,
		Step:             cfg.Power.Step,
		VarianceFloor:    cfg.Power.VarianceFloor,
		VarianceCeil:     cfg.Power.VarianceCeil,
		LowEnergyPct:     cfg.Power.LowEnergyPct,
		RecoverEnergyPct: cfg.Power.RecoverEnergyPct,
		MissBackoff:      cfg.Power.MissBackoff,
	}, TaskAcquire, time.Duration(cfg.Acquisition.PeriodUS)*time.Microsecond, p.scheduler, meter, detector)
	if err != nil {
		return nil, err
	}
	p.policy.AdjustFunc = func(dec power.Decision) {
		rec.Record(telemetry.Event{
			Kind:   telemetry.KindPowerAdjust,
			Task:   TaskAcquire,
			Value:  float64(dec.Period.Microseconds()),
			Detail: fmt.Sprintf("%s: %s", dec.Action, dec.Reason),
		})
	}

	p.scheduler.MissFunc = p.onMiss

	if err := p.registerTasks(); err != nil {
		return nil, err
	}
	return p, nil
}

func buildStrategy(cfg config.Detector) (detect.Strategy, error) {
	switch cfg.Strategy {
	case "energy":
		return detect.NewEnergyStrategy(), nil
	case "matched":
		return detect.NewMatchedStrategy(cfg.Integrate)
	default:
		return nil, fmt.Errorf("loop: unknown detector strategy %q", cfg.Strategy)
	}
}

// #endregion pipeline

// #region register

func (p *Pipeline) registerTasks() error {
	var err error
	p.stimTask, err = p.scheduler.RegisterSporadic(sched.TaskDescriptor{
		Name:     TaskStimulate,
		Period:   time.Duration(p.cfg.Stimulation.RefractoryMS) * time.Millisecond,
		Deadline: time.Duration(p.cfg.Stimulation.LatencyBudgetMS) * time.Millisecond,
		Priority: p.cfg.Stimulation.Priority,
		WCET:     time.Duration(p.cfg.Stimulation.WCETUS) * time.Microsecond,
	})
	if err != nil {
		return err
	}

	if err := p.scheduler.Register(sched.TaskDescriptor{
		Name:      TaskAcquire,
		Period:    time.Duration(p.cfg.Acquisition.PeriodUS) * time.Microsecond,
		Priority:  p.cfg.Acquisition.Priority,
		WCET:      time.Duration(p.cfg.Acquisition.WCETUS) * time.Microsecond,
		MinPeriod: time.Duration(p.cfg.Acquisition.MinPeriodUS) * time.Microsecond,
		MaxPeriod: time.Duration(p.cfg.Acquisition.MaxPeriodUS) * time.Microsecond,
	}, p.acquire); err != nil {
		return err
	}

	if err := p.scheduler.Register(sched.TaskDescriptor{
		Name:     TaskDetect,
		Period:   time.Duration(p.cfg.Detector.PeriodUS) * time.Microsecond,
		Priority: p.cfg.Detector.Priority,
		WCET:     time.Duration(p.cfg.Detector.WCETUS) * time.Microsecond,
	}, p.detectPass); err != nil {
		return err
	}

	if err := p.scheduler.Register(sched.TaskDescriptor{
		Name:     TaskTelemetry,
		Period:   time.Duration(p.cfg.Telemetry.FlushPeriodMS) * time.Millisecond,
		Priority: p.cfg.Telemetry.Priority,
		WCET:     time.Duration(p.cfg.Telemetry.WCETUS) * time.Microsecond,
	}, func(context.Context, time.Time) { p.recorder.Flush() }); err != nil {
		return err
	}

	return p.scheduler.Register(sched.TaskDescriptor{
		Name:     TaskPower,
		Period:   time.Duration(p.cfg.Power.PeriodMS) * time.Millisecond,
		Priority: p.cfg.Power.Priority,
		WCET:     time.Duration(p.cfg.Power.WCETUS) * time.Microsecond,
	}, p.powerPass)
}

// #endregion register

// #region task-bodies

// acquire is the fast path: one source read, one ring push, nothing else.
func (p *Pipeline) acquire(_ context.Context, release time.Time) {
	p.seq++
	s := sample.Sample{Seq: p.seq, Timestamp: release, Value: p.source.Next(release)}
	if !p.ring.Push(s) {
		p.recorder.Record(telemetry.Event{
			Kind:   telemetry.KindChannelOverflow,
			Seq:    s.Seq,
			Detail: "oldest sample dropped",
		})
	}
}

// detectPass drains whatever the acquisition task has produced since the
// last activation, in sequence order, and forwards any detection to the
// stimulation task's wake channel.
func (p *Pipeline) detectPass(ctx context.Context, _ time.Time) {
	for {
		s, ok := p.ring.Pop()
		if !ok {
			return
		}
		ev := p.detector.Feed(s)
		if ev == nil {
			continue
		}
		p.recorder.Record(telemetry.Event{
			ID:    ev.ID,
			Kind:  telemetry.KindDetection,
			At:    ev.Timestamp,
			Seq:   ev.Seq,
			Value: ev.Magnitude,
		})
		select {
		case p.events <- *ev:
		case <-ctx.Done():
			return
		}
	}
}

// powerPass runs one policy tick and, on a bench battery, accounts the
// elapsed drain.
func (p *Pipeline) powerPass(_ context.Context, release time.Time) {
	if p.drainer != nil && !p.lastPowerTick.IsZero() {
		p.drainer.Drain(release.Sub(p.lastPowerTick), p.policy.Snapshot().DutyCycle)
	}
	p.lastPowerTick = release

	st, err := p.scheduler.TaskStats(TaskAcquire)
	if err != nil {
		log.Printf("[POWER] acquisition stats unavailable: %v", err)
		return
	}
	p.policy.Tick(st.ConsecutiveMisses, p.scheduler.Stats().TotalMisses)
}

// stimLoop is the highest-priority consumer: it blocks on the direct
// notification channel, so a detection wakes it without any polling hop.
func (p *Pipeline) stimLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.events:
			act := p.stimTask.Begin(ev.Timestamp)
			cmd, err := p.ctrl.OnEvent(ctx, ev)
			p.recordStimOutcome(ev, cmd, err)
			act.End()
		}
	}
}

func (p *Pipeline) recordStimOutcome(ev detect.DetectionEvent, cmd stim.Command, err error) {
	switch {
	case err == nil:
		p.recorder.Record(telemetry.Event{
			ID:    cmd.ID,
			Kind:  telemetry.KindStimIssued,
			At:    cmd.IssuedAt,
			Seq:   cmd.EventSeq,
			Value: cmd.AmplitudeMA,
		})
	case isRejection(err):
		p.recorder.Record(telemetry.Event{
			Kind:   telemetry.KindStimRejected,
			Seq:    ev.Seq,
			Detail: err.Error(),
		})
	default:
		// Command was issued but the hardware did not acknowledge.
		p.recorder.Record(telemetry.Event{
			ID:     cmd.ID,
			Kind:   telemetry.KindActuatorFailure,
			Seq:    cmd.EventSeq,
			Detail: err.Error(),
		})
		if p.ctrl.FailSafe() {
			p.recorder.Record(telemetry.Event{
				Kind:   telemetry.KindFailSafe,
				Detail: "stimulation disabled, sampling and logging continue",
			})
		}
	}
}

func isRejection(err error) bool {
	return errors.Is(err, stim.ErrRefractory) ||
		errors.Is(err, stim.ErrDuplicateEvent) ||
		errors.Is(err, stim.ErrFailSafe)
}

func (p *Pipeline) onMiss(ev sched.MissEvent) {
	t := telemetry.Event{
		Kind:   telemetry.KindDeadlineMiss,
		Task:   ev.Task,
		Detail: fmt.Sprintf("consecutive=%d abandoned=%v", ev.Consecutive, ev.Abandoned),
	}
	if ev.Consecutive >= p.cfg.MissAlertThreshold {
		t.Detail += " degraded"
	}
	p.recorder.Record(t)
}

// #endregion task-bodies

// #region run

// Run starts the stimulation consumer and drives the scheduler until ctx is
// cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	log.Printf("[LOOP] starting: acquisition=%dus window=%d strategy=%s refractory=%dms",
		p.cfg.Acquisition.PeriodUS, p.cfg.Detector.Window, p.cfg.Detector.Strategy, p.cfg.Stimulation.RefractoryMS)

	go p.stimLoop(ctx)
	err := p.scheduler.Run(ctx)
	p.ring.Close()
	p.recorder.Flush()
	return err
}

// #endregion run

// #region snapshots

// SchedulerStats returns the task accounting snapshot.
func (p *Pipeline) SchedulerStats() sched.Stats { return p.scheduler.Stats() }

// PowerState returns the power policy snapshot.
func (p *Pipeline) PowerState() power.State { return p.policy.Snapshot() }

// DetectorStats returns detector counters.
func (p *Pipeline) DetectorStats() detect.DetectorStats { return p.detector.Stats() }

// ControllerStats returns stimulation counters.
func (p *Pipeline) ControllerStats() stim.ControllerStats { return p.ctrl.Stats() }

// ChannelDrops returns the sample ring's overflow count.
func (p *Pipeline) ChannelDrops() uint64 { return p.ring.Drops() }

// TelemetryCounters returns recorder counters.
func (p *Pipeline) TelemetryCounters() telemetry.Counters { return p.recorder.Snapshot() }

// #endregion snapshots
