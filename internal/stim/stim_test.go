package stim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/J9ck/human-embedded-technology/internal/detect"
)

// scriptedActuator fails deliveries while failing > 0, acknowledges after.
type scriptedActuator struct {
	mu        sync.Mutex
	failing   int
	delivered []Command
}

var errHardware = errors.New("pulse generator timeout")

func (a *scriptedActuator) Deliver(_ context.Context, cmd Command) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failing > 0 {
		a.failing--
		return errHardware
	}
	a.delivered = append(a.delivered, cmd)
	return nil
}

func testConfig() Config {
	return Config{
		AmplitudeMA:      3.0,
		PulseWidthUS:     200,
		BurstCount:       5,
		Refractory:       100 * time.Millisecond,
		LatencyBudget:    5 * time.Millisecond,
		FailureThreshold: 3,
	}
}

func newTestController(t *testing.T, act Actuator, clock clockwork.Clock) *Controller {
	t.Helper()
	c, err := NewController(testConfig(), act, clock)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func event(seq uint64, at time.Time) detect.DetectionEvent {
	return detect.DetectionEvent{ID: "ev", Seq: seq, Timestamp: at, Magnitude: 1}
}

// 1. Config validation.
func TestController_ConfigValidation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	bad := []Config{
		{PulseWidthUS: 200, BurstCount: 5, Refractory: time.Second, LatencyBudget: time.Millisecond, FailureThreshold: 3},
		{AmplitudeMA: 3, PulseWidthUS: 200, BurstCount: 5, LatencyBudget: time.Millisecond, FailureThreshold: 3},
		{AmplitudeMA: 3, PulseWidthUS: 200, BurstCount: 5, Refractory: time.Second, FailureThreshold: 3},
		{AmplitudeMA: 3, PulseWidthUS: 200, BurstCount: 5, Refractory: time.Second, LatencyBudget: time.Millisecond},
	}
	for i, cfg := range bad {
		if _, err := NewController(cfg, &scriptedActuator{}, clock); err == nil {
			t.Errorf("case %d: expected config error", i)
		}
	}
	if _, err := NewController(testConfig(), nil, clock); err == nil {
		t.Error("expected error for nil actuator")
	}
}

// 2. A clean event issues exactly one command with the configured pulse.
func TestController_IssuesCommand(t *testing.T) {
	clock := clockwork.NewFakeClock()
	act := &scriptedActuator{}
	c := newTestController(t, act, clock)

	cmd, err := c.OnEvent(context.Background(), event(10, clock.Now()))
	if err != nil {
		t.Fatalf("OnEvent: %v", err)
	}
	if cmd.AmplitudeMA != 3.0 || cmd.PulseWidthUS != 200 || cmd.BurstCount != 5 {
		t.Errorf("pulse parameters not taken from config: %+v", cmd)
	}
	if cmd.EventSeq != 10 {
		t.Errorf("command must carry the event seq, got %d", cmd.EventSeq)
	}
	if len(act.delivered) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(act.delivered))
	}
	if !c.RefractoryActive() {
		t.Error("refractory window must open at dispatch")
	}
}

// 3. Inside the refractory window events are rejected and never retried;
// after it expires the next event goes through.
func TestController_RefractorySpacing(t *testing.T) {
	clock := clockwork.NewFakeClock()
	act := &scriptedActuator{}
	c := newTestController(t, act, clock)
	ctx := context.Background()

	if _, err := c.OnEvent(ctx, event(10, clock.Now())); err != nil {
		t.Fatalf("first event: %v", err)
	}

	clock.Advance(50 * time.Millisecond)
	_, err := c.OnEvent(ctx, event(20, clock.Now()))
	if !errors.Is(err, ErrRefractory) {
		t.Fatalf("expected ErrRefractory, got %v", err)
	}

	clock.Advance(60 * time.Millisecond) // 110 ms since dispatch
	cmd, err := c.OnEvent(ctx, event(30, clock.Now()))
	if err != nil {
		t.Fatalf("post-refractory event: %v", err)
	}
	if len(act.delivered) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(act.delivered))
	}

	// Commands are spaced by at least the refractory duration.
	if gap := cmd.IssuedAt.Sub(act.delivered[0].IssuedAt); gap < c.cfg.Refractory {
		t.Errorf("command spacing %v below refractory %v", gap, c.cfg.Refractory)
	}

	st := c.Stats()
	if st.Issued != 2 || st.RefractoryRejects != 1 {
		t.Errorf("unexpected counters: %+v", st)
	}
}

// 4. Duplicate and stale event notifications are suppressed by seq.
func TestController_DuplicateSuppression(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newTestController(t, &scriptedActuator{}, clock)
	ctx := context.Background()

	if _, err := c.OnEvent(ctx, event(10, clock.Now())); err != nil {
		t.Fatalf("first event: %v", err)
	}
	clock.Advance(200 * time.Millisecond)

	if _, err := c.OnEvent(ctx, event(10, clock.Now())); !errors.Is(err, ErrDuplicateEvent) {
		t.Errorf("same seq: expected ErrDuplicateEvent, got %v", err)
	}
	if _, err := c.OnEvent(ctx, event(4, clock.Now())); !errors.Is(err, ErrDuplicateEvent) {
		t.Errorf("older seq: expected ErrDuplicateEvent, got %v", err)
	}
	if st := c.Stats(); st.DuplicateRejects != 2 {
		t.Errorf("expected 2 duplicate rejects, got %d", st.DuplicateRejects)
	}
}

// 5. Delivery failure still opens the refractory window: a broken actuator
// cannot cause a retry storm.
func TestController_FailureHonorsRefractory(t *testing.T) {
	clock := clockwork.NewFakeClock()
	act := &scriptedActuator{failing: 1}
	c := newTestController(t, act, clock)
	ctx := context.Background()

	cmd, err := c.OnEvent(ctx, event(10, clock.Now()))
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
	if cmd.ID == "" {
		t.Error("a failed delivery still corresponds to an issued command")
	}
	if !c.RefractoryActive() {
		t.Error("refractory window must stay open after a failed delivery")
	}

	clock.Advance(10 * time.Millisecond)
	if _, err := c.OnEvent(ctx, event(20, clock.Now())); !errors.Is(err, ErrRefractory) {
		t.Errorf("expected ErrRefractory after failed delivery, got %v", err)
	}
}

// 6. The fail-safe latches after the threshold of consecutive failures and
// never unlatches; an intervening success resets the streak.
func TestController_FailSafeLatch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	act := &scriptedActuator{failing: 2}
	c := newTestController(t, act, clock)
	ctx := context.Background()

	// Two failures, then a success: streak resets, no latch.
	for seq := uint64(10); seq <= 30; seq += 10 {
		c.OnEvent(ctx, event(seq, clock.Now()))
		clock.Advance(200 * time.Millisecond)
	}
	if c.FailSafe() {
		t.Fatal("fail-safe must not latch when the streak was broken")
	}

	// Three consecutive failures latch it.
	act.mu.Lock()
	act.failing = 3
	act.mu.Unlock()
	for seq := uint64(40); seq <= 60; seq += 10 {
		c.OnEvent(ctx, event(seq, clock.Now()))
		clock.Advance(200 * time.Millisecond)
	}
	if !c.FailSafe() {
		t.Fatal("expected fail-safe to latch after 3 consecutive failures")
	}

	// Latched: everything is rejected, even after long waits.
	clock.Advance(time.Hour)
	if _, err := c.OnEvent(ctx, event(100, clock.Now())); !errors.Is(err, ErrFailSafe) {
		t.Fatalf("expected ErrFailSafe, got %v", err)
	}

	st := c.Stats()
	if !st.FailSafe || st.FailSafeRejects != 1 || st.DeliveryFailures != 5 {
		t.Errorf("unexpected counters: %+v", st)
	}
}

// 7. Latency overruns are counted against the budget from event emission.
func TestController_LatencyOverrunCounted(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newTestController(t, &scriptedActuator{}, clock)

	emitted := clock.Now()
	clock.Advance(8 * time.Millisecond) // past the 5 ms budget
	if _, err := c.OnEvent(context.Background(), event(10, emitted)); err != nil {
		t.Fatalf("OnEvent: %v", err)
	}
	if st := c.Stats(); st.LatencyOverruns != 1 {
		t.Errorf("expected 1 latency overrun, got %d", st.LatencyOverruns)
	}
}
