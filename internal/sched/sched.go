// Package sched runs a fixed set of periodic and sporadic tasks under
// fixed-priority scheduling with deadline-miss accounting.
//
// The task set is closed at startup: Register and RegisterSporadic fail once
// Run has been called, and registration fails with ErrScheduleInfeasible when
// the combined utilization exceeds the rate-monotonic bound. There is no
// general-purpose pool; every task is known, sized, and prioritized up front
// so the feasibility analysis stays tractable.
package sched

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// #endregion

// #region errors

var (
	// ErrScheduleInfeasible means the task set cannot meet all deadlines
	// under worst-case execution assumptions. The system refuses to start
	// rather than run with undefined timing.
	ErrScheduleInfeasible = errors.New("sched: task set infeasible")

	// ErrAlreadyRunning means registration was attempted after Run.
	ErrAlreadyRunning = errors.New("sched: scheduler already running")

	// ErrUnknownTask means the named task is not registered.
	ErrUnknownTask = errors.New("sched: unknown task")
)

// #endregion errors

// #region activation

type activation struct {
	release  time.Time
	deadline time.Time
}

// #endregion activation

// #region task

type task struct {
	desc TaskDescriptor
	body TaskFunc

	actCh chan activation

	mu            sync.Mutex
	period        time.Duration
	pendingPeriod time.Duration // zero = no pending request
	next          time.Time
	running       bool
	stats         TaskStats
}

// #endregion task

// #region scheduler

// Scheduler is the fixed-priority executor for the control loop.
type Scheduler struct {
	clock clockwork.Clock

	mu       sync.Mutex
	periodic []*task
	sporadic []*SporadicTask
	running  bool

	// MissFunc, when set before Run, is invoked for every deadline miss.
	// Called from scheduler goroutines; must be cheap and non-blocking.
	MissFunc func(MissEvent)
}

// New creates a scheduler driven by the given clock.
func New(clock clockwork.Clock) *Scheduler {
	return &Scheduler{clock: clock}
}

// #endregion scheduler

// #region register

// Register adds a periodic task. Fails with ErrScheduleInfeasible when the
// resulting task set exceeds the rate-monotonic utilization bound.
func (s *Scheduler) Register(desc TaskDescriptor, body TaskFunc) error {
	if err := validate(desc); err != nil {
		return err
	}
	if body == nil {
		return fmt.Errorf("sched: task %q has nil body", desc.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	if s.lookupLocked(desc.Name) != nil {
		return fmt.Errorf("sched: task %q already registered", desc.Name)
	}
	if err := s.checkFeasibleLocked(desc); err != nil {
		return err
	}

	s.periodic = append(s.periodic, &task{
		desc:   desc,
		body:   body,
		actCh:  make(chan activation, 1),
		period: desc.Period,
	})
	return nil
}

func validate(desc TaskDescriptor) error {
	if desc.Name == "" {
		return errors.New("sched: task name required")
	}
	if desc.Period <= 0 {
		return fmt.Errorf("sched: task %q needs a positive period", desc.Name)
	}
	if desc.WCET <= 0 || desc.WCET > desc.worstPeriod() {
		return fmt.Errorf("sched: task %q WCET must be in (0, period]", desc.Name)
	}
	if desc.effectiveDeadline() > desc.Period {
		return fmt.Errorf("sched: task %q deadline exceeds period", desc.Name)
	}
	if desc.MinPeriod > 0 && desc.MaxPeriod < desc.MinPeriod {
		return fmt.Errorf("sched: task %q has inverted period bounds", desc.Name)
	}
	return nil
}

// checkFeasibleLocked applies the Liu-Layland bound U <= n(2^(1/n)-1) to the
// task set including the candidate. Adjustable-period tasks are accounted at
// their shortest (worst-case) period.
func (s *Scheduler) checkFeasibleLocked(candidate TaskDescriptor) error {
	n := len(s.periodic) + len(s.sporadic) + 1
	u := candidate.utilization()
	for _, t := range s.periodic {
		u += t.desc.utilization()
	}
	for _, t := range s.sporadic {
		u += t.desc.utilization()
	}
	bound := float64(n) * (math.Pow(2, 1/float64(n)) - 1)
	if u > bound {
		return fmt.Errorf("%w: utilization %.3f exceeds bound %.3f for %d tasks",
			ErrScheduleInfeasible, u, bound, n)
	}
	return nil
}

func (d TaskDescriptor) utilization() float64 {
	return float64(d.WCET) / float64(d.worstPeriod())
}

func (s *Scheduler) lookupLocked(name string) *task {
	for _, t := range s.periodic {
		if t.desc.Name == name {
			return t
		}
	}
	return nil
}

// #endregion register

// #region run

// Run releases tasks until ctx is cancelled. Under normal operation it never
// returns; the only exits are cancellation and an empty task set.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	tasks := make([]*task, len(s.periodic))
	copy(tasks, s.periodic)
	s.mu.Unlock()

	if len(tasks) == 0 {
		return errors.New("sched: no periodic tasks registered")
	}

	// Highest urgency first: release order at a shared boundary follows
	// priority, so urgent work is dispatched before bulk work.
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].desc.Priority < tasks[j].desc.Priority
	})

	var wg sync.WaitGroup
	for _, t := range tasks {
		t.mu.Lock()
		t.next = s.clock.Now().Add(t.period)
		t.mu.Unlock()

		wg.Add(1)
		go func(t *task) {
			defer wg.Done()
			s.worker(ctx, t)
		}(t)
	}

	s.dispatch(ctx, tasks)
	wg.Wait()
	return ctx.Err()
}

// dispatch is the release loop: sleep to the earliest boundary, release every
// due task in priority order, repeat.
func (s *Scheduler) dispatch(ctx context.Context, tasks []*task) {
	for {
		now := s.clock.Now()

		var earliest time.Time
		for _, t := range tasks {
			t.mu.Lock()
			if !t.next.After(now) {
				s.releaseLocked(t)
			}
			if earliest.IsZero() || t.next.Before(earliest) {
				earliest = t.next
			}
			t.mu.Unlock()
		}

		d := earliest.Sub(s.clock.Now())
		if d < 0 {
			d = 0
		}
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(d):
		}
	}
}

// releaseLocked releases one activation of t. Pending period requests are
// applied here, never mid-cycle. If the previous activation is still running
// the new release is abandoned and counted as a miss: overdue work never
// piles up.
func (s *Scheduler) releaseLocked(t *task) {
	if t.pendingPeriod > 0 {
		log.Printf("[SCHED] task %s period %v -> %v at boundary", t.desc.Name, t.period, t.pendingPeriod)
		t.period = t.pendingPeriod
		t.pendingPeriod = 0
	}

	release := t.next
	deadline := release.Add(t.desc.effectiveDeadline())
	t.next = t.next.Add(t.period)

	// Resync after a long stall so the task does not burn its budget
	// replaying stale periods.
	now := s.clock.Now()
	for !t.next.After(now) {
		t.next = t.next.Add(t.period)
	}

	if t.running {
		s.recordMissLocked(t, MissEvent{
			Task:      t.desc.Name,
			Release:   release,
			Deadline:  deadline,
			Abandoned: true,
		})
		return
	}

	t.running = true
	t.actCh <- activation{release: release, deadline: deadline}
}

func (s *Scheduler) worker(ctx context.Context, t *task) {
	for {
		select {
		case <-ctx.Done():
			return
		case act := <-t.actCh:
			started := s.clock.Now()
			t.body(ctx, act.release)
			finished := s.clock.Now()

			t.mu.Lock()
			t.stats.Activations++
			t.stats.LastRuntime = finished.Sub(started)
			if t.stats.LastRuntime > t.stats.MaxRuntime {
				t.stats.MaxRuntime = t.stats.LastRuntime
			}
			if finished.After(act.deadline) {
				s.recordMissLocked(t, MissEvent{
					Task:     t.desc.Name,
					Release:  act.release,
					Deadline: act.deadline,
				})
			} else {
				t.stats.ConsecutiveMisses = 0
			}
			t.running = false
			t.mu.Unlock()
		}
	}
}

func (s *Scheduler) recordMissLocked(t *task, ev MissEvent) {
	t.stats.DeadlineMisses++
	t.stats.ConsecutiveMisses++
	ev.Consecutive = t.stats.ConsecutiveMisses
	log.Printf("[SCHED] deadline miss: task=%s consecutive=%d abandoned=%v",
		ev.Task, ev.Consecutive, ev.Abandoned)
	if s.MissFunc != nil {
		s.MissFunc(ev)
	}
}

// #endregion run

// #region request-period

// RequestPeriod asks for a new period for the named task. The request is
// clamped to the task's configured bounds, never rejected outright, and takes
// effect at the next period boundary. Returns the clamped value.
func (s *Scheduler) RequestPeriod(name string, period time.Duration) (time.Duration, error) {
	s.mu.Lock()
	t := s.lookupLocked(name)
	s.mu.Unlock()
	if t == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	clamped := clampPeriod(t.desc, period)
	if clamped == t.period {
		t.pendingPeriod = 0
		return clamped, nil
	}
	t.pendingPeriod = clamped
	return clamped, nil
}

// Period returns the task's current period (pending requests excluded).
func (s *Scheduler) Period(name string) (time.Duration, error) {
	s.mu.Lock()
	t := s.lookupLocked(name)
	s.mu.Unlock()
	if t == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period, nil
}

func clampPeriod(desc TaskDescriptor, period time.Duration) time.Duration {
	min, max := desc.MinPeriod, desc.MaxPeriod
	if min == 0 && max == 0 {
		return desc.Period // pinned
	}
	if period < min {
		return min
	}
	if period > max {
		return max
	}
	return period
}

// #endregion request-period

// #region stats

// Stats returns a snapshot of all task accounting, ordered by priority.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	periodic := make([]*task, len(s.periodic))
	copy(periodic, s.periodic)
	sporadic := make([]*SporadicTask, len(s.sporadic))
	copy(sporadic, s.sporadic)
	s.mu.Unlock()

	var out Stats
	for _, t := range periodic {
		t.mu.Lock()
		st := t.stats
		st.Name = t.desc.Name
		st.Priority = t.desc.Priority
		st.Period = t.period
		st.Utilization = t.desc.utilization()
		t.mu.Unlock()
		out.Tasks = append(out.Tasks, st)
		out.TotalMisses += st.DeadlineMisses
		out.Utilization += st.Utilization
	}
	for _, t := range sporadic {
		st := t.snapshot()
		out.Tasks = append(out.Tasks, st)
		out.TotalMisses += st.DeadlineMisses
		out.Utilization += st.Utilization
	}

	sort.SliceStable(out.Tasks, func(i, j int) bool {
		return out.Tasks[i].Priority < out.Tasks[j].Priority
	})
	return out
}

// TaskStats returns the snapshot for one task.
func (s *Scheduler) TaskStats(name string) (TaskStats, error) {
	for _, st := range s.Stats().Tasks {
		if st.Name == name {
			return st, nil
		}
	}
	return TaskStats{}, fmt.Errorf("%w: %s", ErrUnknownTask, name)
}

// #endregion stats
