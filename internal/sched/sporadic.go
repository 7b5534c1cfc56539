package sched

// #region imports
import (
	"fmt"
	"sync"
	"time"
)

// #endregion

// #region sporadic-task

// SporadicTask accounts for a latency-driven task that is woken by a direct
// notification instead of a periodic release. The scheduler does not drive
// it; the owning goroutine brackets each activation with Begin/End and the
// scheduler folds its deadline accounting and utilization (WCET over minimum
// inter-arrival time) into the same feasibility and stats model as the
// periodic set.
type SporadicTask struct {
	desc  TaskDescriptor
	sched *Scheduler

	mu    sync.Mutex
	stats TaskStats
}

// RegisterSporadic adds a sporadic task to the set. desc.Period is read as
// the minimum inter-arrival time. Registration is subject to the same
// feasibility bound as periodic tasks.
func (s *Scheduler) RegisterSporadic(desc TaskDescriptor) (*SporadicTask, error) {
	if err := validate(desc); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil, ErrAlreadyRunning
	}
	for _, t := range s.sporadic {
		if t.desc.Name == desc.Name {
			return nil, fmt.Errorf("sched: task %q already registered", desc.Name)
		}
	}
	if s.lookupLocked(desc.Name) != nil {
		return nil, fmt.Errorf("sched: task %q already registered", desc.Name)
	}
	if err := s.checkFeasibleLocked(desc); err != nil {
		return nil, err
	}

	t := &SporadicTask{desc: desc, sched: s}
	s.sporadic = append(s.sporadic, t)
	return t, nil
}

// #endregion sporadic-task

// #region activation

// SporadicActivation is one in-flight activation of a sporadic task.
type SporadicActivation struct {
	task     *SporadicTask
	release  time.Time
	deadline time.Time
}

// Begin opens an activation released at the given instant. The relative
// deadline from the descriptor applies from release, not from when the body
// actually got scheduled, so queueing delay counts against the budget.
func (t *SporadicTask) Begin(release time.Time) *SporadicActivation {
	return &SporadicActivation{
		task:     t,
		release:  release,
		deadline: release.Add(t.desc.effectiveDeadline()),
	}
}

// End closes the activation and records runtime and deadline accounting.
func (a *SporadicActivation) End() {
	t := a.task
	finished := t.sched.clock.Now()

	t.mu.Lock()
	t.stats.Activations++
	t.stats.LastRuntime = finished.Sub(a.release)
	if t.stats.LastRuntime > t.stats.MaxRuntime {
		t.stats.MaxRuntime = t.stats.LastRuntime
	}
	missed := finished.After(a.deadline)
	if missed {
		t.stats.DeadlineMisses++
		t.stats.ConsecutiveMisses++
	} else {
		t.stats.ConsecutiveMisses = 0
	}
	ev := MissEvent{
		Task:        t.desc.Name,
		Release:     a.release,
		Deadline:    a.deadline,
		Consecutive: t.stats.ConsecutiveMisses,
	}
	t.mu.Unlock()

	if missed && t.sched.MissFunc != nil {
		t.sched.MissFunc(ev)
	}
}

// #endregion activation

// #region snapshot

func (t *SporadicTask) snapshot() TaskStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.stats
	st.Name = t.desc.Name
	st.Priority = t.desc.Priority
	st.Period = t.desc.Period
	st.Utilization = t.desc.utilization()
	return st
}

// #endregion snapshot
