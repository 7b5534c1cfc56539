package sched

// #region imports
import (
	"context"
	"time"
)

// #endregion

// #region descriptor

// TaskDescriptor is the static timing contract for a task, fixed at
// registration. Only the period may change afterwards, and only at a period
// boundary via RequestPeriod.
//
// Priority follows the lower-value-is-more-urgent convention. The default
// assignment is rate-monotonic (shorter period, higher urgency); tasks whose
// urgency is latency-driven rather than periodic override it explicitly.
type TaskDescriptor struct {
	Name     string
	Period   time.Duration // release interval (periodic) or minimum inter-arrival time (sporadic)
	Deadline time.Duration // relative deadline; zero means deadline = period
	Priority int           // lower value = higher urgency
	WCET     time.Duration // worst-case execution time estimate

	// MinPeriod and MaxPeriod bound RequestPeriod. Zero values pin the
	// period to its initial value.
	MinPeriod time.Duration
	MaxPeriod time.Duration
}

// effectiveDeadline returns the relative deadline, defaulting to the period.
func (d TaskDescriptor) effectiveDeadline() time.Duration {
	if d.Deadline > 0 {
		return d.Deadline
	}
	return d.Period
}

// worstPeriod returns the shortest period the task can be driven at, which
// is what feasibility has to assume.
func (d TaskDescriptor) worstPeriod() time.Duration {
	if d.MinPeriod > 0 {
		return d.MinPeriod
	}
	return d.Period
}

// #endregion descriptor

// #region task-func

// TaskFunc is one activation of a periodic task. release is the scheduled
// release instant, not the instant the body actually started.
type TaskFunc func(ctx context.Context, release time.Time)

// #endregion task-func

// #region miss

// MissEvent describes one deadline miss.
type MissEvent struct {
	Task        string
	Release     time.Time
	Deadline    time.Time
	Consecutive uint64
	Abandoned   bool // true when the release was skipped because the previous activation still ran
}

// #endregion miss

// #region stats

// TaskStats is a snapshot of one task's accounting.
type TaskStats struct {
	Name              string
	Priority          int
	Period            time.Duration
	Activations       uint64
	DeadlineMisses    uint64
	ConsecutiveMisses uint64
	LastRuntime       time.Duration
	MaxRuntime        time.Duration
	Utilization       float64 // WCET / worst-case period
}

// Stats is a snapshot of the whole task set, ordered by priority.
type Stats struct {
	Tasks       []TaskStats
	TotalMisses uint64
	Utilization float64
}

// #endregion stats
