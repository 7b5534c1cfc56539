package sample

import "time"

// #region sample

// Sample is a single timestamped measurement from the acquisition front end.
// Immutable once created; ownership passes to the channel on Push and to the
// detector on Pop.
type Sample struct {
	Seq       uint64    // monotonic, assigned by the acquisition task
	Timestamp time.Time // capture time (source time, not processing time)
	Value     float64   // amplified, digitized measurement
}

// #endregion sample

// #region source

// Source delivers one Sample per acquisition tick.
// Implementations must complete in bounded O(1) time: the acquisition task
// calls Next on the fast path, so no allocation-heavy or blocking work.
type Source interface {
	Next(now time.Time) float64
}

// #endregion source
