package telemetry

import "time"

// #region kind

// Kind enumerates telemetry event categories.
type Kind string

const (
	KindDetection       Kind = "detection"
	KindStimIssued      Kind = "stim_issued"
	KindStimRejected    Kind = "stim_rejected"
	KindDeadlineMiss    Kind = "deadline_miss"
	KindChannelOverflow Kind = "channel_overflow"
	KindPowerAdjust     Kind = "power_adjust"
	KindActuatorFailure Kind = "actuator_failure"
	KindFailSafe        Kind = "fail_safe"
)

// #endregion kind

// #region event

// Event is one structured record in the telemetry log. Events flow through
// a bounded in-memory buffer to the persistent store and the wireless
// uplink; the hot path only ever appends to the buffer.
type Event struct {
	ID     string    `json:"id"`
	Kind   Kind      `json:"kind"`
	At     time.Time `json:"at"`
	Task   string    `json:"task,omitempty"`   // originating task, for scheduler events
	Seq    uint64    `json:"seq,omitempty"`    // related sample sequence number
	Value  float64   `json:"value,omitempty"`  // magnitude, period micros, or energy pct
	Detail string    `json:"detail,omitempty"` // human-readable reason
}

// #endregion event
