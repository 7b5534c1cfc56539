package detect

// #region imports
import (
	"time"

	"github.com/J9ck/human-embedded-technology/internal/sample"
)

// #endregion

// #region event

// DetectionEvent marks one qualifying threshold crossing. It always
// references a sample that actually went through the channel; events are
// produced at most once per crossing and consumed exactly once.
type DetectionEvent struct {
	ID        string    // opaque event identity
	Seq       uint64    // sequence number of the peak source sample
	Timestamp time.Time // emission instant; the stimulation latency budget counts from here
	Magnitude float64   // strategy score at the crossing
}

// #endregion event

// #region score

// Score is a strategy's verdict on one analysis window.
type Score struct {
	Magnitude float64 // comparable against the hysteresis thresholds
	PeakIndex int     // index within the window of the sample that drove the score
}

// #endregion score

// #region strategy

// Strategy reduces a full analysis window to a single score. Implementations
// are selected at configuration time and hold whatever running state they
// need; the detector owns windowing, hysteresis, and event emission so a
// strategy stays a pure scoring concern.
//
// An error marks the window as unusable (wrong length, degenerate input).
// The detector discards that window and continues; a single bad window never
// stops the pipeline.
type Strategy interface {
	Name() string
	Evaluate(window []sample.Sample) (Score, error)
}

// #endregion strategy
