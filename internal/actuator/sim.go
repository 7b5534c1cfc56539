package actuator

// #region imports
import (
	"context"
	"errors"
	"sync"

	"github.com/J9ck/human-embedded-technology/internal/stim"
)

// #endregion

// #region sim

// ErrSimFailure is the scripted delivery error a Sim returns while failing.
var ErrSimFailure = errors.New("actuator: simulated delivery failure")

// Sim is an in-process actuator for bench runs and tests. It records every
// delivered command and can be scripted to fail a number of deliveries.
type Sim struct {
	mu        sync.Mutex
	delivered []stim.Command
	failNext  int
}

// NewSim creates a simulated actuator that acknowledges every delivery.
func NewSim() *Sim { return &Sim{} }

// Deliver implements stim.Actuator.
func (s *Sim) Deliver(_ context.Context, cmd stim.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext > 0 {
		s.failNext--
		return ErrSimFailure
	}
	s.delivered = append(s.delivered, cmd)
	return nil
}

// FailNext makes the next n deliveries fail.
func (s *Sim) FailNext(n int) {
	s.mu.Lock()
	s.failNext = n
	s.mu.Unlock()
}

// Delivered returns a copy of all acknowledged commands in delivery order.
func (s *Sim) Delivered() []stim.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]stim.Command, len(s.delivered))
	copy(out, s.delivered)
	return out
}

// #endregion sim
