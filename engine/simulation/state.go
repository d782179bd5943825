package simulation

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/input"
)

// State is the full simulation state. The driver mutates it once per tick and publishes value
// copies of it as snapshots.
type State struct {
	Camera Camera

	// Tick counts integrator steps since startup.
	Tick uint64

	// UpdatedAt is the tick boundary the last step was taken for.
	UpdatedAt time.Time
}

// NewState creates the startup state.
//
// Parameters:
//   - aspect: initial viewport aspect ratio
//   - now: the initial tick boundary
//
// Returns:
//   - State: the initial simulation state
func NewState(aspect float32, now time.Time) State {
	return State{
		Camera:    DefaultCamera(aspect),
		UpdatedAt: now,
	}
}

// SetAspect updates the camera projection aspect ratio.
func (s *State) SetAspect(aspect float32) {
	s.Camera.Aspect = aspect
}

// Advance runs one integrator step for the tick ending at boundary.
//
// Parameters:
//   - in: the input state for this tick
//   - look: pointer delta to apply as look rotation this tick
//   - integ: the integrator
//   - boundary: the tick boundary being processed
func (s *State) Advance(in *input.State, look LookDelta, integ *Integrator, boundary time.Time) {
	integ.Step(&s.Camera, in, look)
	s.Tick++
	s.UpdatedAt = boundary
}
