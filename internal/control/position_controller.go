package control

import (
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
)

// PositionController turns a state estimate and a reference trajectory point
// into one control command per cycle. It holds only configuration constants,
// so a single instance is safe to share between concurrent callers.
type PositionController struct {
	cfg Config
}

// New returns a controller with the given constants.
func New(cfg Config) *PositionController {
	return &PositionController{cfg: cfg}
}

// Config returns the controller constants.
func (pc *PositionController) Config() Config {
	return pc.cfg
}

// Run computes the command that tracks the reference point from the current
// state. It is a total function: degenerate geometry is resolved by the
// fallback policy inside the reference-input computation, never surfaced as
// an error, and the returned command is always finite and well formed.
func (pc *PositionController) Run(est quadrotor.StateEstimate, ref quadrotor.TrajectoryPoint) quadrotor.ControlCommand {
	ri := ComputeReferenceInputs(est, ref, pc.cfg)
	return quadrotor.ControlCommand{
		Orientation:         ri.Orientation,
		CollectiveThrust:    ri.CollectiveThrust,
		BodyRates:           ri.BodyRates,
		AngularAcceleration: ri.AngularAcceleration,
	}
}
