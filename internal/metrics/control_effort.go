package metrics

import (
	"math"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
)

// ControlEffort averages the commanded thrust deviation from hover plus the
// commanded body-rate magnitude, a rough cost of how hard the controller
// works the vehicle.
type ControlEffort struct {
	name        string
	hoverThrust float64
	sum         float64
	samples     int
}

func NewControlEffort(hoverThrust float64) *ControlEffort {
	return &ControlEffort{
		name:        "control_effort",
		hoverThrust: hoverThrust,
	}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) Observe(x sim.State, cmd quadrotor.ControlCommand, ref quadrotor.TrajectoryPoint, t float64) {
	c.sum += math.Abs(cmd.CollectiveThrust-c.hoverThrust) + cmd.BodyRates.Norm()
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
