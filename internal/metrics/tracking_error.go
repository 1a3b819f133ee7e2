package metrics

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
)

// PositionRMSE accumulates the root-mean-square position error between the
// plant and the reference.
type PositionRMSE struct {
	name    string
	sumSq   float64
	samples int
}

func NewPositionRMSE() *PositionRMSE {
	return &PositionRMSE{name: "position_rmse"}
}

func (m *PositionRMSE) Name() string { return m.name }

func (m *PositionRMSE) Observe(x sim.State, cmd quadrotor.ControlCommand, ref quadrotor.TrajectoryPoint, t float64) {
	if len(x) < 3 {
		return
	}
	pos := r3.Vector{X: x[0], Y: x[1], Z: x[2]}
	e := pos.Sub(ref.Position).Norm()
	m.sumSq += e * e
	m.samples++
}

func (m *PositionRMSE) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *PositionRMSE) Reset() {
	m.sumSq = 0
	m.samples = 0
}

// MaxPositionError tracks the worst position deviation over the run.
type MaxPositionError struct {
	name string
	max  float64
}

func NewMaxPositionError() *MaxPositionError {
	return &MaxPositionError{name: "max_position_error"}
}

func (m *MaxPositionError) Name() string { return m.name }

func (m *MaxPositionError) Observe(x sim.State, cmd quadrotor.ControlCommand, ref quadrotor.TrajectoryPoint, t float64) {
	if len(x) < 3 {
		return
	}
	pos := r3.Vector{X: x[0], Y: x[1], Z: x[2]}
	if e := pos.Sub(ref.Position).Norm(); e > m.max {
		m.max = e
	}
}

func (m *MaxPositionError) Value() float64 { return m.max }

func (m *MaxPositionError) Reset() { m.max = 0 }
