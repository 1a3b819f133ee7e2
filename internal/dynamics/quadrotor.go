// Package dynamics provides the rigid-body quadrotor plant used to verify
// the position controller in closed loop.
package dynamics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
)

// State layout: [px py pz vx vy vz qw qx qy qz wx wy wz].
// Control layout: [thrust wx_des wy_des wz_des].
const (
	StateDim   = 13
	ControlDim = 4
)

// Quadrotor models translation under mass-normalized collective thrust and
// rotor drag, attitude kinematics, and a first-order body-rate tracking
// loop standing in for the low-level controller and motor dynamics.
type Quadrotor struct {
	Gravity    float64
	Dx, Dy, Dz float64

	// RateTau is the time constant of the body-rate response in seconds.
	RateTau float64
}

func NewQuadrotor() *Quadrotor {
	return &Quadrotor{
		Gravity: 9.81,
		RateTau: 0.05,
	}
}

func (q *Quadrotor) StateDim() int   { return StateDim }
func (q *Quadrotor) ControlDim() int { return ControlDim }

// HoverThrust is the mass-normalized thrust that cancels gravity.
func (q *Quadrotor) HoverThrust() float64 { return q.Gravity }

func (q *Quadrotor) Derive(x sim.State, u sim.Control, t float64) sim.State {
	vel := r3.Vector{X: x[3], Y: x[4], Z: x[5]}
	att := quadrotor.NormalizeQuat(quat.Number{Real: x[6], Imag: x[7], Jmag: x[8], Kmag: x[9]})
	rates := r3.Vector{X: x[10], Y: x[11], Z: x[12]}

	thrust := 0.0
	ratesDes := r3.Vector{}
	if len(u) >= 4 {
		thrust = u[0]
		ratesDes = r3.Vector{X: u[1], Y: u[2], Z: u[3]}
	} else if len(u) >= 1 {
		thrust = u[0]
	}
	if thrust < 0 {
		thrust = 0
	}

	// Rotor drag opposes the body-frame velocity, per axis.
	velBody := quadrotor.RotateInverse(att, vel)
	dragWorld := quadrotor.Rotate(att, r3.Vector{
		X: q.Dx * velBody.X,
		Y: q.Dy * velBody.Y,
		Z: q.Dz * velBody.Z,
	})

	acc := quadrotor.BodyZ(att).Mul(thrust).
		Add(r3.Vector{Z: -q.Gravity}).
		Sub(dragWorld)

	// Attitude kinematics: qdot = q ⊗ (0, w) / 2.
	qDot := quat.Scale(0.5, quat.Mul(att, quat.Number{
		Imag: rates.X, Jmag: rates.Y, Kmag: rates.Z,
	}))

	ratesDot := ratesDes.Sub(rates).Mul(1 / q.RateTau)

	return sim.State{
		vel.X, vel.Y, vel.Z,
		acc.X, acc.Y, acc.Z,
		qDot.Real, qDot.Imag, qDot.Jmag, qDot.Kmag,
		ratesDot.X, ratesDot.Y, ratesDot.Z,
	}
}

// Estimate maps the flat plant state to the estimate the controller
// consumes.
func (q *Quadrotor) Estimate(x sim.State) quadrotor.StateEstimate {
	return quadrotor.StateEstimate{
		Position:    r3.Vector{X: x[0], Y: x[1], Z: x[2]},
		Velocity:    r3.Vector{X: x[3], Y: x[4], Z: x[5]},
		Orientation: quadrotor.NormalizeQuat(quat.Number{Real: x[6], Imag: x[7], Jmag: x[8], Kmag: x[9]}),
		BodyRates:   r3.Vector{X: x[10], Y: x[11], Z: x[12]},
	}
}

// CommandInput maps a control command to the plant input vector.
func (q *Quadrotor) CommandInput(cmd quadrotor.ControlCommand) sim.Control {
	return sim.Control{
		cmd.CollectiveThrust,
		cmd.BodyRates.X, cmd.BodyRates.Y, cmd.BodyRates.Z,
	}
}

// Renormalize restores the unit-norm quaternion after an integration step.
func (q *Quadrotor) Renormalize(x sim.State) sim.State {
	n := quadrotor.NormalizeQuat(quat.Number{Real: x[6], Imag: x[7], Jmag: x[8], Kmag: x[9]})
	out := x.Clone()
	out[6], out[7], out[8], out[9] = n.Real, n.Imag, n.Jmag, n.Kmag
	return out
}

// InitialState builds the flat state for a vehicle at rest at pos with
// identity attitude.
func InitialState(pos r3.Vector) sim.State {
	x := make(sim.State, StateDim)
	x[0], x[1], x[2] = pos.X, pos.Y, pos.Z
	x[6] = 1
	return x
}
