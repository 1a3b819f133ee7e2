package control

import (
	"math"
	"reflect"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
)

func TestRunHoverCommand(t *testing.T) {
	pc := New(DefaultConfig())

	est := quadrotor.HoverState(r3.Vector{Z: 2})
	ref := quadrotor.TrajectoryPoint{Position: r3.Vector{Z: 2}}

	cmd := pc.Run(est, ref)

	if math.Abs(cmd.CollectiveThrust-DefaultGravity) > 1e-9 {
		t.Errorf("hover thrust = %f, want %f", cmd.CollectiveThrust, DefaultGravity)
	}
	if cmd.BodyRates.Norm() > 1e-9 {
		t.Errorf("hover body rates = %v, want zero", cmd.BodyRates)
	}
	if cmd.AngularAcceleration.Norm() > 1e-9 {
		t.Errorf("hover angular acceleration = %v, want zero", cmd.AngularAcceleration)
	}

	identity := quadrotor.IdentityQuat()
	d := quat.Sub(cmd.Orientation, identity)
	if quat.Abs(d) > 1e-9 {
		t.Errorf("hover orientation = %+v, want identity", cmd.Orientation)
	}
}

func TestRunMatchesReferenceInputs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dx, cfg.Dy, cfg.Dz = 0.2, 0.2, 0.05
	pc := New(cfg)

	est := quadrotor.HoverState(r3.Vector{})
	ref := quadrotor.TrajectoryPoint{
		Velocity:     r3.Vector{X: 3, Y: -1},
		Acceleration: r3.Vector{X: 1, Z: 0.5},
		Jerk:         r3.Vector{Y: 0.2},
		Heading:      1.1,
		HeadingRate:  0.1,
	}

	cmd := pc.Run(est, ref)
	ri := ComputeReferenceInputs(est, ref, cfg)

	want := quadrotor.ControlCommand{
		Orientation:         ri.Orientation,
		CollectiveThrust:    ri.CollectiveThrust,
		BodyRates:           ri.BodyRates,
		AngularAcceleration: ri.AngularAcceleration,
	}
	if !reflect.DeepEqual(cmd, want) {
		t.Errorf("Run() = %+v, want %+v", cmd, want)
	}
}

func TestRunIsTotalForDegenerateInputs(t *testing.T) {
	pc := New(DefaultConfig())
	est := quadrotor.HoverState(r3.Vector{})

	degenerate := []quadrotor.TrajectoryPoint{
		{Acceleration: r3.Vector{Z: -DefaultGravity}},
		{Acceleration: r3.Vector{Z: -DefaultGravity}, Heading: math.Pi / 2},
		{Acceleration: r3.Vector{X: 1e-9, Z: -DefaultGravity}},
		{Acceleration: r3.Vector{Y: 100, Z: -DefaultGravity}},
	}

	for i, ref := range degenerate {
		cmd := pc.Run(est, ref)

		vals := []float64{
			cmd.CollectiveThrust,
			cmd.BodyRates.Norm(),
			cmd.AngularAcceleration.Norm(),
			quat.Abs(cmd.Orientation),
		}
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("case %d: non-finite command field", i)
			}
		}
		if math.Abs(quat.Abs(cmd.Orientation)-1) > 1e-9 {
			t.Errorf("case %d: orientation norm = %f", i, quat.Abs(cmd.Orientation))
		}
	}
}
