package sim

import (
	"fmt"
	"math"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
)

// State is a flat vector of plant state variables, the exchange format
// between the plant and the numerical integrators.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Control is the flat input vector consumed by a plant.
type Control []float64

// System is an ODE plant dX/dt = f(X, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Plant is a system the closed loop can fly: it maps its flat state to the
// estimate the controller consumes and a control command to its input
// vector.
type Plant interface {
	System
	Estimate(x State) quadrotor.StateEstimate
	CommandInput(cmd quadrotor.ControlCommand) Control
}

// Renormalizer is implemented by plants whose state carries constrained
// quantities (unit quaternions); the simulator applies it after every
// integration step.
type Renormalizer interface {
	Renormalize(x State) State
}

// Integrator advances a system state by one timestep.
type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Controller produces one command per cycle from the current estimate and
// reference point.
type Controller interface {
	Run(est quadrotor.StateEstimate, ref quadrotor.TrajectoryPoint) quadrotor.ControlCommand
}

// Generator supplies the reference trajectory point for a given time.
type Generator interface {
	At(t float64) quadrotor.TrajectoryPoint
	Name() string
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(x State, cmd quadrotor.ControlCommand, ref quadrotor.TrajectoryPoint, t float64)
	Value() float64
	Reset()
}

// Observer is notified once per control cycle.
type Observer interface {
	OnStep(x State, cmd quadrotor.ControlCommand, ref quadrotor.TrajectoryPoint, t float64)
}

// Config holds run parameters.
type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

// Result collects everything a run produced.
type Result struct {
	States     []State
	Commands   []quadrotor.ControlCommand
	References []quadrotor.TrajectoryPoint
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// SimError marks a failure at a specific step of a run.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
