package metrics

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
)

// HeadingError averages the absolute yaw error between the plant attitude
// and the reference heading.
type HeadingError struct {
	name    string
	sum     float64
	samples int
}

func NewHeadingError() *HeadingError {
	return &HeadingError{name: "heading_error"}
}

func (h *HeadingError) Name() string { return h.name }

func (h *HeadingError) Observe(x sim.State, cmd quadrotor.ControlCommand, ref quadrotor.TrajectoryPoint, t float64) {
	if len(x) < 10 {
		return
	}
	att := quadrotor.NormalizeQuat(quat.Number{Real: x[6], Imag: x[7], Jmag: x[8], Kmag: x[9]})

	diff := quadrotor.Yaw(att) - ref.Heading
	diff = math.Mod(diff+math.Pi, 2*math.Pi)
	if diff < 0 {
		diff += 2 * math.Pi
	}
	diff -= math.Pi

	h.sum += math.Abs(diff)
	h.samples++
}

func (h *HeadingError) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return h.sum / float64(h.samples)
}

func (h *HeadingError) Reset() {
	h.sum = 0
	h.samples = 0
}
