package control

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
)

// FeedbackGains hold the outer-loop gains wrapped around the feed-forward
// inversion: a PD loop shaping the commanded acceleration from the position
// and velocity errors, and a proportional attitude loop turning the
// orientation error into additional body rates.
type FeedbackGains struct {
	Kp   float64
	Kd   float64
	Katt float64
}

// DefaultFeedbackGains are tuned for the simulated plant: position loop
// well below the attitude loop, attitude loop well below the body-rate
// response.
func DefaultFeedbackGains() FeedbackGains {
	return FeedbackGains{Kp: 6, Kd: 4, Katt: 8}
}

// TrackingController closes the loop around the pure PositionController.
// The reference acceleration is shaped by the position/velocity error
// before the flatness inversion runs, and the commanded body rates gain an
// attitude-error term, so the command both tracks the trajectory and
// rejects disturbances. The wrapped core stays a pure function.
type TrackingController struct {
	position *PositionController
	gains    FeedbackGains
}

func NewTracking(pc *PositionController, gains FeedbackGains) *TrackingController {
	return &TrackingController{position: pc, gains: gains}
}

func (tc *TrackingController) Run(est quadrotor.StateEstimate, ref quadrotor.TrajectoryPoint) quadrotor.ControlCommand {
	shaped := ref
	shaped.Acceleration = ref.Acceleration.
		Add(ref.Position.Sub(est.Position).Mul(tc.gains.Kp)).
		Add(ref.Velocity.Sub(est.Velocity).Mul(tc.gains.Kd))

	cmd := tc.position.Run(est, shaped)

	// Quaternion attitude error resolved in the body frame; the sign flip
	// picks the short way around.
	qe := quat.Mul(quat.Conj(est.Orientation), cmd.Orientation)
	if qe.Real < 0 {
		qe = quat.Scale(-1, qe)
	}
	cmd.BodyRates = cmd.BodyRates.Add(r3.Vector{
		X: 2 * tc.gains.Katt * qe.Imag,
		Y: 2 * tc.gains.Katt * qe.Jmag,
		Z: 2 * tc.gains.Katt * qe.Kmag,
	})

	return cmd
}
