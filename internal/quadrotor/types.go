package quadrotor

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// StateEstimate is the vehicle state supplied by the estimator each control
// cycle. Position and Velocity are expressed in the world frame, BodyRates in
// the body frame. Orientation rotates body-frame vectors into the world frame
// and must be unit norm (caller's responsibility).
type StateEstimate struct {
	Position    r3.Vector
	Velocity    r3.Vector
	Orientation quat.Number
	BodyRates   r3.Vector
}

// TrajectoryPoint is one sample of the reference trajectory. All vectors are
// world frame, SI units. Heading is the desired world-frame yaw in radians.
type TrajectoryPoint struct {
	Position     r3.Vector
	Velocity     r3.Vector
	Acceleration r3.Vector
	Jerk         r3.Vector
	Heading      float64
	HeadingRate  float64
}

// ControlCommand is the high-level command consumed by the inner-loop
// attitude controller. CollectiveThrust is mass normalized (m/s^2), positive
// opposing gravity. BodyRates and AngularAcceleration are body frame.
type ControlCommand struct {
	Orientation         quat.Number
	CollectiveThrust    float64
	BodyRates           r3.Vector
	AngularAcceleration r3.Vector
}

// IdentityQuat returns the identity orientation.
func IdentityQuat() quat.Number {
	return quat.Number{Real: 1}
}

// HoverState returns a state estimate at rest at the given position with
// identity attitude.
func HoverState(pos r3.Vector) StateEstimate {
	return StateEstimate{
		Position:    pos,
		Orientation: IdentityQuat(),
	}
}
