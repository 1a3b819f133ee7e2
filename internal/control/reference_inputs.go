package control

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
)

// AxisStatus records which branch produced a commanded body axis, so callers
// and tests can tell a nominal construction from a singularity fallback
// without reverse engineering the numbers.
type AxisStatus int

const (
	// AxisNominal means the axis came from the regular cross-product
	// construction.
	AxisNominal AxisStatus = iota

	// AxisZeroPrototype means the defining vector (alpha for x_B, beta for
	// y_B) was itself near zero, so the axis fell back to the C-frame axis.
	AxisZeroPrototype

	// AxisHeadingAligned means the defining vector was parallel to the other
	// operand of the cross product (heading axis aligned with the thrust
	// direction), so the axis fell back to the C-frame axis.
	AxisHeadingAligned
)

func (s AxisStatus) String() string {
	switch s {
	case AxisNominal:
		return "nominal"
	case AxisZeroPrototype:
		return "zero_prototype"
	case AxisHeadingAligned:
		return "heading_aligned"
	default:
		return "unknown"
	}
}

// ReferenceInputs is the full feed-forward solution for one control cycle:
// the commanded body frame, its quaternion, the collective thrust, and the
// body rates and angular accelerations obtained by differentiating the
// attitude/thrust solution along the trajectory.
type ReferenceInputs struct {
	XB, YB, ZB r3.Vector

	Orientation         quat.Number
	CollectiveThrust    float64
	BodyRates           r3.Vector
	AngularAcceleration r3.Vector

	// XAxis and YAxis report the singularity handling outcome for the
	// corresponding axis construction.
	XAxis, YAxis AxisStatus
}

// ComputeReferenceInputs inverts the flat quadrotor dynamics with rotor drag
// for one reference point. It is a pure function: identical inputs yield
// identical outputs, and every finite input produces a finite, orthonormal
// result. The state estimate is part of the controller contract; the
// drag-aware inversion below resolves the per-axis drag through the
// alpha/beta/gamma construction of the cited reference and therefore does
// not need to re-express velocity in the estimated body frame.
func ComputeReferenceInputs(est quadrotor.StateEstimate, ref quadrotor.TrajectoryPoint, cfg Config) ReferenceInputs {
	gravity := r3.Vector{Z: -cfg.Gravity}

	// Per-axis drag-augmented acceleration vectors. With zero drag all three
	// collapse to the commanded acceleration a_ref - g.
	alpha := ref.Acceleration.Sub(gravity).Add(ref.Velocity.Mul(cfg.Dx))
	beta := ref.Acceleration.Sub(gravity).Add(ref.Velocity.Mul(cfg.Dy))
	gamma := ref.Acceleration.Sub(gravity).Add(ref.Velocity.Mul(cfg.Dz))

	// Intermediate frame C encodes the desired heading in the world x-y
	// plane, independent of the thrust direction.
	sinPsi, cosPsi := math.Sincos(ref.Heading)
	xC := r3.Vector{X: cosPsi, Y: sinPsi}
	yC := r3.Vector{X: -sinPsi, Y: cosPsi}

	xB, xStatus := robustBodyXAxis(alpha, xC, yC, cfg)
	yB, yStatus := robustBodyYAxis(beta, xB, yC, cfg)

	// x_B and y_B are each unit length but only approximately orthogonal in
	// the fallback branches; the cross product restores an exact triad.
	zB := xB.Cross(yB)

	out := ReferenceInputs{
		XB:               xB,
		YB:               yB,
		ZB:               zB,
		Orientation:      quadrotor.QuatFromColumns(xB, yB, zB),
		CollectiveThrust: zB.Dot(gamma),
		XAxis:            xStatus,
		YAxis:            yStatus,
	}

	out.BodyRates = referenceBodyRates(&out, ref, xC, yC, cfg)
	out.AngularAcceleration = referenceAngularAccelerations(&out, ref, cfg)
	return out
}

// robustBodyXAxis computes x_B = normalize(y_C x alpha) with the singularity
// policy: when alpha is near zero, or y_C is parallel to alpha, the desired
// heading no longer constrains the frame and x_B falls back to x_C.
func robustBodyXAxis(alpha, xC, yC r3.Vector, cfg Config) (r3.Vector, AxisStatus) {
	if cfg.almostZero(alpha.Norm()) {
		return xC, AxisZeroPrototype
	}
	prototype := yC.Cross(alpha)
	if cfg.almostZero(prototype.Norm()) {
		return xC, AxisHeadingAligned
	}
	return prototype.Normalize(), AxisNominal
}

// robustBodyYAxis computes y_B = normalize(beta x x_B) with the same policy,
// falling back to y_C.
func robustBodyYAxis(beta, xB, yC r3.Vector, cfg Config) (r3.Vector, AxisStatus) {
	if cfg.almostZero(beta.Norm()) {
		return yC, AxisZeroPrototype
	}
	prototype := beta.Cross(xB)
	if cfg.almostZero(prototype.Norm()) {
		return yC, AxisHeadingAligned
	}
	return prototype.Normalize(), AxisNominal
}

// referenceBodyRates solves the linear system that relates the reference
// jerk and heading rate to the body rates of the commanded frame, including
// the rotor drag coupling terms. A near-singular system (free-falling or
// thrustless references) yields zero rates rather than blowing up.
func referenceBodyRates(ri *ReferenceInputs, ref quadrotor.TrajectoryPoint, xC, yC r3.Vector, cfg Config) r3.Vector {
	thrust := ri.CollectiveThrust

	b1 := thrust - (cfg.Dz-cfg.Dx)*ri.ZB.Dot(ref.Velocity)
	c1 := -(cfg.Dx - cfg.Dy) * ri.YB.Dot(ref.Velocity)
	d1 := ri.XB.Dot(ref.Jerk) + cfg.Dx*ri.XB.Dot(ref.Acceleration)

	a2 := thrust + (cfg.Dy-cfg.Dz)*ri.ZB.Dot(ref.Velocity)
	c2 := (cfg.Dx - cfg.Dy) * ri.XB.Dot(ref.Velocity)
	d2 := -ri.YB.Dot(ref.Jerk) - cfg.Dy*ri.YB.Dot(ref.Acceleration)

	b3 := -yC.Dot(ri.ZB)
	c3 := yC.Cross(ri.ZB).Norm()
	d3 := ref.HeadingRate * xC.Dot(ri.XB)

	denominator := b1*c3 - b3*c1
	if cfg.almostZero(denominator) {
		return r3.Vector{}
	}

	var rates r3.Vector
	if !cfg.almostZero(a2) {
		rates.X = (-b1*c2*d3 + b1*c3*d2 - b3*c1*d2 + b3*c2*d1) / (a2 * denominator)
	}
	rates.Y = (-c1*d3 + c3*d1) / denominator
	rates.Z = (b1*d3 - b3*d1) / denominator
	return rates
}

// referenceAngularAccelerations differentiates the thrust/attitude solution
// once more. The trajectory point carries derivatives up to jerk and heading
// rate, so snap and heading acceleration enter as zero; what remains are the
// thrust-derivative and gyroscopic terms. Near-zero thrust falls back to
// zero, matching the body-rate policy.
func referenceAngularAccelerations(ri *ReferenceInputs, ref quadrotor.TrajectoryPoint, cfg Config) r3.Vector {
	thrust := ri.CollectiveThrust
	if cfg.almostZero(thrust) {
		return r3.Vector{}
	}

	// Time derivative of z_B . gamma with the frame held: the drag term
	// differentiates the reference acceleration.
	thrustDot := ri.ZB.Dot(ref.Jerk) + cfg.Dz*ri.ZB.Dot(ref.Acceleration)

	w := ri.BodyRates
	return r3.Vector{
		X: (-2*thrustDot*w.X + thrust*w.Y*w.Z) / thrust,
		Y: (-2*thrustDot*w.Y - thrust*w.X*w.Z) / thrust,
		Z: 0,
	}
}
