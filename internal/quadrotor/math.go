package quadrotor

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Rotate applies the rotation q to the world-frame vector v, i.e. computes
// q * v * q^-1 for a unit quaternion q.
func Rotate(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// RotateInverse applies the inverse rotation of q to v.
func RotateInverse(q quat.Number, v r3.Vector) r3.Vector {
	return Rotate(quat.Conj(q), v)
}

// QuatFromColumns builds the quaternion equivalent to the rotation matrix
// whose columns are the orthonormal triad (x, y, z). Uses the largest-pivot
// branch so the square root argument stays positive for any proper rotation.
func QuatFromColumns(x, y, z r3.Vector) quat.Number {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	trace := m00 + m11 + m22
	var q quat.Number
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		q = quat.Number{
			Real: 0.25 * s,
			Imag: (m21 - m12) / s,
			Jmag: (m02 - m20) / s,
			Kmag: (m10 - m01) / s,
		}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{
			Real: (m21 - m12) / s,
			Imag: 0.25 * s,
			Jmag: (m01 + m10) / s,
			Kmag: (m02 + m20) / s,
		}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{
			Real: (m02 - m20) / s,
			Imag: (m01 + m10) / s,
			Jmag: 0.25 * s,
			Kmag: (m12 + m21) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{
			Real: (m10 - m01) / s,
			Imag: (m02 + m20) / s,
			Jmag: (m12 + m21) / s,
			Kmag: 0.25 * s,
		}
	}
	return NormalizeQuat(q)
}

// QuatFromYaw returns the rotation about the world z axis by psi radians.
func QuatFromYaw(psi float64) quat.Number {
	half := 0.5 * psi
	return quat.Number{Real: math.Cos(half), Kmag: math.Sin(half)}
}

// NormalizeQuat scales q to unit norm. The zero quaternion maps to identity.
func NormalizeQuat(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// BodyX returns the body x axis of q expressed in the world frame.
func BodyX(q quat.Number) r3.Vector { return Rotate(q, r3.Vector{X: 1}) }

// BodyY returns the body y axis of q expressed in the world frame.
func BodyY(q quat.Number) r3.Vector { return Rotate(q, r3.Vector{Y: 1}) }

// BodyZ returns the body z axis of q expressed in the world frame.
func BodyZ(q quat.Number) r3.Vector { return Rotate(q, r3.Vector{Z: 1}) }

// Yaw extracts the world-frame yaw angle of q (ZYX convention).
func Yaw(q quat.Number) float64 {
	return math.Atan2(
		2*(q.Real*q.Kmag+q.Imag*q.Jmag),
		1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag),
	)
}
