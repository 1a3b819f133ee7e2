package quadrotor

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

func vecClose(a, b r3.Vector, tol float64) bool {
	return a.Sub(b).Norm() <= tol
}

func TestRotateIdentity(t *testing.T) {
	v := r3.Vector{X: 1, Y: -2, Z: 3}
	if got := Rotate(IdentityQuat(), v); !vecClose(got, v, 1e-12) {
		t.Errorf("identity rotation changed %v to %v", v, got)
	}
}

func TestRotateYaw(t *testing.T) {
	q := QuatFromYaw(math.Pi / 2)
	got := Rotate(q, r3.Vector{X: 1})
	want := r3.Vector{Y: 1}
	if !vecClose(got, want, 1e-12) {
		t.Errorf("yaw rotation: got %v, want %v", got, want)
	}
}

func TestRotateInverseRoundTrip(t *testing.T) {
	q := NormalizeQuat(quat.Number{Real: 0.7, Imag: 0.2, Jmag: -0.4, Kmag: 0.5})
	v := r3.Vector{X: 0.3, Y: 1.5, Z: -2}

	if got := RotateInverse(q, Rotate(q, v)); !vecClose(got, v, 1e-12) {
		t.Errorf("round trip: got %v, want %v", got, v)
	}
}

func TestQuatFromColumnsIdentity(t *testing.T) {
	q := QuatFromColumns(r3.Vector{X: 1}, r3.Vector{Y: 1}, r3.Vector{Z: 1})
	if quat.Abs(quat.Sub(q, IdentityQuat())) > 1e-12 {
		t.Errorf("identity columns gave %+v", q)
	}
}

func TestQuatFromColumnsRoundTrip(t *testing.T) {
	// Assorted rotations, including ones that exercise every branch of the
	// largest-pivot conversion.
	quats := []quat.Number{
		QuatFromYaw(0.4),
		NormalizeQuat(quat.Number{Real: 0.1, Imag: 0.9, Jmag: 0.1, Kmag: 0.1}),
		NormalizeQuat(quat.Number{Real: 0.1, Imag: 0.1, Jmag: 0.9, Kmag: 0.1}),
		NormalizeQuat(quat.Number{Real: 0.1, Imag: 0.1, Jmag: 0.1, Kmag: 0.9}),
		NormalizeQuat(quat.Number{Real: 0.5, Imag: -0.5, Jmag: 0.5, Kmag: -0.5}),
	}

	for i, q := range quats {
		got := QuatFromColumns(BodyX(q), BodyY(q), BodyZ(q))

		// q and -q encode the same rotation.
		d := math.Min(
			quat.Abs(quat.Sub(got, q)),
			quat.Abs(quat.Add(got, q)),
		)
		if d > 1e-9 {
			t.Errorf("case %d: round trip differs by %e", i, d)
		}
	}
}

func TestNormalizeQuatZero(t *testing.T) {
	q := NormalizeQuat(quat.Number{})
	if quat.Abs(quat.Sub(q, IdentityQuat())) > 0 {
		t.Errorf("zero quaternion normalized to %+v, want identity", q)
	}
}

func TestYawExtraction(t *testing.T) {
	for _, psi := range []float64{0, 0.5, -1.2, 3.0} {
		if got := Yaw(QuatFromYaw(psi)); math.Abs(got-psi) > 1e-12 {
			t.Errorf("Yaw(QuatFromYaw(%f)) = %f", psi, got)
		}
	}
}

func TestBodyAxesOrthonormal(t *testing.T) {
	q := NormalizeQuat(quat.Number{Real: 0.6, Imag: 0.3, Jmag: -0.2, Kmag: 0.7})

	x, y, z := BodyX(q), BodyY(q), BodyZ(q)
	if math.Abs(x.Norm()-1) > 1e-12 || math.Abs(y.Norm()-1) > 1e-12 || math.Abs(z.Norm()-1) > 1e-12 {
		t.Error("body axes not unit length")
	}
	if math.Abs(x.Dot(y)) > 1e-12 || math.Abs(y.Dot(z)) > 1e-12 || math.Abs(z.Dot(x)) > 1e-12 {
		t.Error("body axes not orthogonal")
	}
	if !vecClose(x.Cross(y), z, 1e-12) {
		t.Error("body axes not right handed")
	}
}
