package control

const (
	// DefaultGravity is the gravity magnitude in m/s^2.
	DefaultGravity = 9.81

	// DefaultAlmostZeroThreshold is the norm below which a vector is treated
	// as zero when building the commanded body frame.
	DefaultAlmostZeroThreshold = 0.001
)

// Config holds the controller constants. Rotor drag coefficients model a
// drag force proportional to the body-frame velocity component along the
// matching axis; all three default to zero, which reduces the inversion to
// the drag-free flatness equations.
type Config struct {
	Dx float64
	Dy float64
	Dz float64

	Gravity float64

	// AlmostZeroThreshold guards the singular cross products in the frame
	// construction and the denominators of the body-rate solution.
	AlmostZeroThreshold float64
}

// DefaultConfig returns zero drag, standard gravity and the stock
// singularity threshold.
func DefaultConfig() Config {
	return Config{
		Gravity:             DefaultGravity,
		AlmostZeroThreshold: DefaultAlmostZeroThreshold,
	}
}

func (c Config) almostZero(v float64) bool {
	if v < 0 {
		v = -v
	}
	return v < c.AlmostZeroThreshold
}
