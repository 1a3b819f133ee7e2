// Package trajectory provides analytic reference generators with mutually
// consistent derivatives, used to feed the position controller.
package trajectory

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
)

// Hover holds a fixed position and heading.
type Hover struct {
	Position r3.Vector
	Heading  float64
}

func NewHover(pos r3.Vector) *Hover {
	return &Hover{Position: pos}
}

func (h *Hover) Name() string { return "hover" }

func (h *Hover) At(t float64) quadrotor.TrajectoryPoint {
	return quadrotor.TrajectoryPoint{
		Position: h.Position,
		Heading:  h.Heading,
	}
}

// Circle flies a horizontal circle at constant angular rate. With
// TangentHeading the vehicle yaws along the velocity direction, otherwise
// the heading stays fixed at zero.
type Circle struct {
	Center         r3.Vector
	Radius         float64
	Omega          float64
	TangentHeading bool
}

func NewCircle(center r3.Vector, radius, omega float64) *Circle {
	return &Circle{Center: center, Radius: radius, Omega: omega}
}

func (c *Circle) Name() string { return "circle" }

func (c *Circle) At(t float64) quadrotor.TrajectoryPoint {
	w := c.Omega
	sin, cos := math.Sincos(w * t)

	p := quadrotor.TrajectoryPoint{
		Position: c.Center.Add(r3.Vector{
			X: c.Radius * cos,
			Y: c.Radius * sin,
		}),
		Velocity: r3.Vector{
			X: -c.Radius * w * sin,
			Y: c.Radius * w * cos,
		},
		Acceleration: r3.Vector{
			X: -c.Radius * w * w * cos,
			Y: -c.Radius * w * w * sin,
		},
		Jerk: r3.Vector{
			X: c.Radius * w * w * w * sin,
			Y: -c.Radius * w * w * w * cos,
		},
	}
	if c.TangentHeading {
		// Unwrapped tangent angle keeps the heading rate constant.
		p.Heading = w*t + math.Pi/2
		p.HeadingRate = w
	}
	return p
}

// Line reaches To from From over Duration along a quintic minimum-jerk
// profile, then holds the end point.
type Line struct {
	From, To r3.Vector
	Duration float64
}

func NewLine(from, to r3.Vector, duration float64) *Line {
	return &Line{From: from, To: to, Duration: duration}
}

func (l *Line) Name() string { return "line" }

func (l *Line) At(t float64) quadrotor.TrajectoryPoint {
	if t >= l.Duration {
		return quadrotor.TrajectoryPoint{Position: l.To}
	}
	if t < 0 {
		return quadrotor.TrajectoryPoint{Position: l.From}
	}

	T := l.Duration
	s := t / T
	s2, s3 := s*s, s*s*s

	// Quintic blend: zero velocity and acceleration at both ends.
	pos := 10*s3 - 15*s2*s2 + 6*s2*s3
	vel := (30*s2 - 60*s3 + 30*s2*s2) / T
	acc := (60*s - 180*s2 + 120*s3) / (T * T)
	jerk := (60 - 360*s + 360*s2) / (T * T * T)

	d := l.To.Sub(l.From)
	return quadrotor.TrajectoryPoint{
		Position:     l.From.Add(d.Mul(pos)),
		Velocity:     d.Mul(vel),
		Acceleration: d.Mul(acc),
		Jerk:         d.Mul(jerk),
	}
}

// Lemniscate flies a figure eight in the horizontal plane.
type Lemniscate struct {
	Center r3.Vector
	Radius float64
	Omega  float64
}

func NewLemniscate(center r3.Vector, radius, omega float64) *Lemniscate {
	return &Lemniscate{Center: center, Radius: radius, Omega: omega}
}

func (l *Lemniscate) Name() string { return "lemniscate" }

func (l *Lemniscate) At(t float64) quadrotor.TrajectoryPoint {
	w := l.Omega
	a := l.Radius
	sin1, cos1 := math.Sincos(w * t)
	sin2, cos2 := math.Sincos(2 * w * t)

	return quadrotor.TrajectoryPoint{
		Position: l.Center.Add(r3.Vector{
			X: a * sin1,
			Y: 0.5 * a * sin2,
		}),
		Velocity: r3.Vector{
			X: a * w * cos1,
			Y: a * w * cos2,
		},
		Acceleration: r3.Vector{
			X: -a * w * w * sin1,
			Y: -2 * a * w * w * sin2,
		},
		Jerk: r3.Vector{
			X: -a * w * w * w * cos1,
			Y: -4 * a * w * w * w * cos2,
		},
	}
}
