package sim_test

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/control"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/dynamics"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/integrators"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/metrics"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/trajectory"
)

func newLoop(gen sim.Generator) (*dynamics.Quadrotor, *sim.Simulator) {
	plant := dynamics.NewQuadrotor()
	ctrl := control.NewTracking(control.New(control.DefaultConfig()), control.DefaultFeedbackGains())
	s := sim.New(plant, integrators.NewRK4(), ctrl, gen)
	return plant, s
}

func finalPositionError(result *sim.Result, target r3.Vector) float64 {
	last := result.States[len(result.States)-1]
	pos := r3.Vector{X: last[0], Y: last[1], Z: last[2]}
	return pos.Sub(target).Norm()
}

var _ = Describe("Simulator", func() {
	var cfg sim.Config

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
	})

	Describe("hovering", func() {
		It("holds position when started on the reference", func() {
			hoverAt := r3.Vector{Z: 2}
			_, s := newLoop(trajectory.NewHover(hoverAt))
			rmse := metrics.NewPositionRMSE()
			s.AddMetric(rmse)

			cfg.Duration = 2.0
			result, err := s.Run(context.Background(), dynamics.InitialState(hoverAt), cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(BeEmpty())
			Expect(result.Metrics["position_rmse"]).To(BeNumerically("<", 1e-9))
		})

		It("converges to the setpoint from an offset start", func() {
			hoverAt := r3.Vector{Z: 2}
			_, s := newLoop(trajectory.NewHover(hoverAt))

			cfg.Duration = 6.0
			x0 := dynamics.InitialState(r3.Vector{X: 0.3, Y: -0.2, Z: 1.5})
			result, err := s.Run(context.Background(), x0, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(finalPositionError(result, hoverAt)).To(BeNumerically("<", 0.05))
		})

		It("commands hover thrust at equilibrium", func() {
			hoverAt := r3.Vector{Z: 1}
			plant, s := newLoop(trajectory.NewHover(hoverAt))

			cfg.Duration = 1.0
			result, err := s.Run(context.Background(), dynamics.InitialState(hoverAt), cfg)

			Expect(err).NotTo(HaveOccurred())
			last := result.Commands[len(result.Commands)-1]
			Expect(last.CollectiveThrust).To(BeNumerically("~", plant.HoverThrust(), 1e-6))
			Expect(last.BodyRates.Norm()).To(BeNumerically("<", 1e-6))
		})
	})

	Describe("circle tracking", func() {
		It("keeps the tracking error bounded", func() {
			gen := trajectory.NewCircle(r3.Vector{Z: 2}, 2.0, 0.5)
			_, s := newLoop(gen)
			rmse := metrics.NewPositionRMSE()
			maxErr := metrics.NewMaxPositionError()
			s.AddMetric(rmse)
			s.AddMetric(maxErr)

			// Start on the circle with matching velocity.
			x0 := dynamics.InitialState(r3.Vector{X: 2, Z: 2})
			x0[4] = 2.0 * 0.5

			cfg.Duration = 10.0
			result, err := s.Run(context.Background(), x0, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(BeEmpty())
			Expect(result.Metrics["position_rmse"]).To(BeNumerically("<", 0.3))
			Expect(result.Metrics["max_position_error"]).To(BeNumerically("<", 0.6))
		})

		It("keeps the attitude quaternion unit norm through the run", func() {
			gen := trajectory.NewCircle(r3.Vector{Z: 2}, 2.0, 0.8)
			_, s := newLoop(gen)

			cfg.Duration = 5.0
			x0 := dynamics.InitialState(r3.Vector{X: 2, Z: 2})
			result, err := s.Run(context.Background(), x0, cfg)

			Expect(err).NotTo(HaveOccurred())
			last := result.States[len(result.States)-1]
			norm := math.Sqrt(last[6]*last[6] + last[7]*last[7] + last[8]*last[8] + last[9]*last[9])
			Expect(norm).To(BeNumerically("~", 1.0, 1e-9))
		})
	})

	Describe("run bookkeeping", func() {
		It("records one sample per step plus the initial state", func() {
			_, s := newLoop(trajectory.NewHover(r3.Vector{Z: 1}))

			cfg.Dt = 0.01
			cfg.Duration = 1.0
			result, err := s.Run(context.Background(), dynamics.InitialState(r3.Vector{Z: 1}), cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(100))
			Expect(result.States).To(HaveLen(101))
			Expect(result.Commands).To(HaveLen(100))
			Expect(result.References).To(HaveLen(100))
			Expect(result.Times).To(HaveLen(101))
		})

		It("populates every registered metric", func() {
			plant, s := newLoop(trajectory.NewHover(r3.Vector{Z: 1}))
			s.AddMetric(metrics.NewPositionRMSE())
			s.AddMetric(metrics.NewMaxPositionError())
			s.AddMetric(metrics.NewControlEffort(plant.HoverThrust()))
			s.AddMetric(metrics.NewHeadingError())

			cfg.Duration = 1.0
			result, err := s.Run(context.Background(), dynamics.InitialState(r3.Vector{Z: 1}), cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Metrics).To(HaveKey("position_rmse"))
			Expect(result.Metrics).To(HaveKey("max_position_error"))
			Expect(result.Metrics).To(HaveKey("control_effort"))
			Expect(result.Metrics).To(HaveKey("heading_error"))
		})
	})

	Describe("failure handling", func() {
		It("rejects a non-positive timestep", func() {
			_, s := newLoop(trajectory.NewHover(r3.Vector{}))

			cfg.Dt = 0
			result, err := s.Run(context.Background(), dynamics.InitialState(r3.Vector{}), cfg)

			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})

		It("returns the partial result on cancellation", func() {
			_, s := newLoop(trajectory.NewHover(r3.Vector{Z: 1}))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := s.Run(ctx, dynamics.InitialState(r3.Vector{Z: 1}), cfg)

			Expect(err).To(MatchError(context.Canceled))
			Expect(result).NotTo(BeNil())
			Expect(result.States).To(HaveLen(1))
		})

		It("stops on an invalid state and records the step", func() {
			_, s := newLoop(trajectory.NewHover(r3.Vector{Z: 1}))

			x0 := dynamics.InitialState(r3.Vector{Z: 1})
			x0[0] = math.NaN()

			result, err := s.Run(context.Background(), x0, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(HaveLen(1))
			var simErr sim.SimError
			Expect(result.Errors[0]).To(BeAssignableToTypeOf(simErr))
			Expect(result.StepsTaken).To(BeZero())
		})
	})

	Describe("RunWithCallback", func() {
		It("stops as soon as the callback declines", func() {
			_, s := newLoop(trajectory.NewHover(r3.Vector{Z: 1}))

			calls := 0
			err := s.RunWithCallback(context.Background(), dynamics.InitialState(r3.Vector{Z: 1}), cfg,
				func(x sim.State, t float64) bool {
					calls++
					return calls < 5
				})

			Expect(err).NotTo(HaveOccurred())
			Expect(calls).To(Equal(5))
		})
	})
})
