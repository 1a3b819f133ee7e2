package sim

import (
	"context"
	"fmt"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
)

// Simulator closes the loop around the position controller: every cycle it
// samples the reference generator, lets the controller compute a command
// from the plant's state, and feeds the command back into the plant through
// the integrator.
type Simulator struct {
	plant      Plant
	integrator Integrator
	controller Controller
	generator  Generator
	metrics    []Metric
	observers  []Observer
}

func New(plant Plant, integrator Integrator, controller Controller, generator Generator) *Simulator {
	return &Simulator{
		plant:      plant,
		integrator: integrator,
		controller: controller,
		generator:  generator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run simulates from x0 for cfg.Duration. The returned result holds the
// recorded trajectory even when the run stops early on cancellation or an
// invalid state.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:     make([]State, 0, steps+1),
		Commands:   make([]quadrotor.ControlCommand, 0, steps),
		References: make([]quadrotor.TrajectoryPoint, 0, steps),
		Times:      make([]float64, 0, steps+1),
		Metrics:    make(map[string]float64),
		Errors:     make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ref := s.generator.At(t)
		est := s.plant.Estimate(x)
		cmd := s.controller.Run(est, ref)

		for _, m := range s.metrics {
			m.Observe(x, cmd, ref, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, cmd, ref, t)
		}

		u := s.plant.CommandInput(cmd)
		x = s.integrator.Step(s.plant, x, u, t, cfg.Dt)

		if rn, ok := s.plant.(Renormalizer); ok {
			x = rn.Renormalize(x)
		}

		if cfg.ValidateState && !x.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		t += cfg.Dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Commands = append(result.Commands, cmd)
		result.References = append(result.References, ref)
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// RunWithCallback simulates until the callback returns false, without
// recording history. Used by the live view.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(x, t) {
			return nil
		}

		ref := s.generator.At(t)
		est := s.plant.Estimate(x)
		cmd := s.controller.Run(est, ref)

		u := s.plant.CommandInput(cmd)
		x = s.integrator.Step(s.plant, x, u, t, cfg.Dt)
		if rn, ok := s.plant.(Renormalizer); ok {
			x = rn.Renormalize(x)
		}
		t += cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f", t)
		}
	}

	return nil
}
