package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultGravity  = 9.81
	DefaultRateTau  = 0.05
	DefaultHeight   = 2.0
)

// Config is the full run configuration: controller constants, plant
// parameters, trajectory selection and simulation settings.
type Config struct {
	Controller ControllerConfig `yaml:"controller"`
	Vehicle    VehicleConfig    `yaml:"vehicle"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
	Sim        SimConfig        `yaml:"sim"`
}

// ControllerConfig exposes the position controller constants.
type ControllerConfig struct {
	Dx                  float64 `yaml:"dx"`
	Dy                  float64 `yaml:"dy"`
	Dz                  float64 `yaml:"dz"`
	Gravity             float64 `yaml:"gravity"`
	AlmostZeroThreshold float64 `yaml:"almost_zero_threshold"`
}

// VehicleConfig parameterizes the simulated plant.
type VehicleConfig struct {
	Dx      float64 `yaml:"dx"`
	Dy      float64 `yaml:"dy"`
	Dz      float64 `yaml:"dz"`
	Gravity float64 `yaml:"gravity"`
	RateTau float64 `yaml:"rate_tau"`
}

// TrajectoryConfig selects and shapes the reference.
type TrajectoryConfig struct {
	Type           string  `yaml:"type"`
	Height         float64 `yaml:"height"`
	Radius         float64 `yaml:"radius"`
	Omega          float64 `yaml:"omega"`
	TangentHeading bool    `yaml:"tangent_heading"`
	TargetX        float64 `yaml:"target_x"`
	TargetY        float64 `yaml:"target_y"`
	TargetZ        float64 `yaml:"target_z"`
	Reach          float64 `yaml:"reach"`
}

// SimConfig holds timestep and duration.
type SimConfig struct {
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Integrator string  `yaml:"integrator"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: ControllerConfig{
			Gravity:             DefaultGravity,
			AlmostZeroThreshold: 0.001,
		},
		Vehicle: VehicleConfig{
			Gravity: DefaultGravity,
			RateTau: DefaultRateTau,
		},
		Trajectory: TrajectoryConfig{
			Type:   "hover",
			Height: DefaultHeight,
			Radius: 2.0,
			Omega:  0.5,
			Reach:  5.0,
		},
		Sim: SimConfig{
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Integrator: "rk4",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the simulator cannot run with.
func (c *Config) Validate() error {
	if c.Sim.Dt <= 0 {
		return fmt.Errorf("sim.dt must be positive, got %f", c.Sim.Dt)
	}
	if c.Sim.Duration <= 0 {
		return fmt.Errorf("sim.duration must be positive, got %f", c.Sim.Duration)
	}
	if c.Controller.Gravity <= 0 {
		return fmt.Errorf("controller.gravity must be positive, got %f", c.Controller.Gravity)
	}
	if c.Controller.AlmostZeroThreshold <= 0 {
		return fmt.Errorf("controller.almost_zero_threshold must be positive, got %f", c.Controller.AlmostZeroThreshold)
	}
	if c.Vehicle.RateTau <= 0 {
		return fmt.Errorf("vehicle.rate_tau must be positive, got %f", c.Vehicle.RateTau)
	}
	return nil
}
