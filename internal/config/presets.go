package config

import "sort"

// Presets are ready-made tracking scenarios, keyed by name.
var Presets = map[string]*Config{
	"hover": {
		Controller: ControllerConfig{Gravity: DefaultGravity, AlmostZeroThreshold: 0.001},
		Vehicle:    VehicleConfig{Gravity: DefaultGravity, RateTau: DefaultRateTau},
		Trajectory: TrajectoryConfig{Type: "hover", Height: 2.0},
		Sim:        SimConfig{Dt: 0.01, Duration: 10.0, Integrator: "rk4"},
	},
	"circle-slow": {
		Controller: ControllerConfig{Gravity: DefaultGravity, AlmostZeroThreshold: 0.001},
		Vehicle:    VehicleConfig{Gravity: DefaultGravity, RateTau: DefaultRateTau},
		Trajectory: TrajectoryConfig{Type: "circle", Height: 2.0, Radius: 2.0, Omega: 0.5},
		Sim:        SimConfig{Dt: 0.01, Duration: 30.0, Integrator: "rk4"},
	},
	"circle-fast": {
		Controller: ControllerConfig{Gravity: DefaultGravity, AlmostZeroThreshold: 0.001},
		Vehicle:    VehicleConfig{Gravity: DefaultGravity, RateTau: DefaultRateTau},
		Trajectory: TrajectoryConfig{Type: "circle", Height: 2.0, Radius: 3.0, Omega: 2.0, TangentHeading: true},
		Sim:        SimConfig{Dt: 0.005, Duration: 20.0, Integrator: "rk4"},
	},
	"circle-drag": {
		Controller: ControllerConfig{Dx: 0.3, Dy: 0.3, Dz: 0.1, Gravity: DefaultGravity, AlmostZeroThreshold: 0.001},
		Vehicle:    VehicleConfig{Dx: 0.3, Dy: 0.3, Dz: 0.1, Gravity: DefaultGravity, RateTau: DefaultRateTau},
		Trajectory: TrajectoryConfig{Type: "circle", Height: 2.0, Radius: 3.0, Omega: 1.5, TangentHeading: true},
		Sim:        SimConfig{Dt: 0.005, Duration: 20.0, Integrator: "rk4"},
	},
	"reach": {
		Controller: ControllerConfig{Gravity: DefaultGravity, AlmostZeroThreshold: 0.001},
		Vehicle:    VehicleConfig{Gravity: DefaultGravity, RateTau: DefaultRateTau},
		Trajectory: TrajectoryConfig{Type: "line", Height: 2.0, TargetX: 5, TargetY: 3, TargetZ: 4, Reach: 6.0},
		Sim:        SimConfig{Dt: 0.01, Duration: 10.0, Integrator: "rk4"},
	},
	"lemniscate": {
		Controller: ControllerConfig{Gravity: DefaultGravity, AlmostZeroThreshold: 0.001},
		Vehicle:    VehicleConfig{Gravity: DefaultGravity, RateTau: DefaultRateTau},
		Trajectory: TrajectoryConfig{Type: "lemniscate", Height: 2.0, Radius: 2.5, Omega: 0.8},
		Sim:        SimConfig{Dt: 0.005, Duration: 25.0, Integrator: "rk4"},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
