package config

import "math"

// Presets are the four boundary scenarios from the reference setup: mirror
// wrap through the origin, random wrap, specular reflection, and diffuse
// reflection within a pi/3 cone.
var Presets = map[string]*Config{
	"mirror-wrap": {
		GravityConstant: 0.1, SpeedOfLight: 299792458.0, MinForceDistance: 1e-10,
		Perturbations: true, Integrator: "rk4",
		CentralMass: 88500, Boundary: BoundaryConfig{Kind: "wrap"},
		Dt: 10, Steps: 500,
		Sampling: SamplingConfig{Count: 5, Mass: 50},
		Particle: ParticleConfig{Mass: 1.0, Position: Vec3Config{X: 100}, Velocity: Vec3Config{Y: 1}},
	},
	"random-wrap": {
		GravityConstant: 0.1, SpeedOfLight: 299792458.0, MinForceDistance: 1e-10,
		Perturbations: true, Integrator: "rk4",
		CentralMass: 88500, Boundary: BoundaryConfig{Kind: "wrap", ReflectionAngle: math.Pi / 2},
		Dt: 10, Steps: 500,
		Sampling: SamplingConfig{Count: 5, Mass: 50},
		Particle: ParticleConfig{Mass: 1.0, Position: Vec3Config{X: 100}, Velocity: Vec3Config{Y: 1}},
	},
	"specular": {
		GravityConstant: 0.1, SpeedOfLight: 299792458.0, MinForceDistance: 1e-10,
		Perturbations: true, Integrator: "rk4",
		CentralMass: 88500, Boundary: BoundaryConfig{Kind: "reflect"},
		Dt: 10, Steps: 500,
		Sampling: SamplingConfig{Count: 5, Mass: 50},
		Particle: ParticleConfig{Mass: 1.0, Position: Vec3Config{X: 100}, Velocity: Vec3Config{Y: 1}},
	},
	"diffuse": {
		GravityConstant: 0.1, SpeedOfLight: 299792458.0, MinForceDistance: 1e-10,
		Perturbations: true, Integrator: "rk4",
		CentralMass: 88500, Boundary: BoundaryConfig{Kind: "reflect", ReflectionAngle: math.Pi / 3, AngleRange: math.Pi / 3},
		Dt: 10, Steps: 500,
		Sampling: SamplingConfig{Count: 5, Mass: 50},
		Particle: ParticleConfig{Mass: 1.0, Position: Vec3Config{X: 100}, Velocity: Vec3Config{Y: 1}},
	},
}

// GetPreset returns a copy, so callers can layer overrides onto it without
// editing the stored preset.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	if len(cfg.Anchors) > 0 {
		c.Anchors = append([]AnchorConfig(nil), cfg.Anchors...)
	}
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
