package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCentralMass = 88500.0
	DefaultDt          = 0.01
	DefaultSteps       = 500
	DefaultAnchorMass  = 50.0
	DefaultAnchorCount = 5
)

type Vec3Config struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type BoundaryConfig struct {
	Kind            string  `yaml:"kind"`
	ReflectionAngle float64 `yaml:"reflection_angle"`
	AngleRange      float64 `yaml:"angle_range"`
}

type AnchorConfig struct {
	Name        string     `yaml:"name"`
	Mass        float64    `yaml:"mass"`
	Position    Vec3Config `yaml:"position"`
	OrbitRadius float64    `yaml:"orbit_radius"`
}

// SamplingConfig drives Poisson-disk anchor placement when no explicit anchor
// list is given. A zero MinDistance defaults to half the boundary radius.
type SamplingConfig struct {
	Count       int     `yaml:"count"`
	Mass        float64 `yaml:"mass"`
	MinDistance float64 `yaml:"min_distance"`
}

type ParticleConfig struct {
	Mass     float64    `yaml:"mass"`
	Position Vec3Config `yaml:"position"`
	Velocity Vec3Config `yaml:"velocity"`
}

type Config struct {
	GravityConstant  float64        `yaml:"gravity_constant"`
	SpeedOfLight     float64        `yaml:"speed_of_light"`
	MinForceDistance float64        `yaml:"min_force_distance"`
	Perturbations    bool           `yaml:"perturbations"`
	Relativistic     bool           `yaml:"relativistic"`
	Integrator       string         `yaml:"integrator"`
	CentralMass      float64        `yaml:"central_mass"`
	Boundary         BoundaryConfig `yaml:"boundary"`
	Dt               float64        `yaml:"dt"`
	Steps            int            `yaml:"steps"`
	Seed             int64          `yaml:"seed"`
	Anchors          []AnchorConfig `yaml:"anchors"`
	Sampling         SamplingConfig `yaml:"sampling"`
	Particle         ParticleConfig `yaml:"particle"`
}

func DefaultConfig() *Config {
	return &Config{
		GravityConstant:  0.1,
		SpeedOfLight:     299792458.0,
		MinForceDistance: 1e-3,
		Perturbations:    true,
		Relativistic:     false,
		Integrator:       "rk4",
		CentralMass:      DefaultCentralMass,
		Boundary:         BoundaryConfig{Kind: "wrap"},
		Dt:               DefaultDt,
		Steps:            DefaultSteps,
		Sampling: SamplingConfig{
			Count: DefaultAnchorCount,
			Mass:  DefaultAnchorMass,
		},
		Particle: ParticleConfig{
			Mass:     1.0,
			Position: Vec3Config{X: 100, Y: 0, Z: 0},
			Velocity: Vec3Config{X: 0, Y: 1, Z: 0},
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
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.CentralMass <= 0 {
		return fmt.Errorf("central_mass must be positive, got %g", c.CentralMass)
	}
	if c.Boundary.Kind != "wrap" && c.Boundary.Kind != "reflect" {
		return fmt.Errorf("boundary kind must be wrap or reflect, got %q", c.Boundary.Kind)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Boundary.ReflectionAngle < 0 || c.Boundary.ReflectionAngle > math.Pi {
		return fmt.Errorf("reflection_angle must be in [0, pi], got %g", c.Boundary.ReflectionAngle)
	}
	return nil
}
