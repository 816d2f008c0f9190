// Package lab is the entry point tying the pieces together: it owns the
// constants, builds the domain and simulator, and runs ordered step
// sequences.
package lab

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/domain"
	"github.com/san-kum/orbitsim/internal/gravity"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/vec"
)

const DefaultTimeStep = 0.01

type Lab struct {
	field     *gravity.Field
	dom       *domain.Domain
	simulator *sim.Simulator
	rng       *rand.Rand

	opts                 gravity.Options
	reflectionAngle      float64
	reflectionAngleRange float64
	seed                 int64
	dt                   float64
}

func New() *Lab {
	return &Lab{
		opts: gravity.DefaultOptions(),
		dt:   DefaultTimeStep,
	}
}

// SetConstants tunes the physical constants. Non-positive values leave the
// current setting unchanged.
func (l *Lab) SetConstants(g, speedOfLight, minDistance float64) {
	if g > 0 {
		l.opts.G = g
	}
	if speedOfLight > 0 {
		l.opts.SpeedOfLight = speedOfLight
	}
	if minDistance > 0 {
		l.opts.MinDistance = minDistance
	}
}

func (l *Lab) SetIntegrator(method string)      { l.opts.Method = method }
func (l *Lab) EnablePerturbations(enabled bool) { l.opts.Perturbations = enabled }
func (l *Lab) EnableRelativistic(enabled bool)  { l.opts.Relativistic = enabled }
func (l *Lab) SetSeed(seed int64)               { l.seed = seed }

func (l *Lab) SetReflectionAngle(angle, rg float64) {
	l.reflectionAngle = angle
	l.reflectionAngleRange = rg
}

func (l *Lab) SetTimeStep(dt float64) {
	l.dt = dt
	if l.simulator != nil {
		l.simulator.SetDt(dt)
	}
}

// BuildDomain creates the gravity field, the bounded domain with its boundary
// policy, and the step driver. It must be called before anchors or the
// particle are added.
func (l *Lab) BuildDomain(centralMass float64, boundaryKind string) error {
	seed := l.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	l.rng = rand.New(rand.NewSource(seed))

	l.field = gravity.NewField(l.opts)

	dom, err := domain.New(l.field, centralMass, boundaryKind, l.reflectionAngle, l.reflectionAngleRange, l.rng)
	if err != nil {
		return fmt.Errorf("build domain: %w", err)
	}
	l.dom = dom
	l.simulator = sim.New(l.field, dom.Boundary, l.dt)

	slog.Info("domain built", "central_mass", centralMass, "boundary", boundaryKind, "radius", dom.Radius)
	return nil
}

// AddAnchor derives the anchor's orbital and escape velocities from its mass
// and orbit radius, then registers it. Names must be unique. Invalid anchors
// are registered too, flagged.
func (l *Lab) AddAnchor(name string, mass float64, position vec.Vec3, orbitRadius float64) (*body.Anchor, error) {
	if l.dom == nil {
		return nil, fmt.Errorf("domain not built")
	}
	if l.dom.AnchorByName(name) != nil {
		return nil, fmt.Errorf("anchor %q already exists", name)
	}
	orbital, escape := l.field.OrbitalVelocities(mass, orbitRadius)
	anchor := body.NewAnchor(name, mass, position, orbitRadius, orbital, escape)
	l.dom.AddAnchor(anchor)
	return anchor, nil
}

func (l *Lab) RemoveAnchor(name string) bool {
	if l.dom == nil {
		return false
	}
	return l.dom.RemoveAnchor(name)
}

func (l *Lab) SetParticle(mass float64, position, velocity vec.Vec3) (*body.Particle, error) {
	if l.dom == nil {
		return nil, fmt.Errorf("domain not built")
	}
	p := body.NewParticle(mass, position, velocity)
	l.dom.SetParticle(p)
	return p, nil
}

func (l *Lab) Domain() *domain.Domain { return l.dom }

func (l *Lab) Rng() *rand.Rand { return l.rng }

func (l *Lab) AddObserver(o sim.Observer) {
	if l.simulator != nil {
		l.simulator.AddObserver(o)
	}
}

// Run executes the requested number of strictly ordered steps and returns the
// accumulated results. It fails up front, with no partial results, when the
// domain is not built or no particle is set.
func (l *Lab) Run(steps int) ([]sim.StepResult, error) {
	if l.dom == nil || l.simulator == nil {
		return nil, fmt.Errorf("domain not built, call BuildDomain first")
	}
	if l.dom.Particle() == nil {
		return nil, fmt.Errorf("no particle set, call SetParticle first")
	}
	anchors := l.dom.Anchors()
	if len(anchors) == 0 {
		slog.Warn("no anchors present, particle will drift freely")
	}

	results := make([]sim.StepResult, 0, steps)
	for step := 0; step < steps; step++ {
		result := l.simulator.Step(anchors, l.dom.Particle(), step)
		results = append(results, result)

		if (step+1)%100 == 0 {
			slog.Info("run progress", "completed", step+1, "total", steps)
		}
	}
	return results, nil
}

// StepOnce advances a single step, for callers driving the loop themselves.
func (l *Lab) StepOnce(step int) (sim.StepResult, error) {
	if l.dom == nil || l.simulator == nil {
		return sim.StepResult{}, fmt.Errorf("domain not built")
	}
	if l.dom.Particle() == nil {
		return sim.StepResult{}, fmt.Errorf("no particle set")
	}
	return l.simulator.Step(l.dom.Anchors(), l.dom.Particle(), step), nil
}

// Status describes the lab for display and inspection.
type Status struct {
	Built        bool
	CentralMass  float64
	BoundaryKind string
	Radius       float64
	AnchorCount  int
	DormantCount int
	G            float64
	SpeedOfLight float64
	MinDistance  float64
	Integrator   string
	Dt           float64
}

func (l *Lab) Status() Status {
	s := Status{
		G:            l.opts.G,
		SpeedOfLight: l.opts.SpeedOfLight,
		MinDistance:  l.opts.MinDistance,
		Integrator:   l.opts.Method,
		Dt:           l.dt,
	}
	if l.dom == nil {
		return s
	}
	s.Built = true
	s.CentralMass = l.dom.CentralMass
	s.BoundaryKind = l.dom.Boundary.Kind()
	s.Radius = l.dom.Radius
	s.AnchorCount = len(l.dom.Anchors())
	s.DormantCount = l.dom.DormantCount()
	return s
}
