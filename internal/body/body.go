package body

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/orbitsim/internal/vec"
)

// State holds the attributes shared by every gravitating or gravitated
// object: mass, position, and the derived orbital quantities.
type State struct {
	Mass           float64
	Position       vec.Vec3
	OrbitRadius    float64
	OrbitVelocity  float64
	EscapeVelocity float64
}

// Anchor is a fixed gravity source. An anchor built with non-positive mass or
// orbital velocity is kept but flagged invalid. Perturbations acts as the
// active/dormant switch: a dormant anchor exerts no gravity but stays in the
// anchor set and can be revived.
type Anchor struct {
	State
	Name          string
	Valid         bool
	Perturbations bool
	CapturedAt    int // step index of last capture, -1 if never
}

func NewAnchor(name string, mass float64, position vec.Vec3, orbitRadius, orbitVelocity, escapeVelocity float64) *Anchor {
	a := &Anchor{
		State: State{
			Mass:           mass,
			Position:       position,
			OrbitRadius:    orbitRadius,
			OrbitVelocity:  orbitVelocity,
			EscapeVelocity: escapeVelocity,
		},
		Name:          name,
		Valid:         true,
		Perturbations: true,
		CapturedAt:    -1,
	}
	if mass <= 0 {
		slog.Info("anchor mass must be positive", "anchor", name, "mass", mass)
		a.Valid = false
	}
	if orbitVelocity <= 0 {
		slog.Info("anchor orbital velocity must be positive", "anchor", name, "velocity", orbitVelocity)
		a.Valid = false
	}
	return a
}

// Dormant reports whether the anchor is currently excluded from gravity.
func (a *Anchor) Dormant() bool {
	return !a.Perturbations
}

func (a *Anchor) String() string {
	return fmt.Sprintf("Anchor(name=%s, mass=%g, position=%s, orbit_radius=%g, valid=%t, dormant=%t)",
		a.Name, a.Mass, a.Position, a.OrbitRadius, a.Valid, a.Dormant())
}

// DefaultParticleMass replaces a non-positive particle mass.
const DefaultParticleMass = 1.0

// Particle is the single tracked moving body.
type Particle struct {
	State
	Velocity vec.Vec3
}

func NewParticle(mass float64, position, velocity vec.Vec3) *Particle {
	if mass <= 0 {
		slog.Warn("particle mass must be positive, reset to default", "mass", mass, "default", DefaultParticleMass)
		mass = DefaultParticleMass
	}
	return &Particle{
		State: State{
			Mass:           mass,
			Position:       position,
			OrbitRadius:    1.0,
			OrbitVelocity:  1.0,
			EscapeVelocity: 1.0,
		},
		Velocity: velocity,
	}
}

func (p *Particle) String() string {
	return fmt.Sprintf("Particle(position=%s, velocity=%s, mass=%g)", p.Position, p.Velocity, p.Mass)
}
