package gravity

import (
	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/vec"
)

// Step advances the particle one time step against the given sources using
// the configured method. Unknown selectors fall back to euler. The particle
// itself is not mutated; the new position and velocity are returned.
func (f *Field) Step(p *body.Particle, sources []*body.Anchor, dt float64) (vec.Vec3, vec.Vec3) {
	switch f.Method {
	case "rk4":
		return f.rk4Step(p, sources, dt)
	case "rk2":
		return f.rk2Step(p, sources, dt)
	default:
		return f.eulerStep(p, sources, dt)
	}
}

// probe builds a throwaway particle for intermediate stage evaluations.
func (f *Field) probe(p *body.Particle, position, velocity vec.Vec3) *body.Particle {
	return &body.Particle{
		State:    body.State{Mass: p.Mass, Position: position},
		Velocity: velocity,
	}
}

func (f *Field) eulerStep(p *body.Particle, sources []*body.Anchor, dt float64) (vec.Vec3, vec.Vec3) {
	a := f.Acceleration(p, sources)

	// Position advances on the old velocity, not the updated one.
	newVelocity := p.Velocity.Add(a.Scale(dt))
	newPosition := p.Position.Add(p.Velocity.Scale(dt))

	return newPosition, newVelocity
}

// rk2Step is the midpoint method: acceleration is re-evaluated at the
// half-step state.
func (f *Field) rk2Step(p *body.Particle, sources []*body.Anchor, dt float64) (vec.Vec3, vec.Vec3) {
	a1 := f.Acceleration(p, sources)
	v1 := p.Velocity
	r1 := p.Position

	mid := f.probe(p, r1.Add(v1.Scale(dt/2)), v1.Add(a1.Scale(dt/2)))
	a2 := f.Acceleration(mid, sources)
	v2 := mid.Velocity

	newPosition := r1.Add(v2.Scale(dt))
	newVelocity := v1.Add(a2.Scale(dt))

	return newPosition, newVelocity
}

// rk4Step is the classical fourth-order Runge-Kutta step, with the velocity
// estimates v1..v4 of each stage feeding the position update.
func (f *Field) rk4Step(p *body.Particle, sources []*body.Anchor, dt float64) (vec.Vec3, vec.Vec3) {
	a1 := f.Acceleration(p, sources)
	v1 := p.Velocity
	r1 := p.Position

	stage2 := f.probe(p, r1.Add(v1.Scale(dt/2)), v1.Add(a1.Scale(dt/2)))
	a2 := f.Acceleration(stage2, sources)
	v2 := stage2.Velocity

	stage3 := f.probe(p, r1.Add(v2.Scale(dt/2)), v1.Add(a2.Scale(dt/2)))
	a3 := f.Acceleration(stage3, sources)
	v3 := stage3.Velocity

	stage4 := f.probe(p, r1.Add(v3.Scale(dt)), v1.Add(a3.Scale(dt)))
	a4 := f.Acceleration(stage4, sources)
	v4 := stage4.Velocity

	newPosition := r1.Add(v1.Add(v2.Scale(2)).Add(v3.Scale(2)).Add(v4).Scale(dt / 6))
	newVelocity := v1.Add(a1.Add(a2.Scale(2)).Add(a3.Scale(2)).Add(a4).Scale(dt / 6))

	return newPosition, newVelocity
}
