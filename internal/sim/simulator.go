package sim

import (
	"log/slog"
	"math"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/boundary"
	"github.com/san-kum/orbitsim/internal/gravity"
)

const (
	// DormancySteps is how long a captured anchor stays out of the gravity
	// computation before it revives.
	DormancySteps = 60

	InfluenceThreshold = 1e-6
	MaxSources         = 10
)

// Simulator drives one simulation step at a time: nearest-anchor lookup,
// boundary precedence, capture/dormancy transitions, and filtered gravity
// integration. Steps are strictly ordered; capture state makes them
// non-commutative.
type Simulator struct {
	field     *gravity.Field
	boundary  boundary.Policy
	dt        float64
	observers []Observer
}

func New(field *gravity.Field, policy boundary.Policy, dt float64) *Simulator {
	return &Simulator{
		field:     field,
		boundary:  policy,
		dt:        dt,
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Dt() float64      { return s.dt }
func (s *Simulator) SetDt(dt float64) { s.dt = dt }

// Step advances the particle through one simulation step. Boundary handling
// takes priority over everything else; a capture freezes the particle for the
// step and puts the captured anchor to sleep.
func (s *Simulator) Step(anchors []*body.Anchor, p *body.Particle, step int) StepResult {
	result := StepResult{
		Step:         step,
		Dt:           s.dt,
		Captures:     make([]string, 0),
		BoundaryHits: make([]BoundaryHit, 0),
	}

	// Nearest anchor by Euclidean distance, dormant anchors included.
	minDist := math.Inf(1)
	var nearest *body.Anchor
	for _, a := range anchors {
		dist := p.Position.Sub(a.Position).Mag()
		if dist < minDist {
			minDist = dist
			nearest = a
		}
	}

	// Boundary handling runs first and ends the step when it triggers. The
	// handler receives the step index as its time-delta argument, matching
	// the reference behavior.
	if s.boundary.CheckCollision(p) {
		newPosition, newVelocity := s.boundary.HandleCollision(p, float64(step))
		p.Position = newPosition
		p.Velocity = newVelocity

		result.BoundaryHits = append(result.BoundaryHits, BoundaryHit{Position: newPosition, Velocity: newVelocity})
		result.Position = p.Position
		result.Velocity = p.Velocity

		slog.Info("boundary collision", "step", step, "position", newPosition.String(), "speed", newVelocity.Mag())
		s.notify(result)
		return result
	}

	// Capture: inside the nearest anchor's orbit radius the anchor goes
	// dormant and the particle holds its state for the step.
	if nearest != nil && minDist < nearest.OrbitRadius {
		nearest.Perturbations = false
		nearest.CapturedAt = step
		result.Captures = append(result.Captures, nearest.Name)
		result.Position = p.Position
		result.Velocity = p.Velocity

		slog.Info("anchor captured, going dormant", "step", step, "anchor", nearest.Name,
			"distance", minDist, "orbit_radius", nearest.OrbitRadius)
		s.notify(result)
		return result
	}

	// Revive dormant anchors whose sleep has run out, then integrate over
	// the influence-filtered active set.
	active := make([]*body.Anchor, 0, len(anchors))
	for _, a := range anchors {
		if a.Dormant() {
			if step-a.CapturedAt < DormancySteps {
				continue
			}
			a.Perturbations = true
			slog.Info("anchor revived", "step", step, "anchor", a.Name)
		}
		active = append(active, a)
	}

	filtered := s.field.FilterByInfluence(p, active, InfluenceThreshold, MaxSources)

	acceleration := s.field.Acceleration(p, filtered)
	_, newVelocity := s.field.Step(p, filtered, s.dt)

	// The integrator's position result is discarded: the reference advances
	// the position from the just-updated velocity instead.
	p.Velocity = newVelocity
	p.Position = p.Position.Add(p.Velocity.Scale(s.dt))

	result.Position = p.Position
	result.Velocity = p.Velocity

	slog.Debug("step complete", "step", step, "position", p.Position.String(),
		"speed", p.Velocity.Mag(), "acceleration", acceleration.String(), "sources", len(filtered))

	s.notify(result)
	return result
}

func (s *Simulator) notify(r StepResult) {
	for _, o := range s.observers {
		o.OnStep(r)
	}
}
