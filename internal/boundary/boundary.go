// Package boundary implements the domain-edge policies. Exactly two kinds
// exist: wrap (through-origin teleport) and reflect (back toward the
// interior). The kind is fixed at domain construction.
package boundary

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/vec"
)

const (
	KindWrap    = "wrap"
	KindReflect = "reflect"
)

// speedDamping is applied to the particle speed on every boundary event.
const speedDamping = 0.6

// Policy detects a domain-edge crossing and produces the position/velocity
// response. HandleCollision does not mutate the particle; CheckCollision may
// clamp a position that already escaped the sphere.
type Policy interface {
	Kind() string
	Radius() float64
	CheckCollision(p *body.Particle) bool
	HandleCollision(p *body.Particle, dt float64) (vec.Vec3, vec.Vec3)
}

// New builds the policy for the given kind. A zero reflection angle selects
// the deterministic variant of either kind; a positive angle selects the
// randomized one. A nil rng falls back to an unseeded time-based source.
func New(kind string, radius, angle, angleRange float64, rng *rand.Rand) (Policy, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := sphere{radius: radius, angle: angle, angleRange: angleRange, rng: rng}
	switch kind {
	case KindWrap:
		if s.angleRange == 0 {
			s.angleRange = math.Pi
		}
		return &WrapGate{sphere: s}, nil
	case KindReflect:
		if s.angleRange == 0 {
			s.angleRange = math.Pi / 3
		}
		return &ReflectWall{sphere: s}, nil
	default:
		return nil, fmt.Errorf("unknown boundary kind: %s", kind)
	}
}

// sphere carries the state shared by both policies.
type sphere struct {
	radius     float64
	angle      float64
	angleRange float64
	rng        *rand.Rand
}

func (s *sphere) Radius() float64 { return s.radius }

// CheckCollision reports whether the particle is at or beyond the boundary.
// A position strictly outside the sphere is first clamped to 95% of the
// radius along its current direction.
func (s *sphere) CheckCollision(p *body.Particle) bool {
	mag := p.Position.Mag()
	if mag > s.radius {
		correction := 0.95 * s.radius / mag
		p.Position = p.Position.Scale(correction)
		return true
	}
	return mag >= s.radius
}

// randomUnit samples a uniformly distributed direction on the unit sphere.
func (s *sphere) randomUnit() vec.Vec3 {
	theta := s.rng.Float64() * 2 * math.Pi
	phi := s.rng.Float64() * math.Pi
	return vec.New(
		math.Sin(phi)*math.Cos(theta),
		math.Sin(phi)*math.Sin(theta),
		math.Cos(phi),
	)
}
