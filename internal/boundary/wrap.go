package boundary

import (
	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/vec"
)

// WrapGate teleports the particle through the origin to the far side of the
// sphere, or to a random point on the boundary when a reflection angle is
// configured.
type WrapGate struct {
	sphere
}

func (w *WrapGate) Kind() string { return KindWrap }

func (w *WrapGate) HandleCollision(p *body.Particle, dt float64) (vec.Vec3, vec.Vec3) {
	if w.angle == 0 {
		// Diametrically opposite point, kept collinear with the origin and
		// the pre-collision position, then offset along the velocity
		// direction so the next step does not re-trigger immediately.
		warped := p.Position.Normalize().Scale(-w.radius)
		offset := p.Velocity.Normalize().Scale(w.radius * 0.05)
		return warped.Add(offset), p.Velocity.Scale(speedDamping)
	}

	// Randomized variant: any point on the boundary sphere, velocity aimed
	// back at the origin.
	warped := w.randomUnit().Scale(w.radius)
	toOrigin := vec.Zero.Sub(warped).Normalize()
	return warped, toOrigin.Scale(p.Velocity.Mag() * speedDamping)
}
