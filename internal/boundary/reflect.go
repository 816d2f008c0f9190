package boundary

import (
	"math"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/vec"
)

// ReflectWall sends the particle back toward the interior: straight at the
// origin in the specular variant, or within a cone around the inward radial
// direction in the diffuse variant.
type ReflectWall struct {
	sphere
}

func (r *ReflectWall) Kind() string { return KindReflect }

func (r *ReflectWall) HandleCollision(p *body.Particle, dt float64) (vec.Vec3, vec.Vec3) {
	speed := p.Velocity.Mag()

	var direction vec.Vec3
	if r.angle == 0 {
		direction = vec.Zero.Sub(p.Position).Normalize()
	} else {
		direction = r.diffuseDirection(p.Position)
	}

	newVelocity := direction.Scale(speed * speedDamping)
	newPosition := p.Position.Add(newVelocity.Scale(dt))
	return newPosition, newVelocity
}

// diffuseDirection samples a direction within the configured cone around the
// outward radial axis and flips it inward when needed.
func (r *ReflectWall) diffuseDirection(position vec.Vec3) vec.Vec3 {
	radial := position.Normalize()

	// Build an orthonormal frame around the radial axis. The reference axis
	// must not be parallel to it.
	ref := vec.New(1, 0, 0)
	if math.Abs(radial.X) >= 0.9 {
		ref = vec.New(0, 1, 0)
	}
	ortho1 := radial.Cross(ref).Normalize()
	ortho2 := radial.Cross(ortho1).Normalize()

	theta := r.rng.Float64() * 2 * math.Pi
	phi := r.rng.Float64() * r.angleRange

	direction := radial.Scale(math.Cos(phi)).
		Add(ortho1.Scale(math.Sin(phi) * math.Cos(theta))).
		Add(ortho2.Scale(math.Sin(phi) * math.Sin(theta)))

	if direction.Dot(radial) >= 0 {
		direction = direction.Scale(-1)
	}
	return direction
}
