package vec

import (
	"fmt"
	"math"
)

// Vec3 is a 3D vector with value semantics. All operations return new values.
type Vec3 struct {
	X, Y, Z float64
}

var Zero = Vec3{}

func New(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Div divides by a scalar. Division by zero returns the zero vector rather
// than propagating Inf/NaN into the force pipeline.
func (v Vec3) Div(s float64) Vec3 {
	if s == 0 {
		return Zero
	}
	return Vec3{v.X / s, v.Y / s, v.Z / s}
}

func (v Vec3) Mag() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector. The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	mag := v.Mag()
	if mag == 0 {
		return Zero
	}
	return v.Div(mag)
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) IsValid() bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.5f, %.5f, %.5f)", v.X, v.Y, v.Z)
}
