package sim

import "github.com/san-kum/orbitsim/internal/vec"

// BoundaryHit records the position/velocity the boundary policy produced.
type BoundaryHit struct {
	Position vec.Vec3
	Velocity vec.Vec3
}

// StepResult is the per-step record a run accumulates.
type StepResult struct {
	Step         int
	Dt           float64
	Position     vec.Vec3
	Velocity     vec.Vec3
	Captures     []string
	BoundaryHits []BoundaryHit
}

// Captured reports whether this step triggered an anchor capture.
func (r StepResult) Captured() bool {
	return len(r.Captures) > 0
}

// HitBoundary reports whether this step ended at the boundary.
func (r StepResult) HitBoundary() bool {
	return len(r.BoundaryHits) > 0
}

// Observer receives every step result as it is produced, e.g. for live
// rendering.
type Observer interface {
	OnStep(r StepResult)
}
