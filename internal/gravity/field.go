package gravity

import (
	"log/slog"
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/vec"
)

const (
	DefaultG            = 0.1
	DefaultSpeedOfLight = 299792458.0
	DefaultMinDistance  = 1e-3
)

// Reference values for the boundary-radius relation: the solar Oort cloud
// radius scaled by the ratio of this field's G·M to the real sun's.
const (
	oortRefRadius = 7.5e15
	standardG     = 6.674e-11
	sunMass       = 1.989e30
)

type Options struct {
	G                 float64
	SpeedOfLight      float64
	MinDistance       float64
	Perturbations     bool
	Relativistic      bool
	Method            string
	PerturbationScale float64
}

func DefaultOptions() Options {
	return Options{
		G:                 DefaultG,
		SpeedOfLight:      DefaultSpeedOfLight,
		MinDistance:       DefaultMinDistance,
		Perturbations:     true,
		Relativistic:      false,
		Method:            "rk4",
		PerturbationScale: 1.0,
	}
}

// Field computes pairwise gravity, perturbation decomposition, and total
// acceleration, and advances one integration step with a selectable method.
type Field struct {
	G                 float64
	SpeedOfLight      float64
	MinDistance       float64
	Perturbations     bool
	Relativistic      bool
	Method            string
	PerturbationScale float64
}

// NewField applies defaults for non-positive constants rather than failing.
func NewField(opt Options) *Field {
	if opt.G <= 0 {
		opt.G = DefaultG
	}
	if opt.SpeedOfLight <= 0 {
		opt.SpeedOfLight = DefaultSpeedOfLight
	}
	if opt.MinDistance <= 0 {
		opt.MinDistance = DefaultMinDistance
	}
	if opt.PerturbationScale == 0 {
		opt.PerturbationScale = 1.0
	}
	return &Field{
		G:                 opt.G,
		SpeedOfLight:      opt.SpeedOfLight,
		MinDistance:       opt.MinDistance,
		Perturbations:     opt.Perturbations,
		Relativistic:      opt.Relativistic,
		Method:            opt.Method,
		PerturbationScale: opt.PerturbationScale,
	}
}

// BoundaryRadius derives the domain edge distance from the central mass, by
// scaling the solar Oort cloud radius to this field's constants. Central mass
// is given in tonnes.
func (f *Field) BoundaryRadius(centralMass float64) float64 {
	return oortRefRadius * (f.G * centralMass * 1000) / (standardG * sunMass)
}

// OrbitalVelocities returns the circular orbital velocity and the escape
// velocity at the given orbit radius. A non-positive radius yields +Inf for
// both.
func (f *Field) OrbitalVelocities(mass, orbitRadius float64) (orbital, escape float64) {
	if orbitRadius <= 0 {
		return math.Inf(1), math.Inf(1)
	}
	orbital = math.Sqrt(f.G * mass / orbitRadius)
	escape = math.Sqrt(2 * f.G * mass / orbitRadius)
	return orbital, escape
}

// Force returns the gravitational force the source exerts on the target,
// directed from target toward source. Distances below the minimum floor
// return the zero vector to avoid the singularity.
func (f *Field) Force(source, target *body.State) vec.Vec3 {
	rVec := target.Position.Sub(source.Position)
	distance := rVec.Mag()

	if distance < f.MinDistance {
		return vec.Zero
	}

	magnitude := (f.G * source.Mass * target.Mass) / (distance * distance)

	if f.Relativistic {
		// First-order post-Newtonian factor. The velocity-dependent term is
		// not computed here and is treated as zero.
		vSquared := 0.0
		factor := 1 + (3*f.G*source.Mass)/(distance*f.SpeedOfLight*f.SpeedOfLight) - vSquared/(f.SpeedOfLight*f.SpeedOfLight)
		magnitude *= factor
	}

	return rVec.Normalize().Scale(-magnitude)
}

// Perturbation isolates the differential (tidal) effect the perturber has on
// the target relative to the primary. Any invalid intermediate degrades to
// the zero vector instead of an error.
func (f *Field) Perturbation(primary, target, perturber *body.State) vec.Vec3 {
	if !f.Perturbations {
		return vec.Zero
	}

	direct := f.Force(perturber, target)
	if !direct.IsValid() {
		slog.Error("perturbation force invalid, degrading to zero", "stage", "direct")
		return vec.Zero
	}

	primaryForce := f.Force(perturber, primary)
	if !primaryForce.IsValid() {
		slog.Error("perturbation force invalid, degrading to zero", "stage", "primary")
		return vec.Zero
	}

	massRatio := 0.0
	if primary.Mass > 1e-10 {
		massRatio = target.Mass / primary.Mass
	}

	perturbation := direct.Sub(primaryForce.Scale(massRatio)).Scale(f.PerturbationScale)
	if !perturbation.IsValid() {
		slog.Error("perturbation force invalid, degrading to zero", "stage", "combined")
		return vec.Zero
	}
	return perturbation
}

// Acceleration sums the direct force from every supplied source, plus the
// perturbation term for every ordered source pair when perturbations are
// enabled, and divides by the target mass. The caller guarantees a positive
// target mass and pre-filtered sources.
func (f *Field) Acceleration(target *body.Particle, sources []*body.Anchor) vec.Vec3 {
	total := vec.Zero

	for _, source := range sources {
		total = total.Add(f.Force(&source.State, &target.State))
	}

	if f.Perturbations && len(sources) >= 2 {
		for i, primary := range sources {
			for j, perturber := range sources {
				if i == j {
					continue
				}
				total = total.Add(f.Perturbation(&primary.State, &target.State, &perturber.State))
			}
		}
	}

	return total.Div(target.Mass)
}

// FilterByInfluence keeps at most maxSources sources whose influence G·m/r²
// on the target meets the threshold, strongest first. Sources closer than
// 1e-10 are skipped to avoid a zero division.
func (f *Field) FilterByInfluence(target *body.Particle, sources []*body.Anchor, threshold float64, maxSources int) []*body.Anchor {
	type ranked struct {
		source    *body.Anchor
		influence float64
	}

	influences := make([]ranked, 0, len(sources))
	for _, source := range sources {
		distance := target.Position.Sub(source.Position).Mag()
		if distance < 1e-10 {
			continue
		}
		influence := (f.G * source.Mass) / (distance * distance)
		if influence >= threshold {
			influences = append(influences, ranked{source, influence})
		}
	}

	sort.Slice(influences, func(i, j int) bool {
		return influences[i].influence > influences[j].influence
	})

	if len(influences) > maxSources {
		influences = influences[:maxSources]
	}

	filtered := make([]*body.Anchor, len(influences))
	for i, r := range influences {
		filtered[i] = r.source
	}
	return filtered
}
