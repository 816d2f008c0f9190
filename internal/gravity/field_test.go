package gravity

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/vec"
)

func newTestField(perturbations, relativistic bool) *Field {
	opt := DefaultOptions()
	opt.Perturbations = perturbations
	opt.Relativistic = relativistic
	return NewField(opt)
}

func anchorAt(name string, mass float64, position vec.Vec3) *body.Anchor {
	return body.NewAnchor(name, mass, position, 1.0, 1.0, 1.0)
}

func TestNewFieldDefaults(t *testing.T) {
	f := NewField(Options{G: -1, SpeedOfLight: 0, MinDistance: -0.5})

	if f.G != DefaultG {
		t.Errorf("expected G %g, got %g", DefaultG, f.G)
	}
	if f.SpeedOfLight != DefaultSpeedOfLight {
		t.Errorf("expected c %g, got %g", DefaultSpeedOfLight, f.SpeedOfLight)
	}
	if f.MinDistance != DefaultMinDistance {
		t.Errorf("expected min distance %g, got %g", DefaultMinDistance, f.MinDistance)
	}
	if f.PerturbationScale != 1.0 {
		t.Errorf("expected perturbation scale 1, got %g", f.PerturbationScale)
	}
}

func TestForceInverseSquare(t *testing.T) {
	f := newTestField(false, false)
	source := &body.State{Mass: 100, Position: vec.Zero}

	near := &body.State{Mass: 1, Position: vec.New(5, 0, 0)}
	far := &body.State{Mass: 1, Position: vec.New(10, 0, 0)}

	nearMag := f.Force(source, near).Mag()
	farMag := f.Force(source, far).Mag()

	if nearMag <= farMag {
		t.Errorf("force should decrease with distance: near %g, far %g", nearMag, farMag)
	}
	// Doubling the distance quarters the force.
	if math.Abs(nearMag/farMag-4) > 1e-9 {
		t.Errorf("expected ratio 4, got %g", nearMag/farMag)
	}
}

func TestForceDirection(t *testing.T) {
	f := newTestField(false, false)
	source := &body.State{Mass: 100, Position: vec.New(10, 0, 0)}
	target := &body.State{Mass: 1, Position: vec.Zero}

	force := f.Force(source, target)
	if force.X <= 0 || force.Y != 0 || force.Z != 0 {
		t.Errorf("force should point from the target toward the source, got %v", force)
	}
}

func TestForceMinDistanceFloor(t *testing.T) {
	f := newTestField(false, false)
	source := &body.State{Mass: 100, Position: vec.Zero}
	target := &body.State{Mass: 1, Position: vec.New(f.MinDistance/2, 0, 0)}

	if got := f.Force(source, target); got != vec.Zero {
		t.Errorf("force below the distance floor should be zero, got %v", got)
	}
}

func TestForceRelativisticFactor(t *testing.T) {
	source := &body.State{Mass: 1e20, Position: vec.Zero}
	target := &body.State{Mass: 1, Position: vec.New(100, 0, 0)}

	newtonian := newTestField(false, false).Force(source, target).Mag()
	corrected := newTestField(false, true).Force(source, target).Mag()

	distance := 100.0
	c := DefaultSpeedOfLight
	factor := 1 + (3*DefaultG*source.Mass)/(distance*c*c)

	if corrected <= newtonian {
		t.Errorf("correction should strengthen the force: %g vs %g", corrected, newtonian)
	}
	if math.Abs(corrected/newtonian-factor) > 1e-9 {
		t.Errorf("expected factor %g, got %g", factor, corrected/newtonian)
	}
}

func TestAccelerationTwoAnchors(t *testing.T) {
	f := newTestField(false, false)

	sources := []*body.Anchor{
		anchorAt("A", 100, vec.New(10, 0, 0)),
		anchorAt("B", 100, vec.New(0, 10, 0)),
	}
	p := body.NewParticle(1, vec.Zero, vec.Zero)

	a := f.Acceleration(p, sources)

	// Each source pulls with G*100/10^2 = 0.1 toward itself.
	if math.Abs(a.X-0.1) > 1e-9 || math.Abs(a.Y-0.1) > 1e-9 || math.Abs(a.Z) > 1e-12 {
		t.Errorf("expected (0.1, 0.1, 0), got %v", a)
	}
}

func TestAccelerationWithPerturbations(t *testing.T) {
	f := newTestField(true, false)

	sources := []*body.Anchor{
		anchorAt("A", 100, vec.New(10, 0, 0)),
		anchorAt("B", 100, vec.New(0, 10, 0)),
	}
	p := body.NewParticle(1, vec.Zero, vec.Zero)

	a := f.Acceleration(p, sources)

	// Direct pulls sum to (0.1, 0.1, 0). The two ordered pair terms are
	// (0.035355, 0.064645, 0) and its mirror, adding another (0.1, 0.1, 0).
	if math.Abs(a.X-0.2) > 1e-9 || math.Abs(a.Y-0.2) > 1e-9 || math.Abs(a.Z) > 1e-12 {
		t.Errorf("expected (0.2, 0.2, 0), got %v", a)
	}

	pair := f.Perturbation(&sources[0].State, &p.State, &sources[1].State)
	if math.Abs(pair.X-0.035355) > 1e-6 || math.Abs(pair.Y-0.064645) > 1e-6 {
		t.Errorf("unexpected pair term: %v", pair)
	}
}

func TestAccelerationDividesByMass(t *testing.T) {
	f := newTestField(false, false)
	sources := []*body.Anchor{anchorAt("A", 100, vec.New(10, 0, 0))}

	light := f.Acceleration(body.NewParticle(1, vec.Zero, vec.Zero), sources)
	heavy := f.Acceleration(body.NewParticle(4, vec.Zero, vec.Zero), sources)

	// Force scales with particle mass, so acceleration is mass-independent.
	if math.Abs(light.Mag()-heavy.Mag()) > 1e-12 {
		t.Errorf("acceleration should not depend on particle mass: %g vs %g", light.Mag(), heavy.Mag())
	}
}

func TestPerturbationDisabled(t *testing.T) {
	f := newTestField(false, false)
	primary := &body.State{Mass: 100, Position: vec.New(10, 0, 0)}
	target := &body.State{Mass: 1, Position: vec.Zero}
	perturber := &body.State{Mass: 100, Position: vec.New(0, 10, 0)}

	if got := f.Perturbation(primary, target, perturber); got != vec.Zero {
		t.Errorf("expected zero perturbation when disabled, got %v", got)
	}
}

func TestPerturbationMassRatioClamp(t *testing.T) {
	f := newTestField(true, false)
	target := &body.State{Mass: 1, Position: vec.Zero}
	perturber := &body.State{Mass: 100, Position: vec.New(0, 10, 0)}

	// Primary below the mass floor contributes no indirect term, so the
	// perturbation collapses to the direct pull of the perturber.
	primary := &body.State{Mass: 1e-12, Position: vec.New(10, 0, 0)}
	got := f.Perturbation(primary, target, perturber)
	direct := f.Force(perturber, target)

	if got != direct {
		t.Errorf("expected direct force %v, got %v", direct, got)
	}
}

func TestPerturbationScale(t *testing.T) {
	opt := DefaultOptions()
	opt.Perturbations = true
	opt.PerturbationScale = 0.5
	half := NewField(opt)

	full := newTestField(true, false)

	primary := &body.State{Mass: 100, Position: vec.New(10, 0, 0)}
	target := &body.State{Mass: 1, Position: vec.Zero}
	perturber := &body.State{Mass: 100, Position: vec.New(0, 10, 0)}

	a := full.Perturbation(primary, target, perturber)
	b := half.Perturbation(primary, target, perturber)

	if math.Abs(b.Mag()*2-a.Mag()) > 1e-12 {
		t.Errorf("scale 0.5 should halve the perturbation: %g vs %g", b.Mag(), a.Mag())
	}
}

func TestFilterByInfluence(t *testing.T) {
	f := newTestField(false, false)
	p := body.NewParticle(1, vec.Zero, vec.Zero)

	sources := []*body.Anchor{
		anchorAt("weak", 1, vec.New(100, 0, 0)),
		anchorAt("strong", 100, vec.New(5, 0, 0)),
		anchorAt("medium", 100, vec.New(20, 0, 0)),
		anchorAt("negligible", 1e-8, vec.New(500, 0, 0)),
	}

	filtered := f.FilterByInfluence(p, sources, 1e-6, 10)

	if len(filtered) == 0 {
		t.Fatal("expected at least one source to pass the filter")
	}
	for _, s := range filtered {
		if s.Name == "negligible" {
			t.Error("source below threshold should have been dropped")
		}
	}
	for i := 1; i < len(filtered); i++ {
		prev := influenceOn(f, p, filtered[i-1])
		cur := influenceOn(f, p, filtered[i])
		if cur > prev {
			t.Errorf("sources out of order at %d: %g > %g", i, cur, prev)
		}
	}
	if filtered[0].Name != "strong" {
		t.Errorf("expected strongest source first, got %q", filtered[0].Name)
	}
}

func TestFilterByInfluenceCap(t *testing.T) {
	f := newTestField(false, false)
	p := body.NewParticle(1, vec.Zero, vec.Zero)

	sources := make([]*body.Anchor, 0, 15)
	for i := 0; i < 15; i++ {
		sources = append(sources, anchorAt("P", 50, vec.New(10+float64(i), 0, 0)))
	}

	filtered := f.FilterByInfluence(p, sources, 1e-6, 10)
	if len(filtered) != 10 {
		t.Errorf("expected 10 sources after capping, got %d", len(filtered))
	}
}

func TestFilterByInfluenceSkipsCoincident(t *testing.T) {
	f := newTestField(false, false)
	p := body.NewParticle(1, vec.New(3, 3, 3), vec.Zero)

	sources := []*body.Anchor{anchorAt("onTop", 100, vec.New(3, 3, 3))}
	if got := f.FilterByInfluence(p, sources, 1e-6, 10); len(got) != 0 {
		t.Errorf("coincident source should be skipped, got %d", len(got))
	}
}

func influenceOn(f *Field, p *body.Particle, a *body.Anchor) float64 {
	d := p.Position.Sub(a.Position).Mag()
	return f.G * a.Mass / (d * d)
}

func TestBoundaryRadius(t *testing.T) {
	f := newTestField(false, false)

	got := f.BoundaryRadius(88500)
	want := oortRefRadius * (f.G * 88500 * 1000) / (standardG * sunMass)

	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %g, got %g", want, got)
	}
	// The stock central mass lands at a 500 unit boundary.
	if math.Abs(got-500) > 1.0 {
		t.Errorf("expected roughly 500 for the default central mass, got %g", got)
	}
}

func TestOrbitalVelocities(t *testing.T) {
	f := newTestField(false, false)

	orbital, escape := f.OrbitalVelocities(100, 10)
	if math.Abs(orbital-math.Sqrt(1)) > 1e-12 {
		t.Errorf("expected orbital velocity 1, got %g", orbital)
	}
	if math.Abs(escape-math.Sqrt(2)) > 1e-12 {
		t.Errorf("expected escape velocity sqrt(2), got %g", escape)
	}
	if math.Abs(escape/orbital-math.Sqrt2) > 1e-12 {
		t.Errorf("escape should be sqrt(2) times orbital")
	}
}

func TestOrbitalVelocitiesDegenerateRadius(t *testing.T) {
	f := newTestField(false, false)
	for _, r := range []float64{0, -1} {
		orbital, escape := f.OrbitalVelocities(100, r)
		if !math.IsInf(orbital, 1) || !math.IsInf(escape, 1) {
			t.Errorf("radius %g: expected +Inf, got %g and %g", r, orbital, escape)
		}
	}
}
