// Package domain owns the bounded spherical simulation space: the boundary
// radius derived from a central mass, the boundary policy, and the
// anchor/particle collection.
package domain

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/orbitsim/internal/body"
	"github.com/san-kum/orbitsim/internal/boundary"
	"github.com/san-kum/orbitsim/internal/gravity"
)

type Domain struct {
	CentralMass float64
	Radius      float64
	Boundary    boundary.Policy

	anchors  []*body.Anchor
	particle *body.Particle
}

// New validates the central mass, derives the boundary radius from it, and
// builds the boundary policy. An unknown boundary kind rejects construction.
func New(field *gravity.Field, centralMass float64, kind string, reflectionAngle, reflectionAngleRange float64, rng *rand.Rand) (*Domain, error) {
	if centralMass <= 0 {
		return nil, fmt.Errorf("central mass must be positive, got %g", centralMass)
	}

	radius := field.BoundaryRadius(centralMass)
	policy, err := boundary.New(kind, radius, reflectionAngle, reflectionAngleRange, rng)
	if err != nil {
		return nil, err
	}

	return &Domain{
		CentralMass: centralMass,
		Radius:      radius,
		Boundary:    policy,
		anchors:     make([]*body.Anchor, 0),
	}, nil
}

func (d *Domain) AddAnchor(a *body.Anchor) {
	d.anchors = append(d.anchors, a)
}

func (d *Domain) RemoveAnchor(name string) bool {
	for i, a := range d.anchors {
		if a.Name == name {
			d.anchors = append(d.anchors[:i], d.anchors[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Domain) Anchors() []*body.Anchor {
	return d.anchors
}

func (d *Domain) AnchorByName(name string) *body.Anchor {
	for _, a := range d.anchors {
		if a.Name == name {
			return a
		}
	}
	return nil
}

func (d *Domain) DormantCount() int {
	count := 0
	for _, a := range d.anchors {
		if a.Dormant() {
			count++
		}
	}
	return count
}

// SetParticle installs the single tracked particle, replacing any previous
// one.
func (d *Domain) SetParticle(p *body.Particle) {
	d.particle = p
}

func (d *Domain) RemoveParticle() {
	d.particle = nil
}

func (d *Domain) Particle() *body.Particle {
	return d.particle
}

func (d *Domain) String() string {
	return fmt.Sprintf("Domain(central_mass=%g, boundary=%s, radius=%g, anchors=%d)",
		d.CentralMass, d.Boundary.Kind(), d.Radius, len(d.anchors))
}
