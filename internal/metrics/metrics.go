// Package metrics provides per-run scalar accumulators. Every metric is a
// sim.Observer, so it can be attached to a run and read out afterwards.
package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/sim"
)

type Metric interface {
	sim.Observer
	Name() string
	Value() float64
	Reset()
}

// MeanSpeed averages the particle speed over every observed step.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) OnStep(r sim.StepResult) {
	m.sum += r.Velocity.Mag()
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

// PeakRadius tracks the largest distance from the origin the particle
// reached.
type PeakRadius struct {
	name string
	max  float64
}

func NewPeakRadius() *PeakRadius {
	return &PeakRadius{name: "peak_radius"}
}

func (p *PeakRadius) Name() string { return p.name }

func (p *PeakRadius) OnStep(r sim.StepResult) {
	p.max = math.Max(p.max, r.Position.Mag())
}

func (p *PeakRadius) Value() float64 { return p.max }

func (p *PeakRadius) Reset() { p.max = 0 }

// Containment is the fraction of steps the particle spent within the given
// radius. A run with no samples counts as fully contained.
type Containment struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewContainment(threshold float64) *Containment {
	return &Containment{name: "containment", threshold: threshold}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) OnStep(r sim.StepResult) {
	c.samples++
	if r.Position.Mag() > c.threshold {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// EventCount tallies capture or boundary events, selected by the counter
// function.
type EventCount struct {
	name  string
	count func(sim.StepResult) int
	total int
}

func NewCaptureCount() *EventCount {
	return &EventCount{
		name:  "captures",
		count: func(r sim.StepResult) int { return len(r.Captures) },
	}
}

func NewBoundaryHitCount() *EventCount {
	return &EventCount{
		name:  "boundary_hits",
		count: func(r sim.StepResult) int { return len(r.BoundaryHits) },
	}
}

func (e *EventCount) Name() string { return e.name }

func (e *EventCount) OnStep(r sim.StepResult) {
	e.total += e.count(r)
}

func (e *EventCount) Value() float64 { return float64(e.total) }

func (e *EventCount) Reset() { e.total = 0 }
