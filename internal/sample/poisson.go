// Package sample generates evenly spread anchor positions inside a sphere.
// Small counts use fixed stratified layouts; larger counts fall back to
// grid-accelerated Poisson-disk dart throwing.
package sample

import (
	"math"
	"math/rand"

	"github.com/san-kum/orbitsim/internal/vec"
)

const maxAttempts = 30

// PoissonDisk returns up to n points inside a sphere of the given radius,
// each pair at least minDistance apart. Fewer than n points are returned when
// the sphere cannot hold them at that spacing.
func PoissonDisk(n int, minDistance, radius float64, rng *rand.Rand) []vec.Vec3 {
	if n <= 0 {
		return nil
	}
	if n <= 10 {
		return stratified(n, radius)
	}
	return dartThrow(n, minDistance, radius, rng)
}

// stratified places small counts on fixed symmetric layouts so they stay
// evenly spread: polyhedron vertices up to 6, a golden spiral shell beyond.
func stratified(n int, radius float64) []vec.Vec3 {
	switch n {
	case 1:
		return []vec.Vec3{vec.Zero}
	case 2:
		r := radius * 0.7
		return []vec.Vec3{vec.New(r, 0, 0), vec.New(-r, 0, 0)}
	case 3:
		r := radius * 0.6
		points := make([]vec.Vec3, 3)
		for i := range points {
			theta := float64(i) * 2 * math.Pi / 3
			points[i] = vec.New(r*math.Cos(theta), r*math.Sin(theta), 0)
		}
		return points
	case 4:
		// Tetrahedron.
		r := radius * 0.5
		a := r * math.Sqrt(8.0/9.0)
		c := r / 3
		points := []vec.Vec3{vec.New(0, 0, r)}
		for i := 0; i < 3; i++ {
			theta := float64(i) * 2 * math.Pi / 3
			points = append(points, vec.New(a*math.Cos(theta), a*math.Sin(theta), -c))
		}
		return points
	case 5:
		// Triangular bipyramid.
		r := radius * 0.5
		a := r * math.Sqrt(3.0/4.0)
		return []vec.Vec3{
			vec.New(0, 0, r),
			vec.New(0, 0, -r),
			vec.New(a, 0, 0),
			vec.New(-a/2, a*math.Sqrt(3)/2, 0),
			vec.New(-a/2, -a*math.Sqrt(3)/2, 0),
		}
	case 6:
		// Octahedron.
		r := radius * 0.5
		return []vec.Vec3{
			vec.New(r, 0, 0), vec.New(-r, 0, 0),
			vec.New(0, r, 0), vec.New(0, -r, 0),
			vec.New(0, 0, r), vec.New(0, 0, -r),
		}
	}

	// Golden spiral shell for 7..10.
	points := make([]vec.Vec3, n)
	r := radius * 0.7
	for i := range points {
		phi := math.Acos(1 - 2*(float64(i)+0.5)/float64(n))
		theta := math.Pi * (1 + math.Sqrt(5)) * float64(i)
		points[i] = vec.New(
			r*math.Cos(theta)*math.Sin(phi),
			r*math.Sin(theta)*math.Sin(phi),
			r*math.Cos(phi),
		)
	}
	return points
}

type grid struct {
	cellSize float64
	size     int
	offset   float64
	cells    []int
}

func newGrid(radius, minDistance float64) *grid {
	cellSize := minDistance / math.Sqrt(3)
	size := int(2*radius/cellSize) + 1
	if size < 1 {
		size = 1
	}
	cells := make([]int, size*size*size)
	for i := range cells {
		cells[i] = -1
	}
	return &grid{cellSize: cellSize, size: size, offset: -radius, cells: cells}
}

func (g *grid) index(p vec.Vec3) (int, int, int) {
	return int((p.X - g.offset) / g.cellSize),
		int((p.Y - g.offset) / g.cellSize),
		int((p.Z - g.offset) / g.cellSize)
}

func (g *grid) at(x, y, z int) int {
	return g.cells[(x*g.size+y)*g.size+z]
}

func (g *grid) put(p vec.Vec3, idx int) {
	x, y, z := g.index(p)
	if x >= 0 && x < g.size && y >= 0 && y < g.size && z >= 0 && z < g.size {
		g.cells[(x*g.size+y)*g.size+z] = idx
	}
}

// tooClose scans the neighboring cells for a point within minDistance.
func (g *grid) tooClose(p vec.Vec3, points []vec.Vec3, minDistance float64) bool {
	cx, cy, cz := g.index(p)
	const reach = 2
	for x := max(0, cx-reach); x <= min(g.size-1, cx+reach); x++ {
		for y := max(0, cy-reach); y <= min(g.size-1, cy+reach); y++ {
			for z := max(0, cz-reach); z <= min(g.size-1, cz+reach); z++ {
				idx := g.at(x, y, z)
				if idx < 0 {
					continue
				}
				if p.Sub(points[idx]).Mag() < minDistance*0.999 {
					return true
				}
			}
		}
	}
	return false
}

func dartThrow(n int, minDistance, radius float64, rng *rand.Rand) []vec.Vec3 {
	points := make([]vec.Vec3, 0, n)
	active := make([]int, 0, n)
	g := newGrid(radius, minDistance)

	first := randomInSphere(radius, rng)
	points = append(points, first)
	active = append(active, 0)
	g.put(first, 0)

	for len(active) > 0 && len(points) < n {
		pick := rng.Intn(len(active))
		base := points[active[pick]]
		found := false

		for attempt := 0; attempt < maxAttempts; attempt++ {
			candidate := base.Add(randomOffset(base, minDistance, radius, rng))
			if candidate.Mag() > radius {
				continue
			}
			if g.tooClose(candidate, points, minDistance) {
				continue
			}
			points = append(points, candidate)
			active = append(active, len(points)-1)
			g.put(candidate, len(points)-1)
			found = true
			break
		}

		if !found {
			active = append(active[:pick], active[pick+1:]...)
		}
	}

	return points
}

// randomInSphere samples a volume-uniform point via a cube-root radial
// distribution.
func randomInSphere(radius float64, rng *rand.Rand) vec.Vec3 {
	theta := rng.Float64() * 2 * math.Pi
	phi := rng.Float64() * math.Pi
	r := radius * math.Cbrt(rng.Float64())
	return vec.New(
		r*math.Sin(phi)*math.Cos(theta),
		r*math.Sin(phi)*math.Sin(theta),
		r*math.Cos(phi),
	)
}

// randomOffset picks an annulus offset between minDistance and roughly twice
// it, shrunk near the sphere edge so candidates stay inside.
func randomOffset(from vec.Vec3, minDistance, radius float64, rng *rand.Rand) vec.Vec3 {
	theta := rng.Float64() * 2 * math.Pi
	phi := rng.Float64() * math.Pi

	maxPossible := math.Min(minDistance*2, radius-from.Mag())
	upper := math.Max(minDistance*1.2, maxPossible)
	r := minDistance + rng.Float64()*(upper-minDistance)

	return vec.New(
		r*math.Sin(phi)*math.Cos(theta),
		r*math.Sin(phi)*math.Sin(theta),
		r*math.Cos(phi),
	)
}
