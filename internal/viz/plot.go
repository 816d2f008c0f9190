package viz

import (
	"github.com/san-kum/orbitsim/internal/vec"
)

// TrajectoryPlot renders the XY projection of a trajectory onto a braille
// canvas: boundary circle, anchor markers, then the path itself.
func TrajectoryPlot(positions []vec.Vec3, anchors []vec.Vec3, radius float64, width, height int) string {
	canvas := NewCanvas(width, height)

	// Sub-pixel space, scaled so the boundary circle fits with a margin.
	subW := width * 2
	subH := height * 4
	scale := float64(min(subW, subH)) / (2.2 * radius)
	cx := subW / 2
	cy := subH / 2

	project := func(p vec.Vec3) (int, int) {
		return cx + int(p.X*scale), cy - int(p.Y*scale)
	}

	canvas.DrawCircle(cx, cy, int(radius*scale))

	for _, a := range anchors {
		x, y := project(a)
		canvas.DrawMarker(x, y)
	}

	// Decimate long trajectories so drawing stays proportional to canvas
	// size.
	step := len(positions) / 2000
	if step < 1 {
		step = 1
	}
	var prevX, prevY int
	havePrev := false
	for i := 0; i < len(positions); i += step {
		x, y := project(positions[i])
		if havePrev {
			// A long jump is a wrap teleport, not a path segment.
			if absInt(x-prevX)+absInt(y-prevY) < min(subW, subH)/2 {
				canvas.DrawLine(prevX, prevY, x, y)
			}
		}
		prevX, prevY = x, y
		havePrev = true
	}

	return canvas.String()
}
