package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/vec"
)

// TrajectoryToSVG renders the XY projection of a run: the boundary circle,
// anchor markers, and the trajectory path scaled to the domain radius.
func TrajectoryToSVG(positions []vec.Vec3, anchors []vec.Vec3, radius float64, size int) string {
	if len(positions) < 2 || radius <= 0 {
		return ""
	}

	half := float64(size) / 2
	scale := half / (radius * 1.1)
	px := func(p vec.Vec3) (float64, float64) {
		return half + p.X*scale, half - p.Y*scale
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#444466" stroke-width="1"/>
`, size, size, size, size, half, half, radius*scale))

	for _, a := range anchors {
		x, y := px(a)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="#ffaa00"/>
`, x, y))
	}

	sb.WriteString(`<path fill="none" stroke="#00ccff" stroke-width="1.2" d="M`)
	for i, p := range positions {
		x, y := px(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")

	sx, sy := px(positions[0])
	ex, ey := px(positions[len(positions)-1])
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="#00ff88"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="#ff4444"/>
</svg>`, sx, sy, ex, ey))

	return sb.String()
}
