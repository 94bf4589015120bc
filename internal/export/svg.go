package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/threebody/internal/trajectory"
)

// TrajectoryToSVG draws the XY projection of every body as its own path,
// with the final positions marked. All bodies share one equal-aspect
// scale so orbits keep their shape.
func TrajectoryToSVG(buf *trajectory.Buffer, width, height int, colors [3]string) string {
	frames := buf.Frames()
	if len(frames) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, f := range frames {
		for _, p := range f.Positions {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// 10% padding on every side
	scale := math.Min(float64(width)/(rangeX*1.2), float64(height)/(rangeY*1.2))
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2

	project := func(x, y float64) (float64, float64) {
		return float64(width)/2 + (x-cx)*scale, float64(height)/2 - (y-cy)*scale
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for b := 0; b < 3; b++ {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, colors[b]))
		for i, f := range frames {
			x, y := project(f.Positions[b].X, f.Positions[b].Y)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	last := frames[len(frames)-1]
	for b, p := range last.Positions {
		x, y := project(p.X, p.Y)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
`, x, y, colors[b]))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
