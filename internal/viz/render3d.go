package viz

import (
	"math"

	"github.com/san-kum/threebody/internal/dynamo"
)

// Camera orbits the origin and projects world points with a simple
// perspective divide. Points are normalized by Extent, so a point at
// distance Extent from the origin lands near the edge of the view.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Extent           float64
}

func NewCamera(extent float64) *Camera {
	if !(extent > 0) {
		extent = 1
	}
	return &Camera{Distance: 6, RotX: -0.5, Zoom: 1.0, Extent: extent}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts world coordinates to sub-pixel screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p.Scale(1 / c.Extent)).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - rot.Z)
	pScale := math.Min(float64(sw), float64(sh)) / 2.5
	sx := int(rot.X*persp*pScale) + sw/2
	sy := int(-rot.Y*persp*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Extent returns the largest distance of any frame position from the
// origin, for sizing a camera or a flat view.
func Extent(points ...[3]dynamo.Vec3) float64 {
	ext := 0.0
	for _, ps := range points {
		for _, p := range ps {
			ext = math.Max(ext, p.Norm())
		}
	}
	return ext
}
