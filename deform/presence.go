package deform

import (
	"errors"
	"fmt"

	"github.com/lihogloglo/trample/components"
)

// ErrStaticGeometry is returned when the capture pass is handed geometry
// that is not dynamic-category. Including static scenery collapses the
// whole window to "occupied", so this is treated as a fatal
// misconfiguration rather than something to skip silently.
var ErrStaticGeometry = errors.New("presence capture received static-category geometry")

// GroundShape is the footprint of one piece of scene geometry projected
// onto the ground plane: what an orthographic bottom-up camera would see
// of it.
type GroundShape struct {
	X, Y     float32
	Radius   float32
	Category components.Category
}

// GeometrySource provides the dynamic-category geometry currently in the
// scene. The capture invokes it once per frame; implementations append
// their shapes to dst and return the extended slice so the buffer can be
// reused across frames.
type GeometrySource interface {
	AppendGroundShapes(dst []GroundShape) []GroundShape
}

// Mask is the transient per-frame occupancy grid produced by the
// capture. It shares the field's resolution and extent and is aligned to
// the current frame's anchor, so mask and field are pixel-aligned with
// no further transformation.
type Mask struct {
	res      int
	extent   float32
	cellSize float32

	anchorX, anchorY float32

	data []float32
}

// NewMask allocates a zeroed mask matching a field's window geometry.
func NewMask(extent float32, resolution int) *Mask {
	return &Mask{
		res:      resolution,
		extent:   extent,
		cellSize: extent / float32(resolution),
		data:     make([]float32, resolution*resolution),
	}
}

// Values returns the raw occupancy grid.
func (m *Mask) Values() []float32 { return m.data }

// Anchor returns the world-space center the mask was captured at.
func (m *Mask) Anchor() (float32, float32) { return m.anchorX, m.anchorY }

// Reset re-centers the mask on a new anchor and clears it.
func (m *Mask) Reset(anchorX, anchorY float32) {
	m.anchorX = anchorX
	m.anchorY = anchorY
	for i := range m.data {
		m.data[i] = 0
	}
}

// Stamp merges a circular footprint into the mask with a max merge.
// Cells whose center lies within radius of (wx, wy) take at least
// intensity. Used both by the capture rasterizer and the legacy
// footprint event path.
func (m *Mask) Stamp(wx, wy, radius, intensity float32) {
	if radius <= 0 || intensity <= 0 {
		return
	}
	minX := m.anchorX - m.extent/2
	minY := m.anchorY - m.extent/2

	// Cell i center is at minX + (i+0.5)*cellSize.
	lo := func(w, min float32) int {
		return int((w - radius - min) / m.cellSize)
	}
	hi := func(w, min float32) int {
		return int((w + radius - min) / m.cellSize)
	}
	x0 := clampIndex(lo(wx, minX), m.res)
	x1 := clampIndex(hi(wx, minX), m.res)
	y0 := clampIndex(lo(wy, minY), m.res)
	y1 := clampIndex(hi(wy, minY), m.res)

	r2 := radius * radius
	v := clamp01(intensity)
	for y := y0; y <= y1; y++ {
		cy := minY + (float32(y)+0.5)*m.cellSize
		dy := cy - wy
		base := y * m.res
		for x := x0; x <= x1; x++ {
			cx := minX + (float32(x)+0.5)*m.cellSize
			dx := cx - wx
			if dx*dx+dy*dy <= r2 {
				if v > m.data[base+x] {
					m.data[base+x] = v
				}
			}
		}
	}
}

func clampIndex(i, res int) int {
	if i < 0 {
		return 0
	}
	if i >= res {
		return res - 1
	}
	return i
}

// Capture projects the scene's dynamic geometry into a Mask: a single
// orthographic bottom-up pass over an explicitly filtered shape list.
// Output is binary occupancy (1 where any qualifying shape projects,
// 0 elsewhere), independent of how many shapes overlap a cell.
type Capture struct {
	mask   *Mask
	shapes []GroundShape // reused across frames
}

// NewCapture creates a capture pass matching the field's window.
func NewCapture(extent float32, resolution int) *Capture {
	return &Capture{
		mask: NewMask(extent, resolution),
	}
}

// Run captures the current frame's presence mask centered on the given
// anchor. Any static-category shape in the source is a configuration
// error: the returned mask is nil and the error wraps ErrStaticGeometry.
// With no dynamic geometry in the window the mask is all zero.
func (c *Capture) Run(anchorX, anchorY float32, src GeometrySource) (*Mask, error) {
	c.mask.Reset(anchorX, anchorY)
	c.shapes = src.AppendGroundShapes(c.shapes[:0])

	for i := range c.shapes {
		s := &c.shapes[i]
		if s.Category != components.CategoryDynamic {
			return nil, fmt.Errorf("shape %d at (%.1f, %.1f): %w", i, s.X, s.Y, ErrStaticGeometry)
		}
		c.mask.Stamp(s.X, s.Y, s.Radius, 1)
	}
	return c.mask, nil
}

// Mask returns the capture's mask from the most recent Run. The mask is
// transient: it is overwritten by the next Run.
func (c *Capture) Mask() *Mask { return c.mask }
