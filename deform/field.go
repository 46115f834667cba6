// Package deform implements the persistent terrain deformation pipeline:
// presence capture, field state, update, smoothing, and sampling.
package deform

import "math"

// Field is the persistent deformation grid. It covers a square window of
// fixed physical extent centered on a moving anchor, stored as two
// ping-pong buffers of intensity in [0,1] (0 = undisturbed ground,
// 1 = maximum depression). Exactly one buffer holds the last completed
// frame at any time; the other is the current frame's write target.
type Field struct {
	extent   float32
	res      int
	cellSize float32

	anchorX, anchorY float32

	buf    [2][]float32
	active int // index of the readable buffer
}

// NewField allocates a zeroed field with the given physical extent and
// grid resolution, anchored at the origin.
func NewField(extent float32, resolution int) *Field {
	f := &Field{
		extent:   extent,
		res:      resolution,
		cellSize: extent / float32(resolution),
	}
	f.buf[0] = make([]float32, resolution*resolution)
	f.buf[1] = make([]float32, resolution*resolution)
	return f
}

// Resolution returns the grid width/height in samples.
func (f *Field) Resolution() int { return f.res }

// Extent returns the physical side length of the covered window.
func (f *Field) Extent() float32 { return f.extent }

// CellSize returns the world-space width of one grid cell.
func (f *Field) CellSize() float32 { return f.cellSize }

// Anchor returns the world-space center of the covered window.
func (f *Field) Anchor() (float32, float32) { return f.anchorX, f.anchorY }

// Readable returns the buffer holding the last completed frame.
func (f *Field) Readable() []float32 { return f.buf[f.active] }

// Writable returns the current frame's write target buffer.
func (f *Field) Writable() []float32 { return f.buf[1-f.active] }

// Swap flips the buffer roles. Call exactly once per frame, after the
// update stage has finished writing.
func (f *Field) Swap() { f.active = 1 - f.active }

// Advance moves the anchor to a new reference point and returns the
// sliding-window offset in fractional samples: the grid coordinate
// delta at which the previous frame's content now sits relative to the
// current window.
func (f *Field) Advance(ax, ay float32) (offX, offY float32) {
	offX = (ax - f.anchorX) / f.cellSize
	offY = (ay - f.anchorY) / f.cellSize
	f.anchorX = ax
	f.anchorY = ay
	return offX, offY
}

// SampleSlid reads the readable buffer at grid coordinate
// (gx+offX, gy+offY) with bilinear filtering. Taps that fall outside
// the grid read 0: window area that was previously outside coverage
// has no history.
func (f *Field) SampleSlid(gx, gy, offX, offY float32) float32 {
	return bilinearZero(f.Readable(), f.res, gx+offX, gy+offY)
}

// Reset zeroes both buffers. Used when the pipeline is disabled so that
// re-enabling starts from a defined undisturbed state.
func (f *Field) Reset() {
	for i := range f.buf[0] {
		f.buf[0][i] = 0
		f.buf[1][i] = 0
	}
}

// WorldToGrid converts a world position to grid coordinates, where
// integer coordinate i lies at the center of cell i.
func (f *Field) WorldToGrid(wx, wy float32) (float32, float32) {
	minX := f.anchorX - f.extent/2
	minY := f.anchorY - f.extent/2
	return (wx-minX)/f.cellSize - 0.5, (wy-minY)/f.cellSize - 0.5
}

// bilinearZero samples a res*res grid at fractional coordinates with
// bilinear filtering; taps outside the grid contribute 0. Integer
// coordinates hit cell centers exactly, so a whole-sample offset
// degenerates to an exact shifted lookup.
func bilinearZero(grid []float32, res int, gx, gy float32) float32 {
	x0 := int(math.Floor(float64(gx)))
	y0 := int(math.Floor(float64(gy)))
	tx := gx - float32(x0)
	ty := gy - float32(y0)

	v00 := tapZero(grid, res, x0, y0)
	v10 := tapZero(grid, res, x0+1, y0)
	v01 := tapZero(grid, res, x0, y0+1)
	v11 := tapZero(grid, res, x0+1, y0+1)

	a := v00 + (v10-v00)*tx
	b := v01 + (v11-v01)*tx
	return a + (b-a)*ty
}

func tapZero(grid []float32, res, x, y int) float32 {
	if x < 0 || x >= res || y < 0 || y >= res {
		return 0
	}
	return grid[y*res+x]
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
