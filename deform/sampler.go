package deform

// Sampler is the stable read contract exposed to the terrain renderer:
// intensity and surface gradient at a world position. Both calls are a
// handful of grid lookups, safe to invoke per rendered vertex or pixel.
type Sampler struct {
	res      int
	extent   float32
	cellSize float32

	anchorX, anchorY float32

	// grid is the buffer currently published for consumption: the
	// smoothed field, the raw presence mask in bypass mode, or nil
	// when the pipeline is disabled (everything reads 0).
	grid []float32
}

// newSampler creates a sampler for the given window geometry.
func newSampler(extent float32, resolution int) *Sampler {
	return &Sampler{
		res:      resolution,
		extent:   extent,
		cellSize: extent / float32(resolution),
	}
}

// publish installs the buffer consumers read for the rest of the frame.
func (s *Sampler) publish(anchorX, anchorY float32, grid []float32) {
	s.anchorX = anchorX
	s.anchorY = anchorY
	s.grid = grid
}

// Anchor returns the current window center, so consumers can compute
// their own normalized coordinates without re-deriving the mapping.
func (s *Sampler) Anchor() (float32, float32) { return s.anchorX, s.anchorY }

// Extent returns the physical side length of the window.
func (s *Sampler) Extent() float32 { return s.extent }

// Sample returns the deformation intensity at a world position,
// in [0,1]. Positions outside the window are undisturbed and return
// exactly 0.
func (s *Sampler) Sample(wx, wy float32) float32 {
	if s.grid == nil {
		return 0
	}
	half := s.extent / 2
	dx := wx - s.anchorX
	dy := wy - s.anchorY
	if dx < -half || dx > half || dy < -half || dy > half {
		return 0
	}
	gx := (dx+half)/s.cellSize - 0.5
	gy := (dy+half)/s.cellSize - 0.5
	return bilinearZero(s.grid, s.res, gx, gy)
}

// SampleGradient returns the local slope of the deformed surface at a
// world position, per world unit, via central finite differences one
// cell wide. Intensity is depression depth, so the surface slope is the
// negated intensity gradient: at the edge of a depression the vector
// points uphill, away from the hole. Consumers use it to perturb the
// surface normal so depression rims catch light.
func (s *Sampler) SampleGradient(wx, wy float32) (float32, float32) {
	if s.grid == nil {
		return 0, 0
	}
	h := s.cellSize
	dx := -(s.Sample(wx+h, wy) - s.Sample(wx-h, wy)) / (2 * h)
	dy := -(s.Sample(wx, wy+h) - s.Sample(wx, wy-h)) / (2 * h)
	return dx, dy
}
