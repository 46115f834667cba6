package deform

import (
	"math"
	"testing"
)

// publishedSampler builds a sampler with a directly installed grid.
func publishedSampler(extent float32, res int, grid []float32) *Sampler {
	s := newSampler(extent, res)
	s.publish(0, 0, grid)
	return s
}

func TestSamplerOutsideWindowIsZero(t *testing.T) {
	grid := make([]float32, 64*64)
	for i := range grid {
		grid[i] = 1
	}
	s := publishedSampler(64, 64, grid)

	cases := [][2]float32{
		{33, 0}, {-33, 0}, {0, 33}, {0, -33}, {100, 100}, {-50, 40},
	}
	for _, c := range cases {
		if v := s.Sample(c[0], c[1]); v != 0 {
			t.Errorf("expected 0 outside window at (%f, %f), got %f", c[0], c[1], v)
		}
	}

	// Inside the window the saturated field reads through.
	if v := s.Sample(0, 0); math.Abs(float64(v)-1) > 1e-5 {
		t.Errorf("expected 1 at window center, got %f", v)
	}
}

func TestSamplerNilGridReadsZero(t *testing.T) {
	s := newSampler(64, 64)
	s.publish(0, 0, nil)

	if v := s.Sample(0, 0); v != 0 {
		t.Errorf("expected 0 from unpublished sampler, got %f", v)
	}
	dx, dy := s.SampleGradient(0, 0)
	if dx != 0 || dy != 0 {
		t.Errorf("expected zero gradient from unpublished sampler, got (%f, %f)", dx, dy)
	}
}

func TestSamplerBilinearBetweenCells(t *testing.T) {
	grid := make([]float32, 64*64)
	grid[31*64+31] = 1
	s := publishedSampler(64, 64, grid)

	// Cell (31, 31) center sits at world (-0.5, -0.5).
	if v := s.Sample(-0.5, -0.5); math.Abs(float64(v)-1) > 1e-5 {
		t.Errorf("expected 1 at cell center, got %f", v)
	}
	// Halfway to the right neighbor the value halves.
	if v := s.Sample(0, -0.5); math.Abs(float64(v)-0.5) > 1e-5 {
		t.Errorf("expected 0.5 between cells, got %f", v)
	}
}

func TestSamplerGradientPointsAwayFromDepression(t *testing.T) {
	grid := make([]float32, 64*64)
	grid[31*64+31] = 1 // single depressed cell at world (-0.5, -0.5)
	s := publishedSampler(64, 64, grid)

	// To the right of the depression the surface rises rightward:
	// positive x slope, pointing away from the hole.
	dx, _ := s.SampleGradient(1.0, -0.5)
	if dx <= 0 {
		t.Errorf("expected positive x gradient right of depression, got %f", dx)
	}

	// Mirrored on the left.
	dx, _ = s.SampleGradient(-2.0, -0.5)
	if dx >= 0 {
		t.Errorf("expected negative x gradient left of depression, got %f", dx)
	}

	// Same convention vertically.
	_, dy := s.SampleGradient(-0.5, 1.0)
	if dy <= 0 {
		t.Errorf("expected positive y gradient below depression, got %f", dy)
	}
	_, dy = s.SampleGradient(-0.5, -2.0)
	if dy >= 0 {
		t.Errorf("expected negative y gradient above depression, got %f", dy)
	}

	// Far from any deformation the surface is flat.
	dx, dy = s.SampleGradient(20, 20)
	if dx != 0 || dy != 0 {
		t.Errorf("expected flat gradient on undisturbed ground, got (%f, %f)", dx, dy)
	}
}

func TestSamplerWindowAccessors(t *testing.T) {
	s := newSampler(48, 96)
	s.publish(10, -5, make([]float32, 96*96))

	ax, ay := s.Anchor()
	if ax != 10 || ay != -5 {
		t.Errorf("expected anchor (10, -5), got (%f, %f)", ax, ay)
	}
	if s.Extent() != 48 {
		t.Errorf("expected extent 48, got %f", s.Extent())
	}
}
