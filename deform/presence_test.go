package deform

import (
	"errors"
	"testing"

	"github.com/lihogloglo/trample/components"
)

// stubSource returns a fixed shape list.
type stubSource struct {
	shapes []GroundShape
}

func (s *stubSource) AppendGroundShapes(dst []GroundShape) []GroundShape {
	return append(dst, s.shapes...)
}

func TestCaptureEmptySceneIsAllZero(t *testing.T) {
	c := NewCapture(64, 64)
	mask, err := c.Run(0, 0, &stubSource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range mask.Values() {
		if v != 0 {
			t.Fatalf("expected all-zero mask for empty scene, got %f at %d", v, i)
		}
	}
}

func TestCaptureStampsDynamicShapes(t *testing.T) {
	c := NewCapture(64, 64)
	src := &stubSource{shapes: []GroundShape{
		{X: 0, Y: 0, Radius: 2, Category: components.CategoryDynamic},
	}}

	mask, err := c.Run(0, 0, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Cell (31, 31) center is at (-0.5, -0.5), well inside radius 2.
	if v := mask.Values()[31*64+31]; v != 1 {
		t.Errorf("expected binary occupancy 1 under the shape, got %f", v)
	}
	// 10 units away is untouched.
	if v := mask.Values()[31*64+41]; v != 0 {
		t.Errorf("expected 0 outside the shape, got %f", v)
	}
}

func TestCaptureRejectsStaticGeometry(t *testing.T) {
	c := NewCapture(64, 64)
	src := &stubSource{shapes: []GroundShape{
		{X: 0, Y: 0, Radius: 1, Category: components.CategoryDynamic},
		{X: 5, Y: 5, Radius: 30, Category: components.CategoryStatic},
	}}

	mask, err := c.Run(0, 0, src)
	if mask != nil {
		t.Error("expected nil mask on static geometry")
	}
	if !errors.Is(err, ErrStaticGeometry) {
		t.Errorf("expected ErrStaticGeometry, got %v", err)
	}
}

func TestCaptureOverlappingShapesStayBinary(t *testing.T) {
	c := NewCapture(64, 64)
	src := &stubSource{shapes: []GroundShape{
		{X: 0, Y: 0, Radius: 2, Category: components.CategoryDynamic},
		{X: 0.5, Y: 0, Radius: 2, Category: components.CategoryDynamic},
		{X: -0.5, Y: 0.5, Radius: 2, Category: components.CategoryDynamic},
	}}

	mask, err := c.Run(0, 0, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range mask.Values() {
		if v != 0 && v != 1 {
			t.Fatalf("expected binary mask, got %f at %d", v, i)
		}
	}
}

func TestCaptureFollowsAnchor(t *testing.T) {
	c := NewCapture(64, 64)
	src := &stubSource{shapes: []GroundShape{
		{X: 100, Y: 100, Radius: 2, Category: components.CategoryDynamic},
	}}

	// Shape far outside a window anchored at the origin.
	mask, err := c.Run(0, 0, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range mask.Values() {
		if v != 0 {
			t.Fatalf("expected empty mask with shape outside window, got %f at %d", v, i)
		}
	}

	// Re-anchored on the shape it shows up pixel-aligned at the center.
	mask, err = c.Run(100, 100, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := mask.Values()[31*64+31]; v != 1 {
		t.Errorf("expected occupancy at window center after re-anchor, got %f", v)
	}
}

func TestMaskStampClampsToWindow(t *testing.T) {
	m := NewMask(64, 64)
	m.Reset(0, 0)

	// Stamp centered outside the window, overlapping its left edge.
	m.Stamp(-33, 0, 3, 1)

	if v := m.Values()[31*64+0]; v != 1 {
		t.Errorf("expected edge cell covered by out-of-window stamp, got %f", v)
	}
	// No wraparound to the right edge.
	if v := m.Values()[31*64+63]; v != 0 {
		t.Errorf("expected far edge untouched, got %f", v)
	}
}
