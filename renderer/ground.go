// Package renderer draws the deformation field and the actors moving
// over it. All field drawing goes through a CPU-built texture that is
// re-uploaded when the field changes and stretched over the window's
// world rectangle.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lihogloglo/trample/camera"
	"github.com/lihogloglo/trample/deform"
)

// Base surface colors per material preset.
var materialColors = map[string]rl.Color{
	"snow": {R: 236, G: 240, B: 246, A: 255},
	"ash":  {R: 142, G: 138, B: 134, A: 255},
	"mud":  {R: 110, G: 84, B: 58, A: 255},
}

// GroundRenderer renders the deformation field as a lit surface.
// Depressions darken toward the material's trough color and pick up
// directional shading from the local slope.
type GroundRenderer struct {
	tex         rl.Texture2D
	pixels      []color.RGBA
	res         int
	initialized bool
}

// NewGroundRenderer creates a new ground renderer.
func NewGroundRenderer() *GroundRenderer {
	return &GroundRenderer{}
}

// Init creates the field texture (must be called after the raylib
// window is created).
func (r *GroundRenderer) Init(res int) {
	if r.initialized {
		return
	}
	r.res = res
	r.pixels = make([]color.RGBA, res*res)

	img := rl.GenImageColor(res, res, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.initialized = true
}

// UpdateField uploads new field data to the texture. values is the
// row-major res*res grid in [0,1]; depthScale comes from the active
// material. A nil grid renders as undisturbed surface.
func (r *GroundRenderer) UpdateField(values []float32, res int, mat deform.Material) {
	if !r.initialized {
		r.Init(res)
	}
	if res != r.res {
		return
	}

	base, ok := materialColors[mat.Name]
	if !ok {
		base = materialColors["snow"]
	}

	depth := mat.DepthScale
	// Light arrives from the top-left; slope toward it brightens.
	const lightX, lightY = -0.7071, -0.7071

	for gy := 0; gy < res; gy++ {
		for gx := 0; gx < res; gx++ {
			idx := gy*res + gx

			var v, sx, sy float32
			if values != nil {
				v = values[idx]
				// Central-difference slope, zero outside the window.
				sx = (cellAt(values, res, gx+1, gy) - cellAt(values, res, gx-1, gy)) * 0.5
				sy = (cellAt(values, res, gx, gy+1) - cellAt(values, res, gx, gy-1)) * 0.5
			}

			// Depression darkening
			shade := 1 - clamp01(v*depth)*0.55

			// Directional shading from the slope; depressions get a lit
			// rim on the light side and shadow opposite.
			light := 1 + clampRange((sx*lightX+sy*lightY)*4*depth, -0.35, 0.35)

			f := shade * light
			r.pixels[idx] = color.RGBA{
				R: scale8(base.R, f),
				G: scale8(base.G, f),
				B: scale8(base.B, f*1.02),
				A: 255,
			}
		}
	}

	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the field texture over its world rectangle.
func (r *GroundRenderer) Draw(cam *camera.Camera, anchorX, anchorY, extent float32) {
	if !r.initialized {
		return
	}

	half := extent / 2
	x0, y0 := cam.WorldToScreen(anchorX-half, anchorY-half)
	x1, y1 := cam.WorldToScreen(anchorX+half, anchorY+half)

	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.res), Height: float32(r.res)}
	dstRect := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}

	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *GroundRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

func cellAt(values []float32, res, gx, gy int) float32 {
	if gx < 0 || gy < 0 || gx >= res || gy >= res {
		return 0
	}
	return values[gy*res+gx]
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampRange(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func scale8(c uint8, f float32) uint8 {
	v := float32(c) * f
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
