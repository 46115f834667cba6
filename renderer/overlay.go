package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayMode selects which internal field buffer the inset shows.
type OverlayMode int

const (
	OverlayNone OverlayMode = iota
	OverlayMask
	OverlayRaw
	OverlaySmoothed
)

// String returns the overlay label shown next to the inset.
func (m OverlayMode) String() string {
	switch m {
	case OverlayMask:
		return "presence mask"
	case OverlayRaw:
		return "raw field"
	case OverlaySmoothed:
		return "smoothed field"
	default:
		return "off"
	}
}

// Next cycles to the following overlay mode.
func (m OverlayMode) Next() OverlayMode {
	return (m + 1) % (OverlaySmoothed + 1)
}

// FieldOverlay draws a false-color inset of an internal field buffer
// in the screen corner, for diagnosing the pipeline stage by stage.
type FieldOverlay struct {
	tex         rl.Texture2D
	pixels      []color.RGBA
	res         int
	initialized bool
}

// NewFieldOverlay creates a new field overlay.
func NewFieldOverlay() *FieldOverlay {
	return &FieldOverlay{}
}

// Init creates the overlay texture (after the raylib window exists).
func (o *FieldOverlay) Init(res int) {
	if o.initialized {
		return
	}
	o.res = res
	o.pixels = make([]color.RGBA, res*res)

	img := rl.GenImageColor(res, res, rl.Black)
	o.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	o.initialized = true
}

// Update uploads a field buffer as a heat map. A nil grid clears to
// black.
func (o *FieldOverlay) Update(values []float32, res int) {
	if !o.initialized {
		o.Init(res)
	}
	if res != o.res {
		return
	}

	for i := range o.pixels {
		var v float32
		if values != nil {
			v = clamp01(values[i])
		}
		// Black through orange to white
		o.pixels[i] = color.RGBA{
			R: uint8(clamp01(v*2) * 255),
			G: uint8(clamp01(v*1.2-0.1) * 255),
			B: uint8(clamp01(v*2-1) * 255),
			A: 255,
		}
	}

	rl.UpdateTexture(o.tex, o.pixels)
}

// Draw renders the inset in the bottom-right corner with its label.
func (o *FieldOverlay) Draw(mode OverlayMode, screenW, screenH int32) {
	if !o.initialized || mode == OverlayNone {
		return
	}

	const size = 220
	const margin = 12
	x := screenW - size - margin
	y := screenH - size - margin

	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(o.res), Height: float32(o.res)}
	dstRect := rl.Rectangle{X: float32(x), Y: float32(y), Width: size, Height: size}

	rl.DrawRectangle(x-2, y-2, size+4, size+4, rl.Color{R: 20, G: 22, B: 26, A: 220})
	rl.DrawTexturePro(o.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
	rl.DrawText(mode.String(), x, y-22, 18, rl.RayWhite)
}

// Unload frees GPU resources.
func (o *FieldOverlay) Unload() {
	if !o.initialized {
		return
	}
	rl.UnloadTexture(o.tex)
	o.initialized = false
}
