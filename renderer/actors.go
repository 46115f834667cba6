package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lihogloglo/trample/camera"
	"github.com/lihogloglo/trample/components"
	"github.com/lihogloglo/trample/scene"
)

var (
	playerColor   = rl.Color{R: 214, G: 80, B: 60, A: 255}
	wandererColor = rl.Color{R: 70, G: 96, B: 130, A: 255}
	boulderColor  = rl.Color{R: 88, G: 90, B: 94, A: 255}
	outlineColor  = rl.Color{R: 20, G: 22, B: 26, A: 180}
)

// ActorRenderer draws scene bodies as world-space circles.
type ActorRenderer struct{}

// NewActorRenderer creates a new actor renderer.
func NewActorRenderer() *ActorRenderer {
	return &ActorRenderer{}
}

// Draw renders every visible body in the scene.
func (r *ActorRenderer) Draw(s *scene.Scene, cam *camera.Camera) {
	s.ForEachActor(func(a scene.Actor) {
		if !cam.IsVisible(a.X, a.Y, a.Radius) {
			return
		}

		sx, sy := cam.WorldToScreen(a.X, a.Y)
		sr := a.Radius * cam.Zoom

		col := wandererColor
		switch {
		case a.Player:
			col = playerColor
		case a.Category == components.CategoryStatic:
			col = boulderColor
		}

		rl.DrawCircle(int32(sx), int32(sy), sr, col)
		rl.DrawCircleLines(int32(sx), int32(sy), sr, outlineColor)
	})
}
