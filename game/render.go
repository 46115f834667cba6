package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lihogloglo/trample/renderer"
	"github.com/lihogloglo/trample/telemetry"
	"github.com/lihogloglo/trample/ui"
)

var clearColor = rl.Color{R: 52, G: 56, B: 64, A: 255}

// Draw renders one frame.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseRender)
	g.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(clearColor)

	// Camera follows the player between simulation steps so pausing
	// doesn't freeze the view.
	px, py := g.scene.PlayerPosition()
	g.cam.Follow(px, py, rl.GetFrameTime())

	anchorX, anchorY := g.pipeline.Sampler().Anchor()
	extent := g.pipeline.Sampler().Extent()

	g.ground.UpdateField(g.publishedView(), g.cfg.Field.Resolution, g.Material())
	g.ground.Draw(g.cam, anchorX, anchorY, extent)

	g.actors.Draw(g.scene, g.cam)

	if g.overlayMode != renderer.OverlayNone {
		g.overlay.Update(g.overlayView(), g.cfg.Field.Resolution)
		g.overlay.Draw(g.overlayMode, int32(g.screenW), int32(g.screenH))
	}

	if g.panel.Draw(&g.panelState) {
		g.applySettings()
	}

	g.hud.Draw(ui.HUDInfo{
		Tick:       g.tick,
		AnchorX:    anchorX,
		AnchorY:    anchorY,
		Actors:     g.scene.ActorCount(),
		Material:   g.Material().Name,
		Overlay:    g.overlayMode.String(),
		Paused:     g.paused,
		StepsPerUp: g.stepsPerUpdate,
	})

	rl.EndDrawing()
}

// overlayView selects the pipeline buffer the overlay inset shows.
func (g *Game) overlayView() []float32 {
	switch g.overlayMode {
	case renderer.OverlayMask:
		return g.pipeline.MaskView()
	case renderer.OverlayRaw:
		return g.pipeline.RawView()
	case renderer.OverlaySmoothed:
		return g.pipeline.SmoothedView()
	default:
		return nil
	}
}
