package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lihogloglo/trample/deform"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	// Pipeline toggles mirror the control panel
	if rl.IsKeyPressed(rl.KeyB) {
		g.panelState.Bypass = !g.panelState.Bypass
		g.applySettings()
	}
	if rl.IsKeyPressed(rl.KeyO) {
		g.overlayMode = g.overlayMode.Next()
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.panelState.MaterialIndex = (g.panelState.MaterialIndex + 1) % len(g.materials)
		g.applySettings()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.panel.Toggle()
	}

	// Player movement
	var ix, iy float32
	if rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp) {
		iy -= 1
	}
	if rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown) {
		iy += 1
	}
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		ix -= 1
	}
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		ix += 1
	}
	g.scene.SetPlayerInput(ix, iy)

	// Zoom
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 + wheel*0.1)
	}

	// Click to stamp a one-off footprint (external event path)
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !g.panel.IsVisible() {
		mouse := rl.GetMousePosition()
		wx, wy := g.cam.ScreenToWorld(mouse.X, mouse.Y)
		g.pipeline.QueueFootprint(deform.FootprintEvent{
			X:         wx,
			Y:         wy,
			Radius:    float32(g.cfg.Scene.ActorRadius) * 2,
			Intensity: 1,
		})
		g.collector.RecordFootprints(1)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenW && h == g.screenH {
		return
	}
	g.screenW = w
	g.screenH = h
	g.cam.Resize(w, h)
}
