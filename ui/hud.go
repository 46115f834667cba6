package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDInfo holds the per-frame values the HUD line shows.
type HUDInfo struct {
	Tick       int32
	AnchorX    float32
	AnchorY    float32
	Actors     int
	Material   string
	Overlay    string
	Paused     bool
	StepsPerUp int
}

// HUD draws the status line and key hints.
type HUD struct{}

// NewHUD creates a HUD.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the status line in the top-left corner.
func (h *HUD) Draw(info HUDInfo) {
	status := fmt.Sprintf("tick %d | fps %d | anchor (%.1f, %.1f) | actors %d | %s",
		info.Tick, rl.GetFPS(), info.AnchorX, info.AnchorY, info.Actors, info.Material)
	if info.StepsPerUp > 1 {
		status += fmt.Sprintf(" | %dx", info.StepsPerUp)
	}
	if info.Overlay != "off" {
		status += " | overlay: " + info.Overlay
	}
	if info.Paused {
		status += " | PAUSED"
	}

	rl.DrawText(status, 10, 10, 18, rl.RayWhite)
	rl.DrawText("wasd move  space pause  b bypass  o overlay  m material  h panel  < > speed", 10, 32, 14, rl.Gray)
}
