// Package ui renders the control panel and HUD on top of the sandbox.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PanelState holds the tunables the control panel edits in place. The
// game applies any changes after Draw reports them.
type PanelState struct {
	FadeSeconds float32 // healing time for a full-depth depression
	BlurPasses  int
	Bypass      bool
	Enabled     bool

	MaterialIndex int
	MaterialNames []string
}

// Panel is the left-side settings panel.
type Panel struct {
	x, y    float32
	width   float32
	visible bool
}

// NewPanel creates a control panel at the given screen position.
func NewPanel(x, y, width float32) *Panel {
	return &Panel{x: x, y: y, width: width}
}

// Toggle switches panel visibility.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *Panel) IsVisible() bool {
	return p.visible
}

// Draw renders the panel and edits st in place. Returns true if the
// user changed anything this frame.
func (p *Panel) Draw(st *PanelState) bool {
	if !p.visible {
		return false
	}

	changed := false
	panelX := p.x
	panelY := p.y
	sliderW := p.width - 80

	rl.DrawRectangle(int32(panelX-10), int32(panelY-10), int32(p.width+20), 315, rl.Color{R: 24, G: 26, B: 32, A: 210})
	rl.DrawText("Deformation", int32(panelX), int32(panelY), 20, rl.RayWhite)
	panelY += 35

	// Fade time slider
	rl.DrawText("Fade time (seconds to heal)", int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 18
	newFade := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: panelY, Width: sliderW, Height: 20},
		"5", "300",
		st.FadeSeconds, 5, 300,
	)
	rl.DrawText(fmt.Sprintf("%.0f", st.FadeSeconds), int32(panelX+sliderW+10), int32(panelY+2), 16, rl.RayWhite)
	if newFade != st.FadeSeconds {
		st.FadeSeconds = newFade
		changed = true
	}
	panelY += 35

	// Blur passes slider
	rl.DrawText("Blur passes", int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 18
	newPasses := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: panelY, Width: sliderW, Height: 20},
		"1", "4",
		float32(st.BlurPasses), 1, 4,
	)
	rl.DrawText(fmt.Sprintf("%d", st.BlurPasses), int32(panelX+sliderW+10), int32(panelY+2), 16, rl.RayWhite)
	if int(newPasses) != st.BlurPasses {
		st.BlurPasses = int(newPasses)
		changed = true
	}
	panelY += 35

	// Pipeline toggles
	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(st.Bypass, "Bypass: on", "Bypass: off")) {
		st.Bypass = !st.Bypass
		changed = true
	}
	if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(st.Enabled, "Field: on", "Field: off")) {
		st.Enabled = !st.Enabled
		changed = true
	}
	panelY += 45

	// Material selection
	rl.DrawText("Material", int32(panelX), int32(panelY), 14, rl.Gray)
	panelY += 18
	bx := panelX
	for i, name := range st.MaterialNames {
		label := name
		if i == st.MaterialIndex {
			label = "> " + name
		}
		if gui.Button(rl.Rectangle{X: bx, Y: panelY, Width: 80, Height: 28}, label) {
			if i != st.MaterialIndex {
				st.MaterialIndex = i
				changed = true
			}
		}
		bx += 90
	}

	return changed
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
