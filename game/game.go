// Package game wires the scene, the deformation pipeline, the camera,
// and the renderers into a playable sandbox, and drives the telemetry
// output.
package game

import (
	"fmt"
	"math/rand"

	"github.com/lihogloglo/trample/camera"
	"github.com/lihogloglo/trample/config"
	"github.com/lihogloglo/trample/deform"
	"github.com/lihogloglo/trample/renderer"
	"github.com/lihogloglo/trample/scene"
	"github.com/lihogloglo/trample/telemetry"
	"github.com/lihogloglo/trample/ui"
)

// Game holds the complete sandbox state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	scene    *scene.Scene
	pipeline *deform.Pipeline
	cam      *camera.Camera

	// Rendering
	ground      *renderer.GroundRenderer
	actors      *renderer.ActorRenderer
	overlay     *renderer.FieldOverlay
	overlayMode renderer.OverlayMode

	// UI
	panel      *ui.Panel
	panelState ui.PanelState
	hud        *ui.HUD

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	// Materials
	materials []deform.Material
	material  int

	// Last applied blur pass count
	blurPasses int

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	snapshotTicks  int32

	// Window dimensions
	screenW, screenH float32
}

// NewGame creates a new sandbox instance. It touches no graphics state,
// so headless runs construct it the same way.
func NewGame(cfg *config.Config, seed int64, outputDir string, logStats bool) (*Game, error) {
	rng := rand.New(rand.NewSource(seed))

	sc := scene.New(cfg, rng)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	pipe, err := deform.NewPipeline(deform.Options{
		Extent:     cfg.Derived.Extent32,
		Resolution: cfg.Field.Resolution,
		DecayRate:  cfg.Derived.DecayRate32,
		Remap: deform.Remap{
			C0: float32(cfg.Remap.C0),
			C1: float32(cfg.Remap.C1),
			C2: float32(cfg.Remap.C2),
			C3: float32(cfg.Remap.C3),
		},
		BlurPasses: cfg.Blur.Passes,
		Source:     sc,
		Timer:      perf,
	})
	if err != nil {
		return nil, fmt.Errorf("building deformation pipeline: %w", err)
	}

	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	materials := make([]deform.Material, len(cfg.Materials))
	names := make([]string, len(cfg.Materials))
	for i, m := range cfg.Materials {
		materials[i] = deform.Material{
			Name:       m.Name,
			DepthScale: float32(m.DepthScale),
			FadeScale:  float32(m.FadeScale),
		}
		names[i] = m.Name
	}
	if len(materials) == 0 {
		materials = deform.DefaultMaterials()
		names = nil
		for _, m := range materials {
			names = append(names, m.Name)
		}
	}

	var snapshotTicks int32
	if cfg.Telemetry.SnapshotInterval > 0 {
		snapshotTicks = int32(cfg.Telemetry.SnapshotInterval / config.DT)
		if snapshotTicks < 1 {
			snapshotTicks = 1
		}
	}

	g := &Game{
		cfg:      cfg,
		rng:      rng,
		scene:    sc,
		pipeline: pipe,
		cam:      camera.New(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32),

		ground:  renderer.NewGroundRenderer(),
		actors:  renderer.NewActorRenderer(),
		overlay: renderer.NewFieldOverlay(),

		panel: ui.NewPanel(20, 60, 300),
		hud:   ui.NewHUD(),

		perf:      perf,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, config.DT),
		output:    output,
		logStats:  logStats,

		materials:  materials,
		material:   cfg.Derived.MaterialIndex,
		blurPasses: cfg.Blur.Passes,

		stepsPerUpdate: 1,
		snapshotTicks:  snapshotTicks,

		screenW: cfg.Derived.ScreenW32,
		screenH: cfg.Derived.ScreenH32,
	}

	g.panelState = ui.PanelState{
		FadeSeconds:   float32(cfg.Field.FadeSeconds),
		BlurPasses:    cfg.Blur.Passes,
		Enabled:       true,
		MaterialIndex: g.material,
		MaterialNames: names,
	}

	return g, nil
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// SetStepsPerUpdate sets how many simulation ticks run per update call.
func (g *Game) SetStepsPerUpdate(n int) {
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	g.stepsPerUpdate = n
}

// SetBypass routes the raw presence mask to the sampler, skipping the
// persistence and smoothing stages.
func (g *Game) SetBypass(b bool) {
	g.panelState.Bypass = b
	g.applySettings()
}

// Material returns the active ground material.
func (g *Game) Material() deform.Material {
	return g.materials[g.material]
}

// Update runs one frame: input, zero or more fixed-dt simulation
// steps, and telemetry.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.stepSimulation()
	}
}

// UpdateHeadless runs the configured number of simulation steps
// without any graphics or input handling.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.stepSimulation()
	}
}

// Unload releases graphics resources and closes output files.
func (g *Game) Unload() error {
	g.ground.Unload()
	g.overlay.Unload()
	return g.output.Close()
}
