package game

import (
	"log/slog"

	"github.com/lihogloglo/trample/config"
	"github.com/lihogloglo/trample/telemetry"
)

// stepSimulation advances the world by one fixed tick: scene movement,
// the deformation pipeline, then telemetry bookkeeping.
func (g *Game) stepSimulation() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseScene)
	g.scene.Step(config.DT)

	// The pipeline reports its own capture/update/smooth phases through
	// the perf collector.
	px, py := g.scene.PlayerPosition()
	if err := g.pipeline.Step(px, py, config.DT); err != nil {
		g.collector.RecordCaptureFailure()
		slog.Warn("pipeline step failed", "tick", g.tick, "err", err)
	}

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collectTelemetry()

	g.perf.EndTick()
	g.tick++
}

// publishedView returns the grid the sampler currently reads from.
func (g *Game) publishedView() []float32 {
	if !g.pipeline.Enabled() {
		return nil
	}
	if g.pipeline.Bypass() {
		return g.pipeline.MaskView()
	}
	return g.pipeline.SmoothedView()
}

func (g *Game) collectTelemetry() {
	g.collector.RecordTick(telemetry.MeasureField(g.publishedView()))

	anchorX, anchorY := g.pipeline.Sampler().Anchor()

	if g.collector.ShouldFlush(g.tick) {
		stats := g.collector.Flush(g.tick, anchorX, anchorY, g.scene.ActorCount())
		perfStats := g.perf.Stats()

		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("writing telemetry", "err", err)
		}
		if err := g.output.WritePerf(perfStats, g.tick); err != nil {
			slog.Error("writing perf", "err", err)
		}
		if g.logStats {
			stats.LogStats()
			perfStats.LogStats()
		}
	}

	if g.snapshotTicks > 0 && g.output != nil && g.tick > 0 && g.tick%g.snapshotTicks == 0 {
		g.saveSnapshot(anchorX, anchorY)
	}
}

func (g *Game) saveSnapshot(anchorX, anchorY float32) {
	values := g.publishedView()
	snap := &telemetry.FieldSnapshot{
		Version:    telemetry.SnapshotVersion,
		Tick:       g.tick,
		SimTimeSec: float64(g.tick) * config.DT,
		AnchorX:    anchorX,
		AnchorY:    anchorY,
		Extent:     g.cfg.Derived.Extent32,
		Resolution: g.cfg.Field.Resolution,
		Material:   g.Material().Name,
		Values:     values,
	}
	if _, err := telemetry.SaveFieldSnapshot(snap, g.output.SnapshotDir()); err != nil {
		slog.Error("saving field snapshot", "tick", g.tick, "err", err)
	}
}

// applySettings pushes panel edits into the pipeline.
func (g *Game) applySettings() {
	st := &g.panelState

	if st.MaterialIndex != g.material {
		g.material = st.MaterialIndex
	}

	mat := g.materials[g.material]
	fade := st.FadeSeconds * mat.FadeScale
	if fade > 0 {
		g.pipeline.SetDecayRate(1 / fade)
	}

	g.pipeline.SetBypass(st.Bypass)
	g.pipeline.SetEnabled(st.Enabled)
	if st.BlurPasses != g.blurPasses {
		g.blurPasses = st.BlurPasses
		g.pipeline.SetBlurPasses(st.BlurPasses)
	}
}
