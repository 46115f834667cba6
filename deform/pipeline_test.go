package deform

import (
	"errors"
	"math"
	"testing"

	"github.com/lihogloglo/trample/components"
)

func newTestPipeline(t *testing.T, src GeometrySource) *Pipeline {
	t.Helper()
	p, err := NewPipeline(Options{
		Extent:     64,
		Resolution: 64,
		DecayRate:  1.0 / 60.0, // 60 second fade
		Remap:      DefaultRemap(),
		BlurPasses: 1,
		Source:     src,
	})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}
	return p
}

func TestPipelineRejectsInvalidOptions(t *testing.T) {
	src := &stubSource{}

	if _, err := NewPipeline(Options{Extent: 64, Resolution: 1, Remap: DefaultRemap(), Source: src}); err == nil {
		t.Error("expected rejection of resolution below 2")
	}
	if _, err := NewPipeline(Options{Extent: 0, Resolution: 64, Remap: DefaultRemap(), Source: src}); err == nil {
		t.Error("expected rejection of zero extent")
	}
	if _, err := NewPipeline(Options{Extent: 64, Resolution: 64, Remap: DefaultRemap()}); err == nil {
		t.Error("expected rejection of missing geometry source")
	}
	if _, err := NewPipeline(Options{Extent: 64, Resolution: 64, Remap: Remap{}, Source: src}); err == nil {
		t.Error("expected rejection of invalid remap")
	}
}

// TestPipelineStampDecayScenario: 64 unit window, 64x64 grid, 60 second
// fade. Stamp a footprint event at the center, radius 2, intensity 1.
func TestPipelineStampDecayScenario(t *testing.T) {
	p := newTestPipeline(t, &stubSource{})
	s := p.Sampler()

	p.QueueFootprint(FootprintEvent{X: 0, Y: 0, Radius: 2, Intensity: 1})
	if err := p.Step(0, 0, 0); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// Immediately after merge the center reads deep (the blur shaves the
	// peak of a small stamp, but the linear state underneath is exactly 1).
	initial := s.Sample(0, 0)
	if initial < 0.5 {
		t.Errorf("expected deep depression at center after stamp, got %f", initial)
	}
	if v := p.Field().Readable()[31*64+31]; v != 1 {
		t.Errorf("expected full-depth linear state at center, got %f", v)
	}

	// 10 units away is untouched.
	if v := s.Sample(10, 0); v != 0 {
		t.Errorf("expected 0 at 10 units from stamp, got %f", v)
	}

	// After 30 simulated seconds with no new input the depression has
	// healed to half depth: linear decay, and the remap is anchored so
	// the sampled value halves with it.
	for i := 0; i < 60; i++ {
		if err := p.Step(0, 0, 0.5); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	half := s.Sample(0, 0)
	if math.Abs(float64(half)-float64(initial)*0.5) > 0.01 {
		t.Errorf("expected half of initial depth %f after 30s, got %f", initial*0.5, half)
	}
	if v := p.Field().Readable()[31*64+31]; math.Abs(float64(v)-0.5) > 1e-3 {
		t.Errorf("expected linear state 0.5 after 30s, got %f", v)
	}

	// Past the full fade time everything reads exactly 0.
	for i := 0; i < 64; i++ {
		if err := p.Step(0, 0, 0.5); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	if v := s.Sample(0, 0); v != 0 {
		t.Errorf("expected exact 0 after full fade, got %f", v)
	}
}

// TestPipelineTeleportDropsAllHistory: moving the anchor by the full
// extent in one step leaves no re-projected history anywhere.
func TestPipelineTeleportDropsAllHistory(t *testing.T) {
	src := &stubSource{shapes: []GroundShape{
		{X: 0, Y: 0, Radius: 3, Category: components.CategoryDynamic},
	}}
	p := newTestPipeline(t, src)
	s := p.Sampler()

	for i := 0; i < 5; i++ {
		if err := p.Step(0, 0, 0.016); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	if v := s.Sample(0, 0); v <= 0 {
		t.Fatalf("expected deformation under the actor, got %f", v)
	}

	// Teleport the window a full extent away; the actor stays behind.
	if err := p.Step(64, 0, 0.016); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// Old location is now outside the window and its history is gone
	// from every cell of the new window.
	for _, v := range p.Field().Readable() {
		if v != 0 {
			t.Fatal("expected no history in fully teleported window")
		}
	}

	// An actor inside the new window still captures fresh presence.
	src.shapes[0].X = 64
	if err := p.Step(64, 0, 0.016); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if v := s.Sample(64, 0); v <= 0 {
		t.Errorf("expected fresh capture in teleported window, got %f", v)
	}
}

func TestPipelineSlidingKeepsTracksAnchored(t *testing.T) {
	src := &stubSource{shapes: []GroundShape{
		{X: 0, Y: 0, Radius: 2, Category: components.CategoryDynamic},
	}}
	p := newTestPipeline(t, src)
	s := p.Sampler()

	if err := p.Step(0, 0, 0.016); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	trackDepth := s.Sample(0, 0)
	if trackDepth <= 0 {
		t.Fatal("expected a track under the actor")
	}

	// Remove the actor and walk the window away one sample per frame.
	// The track must stay put in world space, not swim with the window.
	src.shapes = nil
	for step := 1; step <= 10; step++ {
		if err := p.Step(float32(step), 0, 0); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		v := s.Sample(0, 0)
		if math.Abs(float64(v-trackDepth)) > 1e-4 {
			t.Fatalf("track drifted at window offset %d: %f vs %f", step, v, trackDepth)
		}
	}
}

func TestPipelineStaticGeometryFailsSafe(t *testing.T) {
	src := &stubSource{shapes: []GroundShape{
		{X: 0, Y: 0, Radius: 2, Category: components.CategoryDynamic},
	}}
	p := newTestPipeline(t, src)
	s := p.Sampler()

	if err := p.Step(0, 0, 0.016); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if s.Sample(0, 0) <= 0 {
		t.Fatal("expected deformation before misconfiguration")
	}

	// Static scenery leaks into the capture set: the step must error and
	// the sampler must fall back to the inert all-zero state rather than
	// reading the whole window as occupied.
	src.shapes = append(src.shapes, GroundShape{X: 0, Y: 0, Radius: 100, Category: components.CategoryStatic})
	err := p.Step(0, 0, 0.016)
	if !errors.Is(err, ErrStaticGeometry) {
		t.Fatalf("expected ErrStaticGeometry, got %v", err)
	}
	if v := s.Sample(0, 0); v != 0 {
		t.Errorf("expected inert sampler after capture failure, got %f", v)
	}
}

func TestPipelineBypassExposesRawMask(t *testing.T) {
	src := &stubSource{shapes: []GroundShape{
		{X: 0, Y: 0, Radius: 2, Category: components.CategoryDynamic},
	}}
	p := newTestPipeline(t, src)
	s := p.Sampler()

	p.SetBypass(true)
	if err := p.Step(0, 0, 0.016); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// The raw mask is binary: the sampler reads full occupancy directly
	// under the actor, with none of the blur's softening.
	if v := s.Sample(-0.5, -0.5); math.Abs(float64(v)-1) > 1e-5 {
		t.Errorf("expected raw binary mask in bypass mode, got %f", v)
	}

	p.SetBypass(false)
	if err := p.Step(0, 0, 0.016); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if v := s.Sample(-0.5, -0.5); v >= 1 {
		t.Errorf("expected smoothed value below raw occupancy, got %f", v)
	}
}

func TestPipelineDisableResetsState(t *testing.T) {
	src := &stubSource{shapes: []GroundShape{
		{X: 0, Y: 0, Radius: 2, Category: components.CategoryDynamic},
	}}
	p := newTestPipeline(t, src)
	s := p.Sampler()

	for i := 0; i < 5; i++ {
		if err := p.Step(0, 0, 0.016); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	if s.Sample(0, 0) <= 0 {
		t.Fatal("expected deformation while enabled")
	}

	p.SetEnabled(false)
	if v := s.Sample(0, 0); v != 0 {
		t.Errorf("expected 0 immediately after disable, got %f", v)
	}

	// A disabled pipeline does not mutate state.
	if err := p.Step(0, 0, 0.016); err != nil {
		t.Fatalf("disabled step failed: %v", err)
	}
	if v := s.Sample(0, 0); v != 0 {
		t.Errorf("expected 0 from disabled pipeline, got %f", v)
	}

	// Re-enabling starts from undisturbed ground: one empty frame reads
	// 0, not the decayed remains of the old tracks.
	src.shapes = nil
	p.SetEnabled(true)
	if err := p.Step(0, 0, 0.016); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if v := s.Sample(0, 0); v != 0 {
		t.Errorf("expected clean state after re-enable, got %f", v)
	}
}

func TestPipelinePhaseTimerSeesAllStages(t *testing.T) {
	var phases []string
	p, err := NewPipeline(Options{
		Extent:     64,
		Resolution: 64,
		DecayRate:  1.0 / 60.0,
		Remap:      DefaultRemap(),
		BlurPasses: 1,
		Source:     &stubSource{},
		Timer:      phaseRecorder{&phases},
	})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	if err := p.Step(0, 0, 0.016); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	want := []string{StageCapture, StageUpdate, StageSmooth}
	if len(phases) != len(want) {
		t.Fatalf("expected %d phases, got %v", len(want), phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("expected phase %s at position %d, got %s", want[i], i, phases[i])
		}
	}
}

type phaseRecorder struct {
	phases *[]string
}

func (r phaseRecorder) StartPhase(name string) {
	*r.phases = append(*r.phases, name)
}
