package deform

import "fmt"

// Stage names reported to the phase timer.
const (
	StageCapture = "presence_capture"
	StageUpdate  = "field_update"
	StageSmooth  = "smoothing"
)

// PhaseTimer receives stage boundaries for performance accounting.
// Satisfied by telemetry.PerfCollector.
type PhaseTimer interface {
	StartPhase(name string)
}

// Options configures a Pipeline.
type Options struct {
	Extent     float32 // Physical side length of the window
	Resolution int     // Grid samples per side
	DecayRate  float32 // Intensity healed per second
	Remap      Remap   // Rim remap curve
	BlurPasses int     // Separable blur passes (min 1)
	Source     GeometrySource
	Timer      PhaseTimer // Optional
}

// Pipeline owns the full per-frame deformation dataflow:
//
//	capture -> update (+swap) -> smooth -> publish
//
// Stages run strictly in order within a frame; the field has exactly one
// writer (the update stage) and consumers only ever see the buffer
// published at the end of Step. Everything is bounded, synchronous work
// over fixed-size grids - the pipeline runs to completion every frame or
// not at all.
type Pipeline struct {
	field    *Field
	capture  *Capture
	updater  *Updater
	smoother *Smoother
	sampler  *Sampler

	// shaped is the rim-remapped update output, input to the smoother.
	shaped []float32

	source GeometrySource
	timer  PhaseTimer

	enabled bool
	bypass  bool
}

// NewPipeline builds a pipeline, validating the remap curve and window
// geometry up front.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Resolution < 2 {
		return nil, fmt.Errorf("pipeline resolution must be at least 2, got %d", opts.Resolution)
	}
	if opts.Extent <= 0 {
		return nil, fmt.Errorf("pipeline extent must be positive, got %g", opts.Extent)
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("pipeline requires a geometry source")
	}
	if err := opts.Remap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rim remap: %w", err)
	}

	return &Pipeline{
		field:    NewField(opts.Extent, opts.Resolution),
		capture:  NewCapture(opts.Extent, opts.Resolution),
		updater:  NewUpdater(opts.DecayRate, opts.Remap),
		smoother: NewSmoother(opts.Resolution, opts.BlurPasses),
		sampler:  newSampler(opts.Extent, opts.Resolution),
		shaped:   make([]float32, opts.Resolution*opts.Resolution),
		source:   opts.Source,
		timer:    opts.Timer,
		enabled:  true,
	}, nil
}

// Step runs one frame of the pipeline with the window centered on the
// given reference point (typically the player position). dt <= 0 is a
// paused frame: no decay, merge still applies. On a capture error the
// pipeline publishes nothing (all samples read 0) and returns the error;
// the safe failure state is "no deformation visible".
func (p *Pipeline) Step(refX, refY, dt float32) error {
	if !p.enabled {
		return nil
	}

	p.startPhase(StageCapture)
	mask, err := p.capture.Run(refX, refY, p.source)
	if err != nil {
		p.sampler.publish(refX, refY, nil)
		return fmt.Errorf("presence capture: %w", err)
	}

	p.startPhase(StageUpdate)
	offX, offY := p.field.Advance(refX, refY)
	p.updater.Step(p.field, mask, p.shaped, offX, offY, dt)
	p.field.Swap()

	p.startPhase(StageSmooth)
	p.smoother.Smooth(p.shaped)

	if p.bypass {
		// Diagnostic: feed the raw presence mask straight to the
		// sampler to isolate capture problems from update/smooth
		// problems. The persistent state keeps evolving underneath.
		p.sampler.publish(refX, refY, mask.Values())
	} else {
		p.sampler.publish(refX, refY, p.smoother.Output())
	}
	return nil
}

func (p *Pipeline) startPhase(name string) {
	if p.timer != nil {
		p.timer.StartPhase(name)
	}
}

// QueueFootprint queues a legacy footprint event for the next Step.
func (p *Pipeline) QueueFootprint(ev FootprintEvent) {
	p.updater.QueueFootprint(ev)
}

// Sampler returns the read interface consumers hold for the lifetime of
// the pipeline.
func (p *Pipeline) Sampler() *Sampler { return p.sampler }

// Field returns the persistent field state, for diagnostics.
func (p *Pipeline) Field() *Field { return p.field }

// SetDecayRate changes the heal speed at runtime.
func (p *Pipeline) SetDecayRate(rate float32) { p.updater.SetDecayRate(rate) }

// DecayRate returns the current heal speed.
func (p *Pipeline) DecayRate() float32 { return p.updater.DecayRate() }

// SetBlurPasses rebuilds the smoothing stage with a new pass count.
// Takes effect on the next Step.
func (p *Pipeline) SetBlurPasses(n int) {
	p.smoother = NewSmoother(p.field.Resolution(), n)
}

// SetBypass toggles the capture-to-sampler diagnostic path.
func (p *Pipeline) SetBypass(b bool) { p.bypass = b }

// Bypass reports whether the diagnostic path is active.
func (p *Pipeline) Bypass() bool { return p.bypass }

// SetEnabled turns the whole pipeline on or off. Disabling resets the
// persistent state and publishes nothing, so samples read 0 immediately
// and re-enabling starts from undisturbed ground rather than silently
// resuming stale history.
func (p *Pipeline) SetEnabled(enabled bool) {
	if p.enabled == enabled {
		return
	}
	p.enabled = enabled
	if !enabled {
		p.field.Reset()
		p.smoother.Reset()
		for i := range p.shaped {
			p.shaped[i] = 0
		}
		ax, ay := p.field.Anchor()
		p.sampler.publish(ax, ay, nil)
	}
}

// Enabled reports whether the pipeline is running.
func (p *Pipeline) Enabled() bool { return p.enabled }

// MaskView returns the most recent presence mask values, for overlays.
func (p *Pipeline) MaskView() []float32 { return p.capture.Mask().Values() }

// SmoothedView returns the smoothed field values, for overlays and
// snapshots. Callers must not mutate it.
func (p *Pipeline) SmoothedView() []float32 { return p.smoother.Output() }

// RawView returns the unsmoothed shaped buffer. Diagnostic overlays
// only - consumers must never sample this directly.
func (p *Pipeline) RawView() []float32 { return p.shaped }
