package telemetry

// FieldMeasure summarizes the published field grid at one tick.
type FieldMeasure struct {
	Coverage float64 // fraction of cells above zero
	Mean     float64 // mean cell intensity
	Max      float64 // largest cell intensity
}

// MeasureField computes a FieldMeasure from a raw field grid.
// A nil or empty grid measures as all zeros.
func MeasureField(values []float32) FieldMeasure {
	n := len(values)
	if n == 0 {
		return FieldMeasure{}
	}

	var sum float64
	var max float64
	active := 0
	for _, v := range values {
		fv := float64(v)
		sum += fv
		if fv > max {
			max = fv
		}
		if fv > 0 {
			active++
		}
	}

	return FieldMeasure{
		Coverage: float64(active) / float64(n),
		Mean:     sum / float64(n),
		Max:      max,
	}
}

// Collector accumulates per-tick field measures and event counts within
// time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	footprints      int
	captureFailures int

	// Per-tick samples for current window
	coverages   []float64
	intensities []float64
	coverageMax float64
	peak        float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		windowStartTick:     0,
		coverages:           make([]float64, 0, ticksPerWindow),
		intensities:         make([]float64, 0, ticksPerWindow),
	}
}

// RecordTick records the field measure for one completed tick.
func (c *Collector) RecordTick(m FieldMeasure) {
	c.coverages = append(c.coverages, m.Coverage)
	c.intensities = append(c.intensities, m.Mean)
	if m.Coverage > c.coverageMax {
		c.coverageMax = m.Coverage
	}
	if m.Max > c.peak {
		c.peak = m.Max
	}
}

// RecordFootprints records externally queued footprint events.
func (c *Collector) RecordFootprints(n int) {
	c.footprints += n
}

// RecordCaptureFailure records a rejected presence capture.
func (c *Collector) RecordCaptureFailure() {
	c.captureFailures++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the current tick, the window anchor, and the
// current dynamic actor count.
func (c *Collector) Flush(currentTick int32, anchorX, anchorY float32, actorCount int) WindowStats {
	covMean, _, _, _, _ := ComputeDistribution(c.coverages)
	intMean, intStd, intP10, intP50, intP90 := ComputeDistribution(c.intensities)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		AnchorX:    float64(anchorX),
		AnchorY:    float64(anchorY),
		ActorCount: actorCount,

		Footprints:      c.footprints,
		CaptureFailures: c.captureFailures,

		CoverageMean: covMean,
		CoverageMax:  c.coverageMax,

		IntensityMean: intMean,
		IntensityStd:  intStd,
		IntensityP10:  intP10,
		IntensityP50:  intP50,
		IntensityP90:  intP90,

		PeakIntensity: c.peak,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.footprints = 0
	c.captureFailures = 0
	c.coverages = c.coverages[:0]
	c.intensities = c.intensities[:0]
	c.coverageMax = 0
	c.peak = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
