package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Window position and scene state at window end
	AnchorX    float64 `csv:"anchor_x"`
	AnchorY    float64 `csv:"anchor_y"`
	ActorCount int     `csv:"actors"`

	// Events during window
	Footprints      int `csv:"footprints"`
	CaptureFailures int `csv:"capture_failures"`

	// Disturbed-cell fraction, sampled per tick over the window
	CoverageMean float64 `csv:"coverage_mean"`
	CoverageMax  float64 `csv:"coverage_max"`

	// Per-tick mean cell intensity distribution over the window
	IntensityMean float64 `csv:"intensity_mean"`
	IntensityStd  float64 `csv:"intensity_std"`
	IntensityP10  float64 `csv:"intensity_p10"`
	IntensityP50  float64 `csv:"intensity_p50"`
	IntensityP90  float64 `csv:"intensity_p90"`

	// Largest single cell value seen during the window
	PeakIntensity float64 `csv:"peak_intensity"`
}

// ComputeDistribution calculates mean, standard deviation, and the
// 10/50/90 percentiles of a sample. Returns all zeros for an empty
// sample.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}

	p10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	p50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("anchor_x", s.AnchorX),
		slog.Float64("anchor_y", s.AnchorY),
		slog.Int("actors", s.ActorCount),
		slog.Int("footprints", s.Footprints),
		slog.Int("capture_failures", s.CaptureFailures),
		slog.Float64("coverage_mean", s.CoverageMean),
		slog.Float64("coverage_max", s.CoverageMax),
		slog.Float64("intensity_mean", s.IntensityMean),
		slog.Float64("intensity_std", s.IntensityStd),
		slog.Float64("intensity_p10", s.IntensityP10),
		slog.Float64("intensity_p50", s.IntensityP50),
		slog.Float64("intensity_p90", s.IntensityP90),
		slog.Float64("peak_intensity", s.PeakIntensity),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"anchor_x", s.AnchorX,
		"anchor_y", s.AnchorY,
		"actors", s.ActorCount,
		"footprints", s.Footprints,
		"capture_failures", s.CaptureFailures,
		"coverage_mean", s.CoverageMean,
		"coverage_max", s.CoverageMax,
		"intensity_mean", s.IntensityMean,
		"intensity_std", s.IntensityStd,
		"intensity_p10", s.IntensityP10,
		"intensity_p50", s.IntensityP50,
		"intensity_p90", s.IntensityP90,
		"peak_intensity", s.PeakIntensity,
	)
}
