package deform

// blurKernel is a 5-tap binomial low-pass kernel. Separable: one
// horizontal pass into scratch, one vertical pass into the output,
// O(2N) taps per sample instead of O(N*N) for the equivalent 2D
// convolution.
var blurKernel = [5]float32{1.0 / 16, 4.0 / 16, 6.0 / 16, 4.0 / 16, 1.0 / 16}

// Smoother removes per-sample aliasing from the update stage's output
// before it reaches consumers. Raw per-sample output has hard
// grid-aligned edges that produce jagged displacement and lighting
// normals; only the smoothed buffer is ever exposed.
type Smoother struct {
	res     int
	passes  int
	scratch []float32
	out     []float32
}

// NewSmoother creates a smoothing stage for the given grid resolution.
// passes below 1 is treated as 1.
func NewSmoother(resolution, passes int) *Smoother {
	if passes < 1 {
		passes = 1
	}
	return &Smoother{
		res:     resolution,
		passes:  passes,
		scratch: make([]float32, resolution*resolution),
		out:     make([]float32, resolution*resolution),
	}
}

// Smooth filters src into the smoother's output buffer. Taps beyond the
// grid edge read 0: beyond the window the ground is undisturbed, and an
// all-zero field stays exactly zero.
func (s *Smoother) Smooth(src []float32) {
	in := src
	for p := 0; p < s.passes; p++ {
		s.passHorizontal(in)
		s.passVertical()
		in = s.out
	}
}

func (s *Smoother) passHorizontal(src []float32) {
	res := s.res
	for y := 0; y < res; y++ {
		base := y * res
		for x := 0; x < res; x++ {
			var sum float32
			for k := -2; k <= 2; k++ {
				xi := x + k
				if xi < 0 || xi >= res {
					continue
				}
				sum += src[base+xi] * blurKernel[k+2]
			}
			s.scratch[base+x] = sum
		}
	}
}

func (s *Smoother) passVertical() {
	res := s.res
	for y := 0; y < res; y++ {
		base := y * res
		for x := 0; x < res; x++ {
			var sum float32
			for k := -2; k <= 2; k++ {
				yi := y + k
				if yi < 0 || yi >= res {
					continue
				}
				sum += s.scratch[yi*res+x] * blurKernel[k+2]
			}
			s.out[base+x] = sum
		}
	}
}

// Output returns the smoothed buffer for the last Smooth call.
func (s *Smoother) Output() []float32 { return s.out }

// Reset zeroes the output so a disabled pipeline exposes no stale state.
func (s *Smoother) Reset() {
	for i := range s.out {
		s.out[i] = 0
		s.scratch[i] = 0
	}
}
