package deform

import "fmt"

// Remap is the rim remap curve: a cubic applied to merged deformation
// values so that depressions grow a raised rim of displaced material
// instead of a flat-bottomed hole. The curve must be monotonic on [0,1]
// with Apply(0) > 0 and Apply(1) = 1; the exact coefficients are a
// visual tuning parameter (see cmd/remaptune).
type Remap struct {
	C0, C1, C2, C3 float32
}

// DefaultRemap returns coefficients tuned so the curve passes through
// (0.5, 0.5): mid-range values survive the remap unchanged, which keeps
// the displayed decay visually linear.
func DefaultRemap() Remap {
	return Remap{C0: 0.02, C1: 1.6, C2: -1.94, C3: 1.32}
}

// Apply evaluates the curve at x.
func (r Remap) Apply(x float32) float32 {
	return r.C0 + x*(r.C1+x*(r.C2+x*r.C3))
}

// remapValidationSteps is the sampling density for the monotonicity check.
const remapValidationSteps = 256

// Validate checks the curve properties the update stage relies on.
func (r Remap) Validate() error {
	if r.Apply(0) <= 0 {
		return fmt.Errorf("remap(0) = %g, must be above zero", r.Apply(0))
	}
	one := r.Apply(1)
	if one < 0.99 || one > 1.01 {
		return fmt.Errorf("remap(1) = %g, must be 1", one)
	}
	prev := r.Apply(0)
	for i := 1; i <= remapValidationSteps; i++ {
		x := float32(i) / remapValidationSteps
		v := r.Apply(x)
		if v < prev {
			return fmt.Errorf("remap not monotonic: decreases near x=%.3f", x)
		}
		prev = v
	}
	return nil
}
