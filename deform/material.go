package deform

// Material describes how a ground surface type responds to deformation.
// DepthScale multiplies the displayed depression depth; FadeScale
// multiplies the configured heal time. Pure scalar parameterization -
// the pipeline algorithms are material-agnostic.
type Material struct {
	Name       string
	DepthScale float32
	FadeScale  float32
}

// DefaultMaterials returns the built-in surface presets. Snow is the
// reference material; ash holds tracks much longer but shallower, mud
// springs back quickly.
func DefaultMaterials() []Material {
	return []Material{
		{Name: "snow", DepthScale: 1.0, FadeScale: 1.0},
		{Name: "ash", DepthScale: 0.6, FadeScale: 2.5},
		{Name: "mud", DepthScale: 0.8, FadeScale: 0.4},
	}
}
