// Package config provides configuration loading and access for the deformation sandbox.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig     `yaml:"screen"`
	Field     FieldConfig      `yaml:"field"`
	Remap     RemapConfig      `yaml:"remap"`
	Blur      BlurConfig       `yaml:"blur"`
	Scene     SceneConfig      `yaml:"scene"`
	Materials []MaterialConfig `yaml:"materials"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds deformation field parameters.
type FieldConfig struct {
	Extent      float64 `yaml:"extent"`       // Physical side length of the window in world units
	Resolution  int     `yaml:"resolution"`   // Grid width/height in samples
	FadeSeconds float64 `yaml:"fade_seconds"` // Time for a full-depth depression to heal completely
	Material    string  `yaml:"material"`     // Active material preset name
}

// RemapConfig holds the rim remap cubic coefficients.
// The curve c0 + c1*x + c2*x^2 + c3*x^3 must be monotonic on [0,1]
// with remap(0) > 0 and remap(1) = 1.
type RemapConfig struct {
	C0 float64 `yaml:"c0"`
	C1 float64 `yaml:"c1"`
	C2 float64 `yaml:"c2"`
	C3 float64 `yaml:"c3"`
}

// BlurConfig holds smoothing stage parameters.
type BlurConfig struct {
	Passes int `yaml:"passes"` // Number of separable blur passes (min 1)
}

// SceneConfig holds parameters for the sandbox actor scene.
type SceneConfig struct {
	Wanderers   int     `yaml:"wanderers"`    // Number of wandering actors
	Boulders    int     `yaml:"boulders"`     // Number of static obstacles (excluded from capture)
	ActorRadius float64 `yaml:"actor_radius"` // Footprint radius of an actor in world units
	ActorSpeed  float64 `yaml:"actor_speed"`  // Wanderer walking speed, units/sec
	PlayerSpeed float64 `yaml:"player_speed"` // Controlled actor speed, units/sec
	SpawnRadius float64 `yaml:"spawn_radius"` // Wanderers spawn within this radius of origin
	LeashRadius float64 `yaml:"leash_radius"` // Wanderers turn back toward the player beyond this
	RetargetMin float64 `yaml:"retarget_min"` // Min seconds between wanderer heading changes
	RetargetMax float64 `yaml:"retarget_max"` // Max seconds between wanderer heading changes
}

// MaterialConfig describes a ground material preset.
type MaterialConfig struct {
	Name       string  `yaml:"name"`
	DepthScale float64 `yaml:"depth_scale"` // Visual depression depth multiplier
	FadeScale  float64 `yaml:"fade_scale"`  // Multiplier on field.fade_seconds
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Stats window in simulation seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
	SnapshotInterval    float64 `yaml:"snapshot_interval"`     // Seconds between field snapshots (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32          float32 // Seconds per simulation tick
	Extent32      float32 // Field.Extent as float32
	CellSize32    float32 // Extent / Resolution
	DecayRate32   float32 // Intensity units per second, material fade scale applied
	DepthScale32  float32 // Active material depth scale
	MaterialIndex int     // Index of the active material in Materials
	ScreenW32     float32
	ScreenH32     float32
}

// DT is the fixed simulation timestep in seconds.
const DT = 1.0 / 60.0

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the pipeline cannot run with.
func (c *Config) validate() error {
	if c.Field.Resolution < 2 {
		return fmt.Errorf("field.resolution must be at least 2, got %d", c.Field.Resolution)
	}
	if c.Field.Extent <= 0 {
		return fmt.Errorf("field.extent must be positive, got %g", c.Field.Extent)
	}
	if c.Field.FadeSeconds <= 0 {
		return fmt.Errorf("field.fade_seconds must be positive, got %g", c.Field.FadeSeconds)
	}
	if len(c.Materials) == 0 {
		return fmt.Errorf("at least one material preset is required")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(DT)
	c.Derived.Extent32 = float32(c.Field.Extent)
	c.Derived.CellSize32 = float32(c.Field.Extent / float64(c.Field.Resolution))
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// Resolve the active material; fall back to the first preset.
	c.Derived.MaterialIndex = 0
	for i, m := range c.Materials {
		if m.Name == c.Field.Material {
			c.Derived.MaterialIndex = i
			break
		}
	}
	mat := c.Materials[c.Derived.MaterialIndex]
	fadeScale := mat.FadeScale
	if fadeScale <= 0 {
		fadeScale = 1
	}
	c.Derived.DecayRate32 = float32(1.0 / (c.Field.FadeSeconds * fadeScale))
	depthScale := mat.DepthScale
	if depthScale <= 0 {
		depthScale = 1
	}
	c.Derived.DepthScale32 = float32(depthScale)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
