// Package components defines ECS components for the sandbox scene.
package components

// Category classifies scene geometry for the presence capture.
// The capture pass must only ever see CategoryDynamic geometry;
// feeding it static scenery collapses the whole window to "occupied".
type Category uint8

const (
	CategoryStatic Category = iota
	CategoryDynamic
)

// String returns the category name for logs and errors.
func (c Category) String() string {
	if c == CategoryDynamic {
		return "dynamic"
	}
	return "static"
}

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Velocity represents an entity's velocity.
type Velocity struct {
	X, Y float32
}

// Body holds the physical footprint of an entity on the ground plane.
type Body struct {
	Radius   float32
	Category Category
}

// Walker holds wandering steering state for autonomous actors.
type Walker struct {
	Heading  float32 // Current walk direction in radians
	Retarget float32 // Seconds until the next heading change
}

// Controlled tags the player-driven actor.
type Controlled struct{}
