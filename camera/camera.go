// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport into the open world. The world is
// unbounded; the camera follows a reference point (the player) with a
// soft lag and supports zoom.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level in pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// FollowRate is the fraction of the remaining distance closed per
	// second when following a target (0 disables smoothing).
	FollowRate float32
}

// New creates a camera centered on the origin.
func New(viewportW, viewportH float32) *Camera {
	return &Camera{
		Zoom:       12.0,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		MinZoom:    4.0,
		MaxZoom:    40.0,
		FollowRate: 6.0,
	}
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// Follow moves the camera toward a target point with exponential
// smoothing. dt <= 0 snaps immediately.
func (c *Camera) Follow(tx, ty, dt float32) {
	if c.FollowRate <= 0 || dt <= 0 {
		c.X = tx
		c.Y = ty
		return
	}
	k := c.FollowRate * dt
	if k > 1 {
		k = 1
	}
	c.X += (tx - c.X) * k
	c.Y += (ty - c.Y) * k
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible
// area as (minX, minY, maxX, maxY).
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
