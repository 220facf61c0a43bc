// Package camera provides a 2D camera that frames the plate inside a screen
// rectangle, with zoom toward a point and panning clamped to the grid.
package camera

// Camera controls which part of the grid is shown and at what scale.
type Camera struct {
	// X, Y is the view centre in grid cells
	X, Y float32

	// Zoom multiplies the fit scale (1.0 = whole grid visible)
	Zoom float32

	// Screen rectangle the grid is drawn into
	ScreenX, ScreenY, ScreenW, ScreenH float32

	// Grid dimensions in cells
	WorldW, WorldH float32

	MinZoom, MaxZoom float32
}

// New creates a camera centred on the grid with the whole grid in view.
func New(screenX, screenY, screenW, screenH, worldW, worldH float32) *Camera {
	return &Camera{
		X:       worldW / 2,
		Y:       worldH / 2,
		Zoom:    1.0,
		ScreenX: screenX,
		ScreenY: screenY,
		ScreenW: screenW,
		ScreenH: screenH,
		WorldW:  worldW,
		WorldH:  worldH,
		MinZoom: 1.0,
		MaxZoom: 8.0,
	}
}

// fit is the scale at which the whole grid fits the screen rectangle.
func (c *Camera) fit() float32 {
	if c.WorldW <= 0 || c.WorldH <= 0 {
		return 1
	}
	s := c.ScreenW / c.WorldW
	if sy := c.ScreenH / c.WorldH; sy < s {
		s = sy
	}
	if s <= 0 {
		return 1
	}
	return s
}

// Scale returns screen pixels per grid cell.
func (c *Camera) Scale() float32 {
	return c.fit() * c.Zoom
}

// WorldToScreen converts grid coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ScreenX + c.ScreenW/2 + (wx-c.X)*s
	sy = c.ScreenY + c.ScreenH/2 + (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to grid coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = c.X + (sx-c.ScreenX-c.ScreenW/2)/s
	wy = c.Y + (sy-c.ScreenY-c.ScreenH/2)/s
	return wx, wy
}

// Origin returns the screen position of grid cell (0, 0).
func (c *Camera) Origin() (sx, sy float32) {
	return c.WorldToScreen(0, 0)
}

// Contains reports whether a screen point lies inside the camera rectangle.
func (c *Camera) Contains(sx, sy float32) bool {
	return sx >= c.ScreenX && sx < c.ScreenX+c.ScreenW &&
		sy >= c.ScreenY && sy < c.ScreenY+c.ScreenH
}

// IsVisible returns true if a circle at (wx, wy) with the given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.Scale()
	halfW := c.ScreenW/(2*s) + radius
	halfH := c.ScreenH/(2*s) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize moves the camera to a new screen rectangle.
func (c *Camera) Resize(screenX, screenY, screenW, screenH float32) {
	c.ScreenX = screenX
	c.ScreenY = screenY
	c.ScreenW = screenW
	c.ScreenH = screenH
	c.clampCentre()
}

// Pan moves the view by the given delta in screen pixels.
// Dragging right moves the grid right.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X -= dx / s
	c.Y -= dy / s
	c.clampCentre()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCentre()
}

// ZoomAt multiplies the zoom by factor, keeping the grid point under the
// screen position (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
	c.clampCentre()
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// clampCentre keeps the view from drifting off the grid. An axis that fits
// entirely on screen stays centred.
func (c *Camera) clampCentre() {
	s := c.Scale()
	c.X = clampAxis(c.X, c.ScreenW/(2*s), c.WorldW)
	c.Y = clampAxis(c.Y, c.ScreenH/(2*s), c.WorldH)
}

func clampAxis(centre, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(centre, half, size-half)
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
