package field

import "math"

// Geometry describes the playing field and the robot footprint, all in
// meters with the origin at the bottom-left corner. Heading zero points
// along +X.
type Geometry struct {
	FieldWidth  float64 `yaml:"field_width"`  // along X
	FieldHeight float64 `yaml:"field_height"` // along Y
	RobotWidth  float64 `yaml:"robot_width"`
	RobotLength float64 `yaml:"robot_length"`
}

// DefaultGeometry returns the field and robot dimensions used by the
// reference display (16.46 m field, AndyMark West Coast footprint).
func DefaultGeometry() Geometry {
	return Geometry{
		FieldWidth:  16.46,
		FieldHeight: 16.46 * (670.0 / 1340.0),
		RobotWidth:  0.61,
		RobotLength: 0.81,
	}
}

// HalfDiagonal is half the robot footprint diagonal. It is the margin the
// robot center must keep from every field edge so the chassis never
// protrudes past the boundary at any rotation.
func (g Geometry) HalfDiagonal() float64 {
	return math.Sqrt(g.RobotLength*g.RobotLength+g.RobotWidth*g.RobotWidth) / 2.0
}

// Clamp saturates a robot center position into the legal field area.
// Out-of-bounds input is a recoverable condition, never an error, and
// clamping an in-bounds point is a no-op.
func (g Geometry) Clamp(x, y float64) (float64, float64) {
	hd := g.HalfDiagonal()
	cx := math.Max(hd, math.Min(g.FieldWidth-hd, x))
	cy := math.Max(hd, math.Min(g.FieldHeight-hd, y))
	return cx, cy
}

// Contains reports whether a robot center position is already within the
// clamped area.
func (g Geometry) Contains(x, y float64) bool {
	cx, cy := g.Clamp(x, y)
	return cx == x && cy == y
}
