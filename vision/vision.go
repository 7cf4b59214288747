// Package vision simulates an onboard fiducial-tag camera. Detection is
// purely geometric: a tag is visible when it lies inside the sensor's
// field-of-view cone and maximum range, and the nearest visible tag wins.
package vision

import (
	"math"

	"irishfield-robot-viz/estimate"
	"irishfield-robot-viz/field"
)

// Config holds the simulated sensor parameters.
type Config struct {
	HorizontalFOV float64 `yaml:"horizontal_fov"` // degrees, full cone width
	VerticalFOV   float64 `yaml:"vertical_fov"`   // degrees, carried for completeness; pitch is not modeled
	MaxRange      float64 `yaml:"max_range"`      // meters
}

// DefaultConfig matches a Limelight-class camera.
func DefaultConfig() Config {
	return Config{
		HorizontalFOV: 59.6,
		VerticalFOV:   49.7,
		MaxRange:      5.0,
	}
}

// Detection is the per-tick sensor output. "No target" is a first-class
// value, not an absence: consumers always receive all six fields.
type Detection struct {
	HasTarget bool
	ID        int
	Yaw       float64 // degrees, signed offset from boresight
	Pitch     float64 // degrees, always 0 in this model
	Area      float64 // percent, clamped to [0.1, 100]
	Distance  float64 // meters
}

// NoDetection is the canonical empty result published when nothing is
// visible or the simulation is not active.
func NoDetection() Detection {
	return Detection{HasTarget: false, ID: -1}
}

// Simulator evaluates tag visibility. It is stateless between ticks.
type Simulator struct {
	cfg Config
}

func NewSimulator(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Evaluate finds the nearest tag inside the FOV cone and range, seen from
// (x, y) with the boresight at smoothedHeading plus the turret offset.
// Both the range and FOV boundaries are inclusive. Among equally distant
// tags the lowest ID wins, which keeps the result deterministic regardless
// of tag ordering.
func (s *Simulator) Evaluate(x, y, smoothedHeading, turretDeg float64, tags []field.Tag) Detection {
	boresight := smoothedHeading + turretDeg*math.Pi/180.0
	halfFOV := s.cfg.HorizontalFOV / 2.0

	best := NoDetection()
	bestDist := math.Inf(1)

	for _, tag := range tags {
		dx := tag.X - x
		dy := tag.Y - y
		dist := math.Hypot(dx, dy)
		if dist > s.cfg.MaxRange {
			continue
		}

		bearing := math.Atan2(dy, dx)
		offsetDeg := estimate.NormalizeRadians(bearing-boresight) * 180.0 / math.Pi
		if math.Abs(offsetDeg) > halfFOV {
			continue
		}

		if dist < bestDist || (dist == bestDist && tag.ID < best.ID) {
			bestDist = dist
			best = Detection{
				HasTarget: true,
				ID:        tag.ID,
				Yaw:       offsetDeg,
				Pitch:     0,
				Area:      apparentArea(tag.Size, dist),
				Distance:  dist,
			}
		}
	}

	return best
}

// apparentArea is a simplified size-over-distance proxy, not a projected
// area model.
func apparentArea(size, dist float64) float64 {
	area := size / dist * 100.0
	if area < 0.1 {
		area = 0.1
	}
	if area > 100.0 {
		area = 100.0
	}
	return area
}
