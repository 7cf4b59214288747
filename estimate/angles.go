package estimate

import "math"

// NormalizeRadians wraps an angle into (-pi, pi]. Exactly pi stays pi.
func NormalizeRadians(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// NormalizeDegrees wraps an angle into (-180, 180]. Exactly 180 stays 180.
func NormalizeDegrees(a float64) float64 {
	for a > 180.0 {
		a -= 360.0
	}
	for a <= -180.0 {
		a += 360.0
	}
	return a
}
