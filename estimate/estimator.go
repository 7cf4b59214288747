package estimate

import "irishfield-robot-viz/field"

// RawSample is one tick's worth of external telemetry. Theta is unbounded
// radians; no wraparound is applied on input. The velocity fields are only
// meaningful when the matching Has flag is set, and optionality is resolved
// at the table read site, never deeper in the math.
type RawSample struct {
	X, Y  float64
	Theta float64

	VX, VY float64
	HasVel bool

	Omega    float64
	HasOmega bool
}

// Pose is the unsmoothed, bounds-clamped robot state used for detection
// geometry. It is owned by the Estimator and mutated once per tick.
type Pose struct {
	X, Y  float64
	Theta float64
	VX    float64
	VY    float64
	Omega float64
}

// Smoothed carries the exponentially smoothed display estimates plus the
// independently smoothed turret angle (degrees).
type Smoothed struct {
	X, Y      float64
	Theta     float64
	VX        float64
	VY        float64
	Omega     float64
	TurretDeg float64
}

// Config holds the estimator tuning parameters.
type Config struct {
	PositionAlpha float64 `yaml:"position_alpha"` // EMA weight for x, y, vx, vy, omega and heading
	TurretAlpha   float64 `yaml:"turret_alpha"`   // EMA weight for the turret angle
	MinDT         float64 `yaml:"min_dt"`         // below this, velocity derivation is skipped
}

// DefaultConfig returns the smoothing used by the reference display.
func DefaultConfig() Config {
	return Config{
		PositionAlpha: 0.3,
		TurretAlpha:   0.15,
		MinDT:         0.001,
	}
}

// Estimator derives velocities and smoothed display estimates from raw pose
// samples. All state is owned here and mutated only from the tick loop, so
// no locking is required.
type Estimator struct {
	cfg  Config
	geom field.Geometry

	pose      Pose
	smoothed  Smoothed
	prevTheta float64
}

func NewEstimator(cfg Config, geom field.Geometry) *Estimator {
	return &Estimator{cfg: cfg, geom: geom}
}

// Pose returns the current unsmoothed state.
func (e *Estimator) Pose() Pose { return e.pose }

// Smoothed returns the current smoothed display state.
func (e *Estimator) Smoothed() Smoothed { return e.smoothed }

// ResetTo places the robot at a known pose with zero velocity. The smoothed
// state is set to match exactly so there is no smoothing lag on entry, and
// the turret estimate is re-zeroed.
func (e *Estimator) ResetTo(x, y, theta float64) {
	e.pose = Pose{X: x, Y: y, Theta: theta}
	e.smoothed = Smoothed{X: x, Y: y, Theta: theta}
	e.prevTheta = theta
}

// Update ingests one raw sample. When active is false the pose is held and
// velocities read zero; only the turret keeps smoothing. When active, the
// raw position is clamped into field bounds, velocities are derived by
// finite difference (held when dt is degenerate), explicit telemetry
// velocities override the derived ones independently, and the smoothed
// estimates advance by EMA with wraparound-safe heading arithmetic.
func (e *Estimator) Update(raw RawSample, dt, turretDeg float64, active bool) (Pose, Smoothed) {
	if active {
		e.updateActive(raw, dt)
	} else {
		e.pose.VX = 0
		e.pose.VY = 0
		e.pose.Omega = 0
	}

	// Turret smoothing runs in every mode, degrees domain.
	tdiff := NormalizeDegrees(turretDeg - e.smoothed.TurretDeg)
	e.smoothed.TurretDeg = NormalizeDegrees(e.smoothed.TurretDeg + e.cfg.TurretAlpha*tdiff)

	return e.pose, e.smoothed
}

func (e *Estimator) updateActive(raw RawSample, dt float64) {
	newX, newY := e.geom.Clamp(raw.X, raw.Y)

	// Sub-millisecond ticks would blow up the finite difference; hold the
	// previous velocities instead.
	if dt > e.cfg.MinDT {
		e.pose.VX = (newX - e.pose.X) / dt
		e.pose.VY = (newY - e.pose.Y) / dt
		e.pose.Omega = NormalizeRadians(raw.Theta-e.prevTheta) / dt
	}

	e.pose.X = newX
	e.pose.Y = newY
	e.pose.Theta = raw.Theta
	e.prevTheta = raw.Theta

	// Telemetry-supplied velocities win over the finite difference. The two
	// overrides are independent: position velocity and angular velocity can
	// come from different sources in the same tick.
	if raw.HasVel {
		e.pose.VX = raw.VX
		e.pose.VY = raw.VY
	}
	if raw.HasOmega {
		e.pose.Omega = raw.Omega
	}

	a := e.cfg.PositionAlpha
	e.smoothed.X = a*e.pose.X + (1-a)*e.smoothed.X
	e.smoothed.Y = a*e.pose.Y + (1-a)*e.smoothed.Y
	e.smoothed.VX = a*e.pose.VX + (1-a)*e.smoothed.VX
	e.smoothed.VY = a*e.pose.VY + (1-a)*e.smoothed.VY
	e.smoothed.Omega = a*e.pose.Omega + (1-a)*e.smoothed.Omega

	// Smoothing the heading through the raw difference would spin the long
	// way around at the +/-pi boundary; integrate the normalized delta.
	diff := NormalizeRadians(raw.Theta - e.smoothed.Theta)
	e.smoothed.Theta += a * diff
}
