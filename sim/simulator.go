// Package sim wires the estimation and vision components into the fixed-rate
// pipeline: telemetry poll -> estimator update -> vision evaluate -> publish.
// A Simulator owns all mutable state and is driven from a single tick loop;
// the mutex only protects display snapshots read from HTTP handlers.
package sim

import (
	"fmt"
	"log"
	"sync"

	"irishfield-robot-viz/estimate"
	"irishfield-robot-viz/field"
	"irishfield-robot-viz/table"
	"irishfield-robot-viz/vision"
)

// Telemetry keys consumed from the table, once per tick. Missing keys fall
// back to the read-site default and never error.
const (
	KeyX           = "X"
	KeyY           = "Y"
	KeyTheta       = "Theta"
	KeyVX          = "VX"
	KeyVY          = "VY"
	KeyOmega       = "Omega"
	KeyTurretAngle = "Turret Angle"
)

// Telemetry keys produced back to the table. All six are written together
// every tick vision evaluation runs, including explicit zero/false values
// on no detection: a stale previous value must never be left behind.
const (
	KeyHasTarget      = "HasTarget"
	KeyTargetYaw      = "Target_Yaw"
	KeyTargetPitch    = "Target_Pitch"
	KeyTargetArea     = "Target_Area"
	KeyTargetID       = "Target_ID"
	KeyTargetDistance = "Target_Distance"
)

// TickResult is what one pipeline pass produced.
type TickResult struct {
	Pose      estimate.Pose
	Smoothed  estimate.Smoothed
	Detection vision.Detection
	Mode      Mode
}

// Snapshot is the display-facing state served to external renderers.
type Snapshot struct {
	Mode      string            `json:"mode"`
	Alliance  string            `json:"alliance,omitempty"`
	Pose      estimate.Pose     `json:"pose"`
	Smoothed  estimate.Smoothed `json:"smoothed"`
	Detection vision.Detection  `json:"detection"`
	Tags      []field.Tag       `json:"tags,omitempty"`
}

// Simulator is the two-state pipeline controller.
type Simulator struct {
	cfg   Config
	est   *estimate.Estimator
	cam   *vision.Simulator
	stats *Statistics
	csv   *CSVLogger

	mu            sync.RWMutex
	mode          Mode
	alliance      field.Alliance
	tags          []field.Tag
	lastDetection vision.Detection
}

func NewSimulator(cfg Config) *Simulator {
	return &Simulator{
		cfg:           cfg,
		est:           estimate.NewEstimator(cfg.Estimator, cfg.Geometry),
		cam:           vision.NewSimulator(cfg.Vision),
		stats:         NewStatistics(),
		mode:          ModeMenu,
		lastDetection: vision.NoDetection(),
	}
}

// EnableCSVLogging opens the per-tick telemetry log.
func (s *Simulator) EnableCSVLogging(path string) error {
	logger, err := NewCSVLogger(path)
	if err != nil {
		return err
	}
	s.csv = logger
	return nil
}

// SelectAlliance transitions Menu -> Active: builds the alliance's tag set
// and resets the robot to the fixed start pose with the smoothed state
// matched, so there is no smoothing lag on entry.
func (s *Simulator) SelectAlliance(a field.Alliance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeMenu {
		return fmt.Errorf("alliance selection requires MENU mode, currently %s", s.mode)
	}

	s.alliance = a
	s.tags = field.TagsFor(a, s.cfg.Geometry, s.cfg.Layout)
	s.est.ResetTo(s.cfg.StartX, s.cfg.StartY, s.cfg.StartTheta)
	s.mode = ModeActive

	log.Printf("[SIM] Alliance %s selected, %d tags placed, robot at (%.2f, %.2f)",
		a, len(s.tags), s.cfg.StartX, s.cfg.StartY)
	return nil
}

// Reset transitions Active -> Menu, clearing the alliance and tag set. The
// pose is deliberately left untouched: re-selecting an alliance is what
// re-zeroes it.
func (s *Simulator) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeActive {
		return fmt.Errorf("reset requires ACTIVE mode, currently %s", s.mode)
	}

	s.alliance = 0
	s.tags = nil
	s.mode = ModeMenu

	log.Printf("[SIM] Reset to menu")
	return nil
}

// Mode returns the current state-machine mode.
func (s *Simulator) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// ReadSample maps the table's keyed values into one fixed-shape raw sample.
// The VX/VY override only applies when both keys are present; Omega is
// independent of them. Returns the sample and the raw turret angle.
func ReadSample(st table.Store) (estimate.RawSample, float64) {
	raw := estimate.RawSample{
		X:     st.GetNumber(KeyX, 0.0),
		Y:     st.GetNumber(KeyY, 0.0),
		Theta: st.GetNumber(KeyTheta, 0.0),
	}

	vx, okX := st.Lookup(KeyVX)
	vy, okY := st.Lookup(KeyVY)
	if okX && okY {
		raw.VX, raw.VY, raw.HasVel = vx, vy, true
	}
	if omega, ok := st.Lookup(KeyOmega); ok {
		raw.Omega, raw.HasOmega = omega, true
	}

	return raw, st.GetNumber(KeyTurretAngle, 0.0)
}

// Tick runs one pipeline pass with a measured dt (seconds). In Menu mode
// the estimator holds position and the detection is the canonical no-target
// value.
func (s *Simulator) Tick(raw estimate.RawSample, dt, turretDeg float64) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.mode == ModeActive
	pose, smoothed := s.est.Update(raw, dt, turretDeg, active)

	// SelectAlliance guarantees the tag set exists while Active, so there
	// is no per-tick layout check here.
	det := vision.NoDetection()
	if active {
		det = s.cam.Evaluate(smoothed.X, smoothed.Y, smoothed.Theta, turretDeg, s.tags)
	}
	s.lastDetection = det

	res := TickResult{Pose: pose, Smoothed: smoothed, Detection: det, Mode: s.mode}
	s.stats.RecordTick(det.HasTarget)
	s.csv.WriteTick(res, s.mode)

	return res
}

// Publish writes the detection result back to the table and flushes. All
// six keys go out every time, zeroed on no detection.
func Publish(st table.Store, det vision.Detection) error {
	st.PutBoolean(KeyHasTarget, det.HasTarget)
	st.PutNumber(KeyTargetYaw, det.Yaw)
	st.PutNumber(KeyTargetPitch, det.Pitch)
	st.PutNumber(KeyTargetArea, det.Area)
	st.PutNumber(KeyTargetID, float64(det.ID))
	st.PutNumber(KeyTargetDistance, det.Distance)
	return st.Flush()
}

// Snapshot returns the display-facing state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Mode:      s.mode.String(),
		Pose:      s.est.Pose(),
		Smoothed:  s.est.Smoothed(),
		Detection: s.lastDetection,
		Tags:      s.tags,
	}
	if s.alliance != 0 {
		snap.Alliance = s.alliance.String()
	}
	return snap
}

// Stats exposes the tick counters.
func (s *Simulator) Stats() *Statistics {
	return s.stats
}

// Close releases the CSV logger if enabled.
func (s *Simulator) Close() {
	s.csv.Close()
}
