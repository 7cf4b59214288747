package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irishfield-robot-viz/estimate"
	"irishfield-robot-viz/field"
	"irishfield-robot-viz/table"
	"irishfield-robot-viz/vision"
)

const testDT = 1.0 / 60.0

// scenarioConfig removes smoothing lag and widens the camera so mode and
// detection behavior can be asserted tick by tick.
func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.Estimator.PositionAlpha = 1.0
	cfg.Vision.HorizontalFOV = 360.0
	return cfg
}

func TestInitialModeIsMenu(t *testing.T) {
	s := NewSimulator(DefaultConfig())
	assert.Equal(t, ModeMenu, s.Mode())

	snap := s.Snapshot()
	assert.Equal(t, "MENU", snap.Mode)
	assert.Empty(t, snap.Alliance)
	assert.Empty(t, snap.Tags)
}

func TestSelectAllianceEntersActive(t *testing.T) {
	s := NewSimulator(DefaultConfig())

	require.NoError(t, s.SelectAlliance(field.AllianceRed))
	assert.Equal(t, ModeActive, s.Mode())

	snap := s.Snapshot()
	assert.Equal(t, "ACTIVE", snap.Mode)
	assert.Equal(t, "RED", snap.Alliance)
	assert.Len(t, snap.Tags, 2)

	// Start pose applied with no smoothing lag.
	assert.Equal(t, 0.5, snap.Pose.X)
	assert.Equal(t, 0.5, snap.Pose.Y)
	assert.Equal(t, snap.Pose.X, snap.Smoothed.X)

	// Selecting again while active is rejected.
	assert.Error(t, s.SelectAlliance(field.AllianceBlue))
}

func TestResetPreservesPose(t *testing.T) {
	s := NewSimulator(scenarioConfig())

	// Reset before any selection is rejected.
	assert.Error(t, s.Reset())

	require.NoError(t, s.SelectAlliance(field.AllianceBlue))
	s.Tick(estimate.RawSample{X: 3.0, Y: 4.0, Theta: 1.0}, testDT, 0)

	require.NoError(t, s.Reset())
	assert.Equal(t, ModeMenu, s.Mode())

	snap := s.Snapshot()
	assert.Empty(t, snap.Alliance)
	assert.Empty(t, snap.Tags)
	assert.Equal(t, 3.0, snap.Pose.X)
	assert.Equal(t, 4.0, snap.Pose.Y)
}

func TestMenuTickYieldsNoDetection(t *testing.T) {
	s := NewSimulator(DefaultConfig())

	res := s.Tick(estimate.RawSample{X: 1.0, Y: 1.0}, testDT, 0)
	assert.Equal(t, ModeMenu, res.Mode)
	assert.Equal(t, vision.NoDetection(), res.Detection)

	// Menu mode holds the start pose regardless of telemetry.
	assert.Equal(t, 0.0, res.Pose.VX)
}

func TestDetectionScenario(t *testing.T) {
	s := NewSimulator(scenarioConfig())
	require.NoError(t, s.SelectAlliance(field.AllianceRed))

	// From the start pose the left tag at (1, 1) is 0.71 m away and the
	// right one is out of range.
	res := s.Tick(estimate.RawSample{X: 0.5, Y: 0.5, Theta: 0}, testDT, 0)
	require.True(t, res.Detection.HasTarget)
	assert.Equal(t, 1, res.Detection.ID)
	assert.InDelta(t, 45.0, res.Detection.Yaw, 1e-9)
	assert.Equal(t, 0.0, res.Detection.Pitch)

	// Teleport to midfield: both tags now exceed the 5 m range.
	res = s.Tick(estimate.RawSample{X: 10.0, Y: 0.5, Theta: 0}, testDT, 0)
	assert.False(t, res.Detection.HasTarget)
	assert.Equal(t, -1, res.Detection.ID)
	assert.Equal(t, 0.0, res.Detection.Distance)

	// The lost target is published as explicit zeros, not left stale.
	mt := table.NewMemTable()
	require.NoError(t, Publish(mt, res.Detection))
	assert.False(t, mt.GetBoolean(KeyHasTarget, true))
	assert.Equal(t, 0.0, mt.GetNumber(KeyTargetYaw, 99))
	assert.Equal(t, -1.0, mt.GetNumber(KeyTargetID, 99))
}

func TestReadSampleVelocityOptionality(t *testing.T) {
	mt := table.NewMemTable()
	mt.SetNumber(KeyX, 1.0)
	mt.SetNumber(KeyY, 2.0)
	mt.SetNumber(KeyTheta, 0.3)

	raw, turret := ReadSample(mt)
	assert.Equal(t, 1.0, raw.X)
	assert.Equal(t, 0.3, raw.Theta)
	assert.False(t, raw.HasVel)
	assert.False(t, raw.HasOmega)
	assert.Equal(t, 0.0, turret)

	// VX alone does not enable the velocity override.
	mt.SetNumber(KeyVX, 5.0)
	raw, _ = ReadSample(mt)
	assert.False(t, raw.HasVel)

	mt.SetNumber(KeyVY, 6.0)
	raw, _ = ReadSample(mt)
	require.True(t, raw.HasVel)
	assert.Equal(t, 5.0, raw.VX)
	assert.Equal(t, 6.0, raw.VY)

	// Omega is independent of VX/VY.
	mt.Delete(KeyVX)
	mt.SetNumber(KeyOmega, 2.5)
	raw, _ = ReadSample(mt)
	assert.False(t, raw.HasVel)
	require.True(t, raw.HasOmega)
	assert.Equal(t, 2.5, raw.Omega)

	mt.SetNumber(KeyTurretAngle, 33.0)
	_, turret = ReadSample(mt)
	assert.Equal(t, 33.0, turret)
}

func TestPublishWritesAllKeys(t *testing.T) {
	mt := table.NewMemTable()

	require.NoError(t, Publish(mt, vision.NoDetection()))
	assert.Equal(t, 1, mt.Flushes())

	// Every key is present with an explicit zero value, not merely absent.
	assert.False(t, mt.GetBoolean(KeyHasTarget, true))
	assert.Equal(t, -1.0, mt.GetNumber(KeyTargetID, 99))
	assert.Equal(t, 0.0, mt.GetNumber(KeyTargetYaw, 99))
	assert.Equal(t, 0.0, mt.GetNumber(KeyTargetPitch, 99))
	assert.Equal(t, 0.0, mt.GetNumber(KeyTargetArea, 99))
	assert.Equal(t, 0.0, mt.GetNumber(KeyTargetDistance, 99))

	det := vision.Detection{HasTarget: true, ID: 2, Yaw: -12.5, Area: 4.0, Distance: 3.2}
	require.NoError(t, Publish(mt, det))

	assert.True(t, mt.GetBoolean(KeyHasTarget, false))
	assert.Equal(t, 2.0, mt.GetNumber(KeyTargetID, 0))
	assert.Equal(t, -12.5, mt.GetNumber(KeyTargetYaw, 0))
	assert.Equal(t, 3.2, mt.GetNumber(KeyTargetDistance, 0))
}

func TestStatsCountTicks(t *testing.T) {
	s := NewSimulator(scenarioConfig())
	require.NoError(t, s.SelectAlliance(field.AllianceRed))

	s.Tick(estimate.RawSample{X: 0.5, Y: 0.5}, testDT, 0)  // detects tag 1
	s.Tick(estimate.RawSample{X: 10.0, Y: 0.5}, testDT, 0) // out of range

	snap := s.Stats().GetSnapshot()
	assert.Equal(t, int64(2), snap["ticks_processed"])
	assert.Equal(t, int64(1), snap["detections"])
}
