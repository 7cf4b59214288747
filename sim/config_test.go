package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := []byte(`
tick_rate: 30
http_addr: ":9090"
vision:
  max_range: 7.5
estimator:
  position_alpha: 0.5
table:
  broker: "10.0.0.5"
  prefix: "field/Test"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30.0, cfg.TickRate)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 7.5, cfg.Vision.MaxRange)
	assert.Equal(t, 0.5, cfg.Estimator.PositionAlpha)
	assert.Equal(t, "10.0.0.5", cfg.Table.Broker)
	assert.Equal(t, "field/Test", cfg.Table.Prefix)

	// Omitted fields keep their defaults.
	def := DefaultConfig()
	assert.Equal(t, def.Vision.HorizontalFOV, cfg.Vision.HorizontalFOV)
	assert.Equal(t, def.Estimator.TurretAlpha, cfg.Estimator.TurretAlpha)
	assert.Equal(t, def.Geometry, cfg.Geometry)
	assert.Equal(t, def.Table.Port, cfg.Table.Port)
	assert.Equal(t, def.StartX, cfg.StartX)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}
