package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"irishfield-robot-viz/estimate"
	"irishfield-robot-viz/field"
	"irishfield-robot-viz/table"
	"irishfield-robot-viz/vision"
)

// Config aggregates every tunable of the pipeline. All of the constants the
// math depends on live here so tests can override them; nothing is a hard
// literal at the use site.
type Config struct {
	TickRate float64 `yaml:"tick_rate"` // target ticks per second
	HTTPAddr string  `yaml:"http_addr"`

	Geometry  field.Geometry     `yaml:"geometry"`
	Layout    field.LayoutConfig `yaml:"layout"`
	Estimator estimate.Config    `yaml:"estimator"`
	Vision    vision.Config      `yaml:"vision"`
	Table     table.Config       `yaml:"table"`

	// StartX/StartY/StartTheta is the fixed pose applied on alliance
	// selection.
	StartX     float64 `yaml:"start_x"`
	StartY     float64 `yaml:"start_y"`
	StartTheta float64 `yaml:"start_theta"`

	EnableCSV bool   `yaml:"enable_csv"`
	CSVPath   string `yaml:"csv_path"`
}

// DefaultConfig returns the reference behavior: 60 Hz, stock field geometry
// and sensor parameters, local broker, CSV logging off.
func DefaultConfig() Config {
	return Config{
		TickRate:   60.0,
		HTTPAddr:   ":8080",
		Geometry:   field.DefaultGeometry(),
		Layout:     field.DefaultLayoutConfig(),
		Estimator:  estimate.DefaultConfig(),
		Vision:     vision.DefaultConfig(),
		Table:      table.DefaultConfig(),
		StartX:     0.5,
		StartY:     0.5,
		StartTheta: 0.0,
		EnableCSV:  false,
		CSVPath:    "data/ticks.csv",
	}
}

// LoadConfig reads a YAML file over the defaults. Omitted fields keep their
// default values, so partial configs are safe.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
