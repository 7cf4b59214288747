package field

import (
	"fmt"
	"strings"
)

// Alliance selects which side of the field the robot plays on.
type Alliance int

const (
	AllianceRed Alliance = iota + 1
	AllianceBlue
)

func (a Alliance) String() string {
	switch a {
	case AllianceRed:
		return "RED"
	case AllianceBlue:
		return "BLUE"
	default:
		return fmt.Sprintf("Alliance(%d)", int(a))
	}
}

// ParseAlliance converts a color name into an Alliance.
func ParseAlliance(value string) (Alliance, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "RED":
		return AllianceRed, nil
	case "BLUE":
		return AllianceBlue, nil
	default:
		return 0, fmt.Errorf("unknown alliance %q", value)
	}
}

// Tag is a fixed fiducial marker at a known field position. The set is
// immutable once an alliance is chosen.
type Tag struct {
	ID   int
	X    float64 // meters
	Y    float64 // meters
	Size float64 // marker edge length, meters
}

// LayoutConfig controls fiducial tag placement.
type LayoutConfig struct {
	TagSize   float64 `yaml:"tag_size"`   // marker edge length, meters
	TagMargin float64 `yaml:"tag_margin"` // distance from each bottom corner, meters
}

// DefaultLayoutConfig matches the reference field: 8-inch markers one meter
// in from each bottom corner.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		TagSize:   0.2032,
		TagMargin: 1.0,
	}
}

// TagsFor produces the two fiducial tags for an alliance. The geometric
// positions are identical for both alliances; only the IDs swap, so the
// alliance's near tag always carries the same logical ID after mirroring.
// Red: left id 1, right id 2. Blue: left id 2, right id 1.
func TagsFor(a Alliance, g Geometry, cfg LayoutConfig) []Tag {
	leftID, rightID := 1, 2
	if a == AllianceBlue {
		leftID, rightID = 2, 1
	}

	return []Tag{
		{ID: leftID, X: cfg.TagMargin, Y: cfg.TagMargin, Size: cfg.TagSize},
		{ID: rightID, X: g.FieldWidth - cfg.TagMargin, Y: cfg.TagMargin, Size: cfg.TagSize},
	}
}
