package sim

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// CSVLogger appends one row per tick with the pose and detection values.
// Debug tooling only; disabled by default.
type CSVLogger struct {
	file   *os.File
	writer *csv.Writer
}

func NewCSVLogger(path string) (*CSVLogger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := &CSVLogger{file: file, writer: csv.NewWriter(file)}

	// Write header if file is new
	info, _ := file.Stat()
	if info.Size() == 0 {
		header := []string{
			"iso8601", "mode",
			"x", "y", "theta", "vx", "vy", "omega",
			"smoothed_x", "smoothed_y", "smoothed_theta", "turret_deg",
			"has_target", "target_id", "target_yaw", "target_area", "target_distance",
		}
		l.writer.Write(header)
		l.writer.Flush()
	}

	return l, nil
}

func (l *CSVLogger) WriteTick(res TickResult, mode Mode) {
	if l == nil {
		return
	}

	row := []string{
		time.Now().UTC().Format(time.RFC3339),
		mode.String(),
		fmt.Sprintf("%.6f", res.Pose.X),
		fmt.Sprintf("%.6f", res.Pose.Y),
		fmt.Sprintf("%.6f", res.Pose.Theta),
		fmt.Sprintf("%.6f", res.Pose.VX),
		fmt.Sprintf("%.6f", res.Pose.VY),
		fmt.Sprintf("%.6f", res.Pose.Omega),
		fmt.Sprintf("%.6f", res.Smoothed.X),
		fmt.Sprintf("%.6f", res.Smoothed.Y),
		fmt.Sprintf("%.6f", res.Smoothed.Theta),
		fmt.Sprintf("%.3f", res.Smoothed.TurretDeg),
		fmt.Sprintf("%t", res.Detection.HasTarget),
		fmt.Sprintf("%d", res.Detection.ID),
		fmt.Sprintf("%.3f", res.Detection.Yaw),
		fmt.Sprintf("%.3f", res.Detection.Area),
		fmt.Sprintf("%.3f", res.Detection.Distance),
	}

	l.writer.Write(row)
	l.writer.Flush()
}

func (l *CSVLogger) Close() {
	if l == nil {
		return
	}
	l.writer.Flush()
	l.file.Close()
}
