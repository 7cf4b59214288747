package sim

import (
	"sync"
	"time"
)

// Statistics tracks pipeline performance counters.
type Statistics struct {
	mu             sync.RWMutex
	TicksProcessed int64
	Detections     int64
	LastTick       time.Time
	StartTime      time.Time
}

func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{StartTime: now, LastTick: now}
}

func (s *Statistics) RecordTick(hasTarget bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TicksProcessed++
	if hasTarget {
		s.Detections++
	}
	s.LastTick = time.Now()
}

func (s *Statistics) GetSnapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uptime := time.Since(s.StartTime)
	tickRate := 0.0
	if uptime.Seconds() > 0 {
		tickRate = float64(s.TicksProcessed) / uptime.Seconds()
	}
	detectionRate := 0.0
	if s.TicksProcessed > 0 {
		detectionRate = float64(s.Detections) / float64(s.TicksProcessed) * 100.0
	}

	return map[string]interface{}{
		"ticks_processed": s.TicksProcessed,
		"detections":      s.Detections,
		"detection_rate":  detectionRate,
		"ticks_per_sec":   tickRate,
		"uptime_seconds":  uptime.Seconds(),
		"last_tick":       s.LastTick,
	}
}
