// Command testpub publishes simulated circular-motion pose telemetry for
// exercising the visualization core without a real robot.
package main

import (
	"log"
	"math"
	"os"
	"time"

	"irishfield-robot-viz/sim"
	"irishfield-robot-viz/table"
)

const (
	centerX = 8.23
	centerY = 4.115
	radiusX = 3.0
	radiusY = 2.0

	step            = 20 * time.Millisecond // 50 Hz
	angularVelocity = 0.05                  // radians advanced per step
)

func main() {
	cfg := table.DefaultConfig()
	if len(os.Args) > 1 {
		cfg.Broker = os.Args[1]
	}

	client := table.NewClient(cfg)
	if err := client.Connect(); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	log.Printf("[PUB] Publishing circular path around (%.2f, %.2f) at 50 Hz", centerX, centerY)

	dt := step.Seconds()
	t := 0.0

	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for range ticker.C {
		x := centerX + radiusX*math.Cos(t)
		y := centerY + radiusY*math.Sin(t)
		theta := t + math.Pi/2 // tangent to the path

		vx := -radiusX * math.Sin(t) * angularVelocity / dt
		vy := radiusY * math.Cos(t) * angularVelocity / dt

		client.PutNumber(sim.KeyX, x)
		client.PutNumber(sim.KeyY, y)
		client.PutNumber(sim.KeyTheta, theta)
		client.PutNumber(sim.KeyVX, vx)
		client.PutNumber(sim.KeyVY, vy)

		if err := client.Flush(); err != nil {
			log.Printf("[PUB] Flush failed: %v", err)
		}

		t += angularVelocity
	}
}
