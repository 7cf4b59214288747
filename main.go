package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"irishfield-robot-viz/field"
	"irishfield-robot-viz/sim"
	"irishfield-robot-viz/table"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// StateHub broadcasts display snapshots to connected renderer clients.
type StateHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewStateHub() *StateHub {
	return &StateHub{clients: make(map[*websocket.Conn]bool)}
}

func (h *StateHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

func (h *StateHub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.clients, c)
			c.Close()
		}
	}
}

// Server exposes the simulation state and mode transitions over HTTP. The
// rendering itself is external; this process ships state, never pixels.
type Server struct {
	sim   *sim.Simulator
	store table.Store
	hub   *StateHub
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.sim.Snapshot())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	connected := true
	if c, ok := s.store.(*table.Client); ok {
		connected = c.IsConnected()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"stats":     s.sim.Stats().GetSnapshot(),
		"mode":      s.sim.Mode().String(),
		"connected": connected,
	})
}

func (s *Server) handleAlliance(w http.ResponseWriter, r *http.Request) {
	alliance, err := field.ParseAlliance(r.URL.Query().Get("color"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.sim.SelectAlliance(alliance); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "alliance": alliance.String()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.Reset(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// run drives the fixed-rate pipeline. dt is measured wall-clock time, not
// the nominal tick period, so the math stays correct across stalls.
func (s *Server) run(tickRate float64) {
	period := time.Duration(float64(time.Second) / tickRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	lastTime := time.Now()

	for now := range ticker.C {
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		raw, turretDeg := sim.ReadSample(s.store)
		res := s.sim.Tick(raw, dt, turretDeg)

		// Best effort: a dropped publish is overwritten next tick.
		if err := sim.Publish(s.store, res.Detection); err != nil {
			log.Printf("[SIM] Publish failed: %v", err)
		}

		if payload, err := json.Marshal(s.sim.Snapshot()); err == nil {
			s.hub.Broadcast(payload)
		}
	}
}

func main() {
	cfg := sim.DefaultConfig()
	if len(os.Args) > 1 {
		loaded, err := sim.LoadConfig(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	log.Printf("[SIM] Robot field visualization core")
	log.Printf("[SIM] Field: %.2fm x %.2fm, tick rate %.0f Hz",
		cfg.Geometry.FieldWidth, cfg.Geometry.FieldHeight, cfg.TickRate)

	var store table.Store
	client := table.NewClient(cfg.Table)
	if err := client.Connect(); err != nil {
		log.Printf("[WARN] Table client failed to connect: %v", err)
		log.Printf("[WARN] Running with an in-memory table (no live telemetry)")
		store = table.NewMemTable()
	} else {
		store = client
		defer client.Close()
	}

	simulator := sim.NewSimulator(cfg)
	defer simulator.Close()

	if cfg.EnableCSV {
		if err := simulator.EnableCSVLogging(cfg.CSVPath); err != nil {
			log.Printf("[WARN] CSV logging disabled: %v", err)
		}
	}

	hub := NewStateHub()
	server := &Server{sim: simulator, store: store, hub: hub}

	go server.run(cfg.TickRate)

	http.HandleFunc("/api/state", server.handleState)
	http.HandleFunc("/api/status", server.handleStatus)
	http.HandleFunc("/api/alliance", server.handleAlliance)
	http.HandleFunc("/api/reset", server.handleReset)
	http.HandleFunc("/ws", hub.HandleWS)

	log.Printf("[HTTP] Serving state API on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
