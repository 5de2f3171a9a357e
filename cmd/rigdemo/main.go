// Command rigdemo wires a logging back-end and the reference tick
// driver to a scripted sequence of builder commands, and serves a
// websocket feed of the engine's state-read surface so the motion can
// be watched live.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"time"

	"github.com/cursorig/rig/backend"
	"github.com/cursorig/rig/rig"
	"github.com/cursorig/rig/tickdriver"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

var (
	addr       = flag.String("addr", ":8080", "address to serve the observer endpoint on")
	configPath = flag.String("config", "", "optional YAML config file (defaults used if empty or missing)")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg := rig.DefaultConfig()
	if *configPath != "" {
		loaded, err := rig.LoadConfig(*configPath)
		if err != nil {
			glog.Fatalf("rigdemo: loading config: %v", err)
		}
		cfg = loaded
	}

	backend.Register("logging", &loggingBackend{})

	s := rig.NewState(cfg)
	s.SetTickDriver(tickdriver.NewTicker())

	runScript(s)

	router := mux.NewRouter()
	router.HandleFunc("/state", serveState(s)).Methods(http.MethodGet)
	router.HandleFunc("/ws", serveWebsocket(s, cfg))

	glog.Infof("rigdemo: serving on %s", *addr)
	if err := http.ListenAndServe(*addr, router); err != nil {
		glog.Fatalf("rigdemo: %v", err)
	}
}

// runScript commits a small sequence of commands so the observer
// endpoint has something to show immediately: a position move, a
// layered speed boost, and a direction turn.
func runScript(s *rig.State) {
	if _, err := s.NewBuilder().Pos().To(400, 300).Over(800).OverEasing("ease_in_out").Commit(); err != nil {
		glog.Warningf("rigdemo: script: pos.to failed: %v", err)
	}
	if _, err := s.NewBuilder().Speed().To(6).Commit(); err != nil {
		glog.Warningf("rigdemo: script: speed.to failed: %v", err)
	}
	if _, err := s.NewBuilder().Direction().To(1, 0).Commit(); err != nil {
		glog.Warningf("rigdemo: script: direction.to failed: %v", err)
	}
	if _, err := s.NewBuilder().Speed().Layer("boost").Offset().To(3).Over(500).Commit(); err != nil {
		glog.Warningf("rigdemo: script: boost layer failed: %v", err)
	}
}

func serveState(s *rig.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.Read()); err != nil {
			glog.Warningf("rigdemo: encoding state: %v", err)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// serveWebsocket streams the engine's computed snapshot to one client
// at the configured tick cadence, until the connection closes.
func serveWebsocket(s *rig.State, cfg rig.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			glog.Warningf("rigdemo: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		interval := time.Duration(cfg.TickIntervalMs) * time.Millisecond
		if interval <= 0 {
			interval = 16 * time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := conn.WriteJSON(s.Read()); err != nil {
				glog.Infof("rigdemo: websocket client disconnected: %v", err)
				return
			}
		}
	}
}
