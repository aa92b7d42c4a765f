// Package server is the HTTP control surface: chart start/stop/restart, the
// SSE notification stream the frontend renders from, and a recent-message
// ring for debugging the sensor feed.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/notify"
)

// ChartControl is the scheduler's control surface.
type ChartControl interface {
	Start(*game.Chart) error
	Stop()
	Restart(*game.Chart) error
	Running() bool
}

type Server struct {
	control  ChartControl
	chart    *game.Chart
	hub      *notify.Hub
	messages *Ring
}

func New(control ChartControl, chart *game.Chart, hub *notify.Hub, messages *Ring) *Server {
	return &Server{control: control, chart: chart, hub: hub, messages: messages}
}

// Handler builds the route table with permissive CORS, matching what the
// browser frontend needs.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/chart/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/chart/stop", s.handleStop).Methods(http.MethodPost)
	r.HandleFunc("/chart/restart", s.handleRestart).Methods(http.MethodPost)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/messages", s.handleMessages).Methods(http.MethodGet)
	r.Handle("/events", s.hub).Methods(http.MethodGet)
	return cors.AllowAll().Handler(r)
}

func (s *Server) ListenAndServe(addr string) error {
	log.Info("http server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.control.Start(s.chart); nil != err {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.control.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopping"})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.control.Restart(s.chart); nil != err {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restarted"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"running": s.control.Running(),
		"events":  len(s.chart.Events),
		"bpm":     s.chart.BPM,
	})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.messages.Recent())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); nil != err {
		log.Warn("unable to write response", "err", err)
	}
}
