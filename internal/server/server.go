// Package server is the delivery side of a replay: it serves the
// producer resources and replay assets over HTTP and keeps every
// connected viewer on one shared playback cursor over a websocket hub.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/san-kum/eqreplay/internal/fetch"
	"github.com/san-kum/eqreplay/internal/record"
	"github.com/san-kum/eqreplay/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server serves one loaded bundle. Resources go out as the producer's
// files, untouched; the summary is computed once at startup and never
// changes afterwards.
type Server struct {
	cfg     Config
	hub     *Hub
	summary session.Summary
}

func New(cfg Config, b *record.Bundle, hub *Hub) *Server {
	return &Server{
		cfg:     cfg,
		hub:     hub,
		summary: session.Summarize(b),
	}
}

// Router builds the HTTP handler. No timeout middleware: the websocket
// route holds its connection open indefinitely.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/data/{resource}", s.handleResource)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/summary", s.handleSummary)
	})

	if s.cfg.Assets != "" {
		fs := http.StripPrefix("/assets/", http.FileServer(http.Dir(s.cfg.Assets)))
		r.Handle("/assets/*", fs)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.hub.LastState())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.summary)
}

// handleResource serves one producer resource straight from the data
// directory. Names outside the fixed resource set are not findable, so
// the data directory never leaks anything else.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	if !fetch.IsResource(name) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.Data, name))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade failed: %v", err)
		return
	}

	c := NewClient(uuid.New().String(), conn, s.hub)
	s.hub.Register(c)

	go c.WritePump()
	go c.ReadPump()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}
